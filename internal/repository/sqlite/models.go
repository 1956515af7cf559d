package sqlite

import "go-storefront/internal/model"

type userRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() model.User {
	return model.User{ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, Role: r.Role}
}

type productRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Price       int64  `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	Image       string `gorm:"not null;index"`
}

func (productRow) TableName() string { return "products" }

func (r productRow) toModel() model.Product {
	return model.Product{ID: r.ID, Name: r.Name, Price: r.Price, Description: r.Description, Image: r.Image}
}

func productRowFrom(p model.Product) productRow {
	return productRow{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description, Image: p.Image}
}
