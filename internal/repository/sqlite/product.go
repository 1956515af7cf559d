package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type ProductRepo struct {
	DB *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{DB: db}
}

func (p *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	if err := p.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (model.Product, error) {
	var row productRow
	err := p.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, apierror.NotFound("product", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}
	return row.toModel(), nil
}

func (p *ProductRepo) Create(ctx context.Context, product model.Product) (model.Product, error) {
	row := productRowFrom(product)
	row.ID = 0
	if err := p.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return row.toModel(), nil
}

func (p *ProductRepo) Update(ctx context.Context, product model.Product) (model.Product, error) {
	res := p.DB.WithContext(ctx).Model(&productRow{}).Where("id = ?", product.ID).Updates(map[string]any{
		"name":        product.Name,
		"price":       product.Price,
		"description": product.Description,
		"image":       product.Image,
	})
	if res.Error != nil {
		return model.Product{}, fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Product{}, apierror.NotFound("product", strconv.FormatInt(product.ID, 10))
	}
	return product, nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := p.DB.WithContext(ctx).Where("id = ?", id).Delete(&productRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete product: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (p *ProductRepo) CountByImage(ctx context.Context, image string) (int64, error) {
	var count int64
	if err := p.DB.WithContext(ctx).Model(&productRow{}).Where("image = ?", image).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products by image: %w", err)
	}
	return count, nil
}
