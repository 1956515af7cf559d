package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var row userRow
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, apierror.NotFound("user", username)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return row.toModel(), nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&userRow{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	row := userRow{Username: u.Username, PasswordHash: u.PasswordHash, Role: u.Role}
	err := r.DB.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateUsername
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return row.toModel(), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
