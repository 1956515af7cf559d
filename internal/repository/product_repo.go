package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, description, image FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price, description, image FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apierror.NotFound("product", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, price, description, image) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Name, p.Price, p.Description, p.Image).Scan(&p.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update replaces every mutable column of the row with p.ID.
func (r *ProductRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, description = $4, image = $5 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Description, p.Image)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Product{}, apierror.NotFound("product", strconv.FormatInt(p.ID, 10))
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByImage reports how many products still reference image.
func (r *ProductRepository) CountByImage(ctx context.Context, image string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE image = $1`, image).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by image: %w", err)
	}
	return count, nil
}
