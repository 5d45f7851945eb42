package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/models"
)

type ProductRepo struct {
	DB DBTX
}

const createProduct = `-- name: CreateProduct
INSERT INTO products (name, description, price, author_id)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, name, description, price, author_id
`

func (r *ProductRepo) Create(ctx context.Context, product models.Product) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct, product.Name, product.Description, product.Price, product.AuthorID)
	created, err := pgx.CollectOneRow(rows, rowToProduct)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getProduct = `-- name: GetProduct
SELECT id, created_at, name, description, price, author_id
FROM products
WHERE id = $1
`

func (r *ProductRepo) Get(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProduct, productID)
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return product, nil
	case errors.Is(err, pgx.ErrNoRows):
		return product, fmt.Errorf("repo error: %w", apperrors.ErrProductNotFound)
	default:
		return product, fmt.Errorf("db error: %w", err)
	}
}

const listProducts = `-- name: ListProducts
SELECT id, created_at, name, description, price, author_id
FROM products
ORDER BY created_at DESC
`

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProducts)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

const updateProduct = `-- name: UpdateProduct
UPDATE products
SET name = $2, description = $3, price = $4
WHERE id = $1
RETURNING id, created_at, name, description, price, author_id
`

func (r *ProductRepo) Update(ctx context.Context, product models.Product) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, updateProduct, product.ID, product.Name, product.Description, product.Price)
	updated, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		return updated, fmt.Errorf("repo error: %w", apperrors.ErrProductNotFound)
	default:
		return updated, fmt.Errorf("db error: %w", err)
	}
}

const deleteProduct = `-- name: DeleteProduct
DELETE FROM products
WHERE id = $1
`

func (r *ProductRepo) Delete(ctx context.Context, productID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteProduct, productID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrProductNotFound)
	}
	return nil
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Description, &p.Price, &p.AuthorID)
	return p, err
}
