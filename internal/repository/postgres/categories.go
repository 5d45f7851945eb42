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

type CategoryRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (name, description, user_id)
VALUES ($1, $2, $3)
RETURNING id, created_at, name, description, user_id
`

func (r *CategoryRepo) Create(ctx context.Context, category models.Category) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, category.Name, category.Description, category.UserID)
	created, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return created, nil
	case isUniqueViolation(err):
		return created, fmt.Errorf("repo error: %w", apperrors.ErrCategoryAlreadyExists)
	default:
		return created, fmt.Errorf("db error: %w", err)
	}
}

const getCategory = `-- name: GetCategory
SELECT id, created_at, name, description, user_id
FROM categories
WHERE id = $1
`

func (r *CategoryRepo) Get(ctx context.Context, categoryID uuid.UUID) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, getCategory, categoryID)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
	default:
		return category, fmt.Errorf("db error: %w", err)
	}
}

const listCategories = `-- name: ListCategories
SELECT id, created_at, name, description, user_id
FROM categories
ORDER BY name
`

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const updateCategory = `-- name: UpdateCategory
UPDATE categories
SET name = $2, description = $3
WHERE id = $1
RETURNING id, created_at, name, description, user_id
`

func (r *CategoryRepo) Update(ctx context.Context, category models.Category) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, updateCategory, category.ID, category.Name, category.Description)
	updated, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		return updated, fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
	default:
		return updated, fmt.Errorf("db error: %w", err)
	}
}

const deleteCategory = `-- name: DeleteCategory
DELETE FROM categories
WHERE id = $1
`

func (r *CategoryRepo) Delete(ctx context.Context, categoryID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteCategory, categoryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCategoryNotFound)
	}
	return nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Description, &c.UserID)
	return c, err
}
