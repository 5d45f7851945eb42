package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	// Emails are stored as given: callers normalize (lowercase) before storing or looking up
	CreateUser(ctx context.Context, email string, hashedPassword string, role authz.Role) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Update email of the user
	// If user not found must return apperrors.ErrUserNotFound
	// If the email is taken must return apperrors.ErrUserAlreadyExists
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save a new token record with RevokedAt unset
	// The token string carries a unique constraint: a duplicate is a db error,
	// tokens are expected to be cryptographically unique
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token record even if it is revoked or expired
	// If there is no such row must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Revoke the token if it is not revoked yet, atomically.
	// Exactly one caller wins under concurrency; the losers get
	// apperrors.ErrRefreshTokenRevoked. Missing rows return
	// apperrors.ErrRefreshTokenNotFound.
	RevokeOnce(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error)

	// Revoke the token by id. Idempotent: revoking an already revoked token
	// keeps the original RevokedAt and returns no error.
	Revoke(ctx context.Context, tokenID uuid.UUID) error

	// Revoke the active token matching both user and token string.
	// Returns apperrors.ErrNotLoggedIn when no active row matches.
	RevokeMatching(ctx context.Context, userID uuid.UUID, tokenString string) error

	// Revoke every active token of the user, returns how many were revoked
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ProductRepo interface {
	// Create product owned by author
	Create(ctx context.Context, product models.Product) (models.Product, error)

	// Get product by id
	// If not found must return apperrors.ErrProductNotFound
	Get(ctx context.Context, productID uuid.UUID) (models.Product, error)

	List(ctx context.Context) ([]models.Product, error)

	// Update name, description and price of the product
	// If not found must return apperrors.ErrProductNotFound
	Update(ctx context.Context, product models.Product) (models.Product, error)

	// Delete product by id
	// If not found must return apperrors.ErrProductNotFound
	Delete(ctx context.Context, productID uuid.UUID) error
}

type CategoryRepo interface {
	// Create category
	// If category with the name exists already has to return apperrors.ErrCategoryAlreadyExists
	Create(ctx context.Context, category models.Category) (models.Category, error)

	// Get category by id
	// If not found must return apperrors.ErrCategoryNotFound
	Get(ctx context.Context, categoryID uuid.UUID) (models.Category, error)

	List(ctx context.Context) ([]models.Category, error)

	// Update name and description of the category
	// If not found must return apperrors.ErrCategoryNotFound
	Update(ctx context.Context, category models.Category) (models.Category, error)

	// Delete category by id
	// If not found must return apperrors.ErrCategoryNotFound
	Delete(ctx context.Context, categoryID uuid.UUID) error
}

// Storage aggregates the repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Product() ProductRepo
	Category() CategoryRepo

	// InTx runs fn against a Storage bound to one db transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
