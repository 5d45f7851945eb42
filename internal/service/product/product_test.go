package product

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository/postgres"
	"github.com/dkravets/shopcore/internal/testutil"
)

func createPrincipal(t *testing.T, tx pgx.Tx, email string, role authz.Role) models.User {
	t.Helper()

	user, err := postgres.NewStorage(tx).User().CreateUser(t.Context(), email, "hash", role)
	require.NoError(t, err)
	return user
}

func Test_ProductService_Ownership(t *testing.T) {
	container := testutil.StartPostgresContainer(t)
	defer container.Terminate()

	ctx := t.Context()

	t.Run("owner updates own product", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := NewService(postgres.NewStorage(tx).Product())
			owner := createPrincipal(t, tx, "owner@example.com", authz.RoleUser)

			created, err := service.CreateProduct(ctx, owner, "Lamp", "Warm light", decimal.RequireFromString("19.99"))
			require.NoError(t, err)
			assert.Equal(t, owner.ID, created.AuthorID)

			updated, err := service.UpdateProduct(ctx, owner, created.ID, "Better lamp", "Warmer", decimal.RequireFromString("24.99"))
			require.NoError(t, err)
			assert.Equal(t, "Better lamp", updated.Name)
		})
	})

	t.Run("foreign user is denied", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := NewService(postgres.NewStorage(tx).Product())
			owner := createPrincipal(t, tx, "owner2@example.com", authz.RoleUser)
			stranger := createPrincipal(t, tx, "stranger@example.com", authz.RoleUser)

			created, err := service.CreateProduct(ctx, owner, "Chair", "", decimal.NewFromInt(50))
			require.NoError(t, err)

			_, err = service.UpdateProduct(ctx, stranger, created.ID, "Hijacked", "", decimal.NewFromInt(1))
			require.ErrorIs(t, err, apperrors.ErrForbidden)

			err = service.DeleteProduct(ctx, stranger, created.ID)
			require.ErrorIs(t, err, apperrors.ErrForbidden)

			// Reads stay open to everyone
			got, err := service.GetProduct(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Chair", got.Name, "denied update must not leak through")
		})
	})

	t.Run("admin touches anything", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := NewService(postgres.NewStorage(tx).Product())
			owner := createPrincipal(t, tx, "owner3@example.com", authz.RoleUser)
			admin := createPrincipal(t, tx, "root@example.com", authz.RoleAdmin)

			created, err := service.CreateProduct(ctx, owner, "Desk", "", decimal.NewFromInt(100))
			require.NoError(t, err)

			updated, err := service.UpdateProduct(ctx, admin, created.ID, "Moderated desk", "", decimal.NewFromInt(90))
			require.NoError(t, err)
			assert.Equal(t, owner.ID, updated.AuthorID, "moderation does not reassign ownership")

			require.NoError(t, service.DeleteProduct(ctx, admin, created.ID))

			_, err = service.GetProduct(ctx, created.ID)
			require.ErrorIs(t, err, apperrors.ErrProductNotFound)
		})
	})

	t.Run("owner deletes own product", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := NewService(postgres.NewStorage(tx).Product())
			owner := createPrincipal(t, tx, "owner4@example.com", authz.RoleUser)

			created, err := service.CreateProduct(ctx, owner, "Mug", "", decimal.NewFromInt(5))
			require.NoError(t, err)

			require.NoError(t, service.DeleteProduct(ctx, owner, created.ID))

			_, err = service.GetProduct(ctx, created.ID)
			require.ErrorIs(t, err, apperrors.ErrProductNotFound)
		})
	})
}
