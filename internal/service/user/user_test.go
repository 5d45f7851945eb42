package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository/postgres"
	"github.com/dkravets/shopcore/internal/testutil"
)

func Test_UserService(t *testing.T) {
	container := testutil.StartPostgresContainer(t)
	defer container.Terminate()

	ctx := t.Context()

	newService := func(tx pgx.Tx) *UserService {
		return NewService(nil, postgres.NewStorage(tx).User())
	}

	createUser := func(t *testing.T, service *UserService, email string, role authz.Role) models.User {
		t.Helper()
		user, err := service.CreateUser(ctx, email, "pwd12345", role)
		require.NoError(t, err)
		return user
	}

	t.Run("create strips the hash", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)

			user, err := service.CreateUser(ctx, " New@Example.com ", "pwd12345", authz.RoleUser)
			require.NoError(t, err)
			assert.Equal(t, "new@example.com", user.Email)
			assert.Empty(t, user.HashedPassword)
		})
	})

	t.Run("get is open to any authenticated user", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)
			alice := createUser(t, service, "alice@example.com", authz.RoleUser)
			bob := createUser(t, service, "bob@example.com", authz.RoleUser)

			got, err := service.GetUser(ctx, alice, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, bob.ID, got.ID)
			assert.Empty(t, got.HashedPassword, "hash never leaves the service")
		})
	})

	t.Run("owner updates own email", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)
			alice := createUser(t, service, "alice2@example.com", authz.RoleUser)

			updated, err := service.UpdateEmail(ctx, alice, alice.ID, "Alice2-New@Example.com")
			require.NoError(t, err)
			assert.Equal(t, "alice2-new@example.com", updated.Email)
		})
	})

	t.Run("updating someone else is denied", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)
			alice := createUser(t, service, "alice3@example.com", authz.RoleUser)
			bob := createUser(t, service, "bob3@example.com", authz.RoleUser)

			_, err := service.UpdateEmail(ctx, alice, bob.ID, "hostile@example.com")
			require.ErrorIs(t, err, apperrors.ErrForbidden)
		})
	})

	t.Run("admin updates anyone", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)
			admin := createUser(t, service, "admin@example.com", authz.RoleAdmin)
			bob := createUser(t, service, "bob4@example.com", authz.RoleUser)

			updated, err := service.UpdateEmail(ctx, admin, bob.ID, "corrected@example.com")
			require.NoError(t, err)
			assert.Equal(t, "corrected@example.com", updated.Email)
		})
	})

	t.Run("unknown target", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			service := newService(tx)
			alice := createUser(t, service, "alice5@example.com", authz.RoleUser)

			_, err := service.GetUser(ctx, alice, uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
