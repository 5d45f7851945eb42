package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/testutil"
)

func makeToken(userID uuid.UUID) models.RefreshToken {
	now := time.Now().Truncate(time.Microsecond)
	return models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func Test_RefreshTokenRepo(t *testing.T) {
	container := testutil.StartPostgresContainer(t)
	defer container.Terminate()

	ctx := t.Context()

	t.Run("save and get", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(uuid.New())

			saved, err := repo.Save(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, token.ID, saved.ID)
			assert.Equal(t, token.UserID, saved.UserID)
			assert.True(t, saved.ExpiresAt.Equal(token.ExpiresAt))
			assert.False(t, saved.Revoked())

			got, err := repo.Get(ctx, token.Token)
			require.NoError(t, err)
			assert.Equal(t, saved.ID, got.ID)
		})
	})

	t.Run("get unknown token", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.Get(ctx, "no-such-token")
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("revoke once", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(uuid.New())
			_, err := repo.Save(ctx, token)
			require.NoError(t, err)

			firstAt := time.Now().Truncate(time.Microsecond)
			revoked, err := repo.RevokeOnce(ctx, token.Token, firstAt)
			require.NoError(t, err, "first caller wins")
			require.True(t, revoked.Revoked())
			assert.Equal(t, token.UserID, revoked.UserID)

			_, err = repo.RevokeOnce(ctx, token.Token, time.Now())
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenRevoked, "second caller loses")

			// Original revocation time survives the replay
			got, err := repo.Get(ctx, token.Token)
			require.NoError(t, err)
			require.NotNil(t, got.RevokedAt)
			assert.True(t, got.RevokedAt.Equal(firstAt))
		})
	})

	t.Run("revoke once with identical timestamps", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(uuid.New())
			_, err := repo.Save(ctx, token)
			require.NoError(t, err)

			// Two callers may read the same wall clock value, the revocation
			// time must never decide who won
			now := time.Now().Truncate(time.Microsecond)

			first, err := repo.RevokeOnce(ctx, token.Token, now)
			require.NoError(t, err)
			require.True(t, first.Revoked())

			_, err = repo.RevokeOnce(ctx, token.Token, now)
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenRevoked, "same timestamp must not produce a second winner")
		})
	})

	t.Run("revoke once unknown token", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.RevokeOnce(ctx, "no-such-token", time.Now())
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("revoke by id is idempotent", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(uuid.New())
			_, err := repo.Save(ctx, token)
			require.NoError(t, err)

			require.NoError(t, repo.Revoke(ctx, token.ID))

			first, err := repo.Get(ctx, token.Token)
			require.NoError(t, err)
			require.True(t, first.Revoked())

			require.NoError(t, repo.Revoke(ctx, token.ID), "second revoke is a no-op")

			second, err := repo.Get(ctx, token.Token)
			require.NoError(t, err)
			assert.True(t, second.RevokedAt.Equal(*first.RevokedAt))
		})
	})

	t.Run("revoke by id unknown token", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			err := repo.Revoke(ctx, uuid.New())
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("revoke matching", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			userID := uuid.New()
			token := makeToken(userID)
			_, err := repo.Save(ctx, token)
			require.NoError(t, err)

			t.Run("wrong user leaves token active", func(t *testing.T) {
				err := repo.RevokeMatching(ctx, uuid.New(), token.Token)
				require.ErrorIs(t, err, apperrors.ErrNotLoggedIn)

				got, err := repo.Get(ctx, token.Token)
				require.NoError(t, err)
				assert.False(t, got.Revoked())
			})

			t.Run("owner revokes", func(t *testing.T) {
				require.NoError(t, repo.RevokeMatching(ctx, userID, token.Token))

				got, err := repo.Get(ctx, token.Token)
				require.NoError(t, err)
				assert.True(t, got.Revoked())
			})

			t.Run("stale token reported", func(t *testing.T) {
				err := repo.RevokeMatching(ctx, userID, token.Token)
				require.ErrorIs(t, err, apperrors.ErrNotLoggedIn)
			})
		})
	})

	t.Run("revoke all for user", func(t *testing.T) {
		testutil.WithTx(container.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			userID := uuid.New()

			for range 3 {
				_, err := repo.Save(ctx, makeToken(userID))
				require.NoError(t, err)
			}
			otherToken := makeToken(uuid.New())
			_, err := repo.Save(ctx, otherToken)
			require.NoError(t, err)

			revoked, err := repo.RevokeAllForUser(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), revoked)

			got, err := repo.Get(ctx, otherToken.Token)
			require.NoError(t, err)
			assert.False(t, got.Revoked(), "other users keep their sessions")

			revoked, err = repo.RevokeAllForUser(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), revoked, "nothing active remains")
		})
	})
}
