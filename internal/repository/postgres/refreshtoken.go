package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at, revoked_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, token, created_at, expires_at, revoked_at
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, saveToken, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt, token.RevokedAt)
	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		// Token strings are random 256-bit values, a unique violation here is
		// a storage fault, not a domain condition
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const getToken = `-- name: GetRefreshToken
SELECT id, user_id, token, created_at, expires_at, revoked_at
FROM refresh_tokens
WHERE token = $1
`

// Get returns the record even if it is revoked or expired already
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getToken, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeTokenOnce = `-- name: RevokeRefreshTokenOnce
UPDATE refresh_tokens
SET revoked_at = $2
WHERE token = $1 AND revoked_at IS NULL
RETURNING id, user_id, token, created_at, expires_at, revoked_at
`

// RevokeOnce flips revoked_at exactly once. The update is guarded by
// revoked_at IS NULL, so the winner is whoever gets a row back: a concurrent
// caller blocks on the row lock, re-evaluates the guard against the committed
// row and comes up empty. Timestamp values never decide the outcome, two
// callers reading the same wall clock still produce exactly one winner.
func (r *RefreshTokenRepo) RevokeOnce(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, revokeTokenOnce, tokenString, now)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		// No active row: either revoked already or never stored, look again to tell
		existing, getErr := r.Get(ctx, tokenString)
		if getErr != nil {
			return existing, getErr
		}
		return existing, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenRevoked)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked_at = COALESCE(revoked_at, $2)
WHERE id = $1
`

// Revoke is idempotent: an already revoked token keeps its original
// revocation time and no error is returned
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, revokeToken, tokenID, time.Now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	}
	return nil
}

const revokeMatching = `-- name: RevokeMatchingRefreshToken
UPDATE refresh_tokens
SET revoked_at = $3
WHERE user_id = $1 AND token = $2 AND revoked_at IS NULL
`

// RevokeMatching revokes the active token owned by the user. A miss means the
// token is stale (wrong user, unknown or revoked already) and is reported,
// not swallowed.
func (r *RefreshTokenRepo) RevokeMatching(ctx context.Context, userID uuid.UUID, tokenString string) error {
	tag, err := r.DB.Exec(ctx, revokeMatching, userID, tokenString, time.Now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrNotLoggedIn)
	}
	return nil
}

const revokeAllForUser = `-- name: RevokeAllRefreshTokensForUser
UPDATE refresh_tokens
SET revoked_at = $2
WHERE user_id = $1 AND revoked_at IS NULL
`

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, revokeAllForUser, userID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt)
	return t, err
}
