package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted server-side record of an issued refresh token.
// Rows are never deleted by the normal flow: revocation flips RevokedAt once
// and the history stays behind for audit.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the token is active
}

func (t RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// ExpiredAt reports whether the token is unusable at the given instant.
// Validity requires the expiry to lie strictly in the future, a token
// expiring exactly now is already expired.
func (t RefreshToken) ExpiredAt(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair issued by AuthService on login and on each rotation
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
