package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_RefreshToken_ExpiredAt(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token := RefreshToken{ExpiresAt: now}

	assert.False(t, token.ExpiredAt(now.Add(-time.Second)), "expiry in the future is valid")
	assert.True(t, token.ExpiredAt(now), "expiry equal to the instant is already expired")
	assert.True(t, token.ExpiredAt(now.Add(time.Second)))
}

func Test_RefreshToken_Revoked(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.False(t, RefreshToken{}.Revoked())
	assert.True(t, RefreshToken{RevokedAt: &now}.Revoked())
}
