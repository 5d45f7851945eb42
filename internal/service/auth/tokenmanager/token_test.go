package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Email: "cool-dude@example.com",
		Role:  authz.RoleUser,
	}
}

func Test_New(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied", func(t *testing.T) {
		m, err := New(Config{AccessSecretKey: "access", RefreshSecretKey: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, defaultAccessTokenTTL, m.accessTTL)
		assert.Equal(t, defaultRefreshTokenTTL, m.refreshTTL)
		assert.Equal(t, "HS256", m.alg.Alg())
	})

	t.Run("missing access secret", func(t *testing.T) {
		_, err := New(Config{RefreshSecretKey: "refresh"})
		require.Error(t, err)
	})

	t.Run("missing refresh secret", func(t *testing.T) {
		_, err := New(Config{AccessSecretKey: "access"})
		require.Error(t, err)
	})
}

func Test_AccessToken(t *testing.T) {
	t.Parallel()

	m, err := New(Config{AccessSecretKey: "access", RefreshSecretKey: "refresh"})
	require.NoError(t, err)

	user := testUser()

	t.Run("issued token roundtrips", func(t *testing.T) {
		issued, err := m.IssueAccess(user)
		require.NoError(t, err)
		require.NotEmpty(t, issued.Value)

		identity, err := m.ParseAccess(issued.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, user.Email, identity.Email)
		assert.Equal(t, authz.RoleUser, identity.Role)
	})

	t.Run("claims carry sub, username and role", func(t *testing.T) {
		issued, err := m.IssueAccess(user)
		require.NoError(t, err)

		claims := &AccessTokenClaims{}
		_, err = jwt.ParseWithClaims(issued.Value, claims, func(t *jwt.Token) (any, error) {
			return []byte("access"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, user.Email, claims.Username)
		assert.Equal(t, authz.RoleUser, claims.Role)
		assert.NotEmpty(t, claims.ID, "jti must be set")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expiredManager, err := New(Config{
			AccessSecretKey:  "access",
			RefreshSecretKey: "refresh",
			AccessTTL:        -time.Minute,
		})
		require.NoError(t, err)

		issued, err := expiredManager.IssueAccess(user)
		require.NoError(t, err)

		_, err = m.ParseAccess(issued.Value)
		require.Error(t, err)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := m.ParseAccess("not-even-a-jwt")
		require.Error(t, err)
	})
}

func Test_RefreshToken(t *testing.T) {
	t.Parallel()

	m, err := New(Config{AccessSecretKey: "access", RefreshSecretKey: "refresh"})
	require.NoError(t, err)

	user := testUser()

	t.Run("issued token roundtrips", func(t *testing.T) {
		issued, err := m.IssueRefresh(user)
		require.NoError(t, err)

		userID, err := m.ParseRefresh(issued.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("claims carry subject only", func(t *testing.T) {
		issued, err := m.IssueRefresh(user)
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(issued.Value, claims, func(t *jwt.Token) (any, error) {
			return []byte("refresh"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims["sub"])
		assert.NotContains(t, claims, "username")
		assert.NotContains(t, claims, "role")
	})

	t.Run("expiry tracks refresh ttl", func(t *testing.T) {
		issued, err := m.IssueRefresh(user)
		require.NoError(t, err)

		assert.WithinDuration(t, time.Now().Add(m.RefreshTTL()), issued.ExpiresAt, 5*time.Second)
	})
}

// Tokens signed with one secret must never verify against the other
func Test_SecretsNotInterchangeable(t *testing.T) {
	t.Parallel()

	m, err := New(Config{AccessSecretKey: "access", RefreshSecretKey: "refresh"})
	require.NoError(t, err)

	user := testUser()

	access, err := m.IssueAccess(user)
	require.NoError(t, err)
	refresh, err := m.IssueRefresh(user)
	require.NoError(t, err)

	_, err = m.ParseRefresh(access.Value)
	require.Error(t, err, "access token must not pass as refresh")

	_, err = m.ParseAccess(refresh.Value)
	require.Error(t, err, "refresh token must not pass as access")
}
