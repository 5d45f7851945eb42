package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := BcryptHasher{}

	t.Run("hash and compare", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		assert.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
		assert.Error(t, hasher.Compare(hash, "wrong password"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := hasher.Hash("same password")
		require.NoError(t, err)
		second, err := hasher.Hash("same password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("long passwords supported", func(t *testing.T) {
		// bcrypt alone truncates input at 72 bytes; the sha256 pre-hash lifts that
		long := strings.Repeat("a", 100)
		longer := strings.Repeat("a", 101)

		hash, err := hasher.Hash(long)
		require.NoError(t, err)

		assert.NoError(t, hasher.Compare(hash, long))
		assert.Error(t, hasher.Compare(hash, longer))
	})
}
