package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateAccessToken(t *testing.T) {
	t.Run("round trips subject and scopes", func(t *testing.T) {
		tokenStr, err := CreateAccessToken("s3cret", "alice", []string{"me:read", "post:create"}, time.Minute)
		assert.NoError(t, err)

		claims, err := ParseAccessToken("s3cret", tokenStr)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, []string{"me:read", "post:create"}, claims.Scopes)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		tokenStr, err := CreateAccessToken("s3cret", "alice", nil, time.Minute)
		assert.NoError(t, err)

		_, err = ParseAccessToken("other-secret", tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		tokenStr, err := CreateAccessToken("s3cret", "alice", nil, -time.Minute)
		assert.NoError(t, err)

		_, err = ParseAccessToken("s3cret", tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseAccessToken("s3cret", "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSplitScopes(t *testing.T) {
	assert.Equal(t, []string{"me:read", "post:read"}, SplitScopes("me:read post:read"))

	// empty scope falls back to the default scope set
	defaults := SplitScopes("")
	assert.Contains(t, defaults, "me:read")
	assert.Contains(t, defaults, "post:create")
}

func TestHasScope(t *testing.T) {
	scopes := []string{"me:read", "post:create"}
	assert.True(t, HasScope(scopes, "post:create"))
	assert.False(t, HasScope(scopes, "user:delete"))
	assert.False(t, HasScope(nil, "me:read"))
}
