package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	h1 := HashPassword("secret", "alice")
	h2 := HashPassword("secret", "alice")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // 32 bytes hex-encoded
}

func TestHashPassword_SaltMatters(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, HashPassword("secret", "alice"), HashPassword("secret", "bob"))
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash := HashPassword("secret", "alice")

	assert.True(t, VerifyPassword("secret", "alice", hash))
	assert.False(t, VerifyPassword("wrong", "alice", hash))
	assert.False(t, VerifyPassword("secret", "bob", hash))
}
