package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcrypt()

	digest, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", digest, "digest must never equal the plaintext")

	assert.True(t, h.Verify("secret123", digest))
	assert.False(t, h.Verify("wrong", digest))
}

func TestHashIsSelfSalting(t *testing.T) {
	h := NewBcrypt()

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same plaintext should differ")
	assert.True(t, h.Verify("secret123", first))
	assert.True(t, h.Verify("secret123", second))
}

func TestVerifyGarbageDigest(t *testing.T) {
	h := NewBcrypt()
	assert.False(t, h.Verify("secret123", "not-a-bcrypt-digest"))
}
