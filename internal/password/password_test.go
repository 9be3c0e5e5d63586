package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256Hasher(t *testing.T) {
	h := SHA256Hasher{}

	digest, err := h.Hash("password")
	assert.NoError(t, err)
	// Digests must stay byte-compatible with values already in the store.
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", digest)
	assert.NotEqual(t, "password", digest)

	again, err := h.Hash("password")
	assert.NoError(t, err)
	assert.Equal(t, digest, again)

	assert.True(t, h.Verify("password", digest))
	assert.False(t, h.Verify("Password", digest))
	assert.False(t, h.Verify("", digest))
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{}

	digest, err := h.Hash("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	// Salted: hashing the same input twice yields different digests, but
	// both verify.
	other, err := h.Hash("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, digest, other)

	assert.True(t, h.Verify("secret1", digest))
	assert.True(t, h.Verify("secret1", other))
	assert.False(t, h.Verify("secret2", digest))
}

func TestNew(t *testing.T) {
	assert.IsType(t, SHA256Hasher{}, New("sha256"))
	assert.IsType(t, SHA256Hasher{}, New(""), "unknown schemes fall back to sha256")
	assert.IsType(t, BcryptHasher{}, New("bcrypt"))
}
