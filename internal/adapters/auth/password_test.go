package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(10)
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)

	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, hexRe, salt, "salt should be 64 hex characters")
	}
}

func TestBcryptHasher_Hash_and_Compare(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt, "my-secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	require.NoError(t, h.Compare(hash, salt, "my-secret-password"))
}

func TestBcryptHasher_Compare_wrong_password(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	hash, err := h.Hash(salt, "correct")
	require.NoError(t, err)

	assert.Error(t, h.Compare(hash, salt, "wrong"))
}

func TestBcryptHasher_Compare_wrong_salt(t *testing.T) {
	h := NewBcryptHasher(10)
	salt1, _ := h.GenerateSalt()
	salt2, _ := h.GenerateSalt()
	hash, err := h.Hash(salt1, "password")
	require.NoError(t, err)

	assert.Error(t, h.Compare(hash, salt2, "password"))
}

func TestBcryptHasher_LongPasswords(t *testing.T) {
	// bcrypt truncates inputs at 72 bytes; the pre-digest keeps long
	// passwords distinguishable.
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	hash, err := h.Hash(salt, string(long))
	require.NoError(t, err)

	assert.Error(t, h.Compare(hash, salt, string(long[:90])))
	require.NoError(t, h.Compare(hash, salt, string(long)))
}
