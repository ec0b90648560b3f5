package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cheap parameters keep the suite fast.
func testHasher() *Hasher {
	return &Hasher{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashVerify(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_UniqueSalt(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_UsesStoredParameters(t *testing.T) {
	encoded, err := testHasher().Hash("pw")
	require.NoError(t, err)

	ok, err := Default().Verify("pw", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_InvalidHashes(t *testing.T) {
	h := testHasher()

	tests := map[string]struct {
		encoded string
		want    error
	}{
		"empty":         {"", ErrInvalidHash},
		"bcrypt":        {"$2a$10$abcdefghijklmnopqrstuv", ErrInvalidHash},
		"wrong version": {"$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		"bad params":    {"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5", ErrInvalidHash},
		"huge memory":   {"$argon2id$v=19$m=99999999,t=1,p=1$c2FsdA$a2V5", ErrInvalidHash},
		"bad salt":      {"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5", ErrInvalidHash},
		"empty key":     {"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$", ErrInvalidHash},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("pw", tt.encoded)
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
