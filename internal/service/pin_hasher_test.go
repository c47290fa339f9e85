package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinHashRoundTrip(t *testing.T) {
	h := NewArgon2PinHasher()

	encoded, err := h.Hash("4321")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	ok, err := h.Verify("4321", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("1234", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPinHashUniqueSalts(t *testing.T) {
	h := NewArgon2PinHasher()

	a, err := h.Hash("4321")
	require.NoError(t, err)
	b, err := h.Hash("4321")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPinVerifyMalformedHash(t *testing.T) {
	h := NewArgon2PinHasher()

	for _, encoded := range []string{"", "not-a-hash", "$argon2i$v=19$m=1,t=1,p=1$a$b"} {
		_, err := h.Verify("4321", encoded)
		assert.Error(t, err, "encoded %q", encoded)
	}
}
