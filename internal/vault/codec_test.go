package vault_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbvault/dbvault/internal/crypto"
	"github.com/dbvault/dbvault/internal/models"
	"github.com/dbvault/dbvault/internal/vault"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)

	tests := []struct {
		name      string
		plaintext []byte
		password  string
	}{
		{"plain text", []byte("hello world"), "secret"},
		{"empty payload", []byte{}, "secret"},
		{"binary payload", bytes.Repeat([]byte{0x00, 0xFF}, 512), "secret"},
		{"empty password", []byte("permissive"), ""},
		{"unicode password", []byte("data"), "пароль123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := codec.Lock(tt.plaintext, tt.password)
			require.NoError(t, err)
			assert.Len(t, envelope, len(tt.plaintext)+vault.EnvelopeOverhead)

			got, err := codec.Unlock(envelope, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestCodecWrongPassword(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)

	envelope, err := codec.Lock([]byte("secret data"), "right")
	require.NoError(t, err)

	_, err = codec.Unlock(envelope, "wrong")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}

func TestCodecSaltUniqueness(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)
	plaintext := []byte("identical input")

	env1, err := codec.Lock(plaintext, "secret")
	require.NoError(t, err)
	env2, err := codec.Lock(plaintext, "secret")
	require.NoError(t, err)

	// Fresh salt every lock: the first 16 bytes must differ.
	assert.NotEqual(t, env1[:crypto.SaltSize], env2[:crypto.SaltSize])
	assert.NotEqual(t, env1, env2)

	// Both still unlock.
	for _, env := range [][]byte{env1, env2} {
		got, err := codec.Unlock(env, "secret")
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCodecTamperDetection(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)

	envelope, err := codec.Lock([]byte("integrity matters"), "secret")
	require.NoError(t, err)

	// Flip one bit at a time across the token portion.
	for i := crypto.SaltSize; i < len(envelope); i++ {
		tampered := make([]byte, len(envelope))
		copy(tampered, envelope)
		tampered[i] ^= 0x01

		_, err := codec.Unlock(tampered, "secret")
		assert.ErrorIs(t, err, models.ErrAuthenticationFailed, "flipped byte %d", i)
	}
}

func TestCodecSaltTamperFailsAuth(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)

	envelope, err := codec.Lock([]byte("salt is load-bearing"), "secret")
	require.NoError(t, err)

	envelope[0] ^= 0x01
	_, err = codec.Unlock(envelope, "secret")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}

func TestCodecMalformedEnvelope(t *testing.T) {
	codec := vault.NewCodec(crypto.DefaultIterations)

	for _, n := range []int{0, 1, 15} {
		_, err := codec.Unlock(make([]byte, n), "secret")
		assert.ErrorIs(t, err, models.ErrMalformedEnvelope, "envelope length %d", n)
	}

	// Exactly a salt with no token is not malformed, it fails auth.
	_, err := codec.Unlock(make([]byte, crypto.SaltSize), "secret")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}
