// Package vault implements at-rest protection for a data file: the
// envelope codec and the file lock/unlock operations built on it.
package vault

import (
	"fmt"

	"github.com/dbvault/dbvault/internal/crypto"
	"github.com/dbvault/dbvault/internal/models"
)

// Codec converts between plaintext payloads and envelopes.
//
// Envelope layout, byte-exact:
//
//	offset 0..16   salt, raw bytes
//	offset 16..EOF AES-GCM token (nonce || ciphertext+tag)
//
// The first 16 bytes are always exactly the salt that derives the key for
// the remaining bytes. There is no magic tag: feeding a plaintext file to
// Unlock surfaces as ErrMalformedEnvelope or ErrAuthenticationFailed.
type Codec struct {
	deriver *crypto.Deriver
}

// NewCodec creates a codec with the given key derivation cost.
func NewCodec(iterations int) *Codec {
	return &Codec{deriver: crypto.NewDeriver(iterations)}
}

// Lock encrypts plaintext under password and returns the envelope.
// A fresh salt is drawn for every call, so two locks of identical
// plaintext under the same password produce different envelopes.
func (c *Codec) Lock(plaintext []byte, password string) ([]byte, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}

	key, err := c.deriver.DeriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	token, err := crypto.Seal(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}

	envelope := make([]byte, 0, crypto.SaltSize+len(token))
	envelope = append(envelope, salt...)
	envelope = append(envelope, token...)

	return envelope, nil
}

// Unlock decrypts an envelope produced by Lock. Envelopes shorter than
// the salt fail with ErrMalformedEnvelope before any key derivation; a
// wrong password or tampered ciphertext fails with
// ErrAuthenticationFailed, and the two are not distinguished.
func (c *Codec) Unlock(envelope []byte, password string) ([]byte, error) {
	if len(envelope) < crypto.SaltSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			models.ErrMalformedEnvelope, len(envelope), crypto.SaltSize)
	}

	salt := envelope[:crypto.SaltSize]
	token := envelope[crypto.SaltSize:]

	key, err := c.deriver.DeriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	plaintext, err := crypto.Open(key, token)
	if err != nil {
		return nil, models.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// EnvelopeOverhead is the fixed size an envelope adds over its plaintext.
const EnvelopeOverhead = crypto.SaltSize + crypto.TokenOverhead
