// Package crypto implements the key derivation and authenticated
// encryption primitives behind the vault envelope.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// KDFVersion identifies the derivation parameters. Bump when the
	// construction or iteration floor changes.
	KDFVersion = 1

	// Key sizes
	KeySize   = 32 // AES-256
	SaltSize  = 16 // salt prefix of the envelope
	NonceSize = 12 // GCM standard
	TagSize   = 16 // GCM tag

	// DefaultIterations is the PBKDF2 cost. Deliberately slow.
	DefaultIterations = 100_000
)

// Errors
var (
	ErrInvalidSaltLength = errors.New("invalid salt length")
	ErrInvalidKeySize    = errors.New("invalid key size")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// Deriver turns a password and salt into a symmetric key.
type Deriver struct {
	iterations int
}

// NewDeriver creates a Deriver with the given PBKDF2 iteration count.
// Counts below DefaultIterations are raised to it.
func NewDeriver(iterations int) *Deriver {
	if iterations < DefaultIterations {
		iterations = DefaultIterations
	}
	return &Deriver{iterations: iterations}
}

// DeriveKey derives a KeySize-byte key from the password and salt using
// PBKDF2-HMAC-SHA256. Deterministic: the same inputs always yield the
// same key. The salt must be exactly SaltSize bytes; anything else is a
// contract violation by the caller.
//
// The password is NFKC-normalized first so that visually identical
// Unicode passwords derive the same key. An empty password is accepted;
// rejecting it is left to the caller's policy.
func (d *Deriver) DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidSaltLength, SaltSize, len(salt))
	}

	normalized := norm.NFKC.String(password)

	key := pbkdf2.Key([]byte(normalized), salt, d.iterations, KeySize, sha256.New)
	return key, nil
}

// NewSalt returns SaltSize bytes from a cryptographically secure source.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext using AES-256-GCM under key.
// Returns: nonce || ciphertext+tag. The token is self-delimiting; callers
// pass it around as an opaque blob.
func Seal(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	token := make([]byte, NonceSize+len(ciphertext))
	copy(token[:NonceSize], nonce)
	copy(token[NonceSize:], ciphertext)

	return token, nil
}

// Open decrypts a token produced by Seal. Any bit flip, truncation, or
// wrong key fails with ErrDecryptionFailed; corrupted plaintext is never
// returned. Wrong-key and tampered-token failures are indistinguishable.
func Open(key, token []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	// Minimum token: nonce + tag over empty plaintext
	if len(token) < NonceSize+TagSize {
		return nil, ErrDecryptionFailed
	}

	nonce := token[:NonceSize]
	ciphertext := token[NonceSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// TokenOverhead is the fixed size added by Seal beyond the plaintext.
const TokenOverhead = NonceSize + TagSize
