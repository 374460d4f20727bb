package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodePasswordMismatch = "PASSWORD_MISMATCH"
	ErrCodeMalformed        = "MALFORMED_ENVELOPE"
	ErrCodeAuth             = "AUTH_FAILED"
	ErrCodeIO               = "IO_ERROR"
	ErrCodeStore            = "STORE_ERROR"
	ErrCodeConfig           = "CONFIG_ERROR"
)

// Sentinel errors
var (
	// ErrPasswordMismatch is returned when the confirmation password does
	// not match. Detected before any file access.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrMalformedEnvelope is returned when an envelope is too short to
	// contain a salt. No key derivation is attempted.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrAuthenticationFailed covers both a wrong password and a
	// corrupted or tampered envelope. The two cases are deliberately
	// not distinguished.
	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrInvalidConfig = errors.New("invalid configuration")
	ErrColumnMissing = errors.New("column does not exist")
)

// VaultError wraps a vault operation failure with its code and path.
type VaultError struct {
	Code string
	Op   string
	Path string
	Err  error
}

func (e *VaultError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Op, e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Code, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

// StoreError wraps a tabular store failure.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error to its taxonomy code.
func ErrorCode(err error) string {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var se *StoreError
	if errors.As(err, &se) {
		return ErrCodeStore
	}
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return ErrCodePasswordMismatch
	case errors.Is(err, ErrMalformedEnvelope):
		return ErrCodeMalformed
	case errors.Is(err, ErrAuthenticationFailed):
		return ErrCodeAuth
	case errors.Is(err, ErrInvalidConfig):
		return ErrCodeConfig
	default:
		return ErrCodeIO
	}
}
