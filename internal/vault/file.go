package vault

import (
	"fmt"

	"github.com/dbvault/dbvault/internal/events"
	"github.com/dbvault/dbvault/internal/models"
	"github.com/dbvault/dbvault/internal/storage"
)

// FileVault applies the codec to whole files in place.
type FileVault struct {
	codec  *Codec
	files  *storage.FileStore
	logger *events.Logger
}

// NewFileVault creates a file vault.
func NewFileVault(codec *Codec, files *storage.FileStore, logger *events.Logger) *FileVault {
	return &FileVault{
		codec:  codec,
		files:  files,
		logger: logger.WithField("component", "file_vault"),
	}
}

// LockFile encrypts the file at path in place. The confirmation password
// must match before any file access happens; on any failure the original
// plaintext file is left untouched.
func (v *FileVault) LockFile(path, password, confirm string) error {
	if password != confirm {
		return models.ErrPasswordMismatch
	}

	plaintext, err := v.files.Read(path)
	if err != nil {
		return &models.VaultError{Code: models.ErrCodeIO, Op: "lock", Path: path, Err: err}
	}

	envelope, err := v.codec.Lock(plaintext, password)
	if err != nil {
		return &models.VaultError{Code: models.ErrCodeIO, Op: "lock", Path: path, Err: err}
	}

	if err := v.files.Replace(path, envelope); err != nil {
		return &models.VaultError{Code: models.ErrCodeIO, Op: "lock", Path: path, Err: err}
	}

	v.logger.WithFields(map[string]interface{}{
		"path": path,
		"size": len(envelope),
	}).Info("Locked file")

	return nil
}

// UnlockFile decrypts the file at path in place. The file is assumed to
// be an envelope; on any failure it is left byte-for-byte intact.
func (v *FileVault) UnlockFile(path, password string) error {
	envelope, err := v.files.Read(path)
	if err != nil {
		return &models.VaultError{Code: models.ErrCodeIO, Op: "unlock", Path: path, Err: err}
	}

	plaintext, err := v.codec.Unlock(envelope, password)
	if err != nil {
		return fmt.Errorf("unlock %s: %w", path, err)
	}

	if err := v.files.Replace(path, plaintext); err != nil {
		return &models.VaultError{Code: models.ErrCodeIO, Op: "unlock", Path: path, Err: err}
	}

	v.logger.WithFields(map[string]interface{}{
		"path": path,
		"size": len(plaintext),
	}).Info("Unlocked file")

	return nil
}
