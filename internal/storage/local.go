// Package storage provides file access for the vault operations. Writes
// are atomic: a crash mid-write never leaves the target half-transformed.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dbvault/dbvault/internal/events"
)

// FileStore reads and rewrites whole files on the local filesystem.
type FileStore struct {
	logger      *events.Logger
	maxFileSize int64
}

// NewFileStore creates a file store.
func NewFileStore(logger *events.Logger) *FileStore {
	return &FileStore{
		logger:      logger.WithField("component", "file_store"),
		maxFileSize: 100 * 1024 * 1024, // 100MB default
	}
}

// SetMaxFileSize sets the maximum file size limit.
func (s *FileStore) SetMaxFileSize(size int64) {
	s.maxFileSize = size
}

// Read returns the full contents of the file at path.
func (s *FileStore) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d)", info.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"size": len(data),
	}).Debug("Read file")

	return data, nil
}

// Replace atomically overwrites the file at path with data. The new
// contents are written to a temp file in the same directory, synced, and
// renamed over the original, so the prior contents survive any failure
// before the rename.
func (s *FileStore) Replace(path string, data []byte) error {
	if int64(len(data)) > s.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d)", len(data), s.maxFileSize)
	}

	mode := os.FileMode(0600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	// Temp file must live in the same directory for the rename to be atomic.
	tempPath := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())

	if err := os.WriteFile(tempPath, data, mode); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := syncFile(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"size": len(data),
	}).Debug("Replaced file")

	return nil
}

// Exists checks whether a regular file exists at path.
func (s *FileStore) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func syncFile(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := file.Sync(); err != nil {
		return err
	}

	// Sync the directory too so the new entry is durable.
	dir, err := os.Open(filepath.Dir(path))
	if err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}
	return nil
}
