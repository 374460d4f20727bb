package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	// Crypto parameters for the at-rest vault
	Crypto CryptoConfig `json:"crypto" mapstructure:"crypto"`

	// Storage limits and scratch space
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Tabular store behavior
	Store StoreConfig `json:"store" mapstructure:"store"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// CryptoConfig for key derivation tuning.
type CryptoConfig struct {
	// Iterations for PBKDF2. Raising this slows brute-force search;
	// lowering it below MinIterations is rejected.
	Iterations int `json:"iterations" mapstructure:"iterations"`
}

// MinIterations is the floor for the key derivation cost.
const MinIterations = 100_000

// StorageConfig for local file handling.
type StorageConfig struct {
	MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size"` // Max payload size in bytes
}

// StoreConfig for the tabular store.
type StoreConfig struct {
	Table       string `json:"table" mapstructure:"table"`               // Single data table name
	BusyTimeout int    `json:"busy_timeout" mapstructure:"busy_timeout"` // sqlite busy timeout in ms
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // text, json
	File   string `json:"file" mapstructure:"file"`     // Log file path (empty = stderr)
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Crypto: CryptoConfig{
			Iterations: MinIterations,
		},
		Storage: StorageConfig{
			MaxFileSize: 100 * 1024 * 1024, // 100MB
		},
		Store: StoreConfig{
			Table:       "data",
			BusyTimeout: 5000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Crypto.Iterations < MinIterations {
		return fmt.Errorf("crypto.iterations must be at least %d", MinIterations)
	}

	if c.Storage.MaxFileSize <= 0 {
		return errors.New("storage.max_file_size must be positive")
	}

	if c.Store.Table == "" {
		return errors.New("store.table is required")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureLogDir creates the log file directory when file logging is on.
func (c *Config) EnsureLogDir() error {
	if c.Log.File == "" {
		return nil
	}
	dir := filepath.Dir(c.Log.File)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
