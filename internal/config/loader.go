package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a config loader. An empty configPath falls back to the
// default locations.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  "DBVAULT",
	}
}

// Load reads configuration from defaults, file, and environment, in that
// order of increasing precedence.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	// Start with defaults
	cfg := DefaultConfig()
	v.SetDefault("crypto.iterations", cfg.Crypto.Iterations)
	v.SetDefault("storage.max_file_size", cfg.Storage.MaxFileSize)
	v.SetDefault("store.table", cfg.Store.Table)
	v.SetDefault("store.busy_timeout", cfg.Store.BusyTimeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)

	// Environment overrides, e.g. DBVAULT_LOG_LEVEL=debug
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file: explicit path wins, otherwise probe defaults
	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	} else {
		for _, path := range l.defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("load config file %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultPaths returns default config file locations.
func (l *Loader) defaultPaths() []string {
	paths := []string{
		"dbvault.json",
		".dbvault.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".config", "dbvault", "config.json"),
			filepath.Join(homeDir, ".dbvault", "config.json"),
		)
	}

	return paths
}
