// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for intake configuration and data.
	DefaultConfigDir = ".intake"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "intake.db"
	// DefaultBlobDir is the default directory for document content.
	DefaultBlobDir = "blobs"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds static configuration (read-only after load).
type Config struct {
	Resolution ResolutionConfig `yaml:"resolution,omitempty"`
	Storage    StorageConfig    `yaml:"storage,omitempty"`
	Import     ImportConfig     `yaml:"import,omitempty"`
	Audit      AuditConfig      `yaml:"audit,omitempty"`
	Log        LogConfig        `yaml:"log,omitempty"`
}

// ResolutionConfig controls client matching.
type ResolutionConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold,omitempty"`
	StrictTies     bool    `yaml:"strict_ties,omitempty"`
}

// StorageConfig selects and configures the entity store.
type StorageConfig struct {
	Backend string       `yaml:"backend,omitempty"`
	SQLite  SQLiteConfig `yaml:"sqlite,omitempty"`
	Blobs   BlobConfig   `yaml:"blobs,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// Relative paths are resolved against the project directory.
	Path string `yaml:"path,omitempty"`
}

// BlobConfig holds configuration for the content-addressed blob store.
type BlobConfig struct {
	// Dir is where document bytes are kept. Empty disables the blob store.
	Dir string `yaml:"dir,omitempty"`
}

// ImportConfig controls batch manifest imports.
type ImportConfig struct {
	Workers int `yaml:"workers,omitempty"`
}

// AuditConfig controls audit log reads.
type AuditConfig struct {
	PageSize int `yaml:"page_size,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug | info | warn | error
	Format string `yaml:"format,omitempty"` // text | json
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Resolution: ResolutionConfig{
			FuzzyThreshold: 0.88,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			SQLite: SQLiteConfig{
				Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
			},
			Blobs: BlobConfig{
				Dir: filepath.Join(DefaultConfigDir, DefaultBlobDir),
			},
		},
		Import: ImportConfig{
			Workers: 4,
		},
		Audit: AuditConfig{
			PageSize: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the .intake directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configFile)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.resolvePaths(basePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("INTAKE_FUZZY_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing INTAKE_FUZZY_THRESHOLD: %w", err)
		}
		c.Resolution.FuzzyThreshold = threshold
	}
	if v := os.Getenv("INTAKE_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("INTAKE_SQLITE_PATH"); v != "" {
		c.Storage.SQLite.Path = v
	}
	if v := os.Getenv("INTAKE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// resolvePaths makes relative storage paths absolute against basePath.
func (c *Config) resolvePaths(basePath string) {
	if p := c.Storage.SQLite.Path; p != "" && p != ":memory:" && !filepath.IsAbs(p) {
		c.Storage.SQLite.Path = filepath.Join(basePath, p)
	}
	if d := c.Storage.Blobs.Dir; d != "" && !filepath.IsAbs(d) {
		c.Storage.Blobs.Dir = filepath.Join(basePath, d)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if t := c.Resolution.FuzzyThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("invalid resolution.fuzzy_threshold %v (must be in (0, 1])", t)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLite.Path) == "" {
			return errors.New("storage.sqlite.path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported storage.backend %q (must be %s or %s)", c.Storage.Backend, BackendSQLite, BackendMemory)
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be >= 1, got %d", c.Import.Workers)
	}
	if c.Audit.PageSize < 1 {
		return fmt.Errorf("audit.page_size must be >= 1, got %d", c.Audit.PageSize)
	}
	return nil
}

// ConfigDir returns the path to the .intake config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if an intake config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
