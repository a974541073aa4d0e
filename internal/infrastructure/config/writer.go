package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Intake-Core Configuration

resolution:
  # Minimum name similarity (0-1] for matching a client without an email.
  fuzzy_threshold: 0.88
  # Fail instead of picking the oldest client when several tie.
  strict_ties: false

storage:
  backend: sqlite # sqlite | memory
  sqlite:
    path: .intake/intake.db
  blobs:
    dir: .intake/blobs

import:
  workers: 4

audit:
  page_size: 100

log:
  level: info # debug | info | warn | error (or set INTAKE_LOG_LEVEL)
  format: text # text | json
`

// WriteDefault creates the .intake directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
