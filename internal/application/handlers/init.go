// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/intake-core/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	Backend      string
	DatabasePath string
	BlobDir      string
}

// Handle writes the default configuration and creates the blob directory.
// The database schema is created when the store is first opened.
func (h *InitHandler) Handle(_ context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("intake already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if dir := cfg.Storage.Blobs.Dir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating blob directory: %w", err)
		}
	}

	result := &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Backend:    cfg.Storage.Backend,
		BlobDir:    cfg.Storage.Blobs.Dir,
	}
	if cfg.Storage.Backend == config.BackendSQLite {
		result.DatabasePath = cfg.Storage.SQLite.Path
	}
	return result, nil
}
