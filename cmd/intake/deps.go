package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/intake-core/internal/application/handlers"
	"github.com/ersonp/intake-core/internal/domain/ports"
	"github.com/ersonp/intake-core/internal/domain/services"
	"github.com/ersonp/intake-core/internal/infrastructure/blobstore"
	"github.com/ersonp/intake-core/internal/infrastructure/config"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
	"github.com/ersonp/intake-core/internal/infrastructure/memstore"
	"github.com/ersonp/intake-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	Logger          *slog.Logger
	IngestHandler   *handlers.IngestHandler
	AuditHandler    *handlers.AuditHandler
	ClientHandler   *handlers.ClientHandler
	DocumentHandler *handlers.DocumentHandler
}

// withDeps loads config from the working directory, builds dependencies,
// then calls the provided function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globalBackend != "" {
		cfg.Storage.Backend = globalBackend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	deps, closeFn, err := buildDeps(cfg, logging.New(cfg.Log))
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(deps)
}

// buildDeps opens the configured store and wires services and handlers.
// The returned func closes the store.
func buildDeps(cfg *config.Config, logger *slog.Logger) (*Deps, func(), error) {
	store, auditLog, err := openStore(cfg.Storage, logger)
	if err != nil {
		return nil, nil, err
	}

	var blobs ports.BlobStore
	if dir := cfg.Storage.Blobs.Dir; dir != "" {
		fs, err := blobstore.NewFileStore(dir)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		blobs = fs
	}

	resolution := services.NewResolutionService(store, blobs, services.ResolutionOptions{
		FuzzyThreshold: cfg.Resolution.FuzzyThreshold,
		StrictTies:     cfg.Resolution.StrictTies,
	}, logger)
	audit := services.NewAuditService(auditLog, cfg.Audit.PageSize)

	deps := &Deps{
		Config:          cfg,
		Logger:          logger,
		IngestHandler:   handlers.NewIngestHandler(resolution),
		AuditHandler:    handlers.NewAuditHandler(audit),
		ClientHandler:   handlers.NewClientHandler(store),
		DocumentHandler: handlers.NewDocumentHandler(services.NewDocumentService(store, blobs)),
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}
	return deps, closeFn, nil
}

// openStore returns the entity store for the configured backend together
// with the audit log that shares its transactions.
func openStore(cfg config.StorageConfig, logger *slog.Logger) (ports.EntityStore, ports.AuditLog, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		store := memstore.New()
		return store, store.Log(), nil
	case config.BackendSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("creating sqlite repository: %w", err)
		}
		if err := repo.EnsureSchema(); err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("ensuring sqlite schema: %w", err)
		}
		logger.Debug("opened sqlite store", "path", repo.Path())
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
