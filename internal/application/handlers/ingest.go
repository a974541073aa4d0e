package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
	"github.com/ersonp/intake-core/internal/infrastructure/parsers"
)

// DefaultWorkers is the manifest import concurrency when none is given.
const DefaultWorkers = 4

// IngestHandler feeds inbound items to the resolution engine.
type IngestHandler struct {
	resolution *services.ResolutionService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(resolution *services.ResolutionService) *IngestHandler {
	return &IngestHandler{
		resolution: resolution,
	}
}

// ItemRequest describes one item whose document lives on disk.
type ItemRequest struct {
	Email        string
	FirstName    string
	LastName     string
	CaseTitle    string
	DocumentPath string
	DocumentName string // Defaults to the base name of DocumentPath
}

// ItemResult is the outcome of one manifest line.
type ItemResult struct {
	Line       int
	Item       parsers.RawItem
	Resolution *entities.Resolution
	Err        error
}

// ManifestResult contains the result of a manifest import.
type ManifestResult struct {
	Items    []ItemResult
	Resolved int
	Failed   int

	ClientsCreated   int
	CasesCreated     int
	DocumentsCreated int
	Duplicates       int
}

// HandleItem resolves an item whose document content is already in memory.
func (h *IngestHandler) HandleItem(ctx context.Context, item entities.InboundItem) (*entities.Resolution, error) {
	return h.resolution.Process(ctx, item)
}

// HandleFile reads the document from disk and resolves the item.
func (h *IngestHandler) HandleFile(ctx context.Context, req ItemRequest) (*entities.Resolution, error) {
	if req.DocumentPath == "" {
		return nil, fmt.Errorf("%w: document path is required", services.ErrInvalidInput)
	}

	info, err := os.Stat(req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("accessing document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", req.DocumentPath)
	}

	content, err := os.ReadFile(req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	name := req.DocumentName
	if name == "" {
		name = filepath.Base(req.DocumentPath)
	}

	return h.resolution.Process(ctx, entities.InboundItem{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		CaseTitle:       req.CaseTitle,
		DocumentName:    name,
		DocumentContent: content,
	})
}

// HandleManifest parses a JSON or CSV manifest and resolves every item with
// up to workers items in flight. Relative document paths are taken from the
// manifest's directory. A failing item is recorded and does not stop the rest;
// the returned error is only set when the manifest itself cannot be read or
// ctx is canceled.
func (h *IngestHandler) HandleManifest(ctx context.Context, manifestPath string, workers int) (*ManifestResult, error) {
	parser := parsers.ForFile(manifestPath)
	if parser == nil {
		return nil, fmt.Errorf("unsupported manifest format: %s", manifestPath)
	}

	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()

	rawItems, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if workers < 1 {
		workers = DefaultWorkers
	}
	baseDir := filepath.Dir(manifestPath)

	result := &ManifestResult{
		Items: make([]ItemResult, len(rawItems)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, raw := range rawItems {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docPath := raw.DocumentPath
			if docPath != "" && !filepath.IsAbs(docPath) {
				docPath = filepath.Join(baseDir, docPath)
			}
			res, err := h.HandleFile(gctx, ItemRequest{
				Email:        raw.Email,
				FirstName:    raw.FirstName,
				LastName:     raw.LastName,
				CaseTitle:    raw.CaseTitle,
				DocumentPath: docPath,
				DocumentName: raw.DocumentName,
			})
			result.Items[i] = ItemResult{Line: raw.LineNum, Item: raw, Resolution: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, item := range result.Items {
		if item.Err != nil {
			result.Failed++
			continue
		}
		res := item.Resolution
		result.Resolved++
		if res.ClientCreated {
			result.ClientsCreated++
		}
		if res.CaseCreated {
			result.CasesCreated++
		}
		if res.DocumentCreated {
			result.DocumentsCreated++
		} else {
			result.Duplicates++
		}
	}

	return result, nil
}
