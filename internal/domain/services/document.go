package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

var (
	// ErrNoBlobStore is returned when document content is requested but no
	// blob store is configured.
	ErrNoBlobStore = errors.New("no blob store configured")

	// ErrBlobMissing is returned when a document's content is not in the blob store.
	ErrBlobMissing = errors.New("document content missing")

	// ErrBlobCorrupt is returned when stored content no longer hashes to the
	// document's content hash.
	ErrBlobCorrupt = errors.New("document content does not match its hash")
)

// DocumentService reads document content back from the blob store.
type DocumentService struct {
	store ports.EntityStore
	blobs ports.BlobStore
}

// NewDocumentService creates a new DocumentService. blobs may be nil.
func NewDocumentService(store ports.EntityStore, blobs ports.BlobStore) *DocumentService {
	return &DocumentService{
		store: store,
		blobs: blobs,
	}
}

// BlobReport is the result of CheckBlobs.
type BlobReport struct {
	Documents int      `json:"documents"`
	Missing   []string `json:"missing,omitempty"`
	Corrupt   []string `json:"corrupt,omitempty"`
}

// OK reports whether every document's content is present and intact.
func (r *BlobReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Corrupt) == 0
}

// Content returns the stored bytes of doc after checking them against its hash.
func (s *DocumentService) Content(ctx context.Context, doc entities.Document) ([]byte, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}

	ok, err := s.blobs.Exists(ctx, doc.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("checking content of %s: %w", doc.ID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobMissing, doc.ID)
	}

	content, err := s.blobs.Get(ctx, doc.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("reading content of %s: %w", doc.ID, err)
	}
	if HashContent(content) != doc.ContentHash {
		return nil, fmt.Errorf("%w: %s", ErrBlobCorrupt, doc.ID)
	}
	return content, nil
}

// FindDocument returns the document with id in caseID, or nil.
func (s *DocumentService) FindDocument(ctx context.Context, caseID, id string) (*entities.Document, error) {
	docs, err := s.store.ListDocuments(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for _, d := range docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, nil
}

// CheckBlobs walks every document in the store and reports those whose
// content is missing or no longer matches its hash.
func (s *DocumentService) CheckBlobs(ctx context.Context) (*BlobReport, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}

	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	report := &BlobReport{}
	for _, c := range clients {
		cases, err := s.store.ListCases(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("listing cases for %s: %w", c.ID, err)
		}
		for _, k := range cases {
			docs, err := s.store.ListDocuments(ctx, k.ID)
			if err != nil {
				return nil, fmt.Errorf("listing documents for %s: %w", k.ID, err)
			}
			for _, d := range docs {
				report.Documents++
				_, err := s.Content(ctx, d)
				switch {
				case err == nil:
				case errors.Is(err, ErrBlobMissing):
					report.Missing = append(report.Missing, d.ID)
				case errors.Is(err, ErrBlobCorrupt):
					report.Corrupt = append(report.Corrupt, d.ID)
				default:
					return nil, err
				}
			}
		}
	}
	return report, nil
}
