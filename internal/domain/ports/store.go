// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/intake-core/internal/domain/entities"
)

// EntityStore owns Clients, Cases and Documents together with their indices.
// Writes only happen inside Atomically; the remaining methods are read-only views.
type EntityStore interface {
	// Atomically runs fn with exclusive write access to the store.
	// Records created and events appended through tx become visible together
	// when fn returns nil, and are discarded when it returns an error.
	Atomically(ctx context.Context, fn func(tx StoreTx) error) error

	// GetClient finds a client by ID. Returns nil if not found.
	GetClient(ctx context.Context, id string) (*entities.Client, error)

	// ListClients lists all clients in creation order.
	ListClients(ctx context.Context) ([]entities.Client, error)

	// ListCases lists the cases of a client in creation order.
	ListCases(ctx context.Context, clientID string) ([]entities.Case, error)

	// ListDocuments lists the documents of a case in creation order.
	ListDocuments(ctx context.Context, caseID string) ([]entities.Document, error)

	// Stats returns record counts.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the store.
	Close() error
}

// Stats holds record counts for an EntityStore.
type Stats struct {
	Clients   int `json:"clients"`
	Cases     int `json:"cases"`
	Documents int `json:"documents"`
	Events    int `json:"events"`
}

// StoreTx is the view of the store available inside Atomically.
// Finders return nil when nothing matches.
type StoreTx interface {
	// FindClientByEmail looks up a client by normalized email.
	FindClientByEmail(ctx context.Context, email string) (*entities.Client, error)

	// ListClients lists all clients visible to the transaction in creation order.
	ListClients(ctx context.Context) ([]entities.Client, error)

	// CreateClient allocates an ID and inserts the client with its email index entry.
	// The email must already be normalized; empty means none.
	CreateClient(ctx context.Context, email, firstName, lastName string) (*entities.Client, error)

	// FindCase looks up a case by owner and normalized title.
	FindCase(ctx context.Context, clientID, normalizedTitle string) (*entities.Case, error)

	// CreateCase allocates an ID and inserts a case under clientID.
	CreateCase(ctx context.Context, clientID, title string) (*entities.Case, error)

	// FindDocument looks up a document by owning case and content hash.
	FindDocument(ctx context.Context, caseID, contentHash string) (*entities.Document, error)

	// CreateDocument allocates an ID and inserts a document under caseID.
	CreateDocument(ctx context.Context, caseID, name, contentHash string, size int64) (*entities.Document, error)

	// AppendEvent appends an audit event. It is committed with the transaction.
	AppendEvent(ctx context.Context, action entities.Action, entityID, details string) error
}
