package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

// Store is a mock implementation of ports.EntityStore. It is also the
// ports.StoreTx handed to Atomically; a failing callback truncates every
// slice back to where it was.
type Store struct {
	mu sync.Mutex

	Clients   []entities.Client
	Cases     []entities.Case
	Documents []entities.Document
	Events    []entities.Event

	Err error // Returned by Atomically and every read method when set

	// Per-operation errors, returned from inside the transaction
	FindClientErr     error
	ListClientsErr    error
	CreateClientErr   error
	FindCaseErr       error
	CreateCaseErr     error
	FindDocumentErr   error
	CreateDocumentErr error
	AppendEventErr    error

	// Call tracking
	AtomicallyCallCount  int
	RollbackCount        int
	ListClientsCallCount int
}

var (
	_ ports.EntityStore = (*Store)(nil)
	_ ports.StoreTx     = (*Store)(nil)
)

// Atomically runs fn against the mock and rolls back on error.
func (m *Store) Atomically(ctx context.Context, fn func(tx ports.StoreTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AtomicallyCallCount++
	if m.Err != nil {
		return m.Err
	}

	nc, nk, nd, ne := len(m.Clients), len(m.Cases), len(m.Documents), len(m.Events)
	if err := fn(m); err != nil {
		m.Clients = m.Clients[:nc]
		m.Cases = m.Cases[:nk]
		m.Documents = m.Documents[:nd]
		m.Events = m.Events[:ne]
		m.RollbackCount++
		return err
	}
	return nil
}

// GetClient finds a client by ID.
func (m *Store) GetClient(_ context.Context, id string) (*entities.Client, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Clients {
		if m.Clients[i].ID == id {
			c := m.Clients[i]
			return &c, nil
		}
	}
	return nil, nil
}

// ListClients lists all clients.
func (m *Store) ListClients(_ context.Context) ([]entities.Client, error) {
	m.ListClientsCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ListClientsErr != nil {
		return nil, m.ListClientsErr
	}
	return append([]entities.Client(nil), m.Clients...), nil
}

// ListCases lists the cases of a client.
func (m *Store) ListCases(_ context.Context, clientID string) ([]entities.Case, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Case
	for _, c := range m.Cases {
		if c.ClientID == clientID {
			result = append(result, c)
		}
	}
	return result, nil
}

// ListDocuments lists the documents of a case.
func (m *Store) ListDocuments(_ context.Context, caseID string) ([]entities.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Document
	for _, d := range m.Documents {
		if d.CaseID == caseID {
			result = append(result, d)
		}
	}
	return result, nil
}

// Stats returns record counts.
func (m *Store) Stats(_ context.Context) (ports.Stats, error) {
	if m.Err != nil {
		return ports.Stats{}, m.Err
	}
	return ports.Stats{
		Clients:   len(m.Clients),
		Cases:     len(m.Cases),
		Documents: len(m.Documents),
		Events:    len(m.Events),
	}, nil
}

// Close does nothing.
func (m *Store) Close() error {
	return nil
}

// Transaction methods.

// FindClientByEmail looks up a client by email.
func (m *Store) FindClientByEmail(_ context.Context, email string) (*entities.Client, error) {
	if m.FindClientErr != nil {
		return nil, m.FindClientErr
	}
	for i := range m.Clients {
		if m.Clients[i].Email == email {
			c := m.Clients[i]
			return &c, nil
		}
	}
	return nil, nil
}

// CreateClient appends a client.
func (m *Store) CreateClient(_ context.Context, email, firstName, lastName string) (*entities.Client, error) {
	if m.CreateClientErr != nil {
		return nil, m.CreateClientErr
	}
	seq := int64(len(m.Clients) + 1)
	c := entities.Client{
		ID:             fmt.Sprintf("client-%d", seq),
		Seq:            seq,
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		NormalizedName: entities.NormalizeName(firstName, lastName),
		CreatedAt:      time.Now(),
	}
	m.Clients = append(m.Clients, c)
	return &c, nil
}

// FindCase looks up a case by owner and normalized title.
func (m *Store) FindCase(_ context.Context, clientID, normalizedTitle string) (*entities.Case, error) {
	if m.FindCaseErr != nil {
		return nil, m.FindCaseErr
	}
	for i := range m.Cases {
		if m.Cases[i].ClientID == clientID && m.Cases[i].NormalizedTitle == normalizedTitle {
			c := m.Cases[i]
			return &c, nil
		}
	}
	return nil, nil
}

// CreateCase appends a case.
func (m *Store) CreateCase(_ context.Context, clientID, title string) (*entities.Case, error) {
	if m.CreateCaseErr != nil {
		return nil, m.CreateCaseErr
	}
	seq := int64(len(m.Cases) + 1)
	c := entities.Case{
		ID:              fmt.Sprintf("case-%d", seq),
		Seq:             seq,
		ClientID:        clientID,
		Title:           title,
		NormalizedTitle: entities.NormalizeTitle(title),
		CreatedAt:       time.Now(),
	}
	m.Cases = append(m.Cases, c)
	return &c, nil
}

// FindDocument looks up a document by case and hash.
func (m *Store) FindDocument(_ context.Context, caseID, contentHash string) (*entities.Document, error) {
	if m.FindDocumentErr != nil {
		return nil, m.FindDocumentErr
	}
	for i := range m.Documents {
		if m.Documents[i].CaseID == caseID && m.Documents[i].ContentHash == contentHash {
			d := m.Documents[i]
			return &d, nil
		}
	}
	return nil, nil
}

// CreateDocument appends a document.
func (m *Store) CreateDocument(_ context.Context, caseID, name, contentHash string, size int64) (*entities.Document, error) {
	if m.CreateDocumentErr != nil {
		return nil, m.CreateDocumentErr
	}
	seq := int64(len(m.Documents) + 1)
	d := entities.Document{
		ID:          fmt.Sprintf("doc-%d", seq),
		Seq:         seq,
		CaseID:      caseID,
		Name:        name,
		ContentHash: contentHash,
		Size:        size,
		CreatedAt:   time.Now(),
	}
	m.Documents = append(m.Documents, d)
	return &d, nil
}

// AppendEvent appends an event.
func (m *Store) AppendEvent(_ context.Context, action entities.Action, entityID, details string) error {
	if m.AppendEventErr != nil {
		return m.AppendEventErr
	}
	m.Events = append(m.Events, entities.Event{
		Seq:       int64(len(m.Events) + 1),
		Timestamp: time.Now(),
		Action:    action,
		EntityID:  entityID,
		Details:   details,
	})
	return nil
}
