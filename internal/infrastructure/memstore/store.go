// Package memstore provides an in-memory implementation of the entity store
// and audit log, guarded by a single writer lock.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

type caseKey struct {
	clientID        string
	normalizedTitle string
}

type docKey struct {
	caseID      string
	contentHash string
}

// Store implements ports.EntityStore in memory.
type Store struct {
	mu sync.RWMutex

	clients       []entities.Client
	clientByID    map[string]int
	clientByEmail map[string]int

	cases         []entities.Case
	caseByKey     map[caseKey]int
	casesByClient map[string][]int

	documents  []entities.Document
	docByKey   map[docKey]int
	docsByCase map[string][]int

	log *Log
	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		clientByID:    make(map[string]int),
		clientByEmail: make(map[string]int),
		caseByKey:     make(map[caseKey]int),
		casesByClient: make(map[string][]int),
		docByKey:      make(map[docKey]int),
		docsByCase:    make(map[string][]int),
		log:           newLog(),
		now:           time.Now,
	}
}

// Log returns the audit log owned by this store.
func (s *Store) Log() *Log {
	return s.log
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Atomically runs fn while holding the writer lock. Nothing fn creates is
// visible to readers until fn returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(tx ports.StoreTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &storeTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	s.commit(tx)
	return nil
}

// commit applies staged records and events. Caller holds the writer lock.
func (s *Store) commit(tx *storeTx) {
	for _, c := range tx.clients {
		idx := len(s.clients)
		s.clients = append(s.clients, c)
		s.clientByID[c.ID] = idx
		if c.Email != "" {
			s.clientByEmail[c.Email] = idx
		}
	}
	for _, k := range tx.cases {
		idx := len(s.cases)
		s.cases = append(s.cases, k)
		s.caseByKey[caseKey{k.ClientID, k.NormalizedTitle}] = idx
		s.casesByClient[k.ClientID] = append(s.casesByClient[k.ClientID], idx)
	}
	for _, d := range tx.documents {
		idx := len(s.documents)
		s.documents = append(s.documents, d)
		s.docByKey[docKey{d.CaseID, d.ContentHash}] = idx
		s.docsByCase[d.CaseID] = append(s.docsByCase[d.CaseID], idx)
	}
	s.log.append(tx.events, s.now())
}

// GetClient finds a client by ID.
func (s *Store) GetClient(_ context.Context, id string) (*entities.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.clientByID[id]
	if !ok {
		return nil, nil
	}
	c := s.clients[idx]
	return &c, nil
}

// ListClients lists all clients in creation order.
func (s *Store) ListClients(_ context.Context) ([]entities.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.Client(nil), s.clients...), nil
}

// ListCases lists the cases of a client in creation order.
func (s *Store) ListCases(_ context.Context, clientID string) ([]entities.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idxs := s.casesByClient[clientID]
	result := make([]entities.Case, 0, len(idxs))
	for _, idx := range idxs {
		result = append(result, s.cases[idx])
	}
	return result, nil
}

// ListDocuments lists the documents of a case in creation order.
func (s *Store) ListDocuments(_ context.Context, caseID string) ([]entities.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idxs := s.docsByCase[caseID]
	result := make([]entities.Document, 0, len(idxs))
	for _, idx := range idxs {
		result = append(result, s.documents[idx])
	}
	return result, nil
}

// Stats returns record counts. The log head is read under the same lock as
// the records so all counts come from one committed state.
func (s *Store) Stats(ctx context.Context) (ports.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last, err := s.log.LastSeq(ctx)
	if err != nil {
		return ports.Stats{}, err
	}
	return ports.Stats{
		Clients:   len(s.clients),
		Cases:     len(s.cases),
		Documents: len(s.documents),
		Events:    int(last),
	}, nil
}

type pendingEvent struct {
	action   entities.Action
	entityID string
	details  string
}

// storeTx stages writes on top of the committed state.
type storeTx struct {
	store     *Store
	clients   []entities.Client
	cases     []entities.Case
	documents []entities.Document
	events    []pendingEvent
}

func (tx *storeTx) FindClientByEmail(_ context.Context, email string) (*entities.Client, error) {
	if idx, ok := tx.store.clientByEmail[email]; ok {
		c := tx.store.clients[idx]
		return &c, nil
	}
	for i := range tx.clients {
		if tx.clients[i].Email != "" && tx.clients[i].Email == email {
			c := tx.clients[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (tx *storeTx) ListClients(_ context.Context) ([]entities.Client, error) {
	result := make([]entities.Client, 0, len(tx.store.clients)+len(tx.clients))
	result = append(result, tx.store.clients...)
	return append(result, tx.clients...), nil
}

func (tx *storeTx) CreateClient(_ context.Context, email, firstName, lastName string) (*entities.Client, error) {
	c := entities.Client{
		ID:             uuid.New().String(),
		Seq:            int64(len(tx.store.clients) + len(tx.clients) + 1),
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		NormalizedName: entities.NormalizeName(firstName, lastName),
		CreatedAt:      tx.store.now(),
	}
	tx.clients = append(tx.clients, c)
	return &c, nil
}

func (tx *storeTx) FindCase(_ context.Context, clientID, normalizedTitle string) (*entities.Case, error) {
	if idx, ok := tx.store.caseByKey[caseKey{clientID, normalizedTitle}]; ok {
		k := tx.store.cases[idx]
		return &k, nil
	}
	for i := range tx.cases {
		if tx.cases[i].ClientID == clientID && tx.cases[i].NormalizedTitle == normalizedTitle {
			k := tx.cases[i]
			return &k, nil
		}
	}
	return nil, nil
}

func (tx *storeTx) CreateCase(_ context.Context, clientID, title string) (*entities.Case, error) {
	k := entities.Case{
		ID:              uuid.New().String(),
		Seq:             int64(len(tx.store.cases) + len(tx.cases) + 1),
		ClientID:        clientID,
		Title:           title,
		NormalizedTitle: entities.NormalizeTitle(title),
		CreatedAt:       tx.store.now(),
	}
	tx.cases = append(tx.cases, k)
	return &k, nil
}

func (tx *storeTx) FindDocument(_ context.Context, caseID, contentHash string) (*entities.Document, error) {
	if idx, ok := tx.store.docByKey[docKey{caseID, contentHash}]; ok {
		d := tx.store.documents[idx]
		return &d, nil
	}
	for i := range tx.documents {
		if tx.documents[i].CaseID == caseID && tx.documents[i].ContentHash == contentHash {
			d := tx.documents[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (tx *storeTx) CreateDocument(_ context.Context, caseID, name, contentHash string, size int64) (*entities.Document, error) {
	d := entities.Document{
		ID:          uuid.New().String(),
		Seq:         int64(len(tx.store.documents) + len(tx.documents) + 1),
		CaseID:      caseID,
		Name:        name,
		ContentHash: contentHash,
		Size:        size,
		CreatedAt:   tx.store.now(),
	}
	tx.documents = append(tx.documents, d)
	return &d, nil
}

func (tx *storeTx) AppendEvent(_ context.Context, action entities.Action, entityID, details string) error {
	tx.events = append(tx.events, pendingEvent{action: action, entityID: entityID, details: details})
	return nil
}
