package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

// ErrClientNotFound is returned when a client ID does not exist.
var ErrClientNotFound = errors.New("client not found")

// ClientHandler handles read-only views of clients and their cases.
type ClientHandler struct {
	store ports.EntityStore
}

// NewClientHandler creates a new client handler.
func NewClientHandler(store ports.EntityStore) *ClientHandler {
	return &ClientHandler{
		store: store,
	}
}

// ClientSummary is a client with the number of cases it owns.
type ClientSummary struct {
	entities.Client
	Cases int `json:"cases"`
}

// CaseDetail is a case with its documents.
type CaseDetail struct {
	entities.Case
	Documents []entities.Document `json:"documents"`
}

// ClientDetail is a client with its cases and their documents.
type ClientDetail struct {
	Client entities.Client `json:"client"`
	Cases  []CaseDetail    `json:"cases"`
}

// HandleList lists every client in creation order.
func (h *ClientHandler) HandleList(ctx context.Context) ([]ClientSummary, error) {
	clients, err := h.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	result := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		cases, err := h.store.ListCases(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("listing cases for %s: %w", c.ID, err)
		}
		result = append(result, ClientSummary{Client: c, Cases: len(cases)})
	}
	return result, nil
}

// HandleCases returns one client with its cases and documents.
func (h *ClientHandler) HandleCases(ctx context.Context, clientID string) (*ClientDetail, error) {
	client, err := h.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("finding client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
	}

	cases, err := h.store.ListCases(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	detail := &ClientDetail{
		Client: *client,
		Cases:  make([]CaseDetail, 0, len(cases)),
	}
	for _, k := range cases {
		docs, err := h.store.ListDocuments(ctx, k.ID)
		if err != nil {
			return nil, fmt.Errorf("listing documents for %s: %w", k.ID, err)
		}
		detail.Cases = append(detail.Cases, CaseDetail{Case: k, Documents: docs})
	}
	return detail, nil
}

// HandleStats returns record counts.
func (h *ClientHandler) HandleStats(ctx context.Context) (ports.Stats, error) {
	return h.store.Stats(ctx)
}
