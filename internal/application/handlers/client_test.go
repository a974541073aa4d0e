package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/mocks"
	"github.com/ersonp/intake-core/internal/domain/services"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
	"github.com/ersonp/intake-core/internal/infrastructure/memstore"
)

func TestClientHandler(t *testing.T) {
	store := memstore.New()
	svc := services.NewResolutionService(store, nil, services.ResolutionOptions{}, logging.Discard())
	handler := NewClientHandler(store)

	items := []entities.InboundItem{
		{Email: "alice@x.com", FirstName: "Alice", CaseTitle: "Lease", DocumentContent: []byte("1")},
		{Email: "alice@x.com", CaseTitle: "Lease", DocumentContent: []byte("2")},
		{Email: "alice@x.com", CaseTitle: "Divorce", DocumentContent: []byte("1")},
		{Email: "bob@x.com", FirstName: "Bob", CaseTitle: "Lease", DocumentContent: []byte("1")},
	}
	for _, item := range items {
		_, err := svc.Process(t.Context(), item)
		require.NoError(t, err)
	}

	clients, err := handler.HandleList(t.Context())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "alice@x.com", clients[0].Email)
	assert.Equal(t, 2, clients[0].Cases)
	assert.Equal(t, 1, clients[1].Cases)

	detail, err := handler.HandleCases(t.Context(), clients[0].ID)
	require.NoError(t, err)
	require.Len(t, detail.Cases, 2)
	assert.Equal(t, "Lease", detail.Cases[0].Title)
	assert.Len(t, detail.Cases[0].Documents, 2)
	assert.Len(t, detail.Cases[1].Documents, 1)

	stats, err := handler.HandleStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Clients)
	assert.Equal(t, 3, stats.Cases)
	assert.Equal(t, 4, stats.Documents)
}

func TestClientHandler_HandleCases_NotFound(t *testing.T) {
	handler := NewClientHandler(memstore.New())

	_, err := handler.HandleCases(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientHandler_StoreError(t *testing.T) {
	handler := NewClientHandler(&mocks.Store{Err: errors.New("closed")})

	_, err := handler.HandleList(t.Context())
	assert.ErrorContains(t, err, "listing clients")

	_, err = handler.HandleCases(t.Context(), "x")
	assert.ErrorContains(t, err, "finding client")
}
