package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
	"github.com/ersonp/intake-core/internal/infrastructure/memstore"
)

func TestAuditHandler_HandleList(t *testing.T) {
	store := memstore.New()
	svc := services.NewResolutionService(store, nil, services.ResolutionOptions{}, logging.Discard())
	handler := NewAuditHandler(services.NewAuditService(store.Log(), 2))

	_, err := svc.Process(t.Context(), entities.InboundItem{Email: "a@x.com", CaseTitle: "A"})
	require.NoError(t, err)
	_, err = svc.Process(t.Context(), entities.InboundItem{Email: "a@x.com", CaseTitle: "A"})
	require.NoError(t, err)

	all, err := handler.HandleList(t.Context(), 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, entities.ActionClientCreate, all[0].Action)
	assert.Equal(t, entities.ActionDocSkipDuplicate, all[5].Action)

	tail, err := handler.HandleList(t.Context(), 3, 2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, int64(4), tail[0].Seq)
	assert.Equal(t, entities.ActionClientMatchEmail, tail[0].Action)

	summary, err := handler.HandleVerify(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Events)
	assert.Empty(t, summary.Violations)
	assert.Equal(t, 1, summary.Counts[entities.ActionDocCreate])
}
