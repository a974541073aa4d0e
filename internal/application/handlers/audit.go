package handlers

import (
	"context"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
)

// AuditHandler handles reading the audit log.
type AuditHandler struct {
	service *services.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(service *services.AuditService) *AuditHandler {
	return &AuditHandler{
		service: service,
	}
}

// HandleList returns up to limit events after since. A limit <= 0 means all.
func (h *AuditHandler) HandleList(ctx context.Context, since int64, limit int) ([]entities.Event, error) {
	return h.service.List(ctx, since, limit)
}

// HandleVerify replays the whole log and reports its consistency.
func (h *AuditHandler) HandleVerify(ctx context.Context) (*services.AuditSummary, error) {
	return h.service.Verify(ctx)
}
