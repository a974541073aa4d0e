package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
)

// ErrDocumentNotFound is returned when a document ID does not exist in a case.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentHandler handles reading stored document content.
type DocumentHandler struct {
	service *services.DocumentService
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// HandleRead returns a document and its verified content.
func (h *DocumentHandler) HandleRead(ctx context.Context, caseID, documentID string) (*entities.Document, []byte, error) {
	doc, err := h.service.FindDocument(ctx, caseID, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: %s in case %s", ErrDocumentNotFound, documentID, caseID)
	}

	content, err := h.service.Content(ctx, *doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, content, nil
}

// HandleCheck reports documents whose stored content is missing or corrupt.
func (h *DocumentHandler) HandleCheck(ctx context.Context) (*services.BlobReport, error) {
	return h.service.CheckBlobs(ctx)
}
