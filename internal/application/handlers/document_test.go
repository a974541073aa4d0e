package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/services"
	"github.com/ersonp/intake-core/internal/infrastructure/blobstore"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
	"github.com/ersonp/intake-core/internal/infrastructure/memstore"
)

func TestDocumentHandler(t *testing.T) {
	store := memstore.New()
	blobs, err := blobstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := services.NewResolutionService(store, blobs, services.ResolutionOptions{}, logging.Discard())
	handler := NewDocumentHandler(services.NewDocumentService(store, blobs))

	res, err := svc.Process(t.Context(), entities.InboundItem{
		Email:           "a@x.com",
		CaseTitle:       "A",
		DocumentName:    "contract.pdf",
		DocumentContent: []byte("V1"),
	})
	require.NoError(t, err)

	t.Run("read", func(t *testing.T) {
		doc, content, err := handler.HandleRead(t.Context(), res.CaseID, res.DocumentID)
		require.NoError(t, err)
		assert.Equal(t, "contract.pdf", doc.Name)
		assert.Equal(t, []byte("V1"), content)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, _, err := handler.HandleRead(t.Context(), res.CaseID, "nope")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("check", func(t *testing.T) {
		report, err := handler.HandleCheck(t.Context())
		require.NoError(t, err)
		assert.True(t, report.OK())

		digest := services.HashContent([]byte("V1"))
		require.NoError(t, os.Remove(filepath.Join(blobs.Dir(), digest[:2], digest)))

		report, err = handler.HandleCheck(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{res.DocumentID}, report.Missing)

		_, _, err = handler.HandleRead(t.Context(), res.CaseID, res.DocumentID)
		assert.ErrorIs(t, err, services.ErrBlobMissing)
	})
}
