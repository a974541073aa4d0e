package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/mocks"
	"github.com/ersonp/intake-core/internal/infrastructure/logging"
	"github.com/ersonp/intake-core/internal/infrastructure/memstore"
)

func newTestDocuments(t *testing.T) (*DocumentService, *mocks.BlobStore, []*entities.Resolution) {
	t.Helper()
	store := memstore.New()
	blobs := mocks.NewBlobStore()
	svc := NewResolutionService(store, blobs, ResolutionOptions{}, logging.Discard())

	var resolutions []*entities.Resolution
	for _, content := range []string{"V1", "V2", "V3"} {
		res, err := svc.Process(context.Background(), entities.InboundItem{
			Email:           "alice@x.com",
			CaseTitle:       "Dossier",
			DocumentName:    content + ".pdf",
			DocumentContent: []byte(content),
		})
		require.NoError(t, err)
		resolutions = append(resolutions, res)
	}
	return NewDocumentService(store, blobs), blobs, resolutions
}

func TestDocumentService_Content(t *testing.T) {
	docs, blobs, res := newTestDocuments(t)
	ctx := context.Background()

	doc, err := docs.FindDocument(ctx, res[1].CaseID, res[1].DocumentID)
	require.NoError(t, err)
	require.NotNil(t, doc)

	content, err := docs.Content(ctx, *doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("V2"), content)

	blobs.Blobs[doc.ContentHash] = []byte("tampered")
	_, err = docs.Content(ctx, *doc)
	assert.ErrorIs(t, err, ErrBlobCorrupt)

	delete(blobs.Blobs, doc.ContentHash)
	_, err = docs.Content(ctx, *doc)
	assert.ErrorIs(t, err, ErrBlobMissing)
}

func TestDocumentService_FindDocumentUnknown(t *testing.T) {
	docs, _, res := newTestDocuments(t)

	doc, err := docs.FindDocument(context.Background(), res[0].CaseID, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentService_CheckBlobs(t *testing.T) {
	docs, blobs, res := newTestDocuments(t)
	ctx := context.Background()

	report, err := docs.CheckBlobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.True(t, report.OK())

	delete(blobs.Blobs, HashContent([]byte("V1")))
	blobs.Blobs[HashContent([]byte("V3"))] = []byte("tampered")

	report, err = docs.CheckBlobs(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{res[0].DocumentID}, report.Missing)
	assert.Equal(t, []string{res[2].DocumentID}, report.Corrupt)
}

func TestDocumentService_CheckBlobsErrors(t *testing.T) {
	t.Run("no blob store", func(t *testing.T) {
		docs := NewDocumentService(memstore.New(), nil)
		_, err := docs.CheckBlobs(context.Background())
		assert.ErrorIs(t, err, ErrNoBlobStore)
		_, err = docs.Content(context.Background(), entities.Document{})
		assert.ErrorIs(t, err, ErrNoBlobStore)
	})

	t.Run("blob store error", func(t *testing.T) {
		docs, blobs, _ := newTestDocuments(t)
		blobs.Err = errors.New("disk gone")
		_, err := docs.CheckBlobs(context.Background())
		assert.ErrorContains(t, err, "disk gone")
	})

	t.Run("store error", func(t *testing.T) {
		docs := NewDocumentService(&mocks.Store{Err: errors.New("store down")}, mocks.NewBlobStore())
		_, err := docs.CheckBlobs(context.Background())
		assert.ErrorContains(t, err, "store down")
	})
}
