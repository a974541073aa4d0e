package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestOf(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func TestFileStore_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("V1")
	digest := digestOf(content)

	ok, err := store.Exists(ctx, digest)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, digest, content))

	ok, err = store.Exists(ctx, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, digest)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = os.Stat(filepath.Join(dir, digest[:2], digest))
	assert.NoError(t, err)
}

func TestFileStore_PutIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("same")
	digest := digestOf(content)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Put(ctx, digest, content))
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(store.Dir(), digest[:2]))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, digest, entries[0].Name())
}

func TestFileStore_InvalidDigest(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, digest := range []string{"", "abc", "../../etc/passwd", digestOf(nil)[:63] + "z"} {
		err := store.Put(ctx, digest, []byte("x"))
		assert.True(t, errors.Is(err, ErrInvalidDigest), digest)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), digestOf([]byte("nope")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_CanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Put(ctx, digestOf([]byte("x")), []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
