package mocks

import (
	"context"
	"fmt"
	"sync"
)

// BlobStore is a mock implementation of ports.BlobStore.
type BlobStore struct {
	mu    sync.Mutex
	Blobs map[string][]byte
	Err   error

	PutCallCount int
}

// NewBlobStore creates a new mock BlobStore.
func NewBlobStore() *BlobStore {
	return &BlobStore{Blobs: make(map[string][]byte)}
}

// Put stores content under digest.
func (m *BlobStore) Put(_ context.Context, digest string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Blobs[digest] = append([]byte(nil), content...)
	return nil
}

// Get returns the content stored under digest.
func (m *BlobStore) Get(_ context.Context, digest string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	content, ok := m.Blobs[digest]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", digest)
	}
	return content, nil
}

// Exists reports whether digest is stored.
func (m *BlobStore) Exists(_ context.Context, digest string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Blobs[digest]
	return ok, nil
}
