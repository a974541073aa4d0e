package ports

import "context"

// BlobStore keeps raw document bytes keyed by their content hash.
type BlobStore interface {
	// Put stores content under digest. Storing an existing digest is a no-op.
	Put(ctx context.Context, digest string, content []byte) error

	// Get returns the content stored under digest.
	Get(ctx context.Context, digest string) ([]byte, error)

	// Exists reports whether digest is stored.
	Exists(ctx context.Context, digest string) (bool, error)
}
