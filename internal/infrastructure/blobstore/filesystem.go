// Package blobstore keeps document bytes on disk, addressed by content hash.
package blobstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidDigest is returned for keys that are not a hex SHA-256 digest.
var ErrInvalidDigest = errors.New("invalid digest")

// FileStore implements ports.BlobStore on the local filesystem.
// Content lives at <dir>/<digest[0:2]>/<digest>.
type FileStore struct {
	dir string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(digest string) (string, error) {
	if len(digest) != 64 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigest, digest)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigest, digest)
	}
	return filepath.Join(s.dir, digest[:2], digest), nil
}

// Put writes content under digest. An existing blob is left untouched.
func (s *FileStore) Put(ctx context.Context, digest string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(digest)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0755); err != nil {
		return fmt.Errorf("creating blob shard: %w", err)
	}

	tmp, err := os.CreateTemp(shard, digest+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp blob: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing blob: %w", err)
	}

	// Rename for atomic write
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing blob: %w", err)
	}
	return nil
}

// Get reads the content stored under digest.
func (s *FileStore) Get(ctx context.Context, digest string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(digest)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", digest, err)
	}
	return data, nil
}

// Exists reports whether digest is stored.
func (s *FileStore) Exists(ctx context.Context, digest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.path(digest)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking blob %s: %w", digest, err)
	}
}
