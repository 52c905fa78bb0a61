package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/procureflow/backend/internal/domain/shared"
)

var _ shared.FileStore = (*MemoryFileStore)(nil)

// MemoryFileStore implements FileStore with an in-memory map.
// Intended for tests and local development without an object store.
type MemoryFileStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

// NewMemoryFileStore creates an in-memory file store
func NewMemoryFileStore(bucket string) *MemoryFileStore {
	if bucket == "" {
		bucket = "documents"
	}
	return &MemoryFileStore{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

// Put stores a document and returns its file reference
func (s *MemoryFileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Get retrieves the document behind a file reference
func (s *MemoryFileStore) Get(ctx context.Context, fileRef string) ([]byte, error) {
	_, key, err := parseFileRef(fileRef)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Delete removes the document behind a file reference
func (s *MemoryFileStore) Delete(ctx context.Context, fileRef string) error {
	_, key, err := parseFileRef(fileRef)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

// Size returns the number of stored objects
func (s *MemoryFileStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
