package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// MemoryBlobStore is an in-memory BlobStore used by handler tests and
// local development without object storage credentials.
type MemoryBlobStore struct {
	mu      sync.Mutex
	folders map[string]map[string][]byte // childID -> filename -> data

	// FailEnsureFolder forces EnsureFolder to fail; used to test the
	// compensating cleanup in child creation.
	FailEnsureFolder bool
}

var _ BlobStore = (*MemoryBlobStore)(nil)

// NewMemoryBlobStore creates an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{folders: make(map[string]map[string][]byte)}
}

func (s *MemoryBlobStore) EnsureFolder(ctx context.Context, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailEnsureFolder {
		return fmt.Errorf("storage unavailable")
	}
	if _, ok := s.folders[childID]; !ok {
		s.folders[childID] = make(map[string][]byte)
	}
	return nil
}

func (s *MemoryBlobStore) Upload(ctx context.Context, childID, filename string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[childID]; !ok {
		s.folders[childID] = make(map[string][]byte)
	}
	s.folders[childID][filename] = data
	return nil
}

func (s *MemoryBlobStore) List(ctx context.Context, childID string) ([]Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects := []Object{}
	for name, data := range s.folders[childID] {
		objects = append(objects, Object{
			Filename:     name,
			Size:         int64(len(data)),
			LastModified: time.Now().UTC(),
			URL:          "https://storage.example.com/" + childID + "/" + name,
		})
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Filename < objects[j].Filename
	})
	return objects, nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, childID, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.folders[childID], filename)
	return nil
}

func (s *MemoryBlobStore) DeleteFolder(ctx context.Context, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.folders, childID)
	return nil
}

// Has reports whether the child's folder contains filename. Test helper.
func (s *MemoryBlobStore) Has(childID, filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.folders[childID][filename]
	return ok
}

// HasFolder reports whether the child's folder exists. Test helper.
func (s *MemoryBlobStore) HasFolder(childID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.folders[childID]
	return ok
}
