package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKVStore implements KVStore using one JSON file per key under a base
// directory. It is the default backend for single-machine deployments.
type FileKVStore struct {
	baseDir string
	mutex   sync.RWMutex
}

// NewFileKVStore creates a file-backed store, creating the base directory if
// needed.
func NewFileKVStore(baseDir string) (*FileKVStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_store",
			Err: fmt.Errorf("failed to create base directory: %w", err),
		}
	}
	return &FileKVStore{baseDir: baseDir}, nil
}

// Get reads the value stored for key.
func (s *FileKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &RepositoryError{Op: "get", Err: ErrKeyNotFound}
		}
		return nil, &RepositoryError{Op: "get", Err: err}
	}
	return data, nil
}

// Set writes the value via a temp file and rename so readers never observe a
// partial write.
func (s *FileKVStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return &RepositoryError{Op: "set", Err: err}
	}
	if err := os.Rename(tmp, target); err != nil {
		return &RepositoryError{Op: "set", Err: err}
	}
	return nil
}

// Delete removes the value stored for key. Deleting an absent key is not an
// error.
func (s *FileKVStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &RepositoryError{Op: "delete", Err: err}
	}
	return nil
}

func (s *FileKVStore) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}
