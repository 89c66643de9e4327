package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned when a key has no persisted value.
var ErrKeyNotFound = errors.New("key not found")

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap exposes the underlying error for errors.Is checks.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// KVStore persists opaque JSON values under independent string keys. The
// application state is three such keys; there is no schema, versioning or
// migration on top of this.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
