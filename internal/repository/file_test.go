package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVStoreRoundTrip(t *testing.T) {
	store, err := NewFileKVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "invoice-data", []byte(`{"a":1}`)))

	got, err := store.Get(ctx, "invoice-data")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, store.Set(ctx, "invoice-data", []byte(`{"a":2}`)))
	got, err = store.Get(ctx, "invoice-data")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), got)
}

func TestFileKVStoreMissingKey(t *testing.T) {
	store, err := NewFileKVStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nothing-here")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestFileKVStoreDelete(t *testing.T) {
	store, err := NewFileKVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "invoice-theme", []byte(`true`)))
	require.NoError(t, store.Delete(ctx, "invoice-theme"))

	_, err = store.Get(ctx, "invoice-theme")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "invoice-theme"))
}

func TestFileKVStoreKeysAreIndependent(t *testing.T) {
	store, err := NewFileKVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "invoice-data", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "invoice-format", []byte(`"receipt"`)))

	require.NoError(t, store.Delete(ctx, "invoice-data"))

	got, err := store.Get(ctx, "invoice-format")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"receipt"`), got)
}
