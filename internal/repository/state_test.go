package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
)

func newTestStateStore(t *testing.T) (*StateStore, KVStore) {
	t.Helper()
	kv, err := NewFileKVStore(t.TempDir())
	require.NoError(t, err)
	return NewStateStore(kv), kv
}

func TestStateStoreInvoiceRoundTrip(t *testing.T) {
	store, _ := newTestStateStore(t)
	ctx := context.Background()

	inv := domain.New(time.Now())
	inv = domain.AddItem(inv, domain.LineItem{ID: "item-1", Description: "Milk", Quantity: 2, Rate: 50})
	require.NoError(t, store.SaveInvoice(ctx, inv))

	loaded := store.LoadInvoice(ctx)
	assert.Equal(t, inv, loaded)
}

func TestStateStoreMissingInvoiceFallsBackToFresh(t *testing.T) {
	store, _ := newTestStateStore(t)

	inv := store.LoadInvoice(context.Background())
	assert.Regexp(t, `^FBR-\d{8}-\d{6}$`, inv.InvoiceNumber)
	assert.Empty(t, inv.Items)
	assert.Zero(t, inv.Total)
}

func TestStateStoreCorruptInvoiceFallsBackToFresh(t *testing.T) {
	store, kv := newTestStateStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyInvoice, []byte(`{not json`)))

	inv := store.LoadInvoice(ctx)
	assert.Regexp(t, `^FBR-\d{8}-\d{6}$`, inv.InvoiceNumber)
	assert.Empty(t, inv.Items)
}

func TestStateStoreFormat(t *testing.T) {
	store, kv := newTestStateStore(t)
	ctx := context.Background()

	assert.Equal(t, domain.FormatStandard, store.LoadFormat(ctx))

	require.NoError(t, store.SaveFormat(ctx, domain.FormatReceipt))
	assert.Equal(t, domain.FormatReceipt, store.LoadFormat(ctx))

	// Unknown values fall back to the default.
	require.NoError(t, kv.Set(ctx, KeyFormat, []byte(`"landscape"`)))
	assert.Equal(t, domain.FormatStandard, store.LoadFormat(ctx))
}

func TestStateStoreTheme(t *testing.T) {
	store, kv := newTestStateStore(t)
	ctx := context.Background()

	assert.False(t, store.LoadTheme(ctx))

	require.NoError(t, store.SaveTheme(ctx, true))
	assert.True(t, store.LoadTheme(ctx))

	require.NoError(t, kv.Set(ctx, KeyTheme, []byte(`"sideways"`)))
	assert.False(t, store.LoadTheme(ctx))
}
