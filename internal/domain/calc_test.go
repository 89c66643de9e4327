package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		rate     float64
		want     float64
	}{
		{"whole numbers", 2, 50, 100},
		{"fractional quantity", 1.5, 10, 15},
		{"zero quantity", 0, 99.99, 0},
		{"negative values pass through", -2, 50, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ItemAmount(tt.quantity, tt.rate), tolerance)
		})
	}
}

func TestItemTax(t *testing.T) {
	item := LineItem{Quantity: 1, Rate: 200, TaxRatePercent: 18}
	assert.InDelta(t, 36, ItemTax(item), tolerance)

	item.TaxRatePercent = 0
	assert.InDelta(t, 0, ItemTax(item), tolerance)
}

func TestTotalsOnEmptyDocument(t *testing.T) {
	inv := Recalculate(New(time.Now()))
	assert.Zero(t, inv.Subtotal)
	assert.Zero(t, inv.TaxAmount)
	assert.Zero(t, inv.Total)
}

func TestChangeDue(t *testing.T) {
	assert.InDelta(t, 64, ChangeDue(400, 336), tolerance)
	assert.InDelta(t, -36, ChangeDue(300, 336), tolerance)
	assert.InDelta(t, 0, ChangeDue(0, 0), tolerance)
}

// Mirrors the point-of-sale walkthrough: two grocery items, one zero-rated and
// one in the packaged 18% band.
func TestRecalculateEndToEnd(t *testing.T) {
	inv := New(time.Now())

	inv = AddItem(inv, LineItem{
		ID:          "item-1",
		Description: "Milk",
		Quantity:    2,
		Rate:        50,
	})
	require.Len(t, inv.Items, 1)
	assert.InDelta(t, 100, inv.Items[0].Amount, tolerance)
	assert.InDelta(t, 0, inv.Items[0].TaxAmount, tolerance)
	assert.InDelta(t, 100, inv.Subtotal, tolerance)
	assert.InDelta(t, 0, inv.TaxAmount, tolerance)
	assert.InDelta(t, 100, inv.Total, tolerance)

	inv = AddItem(inv, LineItem{
		ID:             "item-2",
		Description:    "Packaged Milk",
		Quantity:       1,
		Rate:           200,
		TaxRatePercent: 18,
	})
	require.Len(t, inv.Items, 2)
	assert.InDelta(t, 200, inv.Items[1].Amount, tolerance)
	assert.InDelta(t, 36, inv.Items[1].TaxAmount, tolerance)
	assert.InDelta(t, 300, inv.Subtotal, tolerance)
	assert.InDelta(t, 36, inv.TaxAmount, tolerance)
	assert.InDelta(t, 336, inv.Total, tolerance)
}

func TestAddThenRemoveRestoresTotals(t *testing.T) {
	inv := New(time.Now())
	inv = AddItem(inv, LineItem{ID: "base", Quantity: 3, Rate: 40, TaxRatePercent: 17})

	before := inv

	inv = AddItem(inv, LineItem{ID: "extra", Quantity: 1, Rate: 500, TaxRatePercent: 25})
	inv, found := RemoveItem(inv, "extra")
	require.True(t, found)

	assert.Equal(t, before.Subtotal, inv.Subtotal)
	assert.Equal(t, before.TaxAmount, inv.TaxAmount)
	assert.Equal(t, before.Total, inv.Total)
	assert.Equal(t, before.Items, inv.Items)
}

func TestUpdateItemRecomputesDerivedFields(t *testing.T) {
	inv := New(time.Now())
	inv = AddItem(inv, LineItem{ID: "item-1", Quantity: 1, Rate: 100, TaxRatePercent: 17})

	qty := 4.0
	inv, found := UpdateItem(inv, "item-1", ItemPatch{Quantity: &qty})
	require.True(t, found)
	assert.InDelta(t, 400, inv.Items[0].Amount, tolerance)
	assert.InDelta(t, 68, inv.Items[0].TaxAmount, tolerance)
	assert.InDelta(t, 468, inv.Total, tolerance)

	_, found = UpdateItem(inv, "no-such-item", ItemPatch{Quantity: &qty})
	assert.False(t, found)
}

func TestUpdateItemDoesNotMutateOriginal(t *testing.T) {
	inv := New(time.Now())
	inv = AddItem(inv, LineItem{ID: "item-1", Quantity: 1, Rate: 100})

	qty := 9.0
	updated, _ := UpdateItem(inv, "item-1", ItemPatch{Quantity: &qty})

	assert.InDelta(t, 1, inv.Items[0].Quantity, tolerance)
	assert.InDelta(t, 9, updated.Items[0].Quantity, tolerance)
}

func TestApplyPatchLeavesUnsetFieldsAlone(t *testing.T) {
	inv := New(time.Now())
	notes := "deliver before noon"
	cash := 500.0

	patched := ApplyPatch(inv, InvoicePatch{Notes: &notes, CashReceived: &cash})

	assert.Equal(t, notes, patched.Notes)
	assert.Equal(t, cash, patched.CashReceived)
	assert.Equal(t, inv.InvoiceNumber, patched.InvoiceNumber)
	assert.Equal(t, inv.Terms, patched.Terms)
}

func TestNewDocumentDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	inv := New(now)

	assert.Equal(t, "2024-06-01", inv.InvoiceDate)
	assert.Equal(t, "2024-07-01", inv.DueDate)
	assert.Equal(t, 17.0, inv.TaxRatePercent)
	assert.Regexp(t, `^FBR-20240601-\d{6}$`, inv.InvoiceNumber)
	assert.Empty(t, inv.Items)
	assert.Equal(t, DefaultTerms, inv.Terms)
}

func TestNewInvoiceNumberDistinctWithinMillisecond(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

	first := NewInvoiceNumber(now)
	second := NewInvoiceNumber(now)

	assert.Regexp(t, `^FBR-20240601-\d{6}$`, first)
	assert.Regexp(t, `^FBR-20240601-\d{6}$`, second)
	assert.NotEqual(t, first, second)
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "June 1, 2024", DisplayDate("2024-06-01"))
	// Unparseable dates fall back to the stored string.
	assert.Equal(t, "01/06/2024", DisplayDate("01/06/2024"))
	assert.Equal(t, "", DisplayDate(""))
}
