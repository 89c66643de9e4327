package domain

// ItemAmount computes a line amount. No rounding, no sign checks: the caller
// UI clamps inputs, the arithmetic stays a pure function over whatever arrives.
func ItemAmount(quantity, rate float64) float64 {
	return quantity * rate
}

// ItemTax computes the GST owed on a single item from its source fields.
func ItemTax(item LineItem) float64 {
	return ItemAmount(item.Quantity, item.Rate) * item.TaxRatePercent / 100
}

// Subtotal sums the stored item amounts. Keeping Amount in sync with
// Quantity/Rate is the transform's job, not this function's.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum
}

// TaxTotal sums per-item tax. Tax is always computed per item; the document
// level rate field is only a seed for new items.
func TaxTotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += ItemTax(item)
	}
	return sum
}

// Total combines subtotal and tax.
func Total(subtotal, taxAmount float64) float64 {
	return subtotal + taxAmount
}

// ChangeDue computes point-of-sale change. Negative when the cash received
// does not cover the total; no clamping.
func ChangeDue(cashReceived, total float64) float64 {
	return cashReceived - total
}

// Recalculate returns a copy of the invoice with every derived field rebuilt
// from scratch: item Amount/TaxAmount first, then the document totals.
// Recomputing everything on every edit is cheap and rules out drift between
// the caches and their source fields.
func Recalculate(inv Invoice) Invoice {
	items := make([]LineItem, len(inv.Items))
	for i, item := range inv.Items {
		item.Amount = ItemAmount(item.Quantity, item.Rate)
		item.TaxAmount = ItemTax(item)
		items[i] = item
	}
	inv.Items = items
	inv.Subtotal = Subtotal(items)
	inv.TaxAmount = TaxTotal(items)
	inv.Total = Total(inv.Subtotal, inv.TaxAmount)
	return inv
}

// InvoicePatch carries top-level field edits. Nil fields are left untouched.
type InvoicePatch struct {
	InvoiceDate    *string
	DueDate        *string
	Company        *Party
	Client         *Party
	TaxRatePercent *float64
	Notes          *string
	Terms          *string
	CashReceived   *float64
}

// ItemPatch carries line-item field edits. Nil fields are left untouched.
type ItemPatch struct {
	Description     *string
	Quantity        *float64
	Rate            *float64
	TaxRatePercent  *float64
	MeasurementUnit *string
}

// ApplyPatch returns a new invoice with the patch applied and all derived
// fields recomputed in the same transform.
func ApplyPatch(inv Invoice, patch InvoicePatch) Invoice {
	if patch.InvoiceDate != nil {
		inv.InvoiceDate = *patch.InvoiceDate
	}
	if patch.DueDate != nil {
		inv.DueDate = *patch.DueDate
	}
	if patch.Company != nil {
		inv.Company = *patch.Company
	}
	if patch.Client != nil {
		inv.Client = *patch.Client
	}
	if patch.TaxRatePercent != nil {
		inv.TaxRatePercent = *patch.TaxRatePercent
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}
	if patch.Terms != nil {
		inv.Terms = *patch.Terms
	}
	if patch.CashReceived != nil {
		inv.CashReceived = *patch.CashReceived
	}
	return Recalculate(inv)
}

// AddItem returns a new invoice with the item appended and totals recomputed.
func AddItem(inv Invoice, item LineItem) Invoice {
	items := make([]LineItem, 0, len(inv.Items)+1)
	items = append(items, inv.Items...)
	items = append(items, item)
	inv.Items = items
	return Recalculate(inv)
}

// UpdateItem returns a new invoice with the patch applied to the item with the
// given id. Unknown ids leave the document unchanged apart from the recompute
// pass. Found reports whether the item existed.
func UpdateItem(inv Invoice, id string, patch ItemPatch) (updated Invoice, found bool) {
	items := make([]LineItem, len(inv.Items))
	for i, item := range inv.Items {
		if item.ID == id {
			found = true
			if patch.Description != nil {
				item.Description = *patch.Description
			}
			if patch.Quantity != nil {
				item.Quantity = *patch.Quantity
			}
			if patch.Rate != nil {
				item.Rate = *patch.Rate
			}
			if patch.TaxRatePercent != nil {
				item.TaxRatePercent = *patch.TaxRatePercent
			}
			if patch.MeasurementUnit != nil {
				item.MeasurementUnit = *patch.MeasurementUnit
			}
		}
		items[i] = item
	}
	inv.Items = items
	return Recalculate(inv), found
}

// RemoveItem returns a new invoice without the item with the given id.
func RemoveItem(inv Invoice, id string) (updated Invoice, found bool) {
	items := make([]LineItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		if item.ID == id {
			found = true
			continue
		}
		items = append(items, item)
	}
	inv.Items = items
	return Recalculate(inv), found
}
