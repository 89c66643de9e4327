package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Format selects the document layout used for preview and export.
type Format string

const (
	FormatStandard Format = "standard"
	FormatReceipt  Format = "receipt"
)

// Valid reports whether the format is one of the supported layouts.
func (f Format) Valid() bool {
	return f == FormatStandard || f == FormatReceipt
}

// DefaultTerms is seeded into every fresh document.
const DefaultTerms = "Payment is due within 30 days of invoice date. Late payments may incur additional charges."

// Party identifies one side of the invoice. NTN and STRN are carried as
// entered; format validation lives in the fbr package.
type Party struct {
	Name    string `json:"name"`
	NTN     string `json:"ntn,omitempty"`
	STRN    string `json:"strn,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// LineItem is a single billable row. Amount and TaxAmount are derived state:
// they are only ever written by Recalculate, never edited directly.
type LineItem struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	TaxRatePercent  float64 `json:"tax_rate_percent"`
	Amount          float64 `json:"amount"`
	TaxAmount       float64 `json:"tax_amount"`
	MeasurementUnit string  `json:"measurement_unit,omitempty"`
}

// Invoice is the single document the service operates on. Dates are stored as
// plain YYYY-MM-DD strings; compliance hashing consumes them verbatim, so they
// must never be reformatted in place. Subtotal, TaxAmount and Total are
// derived and only written by Recalculate. TaxRatePercent is the default
// seeded into new items and takes no part in totals.
type Invoice struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`

	Company Party `json:"company"`
	Client  Party `json:"client"`

	Items []LineItem `json:"items"`

	Subtotal       float64 `json:"subtotal"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`

	Notes        string  `json:"notes,omitempty"`
	Terms        string  `json:"terms,omitempty"`
	CashReceived float64 `json:"cash_received,omitempty"`
}

const dateLayout = "2006-01-02"

// New creates a fresh document: generated invoice number, issue date now,
// due date 30 days out, standard default GST rate and no items.
func New(now time.Time) Invoice {
	return Invoice{
		InvoiceNumber:  NewInvoiceNumber(now),
		InvoiceDate:    now.Format(dateLayout),
		DueDate:        now.Add(30 * 24 * time.Hour).Format(dateLayout),
		Items:          []LineItem{},
		TaxRatePercent: 17,
		Terms:          DefaultTerms,
	}
}

var invoiceSeq atomic.Int64

// NewInvoiceNumber builds an FBR-style invoice number: the issue date plus a
// six-digit discriminator. The discriminator mixes the millisecond timestamp
// with a process-wide counter so that clearing a document issues a fresh
// number even within the same millisecond it was created.
func NewInvoiceNumber(now time.Time) string {
	discriminator := (now.UnixMilli() + invoiceSeq.Add(1)) % 1_000_000
	return fmt.Sprintf("FBR-%s-%06d", now.Format("20060102"), discriminator)
}

// NewLineItem builds an empty item carrying the document's default GST rate.
func NewLineItem(now time.Time, defaultTaxRate float64) LineItem {
	return LineItem{
		ID:             fmt.Sprintf("item-%d", now.UnixNano()),
		Quantity:       1,
		TaxRatePercent: defaultTaxRate,
	}
}

// DisplayDate renders a stored date string for presentation. Unparseable
// values are shown as stored rather than rejected.
func DisplayDate(stored string) string {
	t, err := time.Parse(dateLayout, stored)
	if err != nil {
		return stored
	}
	return t.Format("January 2, 2006")
}
