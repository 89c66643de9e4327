package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
)

func sampleInvoice() domain.Invoice {
	inv := domain.New(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	inv.Company = domain.Party{
		Name: "Karachi General Store", NTN: "1234567-8", STRN: "12345678901",
		Address: "Shop 12, Saddar", City: "Karachi", Phone: "021-1234567",
	}
	inv.Client = domain.Party{Name: "Walk-in Customer"}
	inv = domain.AddItem(inv, domain.LineItem{ID: "item-1", Description: "Milk", Quantity: 2, Rate: 50})
	inv = domain.AddItem(inv, domain.LineItem{
		ID: "item-2", Description: "Packaged Milk", Quantity: 1, Rate: 200, TaxRatePercent: 18,
	})
	inv.CashReceived = 400
	return inv
}

func TestPDFStandardFormat(t *testing.T) {
	data, err := PDF(sampleInvoice(), domain.FormatStandard)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFReceiptFormat(t *testing.T) {
	data, err := PDF(sampleInvoice(), domain.FormatReceipt)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFEmptyDocument(t *testing.T) {
	inv := domain.Recalculate(domain.New(time.Now()))
	data, err := PDF(inv, domain.FormatStandard)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestFilename(t *testing.T) {
	inv := sampleInvoice()
	assert.Equal(t, "invoice-"+inv.InvoiceNumber+".pdf", Filename(inv, domain.FormatStandard))
	assert.Equal(t, "receipt-"+inv.InvoiceNumber+".pdf", Filename(inv, domain.FormatReceipt))
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCodePNG(`{"seller":"1234567-8"}`, 128)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestBarcodePNG(t *testing.T) {
	data, err := BarcodePNG("FBR12345678", 400, 80)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	// IHDR bit depth must be 8. The PDF embedder rejects 16-bit PNGs, so a
	// deeper image would break every export.
	assert.Equal(t, byte(8), data[24])
}
