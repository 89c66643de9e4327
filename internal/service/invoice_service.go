package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
	"github.com/hassanfarid/fbr-invoice-service/internal/fbr"
	"github.com/hassanfarid/fbr-invoice-service/internal/render"
	"github.com/hassanfarid/fbr-invoice-service/internal/repository"
	"github.com/hassanfarid/fbr-invoice-service/internal/tax"
)

// ErrItemNotFound is returned when an item id does not exist on the document.
var ErrItemNotFound = errors.New("line item not found")

// ErrExportInProgress is returned when an export is triggered while another
// one is still running. Only one export may be outstanding at a time; there
// is no cancellation, the caller simply retries once the running export ends.
var ErrExportInProgress = errors.New("export already in progress")

// InvoiceServiceError represents an error in the invoice service
type InvoiceServiceError struct {
	Op  string
	Err error
}

func (e *InvoiceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *InvoiceServiceError) Unwrap() error {
	return e.Err
}

// Compliance bundles the FBR artifacts derived from the current document.
type Compliance struct {
	VerificationCode string
	QRPayload        string
	PortalURL        string
}

// Export is a finished PDF download.
type Export struct {
	Filename string
	Data     []byte
}

// Preferences are the persisted presentation settings.
type Preferences struct {
	Format    domain.Format
	DarkTheme bool
}

// InvoiceService defines the business operations on the single document.
// Every edit is a pure transform of the stored document followed by a full
// recompute of the derived totals.
type InvoiceService interface {
	Current(ctx context.Context) (domain.Invoice, error)
	Reset(ctx context.Context) (domain.Invoice, error)
	Update(ctx context.Context, patch domain.InvoicePatch) (domain.Invoice, error)

	AddItem(ctx context.Context) (domain.Invoice, error)
	UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Invoice, error)
	RemoveItem(ctx context.Context, id string) (domain.Invoice, error)

	Compliance(ctx context.Context) (Compliance, error)
	QRCodePNG(ctx context.Context) ([]byte, error)
	BarcodePNG(ctx context.Context) ([]byte, error)
	ExportPDF(ctx context.Context, format domain.Format) (Export, error)

	Preferences(ctx context.Context) (Preferences, error)
	SetPreferences(ctx context.Context, prefs Preferences) (Preferences, error)
}

// InvoiceServiceImpl implements InvoiceService on a StateStore.
type InvoiceServiceImpl struct {
	state *repository.StateStore
	now   func() time.Time

	// editMu serializes load-transform-save cycles so concurrent HTTP edits
	// cannot interleave on the single stored document.
	editMu sync.Mutex

	exportMu  sync.Mutex
	exporting bool
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(state *repository.StateStore) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{
		state: state,
		now:   time.Now,
	}
}

// Current returns the stored document, creating and persisting a fresh one on
// first use. Reads of an already stored document never write.
func (s *InvoiceServiceImpl) Current(ctx context.Context) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	inv, stored := s.state.LoadInvoiceIfStored(ctx)
	if !stored {
		if err := s.state.SaveInvoice(ctx, inv); err != nil {
			return domain.Invoice{}, &InvoiceServiceError{Op: "load_invoice", Err: err}
		}
	}
	return inv, nil
}

// Reset replaces the document wholesale with a fresh instance carrying a new
// invoice number.
func (s *InvoiceServiceImpl) Reset(ctx context.Context) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	inv := domain.New(s.now())
	if err := s.state.SaveInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, &InvoiceServiceError{Op: "reset_invoice", Err: err}
	}
	return inv, nil
}

// Update applies top-level field edits and recomputes the totals.
func (s *InvoiceServiceImpl) Update(ctx context.Context, patch domain.InvoicePatch) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	inv := domain.ApplyPatch(s.state.LoadInvoice(ctx), patch)
	if err := s.state.SaveInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, &InvoiceServiceError{Op: "update_invoice", Err: err}
	}
	return inv, nil
}

// AddItem appends an empty item seeded with the document's default GST rate.
func (s *InvoiceServiceImpl) AddItem(ctx context.Context) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	inv := s.state.LoadInvoice(ctx)
	inv = domain.AddItem(inv, domain.NewLineItem(s.now(), inv.TaxRatePercent))
	if err := s.state.SaveInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, &InvoiceServiceError{Op: "add_item", Err: err}
	}
	return inv, nil
}

// UpdateItem applies item field edits. A description change without an
// explicit rate override re-runs the tax classifier so the GST band tracks
// what the item says it is.
func (s *InvoiceServiceImpl) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	if patch.Description != nil && patch.TaxRatePercent == nil {
		rate := tax.Classify(*patch.Description)
		patch.TaxRatePercent = &rate
	}

	inv, found := domain.UpdateItem(s.state.LoadInvoice(ctx), id, patch)
	if !found {
		return domain.Invoice{}, &InvoiceServiceError{Op: "update_item", Err: ErrItemNotFound}
	}
	if err := s.state.SaveInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, &InvoiceServiceError{Op: "update_item", Err: err}
	}
	return inv, nil
}

// RemoveItem deletes an item and recomputes the totals.
func (s *InvoiceServiceImpl) RemoveItem(ctx context.Context, id string) (domain.Invoice, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	inv, found := domain.RemoveItem(s.state.LoadInvoice(ctx), id)
	if !found {
		return domain.Invoice{}, &InvoiceServiceError{Op: "remove_item", Err: ErrItemNotFound}
	}
	if err := s.state.SaveInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, &InvoiceServiceError{Op: "remove_item", Err: err}
	}
	return inv, nil
}

// Compliance derives the verification code and QR payload from the current
// document.
func (s *InvoiceServiceImpl) Compliance(ctx context.Context) (Compliance, error) {
	fields := s.complianceFields(ctx)
	return Compliance{
		VerificationCode: fbr.VerificationCode(fields),
		QRPayload:        fbr.QRPayload(fields),
		PortalURL:        fbr.PortalURL,
	}, nil
}

// QRCodePNG renders the compliance QR image for the current document.
func (s *InvoiceServiceImpl) QRCodePNG(ctx context.Context) ([]byte, error) {
	data, err := render.QRCodePNG(fbr.QRPayload(s.complianceFields(ctx)), 256)
	if err != nil {
		return nil, &InvoiceServiceError{Op: "render_qrcode", Err: err}
	}
	return data, nil
}

// BarcodePNG renders the verification-code barcode for the current document.
func (s *InvoiceServiceImpl) BarcodePNG(ctx context.Context) ([]byte, error) {
	data, err := render.BarcodePNG(fbr.VerificationCode(s.complianceFields(ctx)), 400, 80)
	if err != nil {
		return nil, &InvoiceServiceError{Op: "render_barcode", Err: err}
	}
	return data, nil
}

// ExportPDF renders the document as a downloadable PDF. A second export
// while one is running fails with ErrExportInProgress; the busy flag is
// always cleared, including on failure, so the caller may retry.
func (s *InvoiceServiceImpl) ExportPDF(ctx context.Context, format domain.Format) (Export, error) {
	s.exportMu.Lock()
	if s.exporting {
		s.exportMu.Unlock()
		return Export{}, &InvoiceServiceError{Op: "export_pdf", Err: ErrExportInProgress}
	}
	s.exporting = true
	s.exportMu.Unlock()

	defer func() {
		s.exportMu.Lock()
		s.exporting = false
		s.exportMu.Unlock()
	}()

	if !format.Valid() {
		format = s.state.LoadFormat(ctx)
	}

	inv := s.state.LoadInvoice(ctx)
	data, err := render.PDF(inv, format)
	if err != nil {
		log.Printf("PDF export failed for %s: %v", inv.InvoiceNumber, err)
		return Export{}, &InvoiceServiceError{Op: "export_pdf", Err: err}
	}

	return Export{
		Filename: render.Filename(inv, format),
		Data:     data,
	}, nil
}

// Preferences returns the persisted presentation settings.
func (s *InvoiceServiceImpl) Preferences(ctx context.Context) (Preferences, error) {
	return Preferences{
		Format:    s.state.LoadFormat(ctx),
		DarkTheme: s.state.LoadTheme(ctx),
	}, nil
}

// SetPreferences persists the presentation settings.
func (s *InvoiceServiceImpl) SetPreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	if !prefs.Format.Valid() {
		prefs.Format = domain.FormatStandard
	}
	if err := s.state.SaveFormat(ctx, prefs.Format); err != nil {
		return Preferences{}, &InvoiceServiceError{Op: "save_preferences", Err: err}
	}
	if err := s.state.SaveTheme(ctx, prefs.DarkTheme); err != nil {
		return Preferences{}, &InvoiceServiceError{Op: "save_preferences", Err: err}
	}
	return prefs, nil
}

func (s *InvoiceServiceImpl) complianceFields(ctx context.Context) fbr.InvoiceFields {
	inv := s.state.LoadInvoice(ctx)
	return fbr.InvoiceFields{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		CompanyNTN:    inv.Company.NTN,
		TotalAmount:   inv.Total,
		TaxAmount:     inv.TaxAmount,
	}
}
