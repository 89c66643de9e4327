package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
)

// Persistence keys. Each piece of state lives under its own key and is
// loaded and saved independently.
const (
	KeyInvoice = "invoice-data"
	KeyFormat  = "invoice-format"
	KeyTheme   = "invoice-theme"
)

// StateStore persists the application state on top of a KVStore. Missing or
// corrupt entries silently fall back to built-in defaults; there is no
// migration or versioning.
type StateStore struct {
	kv  KVStore
	now func() time.Time
}

// NewStateStore creates a state store over the given backend.
func NewStateStore(kv KVStore) *StateStore {
	return &StateStore{kv: kv, now: time.Now}
}

// LoadInvoice returns the persisted document, or a fresh one when nothing
// usable is stored.
func (s *StateStore) LoadInvoice(ctx context.Context) domain.Invoice {
	inv, _ := s.LoadInvoiceIfStored(ctx)
	return inv
}

// LoadInvoiceIfStored returns the persisted document and true, or a fresh
// document and false when the stored entry is missing or unusable. Callers
// that want to persist the fallback use the second return to decide.
func (s *StateStore) LoadInvoiceIfStored(ctx context.Context) (domain.Invoice, bool) {
	data, err := s.kv.Get(ctx, KeyInvoice)
	if err != nil {
		return domain.New(s.now()), false
	}

	var inv domain.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		log.Printf("Discarding corrupt invoice state: %v", err)
		return domain.New(s.now()), false
	}
	if inv.Items == nil {
		inv.Items = []domain.LineItem{}
	}
	return inv, true
}

// SaveInvoice persists the document.
func (s *StateStore) SaveInvoice(ctx context.Context, inv domain.Invoice) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return &RepositoryError{Op: "save_invoice", Err: err}
	}
	return s.kv.Set(ctx, KeyInvoice, data)
}

// LoadFormat returns the persisted format selector, defaulting to standard.
func (s *StateStore) LoadFormat(ctx context.Context) domain.Format {
	data, err := s.kv.Get(ctx, KeyFormat)
	if err != nil {
		return domain.FormatStandard
	}

	var format domain.Format
	if err := json.Unmarshal(data, &format); err != nil || !format.Valid() {
		log.Printf("Discarding corrupt format state: %q", data)
		return domain.FormatStandard
	}
	return format
}

// SaveFormat persists the format selector.
func (s *StateStore) SaveFormat(ctx context.Context, format domain.Format) error {
	data, err := json.Marshal(format)
	if err != nil {
		return &RepositoryError{Op: "save_format", Err: err}
	}
	return s.kv.Set(ctx, KeyFormat, data)
}

// LoadTheme returns the persisted dark-theme flag, defaulting to false.
func (s *StateStore) LoadTheme(ctx context.Context) bool {
	data, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return false
	}

	var dark bool
	if err := json.Unmarshal(data, &dark); err != nil {
		log.Printf("Discarding corrupt theme state: %q", data)
		return false
	}
	return dark
}

// SaveTheme persists the dark-theme flag.
func (s *StateStore) SaveTheme(ctx context.Context, dark bool) error {
	data, err := json.Marshal(dark)
	if err != nil {
		return &RepositoryError{Op: "save_theme", Err: err}
	}
	return s.kv.Set(ctx, KeyTheme, data)
}
