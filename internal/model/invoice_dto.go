package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
)

// LenientNumber accepts JSON numbers, numeric strings, or garbage. Malformed
// numeric input is coerced to zero at this boundary and never propagated as
// an error, matching how the edit form treats bad quantity/rate/cash input.
type LenientNumber float64

// UnmarshalJSON implements the coercion. It never fails.
func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.Trim(raw, `"`)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = LenientNumber(value)
	return nil
}

// PartyDTO mirrors domain.Party on the wire.
type PartyDTO struct {
	Name    string `json:"name"`
	NTN     string `json:"ntn,omitempty"`
	STRN    string `json:"strn,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// UpdateInvoiceRequest carries top-level document edits. Absent fields are
// left untouched.
type UpdateInvoiceRequest struct {
	InvoiceDate    *string        `json:"invoice_date"`
	DueDate        *string        `json:"due_date"`
	Company        *PartyDTO      `json:"company"`
	Client         *PartyDTO      `json:"client"`
	TaxRatePercent *LenientNumber `json:"tax_rate_percent"`
	Notes          *string        `json:"notes"`
	Terms          *string        `json:"terms"`
	CashReceived   *LenientNumber `json:"cash_received"`
}

// ToPatch converts the request to a domain patch.
func (r *UpdateInvoiceRequest) ToPatch() domain.InvoicePatch {
	patch := domain.InvoicePatch{
		InvoiceDate: r.InvoiceDate,
		DueDate:     r.DueDate,
		Notes:       r.Notes,
		Terms:       r.Terms,
	}
	if r.Company != nil {
		company := r.Company.toDomain()
		patch.Company = &company
	}
	if r.Client != nil {
		client := r.Client.toDomain()
		patch.Client = &client
	}
	if r.TaxRatePercent != nil {
		rate := float64(*r.TaxRatePercent)
		patch.TaxRatePercent = &rate
	}
	if r.CashReceived != nil {
		cash := float64(*r.CashReceived)
		patch.CashReceived = &cash
	}
	return patch
}

// UpdateItemRequest carries line-item edits. Absent fields are left untouched.
type UpdateItemRequest struct {
	Description     *string        `json:"description"`
	Quantity        *LenientNumber `json:"quantity"`
	Rate            *LenientNumber `json:"rate"`
	TaxRatePercent  *LenientNumber `json:"tax_rate_percent"`
	MeasurementUnit *string        `json:"measurement_unit"`
}

// ToPatch converts the request to a domain patch.
func (r *UpdateItemRequest) ToPatch() domain.ItemPatch {
	patch := domain.ItemPatch{
		Description:     r.Description,
		MeasurementUnit: r.MeasurementUnit,
	}
	if r.Quantity != nil {
		qty := float64(*r.Quantity)
		patch.Quantity = &qty
	}
	if r.Rate != nil {
		rate := float64(*r.Rate)
		patch.Rate = &rate
	}
	if r.TaxRatePercent != nil {
		taxRate := float64(*r.TaxRatePercent)
		patch.TaxRatePercent = &taxRate
	}
	return patch
}

func (p *PartyDTO) toDomain() domain.Party {
	return domain.Party{
		Name:    p.Name,
		NTN:     p.NTN,
		STRN:    p.STRN,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
		City:    p.City,
	}
}

// InvoiceResponse wraps the document for API responses.
type InvoiceResponse struct {
	Invoice domain.Invoice `json:"invoice"`
}

// ComplianceResponse carries the FBR artifacts for the current document.
type ComplianceResponse struct {
	VerificationCode string `json:"verification_code"`
	QRPayload        string `json:"qr_payload"`
	PortalURL        string `json:"portal_url"`
}

// PreferencesDTO carries the persisted presentation settings.
type PreferencesDTO struct {
	Format    string `json:"format"`
	DarkTheme bool   `json:"dark_theme"`
}

// ErrorDetail provides field-level context on an error response.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// MarshalJSON is implemented on LenientNumber so round-tripped DTOs emit
// plain numbers.
func (n LenientNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}
