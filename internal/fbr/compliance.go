// Package fbr produces the Federal Board of Revenue compliance artifacts
// printed on invoices: the verification code, the QR payload and the id
// format checks. The verification code is a presentation-layer checksum, not
// a cryptographic proof; it must not be used for authentication.
package fbr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PortalURL is the FBR verification portal embedded in every QR payload.
const PortalURL = "https://iris.fbr.gov.pk"

// ntnPlaceholder stands in for a missing issuer NTN so the hash input keeps a
// fixed shape.
const ntnPlaceholder = "00000000000"

var (
	ntnPattern  = regexp.MustCompile(`^\d{7}-\d{1}$`)
	strnPattern = regexp.MustCompile(`^\d{11}$`)
)

// InvoiceFields are the identifying fields the compliance artifacts are
// derived from. InvoiceDate is consumed exactly as stored, never reformatted.
type InvoiceFields struct {
	InvoiceNumber string
	InvoiceDate   string
	CompanyNTN    string
	TotalAmount   float64
	TaxAmount     float64
}

// VerificationCode derives the 11-character "FBR" + 8 digit code. The hash is
// a 32-bit signed rolling hash (acc = acc*31 + char with two's complement
// wraparound); identical inputs always yield identical codes.
func VerificationCode(fields InvoiceFields) string {
	input := fmt.Sprintf("%s|%s|%s|%.2f|%.2f",
		fields.InvoiceNumber,
		fields.InvoiceDate,
		issuerNTN(fields),
		fields.TotalAmount,
		fields.TaxAmount,
	)

	var acc int32
	for _, char := range input {
		acc = acc<<5 - acc + int32(char)
	}

	// abs via int64 so math.MinInt32 keeps its magnitude
	magnitude := int64(acc)
	if magnitude < 0 {
		magnitude = -magnitude
	}

	digits := strconv.FormatInt(magnitude, 10)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	return "FBR" + strings.Repeat("0", 8-len(digits)) + digits
}

// qrRecord is the flat QR payload; field order matches the printed format.
type qrRecord struct {
	Seller       string  `json:"seller"`
	Invoice      string  `json:"invoice"`
	Date         string  `json:"date"`
	Total        float64 `json:"total"`
	Tax          float64 `json:"tax"`
	Verification string  `json:"verification"`
	FBRPortal    string  `json:"fbr_portal"`
}

// QRPayload serializes the compliance record consumed by the QR renderer.
// The payload is opaque to callers; only the scanner-facing format matters.
func QRPayload(fields InvoiceFields) string {
	record := qrRecord{
		Seller:       issuerNTN(fields),
		Invoice:      fields.InvoiceNumber,
		Date:         fields.InvoiceDate,
		Total:        fields.TotalAmount,
		Tax:          fields.TaxAmount,
		Verification: VerificationCode(fields),
		FBRPortal:    PortalURL,
	}
	payload, _ := json.Marshal(record)
	return string(payload)
}

func issuerNTN(fields InvoiceFields) string {
	if fields.CompanyNTN == "" {
		return ntnPlaceholder
	}
	return fields.CompanyNTN
}

// ValidateNTN checks the National Tax Number shape: seven digits, a dash and
// one check digit.
func ValidateNTN(ntn string) bool {
	return ntnPattern.MatchString(ntn)
}

// ValidateSTRN checks the Sales Tax Registration Number shape: eleven digits.
func ValidateSTRN(strn string) bool {
	return strnPattern.MatchString(strn)
}
