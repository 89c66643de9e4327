package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/hassanfarid/fbr-invoice-service/internal/currency"
	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
	"github.com/hassanfarid/fbr-invoice-service/internal/fbr"
)

// Page geometry in millimeters. The receipt size matches an 80mm thermal
// roll; the standard format is portrait A4.
const (
	receiptWidth  = 80
	receiptHeight = 200
	a4Width       = 210
)

// Filename returns the download name for an exported document.
func Filename(inv domain.Invoice, format domain.Format) string {
	if format == domain.FormatReceipt {
		return fmt.Sprintf("receipt-%s.pdf", inv.InvoiceNumber)
	}
	return fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber)
}

// PDF renders the document in the requested format and returns the encoded
// bytes. Long documents flow onto additional pages.
func PDF(inv domain.Invoice, format domain.Format) ([]byte, error) {
	receipt := format == domain.FormatReceipt

	var pdf *gofpdf.Fpdf
	var pageWidth, margin float64
	if receipt {
		pdf = gofpdf.NewCustom(&gofpdf.InitType{
			OrientationStr: "P",
			UnitStr:        "mm",
			Size:           gofpdf.SizeType{Wd: receiptWidth, Ht: receiptHeight},
		})
		pageWidth, margin = receiptWidth, 4
	} else {
		pdf = gofpdf.New("P", "mm", "A4", "")
		pageWidth, margin = a4Width, 10
	}

	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	usable := pageWidth - 2*margin

	writeHeader(pdf, inv, usable, receipt)
	writeParties(pdf, inv, usable, receipt)
	writeItems(pdf, inv, usable, receipt)
	writeTotals(pdf, inv, usable, receipt)
	writeNotes(pdf, inv, usable, receipt)
	if err := writeCompliance(pdf, inv, usable, receipt); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to assemble PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) {
	titleSize, bodySize := 16.0, 10.0
	if receipt {
		titleSize, bodySize = 11, 7
	}

	pdf.SetFont("Helvetica", "B", titleSize)
	name := inv.Company.Name
	if name == "" {
		name = "Tax Invoice"
	}
	pdf.CellFormat(usable, titleSize/2, name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", bodySize-2)
	for _, line := range []string{
		joinNonEmpty(inv.Company.Address, inv.Company.City),
		joinNonEmpty(inv.Company.Phone, inv.Company.Email),
		ntnLine(inv.Company),
	} {
		if line != "" {
			pdf.CellFormat(usable, 4, line, "", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(usable, 5, "Invoice "+inv.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize-2)
	pdf.CellFormat(usable, 4, "Date: "+domain.DisplayDate(inv.InvoiceDate), "", 1, "L", false, 0, "")
	if !receipt {
		pdf.CellFormat(usable, 4, "Due: "+domain.DisplayDate(inv.DueDate), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func writeParties(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) {
	if inv.Client.Name == "" {
		return
	}
	bodySize := 9.0
	if receipt {
		bodySize = 7
	}

	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(usable, 5, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize-1)
	for _, line := range []string{
		inv.Client.Name,
		joinNonEmpty(inv.Client.Address, inv.Client.City),
		ntnLine(inv.Client),
	} {
		if line != "" {
			pdf.CellFormat(usable, 4, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(2)
}

func writeItems(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) {
	bodySize := 9.0
	if receipt {
		bodySize = 6.5
	}

	descW := usable * 0.40
	qtyW := usable * 0.12
	rateW := usable * 0.16
	gstW := usable * 0.12
	amountW := usable - descW - qtyW - rateW - gstW

	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(descW, 5, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 5, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(rateW, 5, "Rate", "B", 0, "R", false, 0, "")
	pdf.CellFormat(gstW, 5, "GST %", "B", 0, "R", false, 0, "")
	pdf.CellFormat(amountW, 5, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", bodySize)
	for _, item := range inv.Items {
		description := item.Description
		if item.MeasurementUnit != "" {
			description = fmt.Sprintf("%s (%s)", description, item.MeasurementUnit)
		}
		pdf.CellFormat(descW, 5, description, "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 5, trimZeros(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(rateW, 5, fmt.Sprintf("%.2f", item.Rate), "", 0, "R", false, 0, "")
		pdf.CellFormat(gstW, 5, trimZeros(item.TaxRatePercent), "", 0, "R", false, 0, "")
		pdf.CellFormat(amountW, 5, fmt.Sprintf("%.2f", item.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func writeTotals(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) {
	bodySize := 9.0
	if receipt {
		bodySize = 7
	}
	labelW := usable * 0.6
	valueW := usable - labelW

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, bodySize)
		pdf.CellFormat(labelW, 5, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, 5, value, "", 1, "R", false, 0, "")
	}

	row("Subtotal", currency.Format(inv.Subtotal), false)
	row("Sales Tax", currency.Format(inv.TaxAmount), false)
	row("Total", currency.Format(inv.Total), true)

	if receipt && inv.CashReceived != 0 {
		row("Cash Received", currency.Format(inv.CashReceived), false)
		row("Change Due", currency.Format(domain.ChangeDue(inv.CashReceived, inv.Total)), false)
	}
	pdf.Ln(2)
}

func writeNotes(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) {
	bodySize := 8.0
	if receipt {
		bodySize = 6
	}
	pdf.SetFont("Helvetica", "", bodySize)
	if inv.Notes != "" {
		pdf.MultiCell(usable, 4, "Notes: "+inv.Notes, "", "L", false)
	}
	if inv.Terms != "" {
		pdf.MultiCell(usable, 4, "Terms: "+inv.Terms, "", "L", false)
	}
	pdf.Ln(2)
}

func writeCompliance(pdf *gofpdf.Fpdf, inv domain.Invoice, usable float64, receipt bool) error {
	fields := fbr.InvoiceFields{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		CompanyNTN:    inv.Company.NTN,
		TotalAmount:   inv.Total,
		TaxAmount:     inv.TaxAmount,
	}
	code := fbr.VerificationCode(fields)

	barcodePNG, err := BarcodePNG(code, 400, 80)
	if err != nil {
		return err
	}
	qrPNG, err := QRCodePNG(fbr.QRPayload(fields), 256)
	if err != nil {
		return err
	}

	bodySize := 8.0
	barcodeW, qrSide := 60.0, 22.0
	if receipt {
		bodySize, barcodeW, qrSide = 6, 50, 16
	}

	options := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("fbr-barcode", options, bytes.NewReader(barcodePNG))
	pdf.RegisterImageOptionsReader("fbr-qrcode", options, bytes.NewReader(qrPNG))

	pdf.SetFont("Helvetica", "B", bodySize)
	pdf.CellFormat(usable, 5, "FBR Verification: "+code, "", 1, "L", false, 0, "")

	left := pdf.GetX()
	top := pdf.GetY()
	pdf.ImageOptions("fbr-barcode", left, top, barcodeW, barcodeW/5, false, options, 0, "")
	pdf.ImageOptions("fbr-qrcode", left+barcodeW+4, top, qrSide, qrSide, false, options, 0, "")
	pdf.SetY(top + qrSide + 2)

	pdf.SetFont("Helvetica", "", bodySize-1)
	pdf.CellFormat(usable, 4, "Verify at "+fbr.PortalURL, "", 1, "L", false, 0, "")
	return nil
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func ntnLine(p domain.Party) string {
	switch {
	case p.NTN != "" && p.STRN != "":
		return fmt.Sprintf("NTN %s / STRN %s", p.NTN, p.STRN)
	case p.NTN != "":
		return "NTN " + p.NTN
	case p.STRN != "":
		return "STRN " + p.STRN
	default:
		return ""
	}
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if s[len(s)-3:] == ".00" {
		return s[:len(s)-3]
	}
	return s
}
