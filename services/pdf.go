// services/pdf.go
package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"garagebill-backend/billing"
	"garagebill-backend/models"
)

// Page geometry in millimetres, A4 portrait.
const (
	pageMargin = 15.0
	lineHeight = 5.0

	logoWidth  = 50.0
	logoHeight = 20.0
	qrSize     = 30.0

	// Vertical zone above the page bottom reserved for the pinned
	// terms-and-conditions block.
	termsReserve = 45.0
)

// Column widths of the items table (sums to the printable width).
var tableWidths = [4]float64{95, 20, 32.5, 32.5}

var tableHeaders = [4]string{"Service", "Qty", "Price", "Amount"}

// PDFService renders invoices into printable A4 documents. Rendering is
// deterministic and single-pass: each block starts where the previous
// one actually ended, except the terms block, which stays pinned to the
// page bottom.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// FileName is the download name for an exported invoice.
func (s *PDFService) FileName(inv models.Invoice) string {
	return fmt.Sprintf("Invoice-%s.pdf", inv.InvoiceNumber)
}

// Render lays out the invoice and company profile onto one or more A4
// pages and returns the PDF bytes. Missing fields are omitted from
// their line groups; no placeholder text is substituted.
func (s *PDFService) Render(inv models.Invoice, profile models.CompanyProfile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()

	headerBottom := s.renderHeader(pdf, inv, profile, pageWidth)
	y := s.renderBillTo(pdf, inv, headerBottom+10)
	y = s.renderItemsTable(pdf, inv, y+8, pageHeight)
	s.renderTotals(pdf, inv, profile, y+10, pageWidth, pageHeight)
	s.renderTerms(pdf, profile, pageWidth, pageHeight)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

// renderHeader draws the logo, the company identity block and the
// top-right invoice block, and returns the lowest y any of them reached.
func (s *PDFService) renderHeader(pdf *gofpdf.Fpdf, inv models.Invoice, profile models.CompanyProfile, pageWidth float64) float64 {
	bottom := pageMargin

	if profile.Logo != "" {
		if registerDataImage(pdf, "logo", profile.Logo) {
			pdf.ImageOptions("logo", pageMargin, pageMargin, logoWidth, logoHeight, false,
				gofpdf.ImageOptions{}, 0, "")
			bottom = pageMargin + logoHeight
		}
	}

	// Company identity to the right of the logo box.
	textX := pageMargin + 60
	if profile.CompanyName != "" {
		pdf.SetFont("Arial", "B", 18)
		pdf.SetXY(textX, pageMargin+2)
		pdf.CellFormat(90, 8, pdfText(pdf, profile.CompanyName), "", 0, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	y := pageMargin + 12
	for _, line := range nonEmpty(
		profile.Address,
		prefixed("Phone: ", profile.Phone),
		prefixed("Email: ", profile.Email),
		profile.Website,
	) {
		pdf.SetXY(textX, y)
		pdf.CellFormat(90, lineHeight, pdfText(pdf, line), "", 0, "L", false, 0, "")
		y += lineHeight
	}
	if y > bottom {
		bottom = y
	}

	// Top-right invoice block.
	rightX := pageWidth - pageMargin - 45
	pdf.SetFont("Arial", "B", 12)
	pdf.SetXY(rightX, pageMargin+2)
	pdf.CellFormat(45, 8, "INVOICE", "", 0, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetXY(rightX, pageMargin+12)
	pdf.CellFormat(45, lineHeight, pdfText(pdf, "Invoice #: "+inv.InvoiceNumber), "", 0, "R", false, 0, "")
	pdf.SetXY(rightX, pageMargin+17)
	pdf.CellFormat(45, lineHeight, "Date: "+billing.FormatDate(inv.Date), "", 0, "R", false, 0, "")
	if pageMargin+22 > bottom {
		bottom = pageMargin + 22
	}

	return bottom
}

func (s *PDFService) renderBillTo(pdf *gofpdf.Fpdf, inv models.Invoice, startY float64) float64 {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageMargin, startY)
	pdf.CellFormat(60, 6, "Bill To:", "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	y := startY + 8
	for _, line := range nonEmpty(
		inv.CustomerName,
		inv.CustomerAddress,
		prefixed("Phone: ", inv.CustomerPhone),
		prefixed("Email: ", inv.CustomerEmail),
		prefixed("Vehicle Number: ", inv.VehicleNumber),
	) {
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(120, lineHeight, pdfText(pdf, line), "", 0, "L", false, 0, "")
		y += lineHeight
	}
	return y
}

// renderItemsTable emits the header row and one row per line item in
// input order, breaking to a new page (header re-emitted) whenever the
// next row would cross into the bottom reserve. Returns the table end y.
func (s *PDFService) renderItemsTable(pdf *gofpdf.Fpdf, inv models.Invoice, startY, pageHeight float64) float64 {
	const headerH, rowH = 8.0, 7.0

	y := s.tableHeaderRow(pdf, startY, headerH)
	for _, item := range inv.Items {
		if y+rowH > pageHeight-termsReserve {
			pdf.AddPage()
			y = s.tableHeaderRow(pdf, pageMargin, headerH)
		}

		label := item.Service
		if item.Description != "" {
			label += " - " + item.Description
		}

		pdf.SetFont("Arial", "", 9)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(tableWidths[0], rowH, pdfText(pdf, label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableWidths[1], rowH, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableWidths[2], rowH, money(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(tableWidths[3], rowH, money(billing.Amount(item)), "1", 0, "R", false, 0, "")
		y += rowH
	}
	return y
}

func (s *PDFService) tableHeaderRow(pdf *gofpdf.Fpdf, y, h float64) float64 {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(69, 69, 69)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(pageMargin, y)
	for i, header := range tableHeaders {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(tableWidths[i], h, header, "1", 0, align, true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	return y + h
}

// renderTotals emits the right-aligned totals block directly below the
// table end, plus the optional QR code on the left at the same height.
// Only lines with something to say advance the cursor: the tax and
// discount lines appear only when their percentage is positive.
func (s *PDFService) renderTotals(pdf *gofpdf.Fpdf, inv models.Invoice, profile models.CompanyProfile, startY, pageWidth, pageHeight float64) float64 {
	totals := billing.InvoiceTotals(inv)

	// Keep the whole block on one page.
	if startY+26 > pageHeight-termsReserve {
		pdf.AddPage()
		startY = pageMargin
	}

	if profile.QRCode != "" {
		if registerDataImage(pdf, "qrcode", profile.QRCode) {
			pdf.ImageOptions("qrcode", pageMargin, startY-5, qrSize, qrSize, false,
				gofpdf.ImageOptions{}, 0, "")
		}
	}

	labelX := pageWidth - pageMargin - 80
	y := startY

	line := func(label, value string, bold bool) {
		style, h := "", lineHeight
		if bold {
			style, h = "B", 6.0
		}
		pdf.SetFont("Arial", style, 10)
		pdf.SetXY(labelX, y)
		pdf.CellFormat(40, h, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, h, value, "", 0, "R", false, 0, "")
		y += h
	}

	line("Subtotal:", money(totals.Subtotal), false)
	if inv.Tax > 0 {
		line(fmt.Sprintf("Tax (%g%%):", inv.Tax), money(totals.TaxAmount), false)
	}
	if inv.Discount > 0 {
		line(fmt.Sprintf("Discount (%g%%):", inv.Discount), money(totals.DiscountAmount), false)
	}
	line("Total:", money(totals.Total), true)

	return y
}

// renderTerms pins the terms block to a fixed offset from the page
// bottom, independent of how much content preceded it.
func (s *PDFService) renderTerms(pdf *gofpdf.Fpdf, profile models.CompanyProfile, pageWidth, pageHeight float64) {
	if profile.TermsAndConditions == "" {
		return
	}
	y := pageHeight - pageMargin - 30
	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(80, lineHeight, "Terms and Conditions:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(pageMargin, y+lineHeight)
	pdf.MultiCell(pageWidth-2*pageMargin, 4, pdfText(pdf, profile.TermsAndConditions), "", "L", false)
}

// money formats a monetary cell with two decimal places. The built-in
// core fonts are cp1252-only, so the rupee sign becomes an Rs. prefix
// in the document itself.
func money(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}

// pdfText maps UTF-8 input onto the cp1252 core-font charset.
func pdfText(pdf *gofpdf.Fpdf, s string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")(s)
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func nonEmpty(lines ...string) []string {
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// registerDataImage decodes a base64 data URI and registers it under
// name. Returns false (image silently skipped) when the payload is not
// a decodable PNG or JPEG data URI.
func registerDataImage(pdf *gofpdf.Fpdf, name, dataURI string) bool {
	comma := strings.Index(dataURI, ",")
	if comma < 0 || !strings.HasPrefix(dataURI, "data:image/") {
		return false
	}

	imageType := "PNG"
	if strings.Contains(dataURI[:comma], "jpeg") || strings.Contains(dataURI[:comma], "jpg") {
		imageType = "JPG"
	}

	raw, err := base64.StdEncoding.DecodeString(dataURI[comma+1:])
	if err != nil {
		return false
	}

	info := pdf.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(raw))
	if info == nil || !pdf.Ok() {
		// A broken image must not poison the rest of the document.
		pdf.ClearError()
		return false
	}
	return true
}
