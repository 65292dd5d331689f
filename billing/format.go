package billing

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"garagebill-backend/models"
)

// DisplayDateLayout is the day/month/year form shown in lists and PDFs.
const DisplayDateLayout = "02/01/2006"

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// Currency formats an amount with the rupee glyph and Indian digit
// grouping, always two decimal places.
func Currency(amount float64) string {
	return enIN.Sprintf("₹%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate converts a stored YYYY-MM-DD date to dd/MM/yyyy. Values
// that do not parse are returned unchanged, so formatting an already
// formatted date is a no-op.
func FormatDate(date string) string {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(DisplayDateLayout)
}

// Row is the presentational shape of one saved-invoices table row.
type Row struct {
	InvoiceNumber string `json:"invoiceNumber"`
	CustomerName  string `json:"customerName"`
	VehicleNumber string `json:"vehicleNumber"`
	Date          string `json:"date"`
	Total         string `json:"total"`
}

// FormatRow derives the display fields for one invoice. Purely
// presentational; the invoice itself is not touched.
func FormatRow(inv models.Invoice) Row {
	vehicle := inv.VehicleNumber
	if vehicle == "" {
		vehicle = "N/A"
	}
	return Row{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		VehicleNumber: vehicle,
		Date:          FormatDate(inv.Date),
		Total:         Currency(InvoiceTotals(inv).Total),
	}
}
