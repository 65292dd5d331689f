package billing

import (
	"strings"
	"time"

	"garagebill-backend/models"
	"garagebill-backend/utils"
)

// VehicleTypeAll is the sentinel that disables the vehicle predicate.
const VehicleTypeAll = "all"

// Filter narrows the saved-invoices list. Zero-valued fields are
// inactive; active predicates combine with logical AND.
type Filter struct {
	Search      string   // substring across customer name, invoice number, registration
	DateFrom    string   // YYYY-MM-DD, inclusive
	DateTo      string   // YYYY-MM-DD, inclusive
	MinAmount   *float64 // on the computed total, inclusive
	MaxAmount   *float64
	VehicleType string // exact vehicleNumber match, "" or "all" passes everything
}

// Matches reports whether the invoice satisfies every active predicate.
func (f Filter) Matches(inv models.Invoice) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(inv.CustomerName), term) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), term) &&
			!strings.Contains(strings.ToLower(inv.VehicleRegistration), term) {
			return false
		}
	}

	if f.DateFrom != "" || f.DateTo != "" {
		date, err := inv.ParsedDate()
		if err != nil {
			// An unparseable date cannot satisfy an active date bound.
			return false
		}
		if f.DateFrom != "" {
			from, err := time.Parse(models.DateLayout, f.DateFrom)
			if err == nil && date.Before(utils.BeginningOfDay(from)) {
				return false
			}
		}
		if f.DateTo != "" {
			to, err := time.Parse(models.DateLayout, f.DateTo)
			if err == nil && date.After(utils.EndOfDay(to)) {
				return false
			}
		}
	}

	if f.MinAmount != nil || f.MaxAmount != nil {
		total := InvoiceTotals(inv).Total
		if f.MinAmount != nil && total < *f.MinAmount {
			return false
		}
		if f.MaxAmount != nil && total > *f.MaxAmount {
			return false
		}
	}

	if f.VehicleType != "" && f.VehicleType != VehicleTypeAll {
		if inv.VehicleNumber != f.VehicleType {
			return false
		}
	}

	return true
}

// Apply evaluates the filter over the whole collection, preserving the
// input order. It is recomputed from scratch on every call; there is no
// incremental index.
func Apply(invoices []models.Invoice, f Filter) []models.Invoice {
	filtered := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.Matches(inv) {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}
