package billing

import "garagebill-backend/models"

// Totals carries the computed money fields of an invoice. Amounts stay
// at full float precision; rounding happens at display time only.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// Calculate computes line totals for a sequence of items with the given
// tax and discount percentages. Negative quantities, prices and
// percentages are not rejected; they flow through the arithmetic as-is.
func Calculate(items []models.LineItem, taxPct, discountPct float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.Price
	}

	t := Totals{
		Subtotal:       subtotal,
		TaxAmount:      subtotal * taxPct / 100,
		DiscountAmount: subtotal * discountPct / 100,
	}
	t.Total = t.Subtotal + t.TaxAmount - t.DiscountAmount
	return t
}

// InvoiceTotals computes the totals of an invoice record. An absent tax
// or discount field is zero and contributes nothing.
func InvoiceTotals(inv models.Invoice) Totals {
	return Calculate(inv.Items, inv.Tax, inv.Discount)
}

// Amount is the derived line amount; it is never stored.
func Amount(item models.LineItem) float64 {
	return float64(item.Quantity) * item.Price
}
