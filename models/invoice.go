package models

import "time"

// DateLayout is the calendar-date format used on invoices ("2006-01-02").
const DateLayout = "2006-01-02"

type Invoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Date          string `json:"date"` // YYYY-MM-DD, immutable after creation

	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`
	VehicleNumber   string `json:"vehicleNumber,omitempty"`
	// Registration plate, searchable separately from VehicleNumber.
	VehicleRegistration string `json:"vehicleRegistration,omitempty"`

	Items    []LineItem `json:"items"`
	Discount float64    `json:"discount"` // percentage
	Tax      float64    `json:"tax,omitempty"`
	Notes    string     `json:"notes,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ParsedDate returns the invoice date as a time.Time.
func (i Invoice) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, i.Date)
}

// EffectiveTimestamp is the sort key for the saved-invoices list:
// creation timestamp when set, otherwise the invoice date at midnight.
func (i Invoice) EffectiveTimestamp() time.Time {
	if !i.CreatedAt.IsZero() {
		return i.CreatedAt
	}
	if d, err := i.ParsedDate(); err == nil {
		return d
	}
	return time.Time{}
}

type LineItem struct {
	Service     string  `json:"service"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`

	// ServiceType is the label field of the legacy preview-era item
	// shape. Normalized into Service on read, never written back.
	ServiceType string `json:"serviceType,omitempty"`
}

// Normalize folds the legacy serviceType field into Service.
func (li *LineItem) Normalize() {
	if li.Service == "" && li.ServiceType != "" {
		li.Service = li.ServiceType
	}
	li.ServiceType = ""
}
