package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"garagebill-backend/models"
)

const invoicesKey = "invoices"

// ListInvoices loads the whole collection, normalizes legacy line-item
// shapes and sorts most-recent-first (creation timestamp, falling back
// to the invoice date). An empty store yields an empty slice.
func (s *Store) ListInvoices() ([]models.Invoice, error) {
	raw, found, err := s.Get(invoicesKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Invoice{}, nil
	}

	var invoices []models.Invoice
	if err := json.Unmarshal(raw, &invoices); err != nil {
		return nil, fmt.Errorf("invoices blob corrupt: %w", err)
	}

	for i := range invoices {
		for j := range invoices[i].Items {
			invoices[i].Items[j].Normalize()
		}
	}

	sort.SliceStable(invoices, func(a, b int) bool {
		return invoices[a].EffectiveTimestamp().After(invoices[b].EffectiveTimestamp())
	})
	return invoices, nil
}

// GetInvoice finds one record by invoice number.
func (s *Store) GetInvoice(number string) (models.Invoice, bool, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return models.Invoice{}, false, err
	}
	for _, inv := range invoices {
		if inv.InvoiceNumber == number {
			return inv, true, nil
		}
	}
	return models.Invoice{}, false, nil
}

// SaveInvoice writes one invoice into the collection: a new number is
// prepended, an existing number is replaced in place with updatedAt
// set. The whole collection is rewritten in one store write.
func (s *Store) SaveInvoice(inv models.Invoice) (models.Invoice, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return models.Invoice{}, err
	}

	replaced := false
	for i := range invoices {
		if invoices[i].InvoiceNumber == inv.InvoiceNumber {
			now := time.Now()
			inv.UpdatedAt = &now
			invoices[i] = inv
			replaced = true
			break
		}
	}
	if !replaced {
		if inv.CreatedAt.IsZero() {
			inv.CreatedAt = time.Now()
		}
		invoices = append([]models.Invoice{inv}, invoices...)
	}

	if err := s.writeInvoices(invoices); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// DeleteInvoice filters exactly one record out of the collection by
// invoice number; the relative order of the rest is unchanged.
func (s *Store) DeleteInvoice(number string) (bool, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return false, err
	}

	kept := invoices[:0]
	removed := false
	for _, inv := range invoices {
		if !removed && inv.InvoiceNumber == number {
			removed = true
			continue
		}
		kept = append(kept, inv)
	}
	if !removed {
		return false, nil
	}
	return true, s.writeInvoices(kept)
}

// NextInvoiceNumber generates INV-### one past the highest existing
// number, zero-padded to three digits. It never fails: when the stored
// collection cannot be read, a timestamp-derived number is used instead.
func (s *Store) NextInvoiceNumber() string {
	invoices, err := s.ListInvoices()
	if err != nil {
		// Last three digits of the millisecond clock keep the
		// number unique enough without a readable collection.
		ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
		return "INV-" + ms[len(ms)-3:]
	}

	next := 1
	for _, inv := range invoices {
		parts := strings.SplitN(inv.InvoiceNumber, "-", 2)
		if len(parts) != 2 {
			continue
		}
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("INV-%03d", next)
}

func (s *Store) writeInvoices(invoices []models.Invoice) error {
	raw, err := json.Marshal(invoices)
	if err != nil {
		return err
	}
	return s.Put(invoicesKey, raw)
}
