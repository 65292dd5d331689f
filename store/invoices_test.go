package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagebill-backend/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	return st
}

func testInvoice(number, name string) models.Invoice {
	return models.Invoice{
		InvoiceNumber: number,
		Date:          "2025-05-01",
		CustomerName:  name,
		Items:         []models.LineItem{{Service: "Oil change", Quantity: 1, Price: 500}},
	}
}

func TestSaveAndListRoundTrip(t *testing.T) {
	st := setupTestStore(t)

	saved, err := st.SaveInvoice(testInvoice("INV-001", "Asha"))
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	got := invoices[0]
	assert.Equal(t, "INV-001", got.InvoiceNumber)
	assert.Equal(t, "Asha", got.CustomerName)
	assert.Equal(t, "2025-05-01", got.Date)
	assert.Equal(t, saved.Items, got.Items)
	assert.Nil(t, got.UpdatedAt)
}

func TestNewInvoicesArePrepended(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.SaveInvoice(testInvoice("INV-001", "First"))
	require.NoError(t, err)
	_, err = st.SaveInvoice(testInvoice("INV-002", "Second"))
	require.NoError(t, err)

	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-002", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-001", invoices[1].InvoiceNumber)
}

func TestEditReplacesInPlace(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.SaveInvoice(testInvoice("INV-001", "First"))
	require.NoError(t, err)
	_, err = st.SaveInvoice(testInvoice("INV-002", "Second"))
	require.NoError(t, err)

	edited := testInvoice("INV-001", "First Edited")
	saved, err := st.SaveInvoice(edited)
	require.NoError(t, err)
	require.NotNil(t, saved.UpdatedAt)

	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	// Position is unchanged, content is replaced.
	assert.Equal(t, "INV-002", invoices[0].InvoiceNumber)
	assert.Equal(t, "First Edited", invoices[1].CustomerName)
	assert.NotNil(t, invoices[1].UpdatedAt)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	st := setupTestStore(t)

	for _, n := range []string{"INV-001", "INV-002", "INV-003"} {
		_, err := st.SaveInvoice(testInvoice(n, "c-"+n))
		require.NoError(t, err)
	}

	removed, err := st.DeleteInvoice("INV-002")
	require.NoError(t, err)
	assert.True(t, removed)

	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-003", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-001", invoices[1].InvoiceNumber)
}

func TestDeleteMissingInvoice(t *testing.T) {
	st := setupTestStore(t)

	removed, err := st.DeleteInvoice("INV-404")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGetInvoice(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.SaveInvoice(testInvoice("INV-001", "Asha"))
	require.NoError(t, err)

	inv, found, err := st.GetInvoice("INV-001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Asha", inv.CustomerName)

	_, found, err = st.GetInvoice("INV-999")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNextInvoiceNumberEmptyCollection(t *testing.T) {
	st := setupTestStore(t)
	assert.Equal(t, "INV-001", st.NextInvoiceNumber())
}

func TestNextInvoiceNumberIncrementsHighest(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.SaveInvoice(testInvoice("INV-002", "a"))
	require.NoError(t, err)
	_, err = st.SaveInvoice(testInvoice("INV-007", "b"))
	require.NoError(t, err)

	assert.Equal(t, "INV-008", st.NextInvoiceNumber())
}

func TestNextInvoiceNumberIgnoresUnparseable(t *testing.T) {
	st := setupTestStore(t)

	_, err := st.SaveInvoice(testInvoice("GARBAGE", "a"))
	require.NoError(t, err)
	_, err = st.SaveInvoice(testInvoice("INV-003", "b"))
	require.NoError(t, err)

	assert.Equal(t, "INV-004", st.NextInvoiceNumber())
}

func TestNextInvoiceNumberFallsBackOnCorruptBlob(t *testing.T) {
	st := setupTestStore(t)
	require.NoError(t, st.Put("invoices", []byte("not json")))

	number := st.NextInvoiceNumber()
	assert.True(t, strings.HasPrefix(number, "INV-"))
	assert.Len(t, number, len("INV-")+3)
}

func TestListNormalizesLegacyItemShape(t *testing.T) {
	st := setupTestStore(t)
	legacy := `[{"invoiceNumber":"INV-001","date":"2025-01-01","customerName":"Old",
		"items":[{"serviceType":"Engine work","description":"full rebuild","quantity":1,"price":9000}],
		"discount":0,"createdAt":"2025-01-01T10:00:00Z"}]`
	require.NoError(t, st.Put("invoices", []byte(legacy)))

	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Len(t, invoices[0].Items, 1)
	assert.Equal(t, "Engine work", invoices[0].Items[0].Service)
	assert.Equal(t, "full rebuild", invoices[0].Items[0].Description)
	assert.Empty(t, invoices[0].Items[0].ServiceType)
}

func TestListSortsByCreatedAtWithDateFallback(t *testing.T) {
	st := setupTestStore(t)

	older := testInvoice("INV-001", "older")
	older.CreatedAt = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := testInvoice("INV-002", "newer")
	newer.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	// No creation timestamp; its date decides its position.
	dated := testInvoice("INV-003", "dated")
	dated.CreatedAt = time.Time{}
	dated.Date = "2025-02-01"

	for _, inv := range []models.Invoice{older, newer} {
		_, err := st.SaveInvoice(inv)
		require.NoError(t, err)
	}
	// Bypass SaveInvoice so the zero CreatedAt is preserved.
	invoices, err := st.ListInvoices()
	require.NoError(t, err)
	raw := append(invoices, dated)
	rawJSON, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, st.Put("invoices", rawJSON))

	sorted, err := st.ListInvoices()
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "INV-002", sorted[0].InvoiceNumber)
	assert.Equal(t, "INV-003", sorted[1].InvoiceNumber)
	assert.Equal(t, "INV-001", sorted[2].InvoiceNumber)
}
