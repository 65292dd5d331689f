// controllers/invoice.go
package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"garagebill-backend/billing"
	"garagebill-backend/models"
	"garagebill-backend/services"
	"garagebill-backend/store"
	"garagebill-backend/utils"
)

type InvoiceController struct {
	store    *store.Store
	pdf      *services.PDFService
	notifier *services.Notifier
}

func NewInvoiceController(st *store.Store, pdf *services.PDFService, notifier *services.Notifier) *InvoiceController {
	return &InvoiceController{store: st, pdf: pdf, notifier: notifier}
}

// LineItemInput defines the structure for one billable row
type LineItemInput struct {
	Service     string  `json:"service"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// InvoiceInput defines the expected JSON structure for saving an invoice
type InvoiceInput struct {
	InvoiceNumber       string          `json:"invoiceNumber"`
	Date                string          `json:"date"`
	CustomerName        string          `json:"customerName" binding:"required"`
	CustomerEmail       string          `json:"customerEmail"`
	CustomerPhone       string          `json:"customerPhone"`
	CustomerAddress     string          `json:"customerAddress"`
	VehicleNumber       string          `json:"vehicleNumber"`
	VehicleRegistration string          `json:"vehicleRegistration"`
	Items               []LineItemInput `json:"items" binding:"required,min=1"`
	Discount            float64         `json:"discount"`
	Tax                 float64         `json:"tax"`
	Notes               string          `json:"notes"`
}

func (in InvoiceInput) toModel() models.Invoice {
	items := make([]models.LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, models.LineItem{
			Service:     item.Service,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return models.Invoice{
		InvoiceNumber:       in.InvoiceNumber,
		Date:                in.Date,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		CustomerAddress:     in.CustomerAddress,
		VehicleNumber:       in.VehicleNumber,
		VehicleRegistration: in.VehicleRegistration,
		Items:               items,
		Discount:            in.Discount,
		Tax:                 in.Tax,
		Notes:               in.Notes,
	}
}

// validateItems enforces the save/preview/export gate: every line item
// needs a non-empty service label.
func validateItems(items []LineItemInput) bool {
	for _, item := range items {
		if item.Service == "" {
			return false
		}
	}
	return true
}

// CreateInvoice saves a new invoice. The invoice number is assigned
// server-side when the client leaves it blank; the record is prepended
// to the collection (most-recent-first).
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !validateItems(input.Items) {
		utils.RespondWithError(c, http.StatusBadRequest, "Please fill in all service items")
		return
	}

	inv := input.toModel()
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = ic.store.NextInvoiceNumber()
	}
	if inv.Date == "" {
		inv.Date = time.Now().Format(models.DateLayout)
	}

	saved, err := ic.store.SaveInvoice(inv)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save invoice")
		return
	}

	if c.Query("notify") == "true" {
		profile, _ := ic.store.CompanyProfile()
		ic.notifier.SendInvoiceSummary(saved, profile)
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice": saved,
		"totals":  billing.InvoiceTotals(saved),
	})
}

// GetInvoices returns the collection, newest first, narrowed by the
// filter query parameters. The filter is evaluated fresh on every call.
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	invoices, err := ic.store.ListInvoices()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	filter := billing.Filter{
		Search:      c.Query("q"),
		DateFrom:    c.Query("dateFrom"),
		DateTo:      c.Query("dateTo"),
		VehicleType: c.Query("vehicleType"),
	}
	if v := c.Query("minAmount"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinAmount = &amount
		}
	}
	if v := c.Query("maxAmount"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxAmount = &amount
		}
	}

	filtered := billing.Apply(invoices, filter)
	rows := make([]billing.Row, 0, len(filtered))
	for _, inv := range filtered {
		rows = append(rows, billing.FormatRow(inv))
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": filtered,
		"rows":     rows,
		"total":    len(filtered),
	})
}

// GetInvoice retrieves one invoice by number.
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	inv, found, err := ic.store.GetInvoice(c.Param("number"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice": inv,
		"totals":  billing.InvoiceTotals(inv),
	})
}

// UpdateInvoice replaces an existing invoice in place, matched by
// invoice number. The invoice date and creation timestamp are kept from
// the stored record.
func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	number := c.Param("number")

	existing, found, err := ic.store.GetInvoice(number)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !validateItems(input.Items) {
		utils.RespondWithError(c, http.StatusBadRequest, "Please fill in all service items")
		return
	}

	inv := input.toModel()
	inv.InvoiceNumber = number
	inv.Date = existing.Date
	inv.CreatedAt = existing.CreatedAt

	saved, err := ic.store.SaveInvoice(inv)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice": saved,
		"totals":  billing.InvoiceTotals(saved),
	})
}

// DeleteInvoice removes exactly one record by invoice number.
func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	removed, err := ic.store.DeleteInvoice(c.Param("number"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	if !removed {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Invoice deleted successfully")
}

// NextNumber returns the number the next saved invoice would get.
func (ic *InvoiceController) NextNumber(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"invoiceNumber": ic.store.NextInvoiceNumber()})
}

// DownloadPDF renders the invoice document and returns it as an
// attachment named Invoice-<number>.pdf.
func (ic *InvoiceController) DownloadPDF(c *gin.Context) {
	inv, found, err := ic.store.GetInvoice(c.Param("number"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	profile, err := ic.store.CompanyProfile()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	doc, err := ic.pdf.Render(inv, profile)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error generating PDF")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ic.pdf.FileName(inv)+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// previewPayload is the ephemeral hand-off record behind the preview
// screen. Unlike the exported PDF, it substitutes literal fallback text
// for missing fields.
type previewPayload struct {
	Invoice        models.Invoice        `json:"invoice"`
	Totals         billing.Totals        `json:"totals"`
	CompanyDetails models.CompanyProfile `json:"companyDetails"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// CreatePreview stores a preview hand-off record and returns its token.
func (ic *InvoiceController) CreatePreview(c *gin.Context) {
	var input InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !validateItems(input.Items) {
		utils.RespondWithError(c, http.StatusBadRequest, "Please fill in all service items")
		return
	}

	profile, err := ic.store.CompanyProfile()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if profile.CompanyName == "" {
		profile.CompanyName = "Company Name"
	}

	inv := input.toModel()
	fallback(&inv.CustomerEmail)
	fallback(&inv.CustomerPhone)
	fallback(&inv.CustomerAddress)
	fallback(&inv.VehicleNumber)

	payload := previewPayload{
		Invoice:        inv,
		Totals:         billing.InvoiceTotals(inv),
		CompanyDetails: profile,
		CreatedAt:      time.Now(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create preview")
		return
	}

	token := uuid.NewString()
	if err := ic.store.SavePreview(token, raw); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create preview")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// GetPreview returns a stored preview payload.
func (ic *InvoiceController) GetPreview(c *gin.Context) {
	raw, found, err := ic.store.Preview(c.Param("token"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		utils.RespondWithError(c, http.StatusNotFound, "Preview not found")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func fallback(field *string) {
	if *field == "" {
		*field = "N/A"
	}
}
