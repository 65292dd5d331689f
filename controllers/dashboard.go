package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garagebill-backend/billing"
	"garagebill-backend/store"
	"garagebill-backend/utils"
)

type DashboardController struct {
	store *store.Store
}

func NewDashboardController(st *store.Store) *DashboardController {
	return &DashboardController{store: st}
}

type DashboardOverview struct {
	TotalInvoices  int           `json:"totalInvoices"`
	TotalAmount    float64       `json:"totalAmount"`
	MonthlyRevenue float64       `json:"monthlyRevenue"`
	RecentInvoices []billing.Row `json:"recentInvoices"`
}

// GetDashboardOverview computes the landing-screen stats from the whole
// invoice collection.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	invoices, err := dc.store.ListInvoices()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	overview := DashboardOverview{
		TotalInvoices:  len(invoices),
		RecentInvoices: []billing.Row{},
	}
	for _, inv := range invoices {
		total := billing.InvoiceTotals(inv).Total
		overview.TotalAmount += total
		if !inv.EffectiveTimestamp().Before(firstOfMonth) {
			overview.MonthlyRevenue += total
		}
	}

	// The collection is already newest-first.
	for i := 0; i < len(invoices) && i < 5; i++ {
		overview.RecentInvoices = append(overview.RecentInvoices, billing.FormatRow(invoices[i]))
	}

	c.JSON(http.StatusOK, overview)
}
