// controllers/report.go
package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"garagebill-backend/billing"
	"garagebill-backend/store"
	"garagebill-backend/utils"
)

// ReportController handles all reporting functions
type ReportController struct {
	store *store.Store
}

func NewReportController(st *store.Store) *ReportController {
	return &ReportController{store: st}
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue float64           `json:"currentMonthRevenue"`
	MonthGrowth         float64           `json:"monthGrowth"`
	MonthlyRevenue      []MonthRevenue    `json:"monthlyRevenue"`
	TopServices         []ServiceSummary  `json:"topServices"`
	TopCustomers        []CustomerSummary `json:"topCustomers"`
}

type MonthRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CustomerSummary struct {
	Name     string  `json:"name"`
	Invoices int     `json:"invoices"`
	Spent    float64 `json:"spent"`
}

// GetReportAnalytics aggregates revenue and service stats over the
// whole collection, in memory.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	invoices, err := rc.store.ListInvoices()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	now := time.Now()
	thisMonth := now.Format("2006-01")
	lastMonth := now.AddDate(0, -1, 0).Format("2006-01")

	byMonth := map[string]float64{}
	services := map[string]*ServiceSummary{}
	customers := map[string]*CustomerSummary{}

	for _, inv := range invoices {
		total := billing.InvoiceTotals(inv).Total

		if d, err := inv.ParsedDate(); err == nil {
			byMonth[d.Format("2006-01")] += total
		}

		for _, item := range inv.Items {
			s, ok := services[item.Service]
			if !ok {
				s = &ServiceSummary{Name: item.Service}
				services[item.Service] = s
			}
			s.Count += item.Quantity
			s.Revenue += billing.Amount(item)
		}

		cs, ok := customers[inv.CustomerName]
		if !ok {
			cs = &CustomerSummary{Name: inv.CustomerName}
			customers[inv.CustomerName] = cs
		}
		cs.Invoices++
		cs.Spent += total
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue: byMonth[thisMonth],
		MonthlyRevenue:      lastMonths(byMonth, now, 6),
		TopServices:         topServices(services, 5),
		TopCustomers:        topCustomers(customers, 5),
	}
	if prev := byMonth[lastMonth]; prev > 0 {
		summary.MonthGrowth = (byMonth[thisMonth] - prev) / prev * 100
	}

	c.JSON(http.StatusOK, summary)
}

func lastMonths(byMonth map[string]float64, now time.Time, n int) []MonthRevenue {
	out := make([]MonthRevenue, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, MonthRevenue{Month: month, Revenue: byMonth[month]})
	}
	return out
}

func topServices(services map[string]*ServiceSummary, n int) []ServiceSummary {
	out := make([]ServiceSummary, 0, len(services))
	for _, s := range services {
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Revenue > out[b].Revenue })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topCustomers(customers map[string]*CustomerSummary, n int) []CustomerSummary {
	out := make([]CustomerSummary, 0, len(customers))
	for _, cs := range customers {
		out = append(out, *cs)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Spent > out[b].Spent })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
