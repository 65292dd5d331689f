package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagebill-backend/controllers"
	"garagebill-backend/models"
	"garagebill-backend/routes"
	"garagebill-backend/services"
	"garagebill-backend/store"
)

type testApp struct {
	router *gin.Engine
	store  *store.Store
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.SeedDefaultCredential())

	pdf := services.NewPDFService()
	notifier := services.NewNotifier()

	router := routes.SetupRouter(routes.Controllers{
		Auth:      controllers.NewAuthController(st),
		Invoices:  controllers.NewInvoiceController(st, pdf, notifier),
		Settings:  controllers.NewSettingsController(st),
		Dashboard: controllers.NewDashboardController(st),
		Reports:   controllers.NewReportController(st),
	})

	app := &testApp{router: router, store: st}
	app.token = app.login(t, models.DefaultUsername, models.DefaultPassword)
	return app
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/login", gin.H{
		"username": username,
		"password": password,
	}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func invoiceBody() gin.H {
	return gin.H{
		"customerName":  "Asha Patel",
		"vehicleNumber": "MH-12-AB-1234",
		"items": []gin.H{
			{"service": "Oil change", "quantity": 2, "price": 500},
			{"service": "Brake pads", "quantity": 1, "price": 1500},
		},
		"discount": 10,
	}
}

func TestCreateInvoiceAssignsNumberAndTotals(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/invoices", invoiceBody(), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Invoice models.Invoice `json:"invoice"`
		Totals  struct {
			Subtotal       float64 `json:"subtotal"`
			DiscountAmount float64 `json:"discountAmount"`
			Total          float64 `json:"total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INV-001", resp.Invoice.InvoiceNumber)
	assert.NotEmpty(t, resp.Invoice.Date)
	assert.Equal(t, 2500.0, resp.Totals.Subtotal)
	assert.Equal(t, 250.0, resp.Totals.DiscountAmount)
	assert.Equal(t, 2250.0, resp.Totals.Total)
}

func TestCreateInvoiceRejectsEmptyServiceLabel(t *testing.T) {
	app := newTestApp(t)

	body := invoiceBody()
	body["items"] = []gin.H{{"service": "", "quantity": 1, "price": 100}}

	w := app.do(t, http.MethodPost, "/api/invoices", body, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in all service items")
}

func TestCreateInvoiceRejectsMissingCustomer(t *testing.T) {
	app := newTestApp(t)

	body := invoiceBody()
	delete(body, "customerName")

	w := app.do(t, http.MethodPost, "/api/invoices", body, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndFilterInvoices(t *testing.T) {
	app := newTestApp(t)

	first := invoiceBody()
	first["customerName"] = "Asha Patel"
	second := invoiceBody()
	second["customerName"] = "Ravi Kumar"

	for _, body := range []gin.H{first, second} {
		w := app.do(t, http.MethodPost, "/api/invoices", body, true)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.do(t, http.MethodGet, "/api/invoices", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Invoices []models.Invoice `json:"invoices"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)

	w = app.do(t, http.MethodGet, "/api/invoices?q=ravi", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Ravi Kumar", resp.Invoices[0].CustomerName)
}

func TestUpdateInvoiceKeepsDateAndPosition(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/invoices", invoiceBody(), true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Invoice models.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body := invoiceBody()
	body["customerName"] = "Asha P."
	body["date"] = "1999-01-01"

	w = app.do(t, http.MethodPut, "/api/invoices/"+created.Invoice.InvoiceNumber, body, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Invoice models.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Asha P.", updated.Invoice.CustomerName)
	// The stored date survives the edit.
	assert.Equal(t, created.Invoice.Date, updated.Invoice.Date)
	require.NotNil(t, updated.Invoice.UpdatedAt)
}

func TestUpdateMissingInvoice(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPut, "/api/invoices/INV-404", invoiceBody(), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteInvoice(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/invoices", invoiceBody(), true)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodDelete, "/api/invoices/INV-001", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, "/api/invoices/INV-001", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNextNumberEndpoint(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/invoices/next-number", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INV-001")
}

func TestDownloadPDF(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/invoices", invoiceBody(), true)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/api/invoices/INV-001/pdf", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice-INV-001.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestPreviewRoundTripSubstitutesFallbacks(t *testing.T) {
	app := newTestApp(t)

	body := invoiceBody()
	body["invoiceNumber"] = "INV-009"

	w := app.do(t, http.MethodPost, "/api/preview", body, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)

	w = app.do(t, http.MethodGet, "/api/preview/"+created.Token, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Invoice        models.Invoice `json:"invoice"`
		CompanyDetails struct {
			CompanyName string `json:"companyName"`
		} `json:"companyDetails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "N/A", payload.Invoice.CustomerEmail)
	assert.Equal(t, "N/A", payload.Invoice.CustomerAddress)
	assert.Equal(t, "Company Name", payload.CompanyDetails.CompanyName)
}

func TestInvoicesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/invoices", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
