package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassanfarid/fbr-invoice-service/internal/model"
	"github.com/hassanfarid/fbr-invoice-service/internal/repository"
	"github.com/hassanfarid/fbr-invoice-service/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv, err := repository.NewFileKVStore(t.TempDir())
	require.NoError(t, err)
	svc := service.NewInvoiceService(repository.NewStateStore(kv))

	router := gin.New()
	NewInvoiceHandler(svc).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeInvoice(t *testing.T, w *httptest.ResponseRecorder) model.InvoiceResponse {
	t.Helper()
	var resp model.InvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetInvoiceReturnsFreshDocument(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/invoice", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeInvoice(t, w)
	assert.Regexp(t, `^FBR-\d{8}-\d{6}$`, resp.Invoice.InvoiceNumber)
	assert.Empty(t, resp.Invoice.Items)
}

func TestItemLifecycle(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/invoice/items", "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeInvoice(t, w)
	require.Len(t, resp.Invoice.Items, 1)
	id := resp.Invoice.Items[0].ID

	w = doJSON(t, router, http.MethodPatch, "/v1/invoice/items/"+id,
		`{"description":"Milk","quantity":2,"rate":50}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeInvoice(t, w)
	assert.Equal(t, 0.0, resp.Invoice.Items[0].TaxRatePercent)
	assert.Equal(t, 100.0, resp.Invoice.Subtotal)
	assert.Equal(t, 100.0, resp.Invoice.Total)

	w = doJSON(t, router, http.MethodDelete, "/v1/invoice/items/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeInvoice(t, w)
	assert.Empty(t, resp.Invoice.Items)
	assert.Zero(t, resp.Invoice.Total)
}

func TestUpdateItemCoercesMalformedNumbers(t *testing.T) {
	router := newTestRouter(t)

	resp := decodeInvoice(t, doJSON(t, router, http.MethodPost, "/v1/invoice/items", ""))
	id := resp.Invoice.Items[0].ID

	w := doJSON(t, router, http.MethodPatch, "/v1/invoice/items/"+id,
		`{"quantity":"not a number","rate":"50"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeInvoice(t, w)
	assert.Equal(t, 0.0, resp.Invoice.Items[0].Quantity)
	assert.Equal(t, 50.0, resp.Invoice.Items[0].Rate)
	assert.Equal(t, 0.0, resp.Invoice.Items[0].Amount)
}

func TestUpdateUnknownItemIs404(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/v1/invoice/items/no-such-id", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateInvoiceValidatesTaxIDs(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/v1/invoice",
		`{"company":{"name":"Store","ntn":"not-an-ntn"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "company.ntn", resp.Details[0].Field)

	// Well-formed ids go through and land on the document.
	w = doJSON(t, router, http.MethodPatch, "/v1/invoice",
		`{"company":{"name":"Store","ntn":"1234567-8","strn":"12345678901"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp2 := decodeInvoice(t, w)
	assert.Equal(t, "1234567-8", resp2.Invoice.Company.NTN)
}

func TestResetIssuesNewNumber(t *testing.T) {
	router := newTestRouter(t)

	first := decodeInvoice(t, doJSON(t, router, http.MethodGet, "/v1/invoice", ""))

	w := doJSON(t, router, http.MethodPost, "/v1/invoice/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeInvoice(t, w)

	assert.NotEqual(t, first.Invoice.InvoiceNumber, second.Invoice.InvoiceNumber)
}

func TestCompliancePayload(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/invoice/compliance", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ComplianceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^FBR\d{8}$`, resp.VerificationCode)
	assert.Contains(t, resp.QRPayload, `"fbr_portal":"https://iris.fbr.gov.pk"`)
}

func TestExportDownload(t *testing.T) {
	router := newTestRouter(t)

	inv := decodeInvoice(t, doJSON(t, router, http.MethodGet, "/v1/invoice", "")).Invoice

	req := httptest.NewRequest(http.MethodGet, "/v1/invoice/export?format=receipt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-"+inv.InvoiceNumber+".pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestPreferencesRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/v1/preferences", `{"format":"receipt","dark_theme":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)

	var prefs model.PreferencesDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, "receipt", prefs.Format)
	assert.True(t, prefs.DarkTheme)
}
