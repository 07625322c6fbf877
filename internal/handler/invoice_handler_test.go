package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vninvoice/internal/domain"
	"vninvoice/internal/port"
	"vninvoice/mocks"
)

func newTestRouter(svc *mocks.MockInvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInvoiceHandler(svc)

	r := gin.New()
	r.POST("/api/v1/invoices/issue", h.Issue)
	r.POST("/api/v1/invoices/cancel", h.Cancel)
	r.GET("/api/v1/invoices", h.List)
	r.GET("/api/v1/invoices/:code/document", h.DocumentURL)
	r.GET("/api/v1/invoices/:code/document/content", h.DocumentContent)
	return r
}

func TestIssueEndpoint(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("Issue", mock.Anything, mock.Anything, mock.MatchedBy(func(inv domain.InvoiceRequest) bool {
		return inv.Code == "INV-001"
	})).Return(&port.IssueOutput{
		Record: &domain.InvoiceRecord{Code: "INV-001", TransactionID: "FK1"},
	}, nil)

	body := `{"invoice":{"code":"INV-001","lines":[{"type":1,"name":"Cà phê sữa"}],
		"subtotal":"50000","vat_amount":"4000","grand_total":"54000"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/issue", bytes.NewBufferString(body))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestIssueEndpointMapsValidationError(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("Issue", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrMissingInvoiceCode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/issue", bytes.NewBufferString(`{"invoice":{}}`))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_INVOICE_CODE", resp.Error.Code)
}

func TestCancelEndpointRequiresFkey(t *testing.T) {
	svc := new(mocks.MockInvoiceService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/cancel", bytes.NewBufferString(`{}`))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestListEndpointClampsPagination(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("ListLedger", mock.Anything, 0, 20).Return([]domain.InvoiceRecord{}, 0, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices?offset=-5&limit=9999", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDocumentURLEndpoint(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("DocumentURL", mock.Anything, "INV-001").Return("https://signed.example/doc.pdf", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-001/document", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed.example/doc.pdf")
}

func TestDocumentContentEndpointStreamsPDF(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("DocumentContent", mock.Anything, "INV-001").Return([]byte("%PDF-1.4"), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-001/document/content", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=INV-001.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}
