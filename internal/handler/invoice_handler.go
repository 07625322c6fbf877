package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/export"
	"vninvoice/internal/service"
)

// InvoiceHandler handles invoice issuance and ledger endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// invoiceBody is the request body for issue, replace and preview. The
// provider block is an optional per-request configuration override.
type invoiceBody struct {
	Provider *config.ProviderOverride `json:"provider"`
	Invoice  domain.InvoiceRequest    `json:"invoice"`
}

// fkeyBody is the request body for operations addressed by the vendor's
// invoice identifier.
type fkeyBody struct {
	Provider *config.ProviderOverride `json:"provider"`
	Fkey     string                   `json:"fkey"`
}

// Issue handles POST /api/v1/invoices/issue
func (h *InvoiceHandler) Issue(c *gin.Context) {
	var body invoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	out, err := h.invoiceService.Issue(c.Request.Context(), body.Provider, body.Invoice)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{
		"record":   out.Record,
		"document": out.Document,
		"response": out.Response,
	})
}

// Replace handles POST /api/v1/invoices/replace
func (h *InvoiceHandler) Replace(c *gin.Context) {
	var body invoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	out, err := h.invoiceService.Replace(c.Request.Context(), body.Provider, body.Invoice)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"record":   out.Record,
		"document": out.Document,
		"response": out.Response,
	})
}

// Preview handles POST /api/v1/invoices/preview
func (h *InvoiceHandler) Preview(c *gin.Context) {
	var body invoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	resp, err := h.invoiceService.Preview(c.Request.Context(), body.Provider, body.Invoice)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// Cancel handles POST /api/v1/invoices/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	var body fkeyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if body.Fkey == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_FKEY", "fkey field is required")
		return
	}

	resp, err := h.invoiceService.Cancel(c.Request.Context(), body.Provider, body.Fkey)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// ListRemote handles GET /api/v1/invoices/remote
func (h *InvoiceHandler) ListRemote(c *gin.Context) {
	resp, err := h.invoiceService.ListRemote(c.Request.Context(), nil)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, resp)
}

// GetRemote handles GET /api/v1/invoices/remote/:fkey
func (h *InvoiceHandler) GetRemote(c *gin.Context) {
	fkey := c.Param("fkey")
	if fkey == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_FKEY", "fkey parameter is required")
		return
	}

	resp, err := h.invoiceService.GetRemote(c.Request.Context(), nil, fkey)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, resp)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := h.invoiceService.ListLedger(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/invoices/export
func (h *InvoiceHandler) Export(c *gin.Context) {
	const exportLimit = 10000

	records, _, err := h.invoiceService.ListLedger(c.Request.Context(), 0, exportLimit)
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := export.WriteLedger(records)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename(time.Now()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// DocumentURL handles GET /api/v1/invoices/:code/document
func (h *InvoiceHandler) DocumentURL(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_CODE", "code parameter is required")
		return
	}

	url, err := h.invoiceService.DocumentURL(c.Request.Context(), code)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}

// DocumentContent handles GET /api/v1/invoices/:code/document/content
func (h *InvoiceHandler) DocumentContent(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_CODE", "code parameter is required")
		return
	}

	pdf, err := h.invoiceService.DocumentContent(c.Request.Context(), code)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+code+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
