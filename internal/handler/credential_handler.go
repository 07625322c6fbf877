package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vninvoice/internal/config"
	"vninvoice/internal/service"
)

// CredentialHandler handles vendor credential endpoints.
type CredentialHandler struct {
	invoiceService service.InvoiceService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(invoiceService service.InvoiceService) *CredentialHandler {
	return &CredentialHandler{invoiceService: invoiceService}
}

type credentialBody struct {
	Provider *config.ProviderOverride `json:"provider"`
}

// Refresh handles POST /api/v1/credentials
// Runs the vendor authentication chain and returns the fresh bundle.
func (h *CredentialHandler) Refresh(c *gin.Context) {
	var body credentialBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	bundle, err := h.invoiceService.GetCredential(c.Request.Context(), body.Provider)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, bundle)
}
