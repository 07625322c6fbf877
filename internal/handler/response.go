package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vninvoice/internal/domain"
	"vninvoice/internal/provider"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and provider errors to HTTP status codes
// and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		rejection *provider.RemoteRejectionError
		auth      *provider.AuthStepError
		transport *provider.TransportError
		malformed *provider.MalformedResponseError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrMissingInvoiceCode):
		return http.StatusBadRequest, "MISSING_INVOICE_CODE", "invoice code is required"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED", err.Error()
	case errors.Is(err, domain.ErrMissingProvider):
		return http.StatusBadRequest, "MISSING_PROVIDER", "no invoice provider configured"
	case errors.Is(err, domain.ErrUnknownProvider):
		return http.StatusBadRequest, "UNKNOWN_PROVIDER", "configured invoice provider is not registered"
	case errors.Is(err, domain.ErrIncompleteRecord):
		return http.StatusConflict, "INCOMPLETE_RECORD", "stored invoice record is missing fields required for this operation"
	case errors.Is(err, domain.ErrCredentialExpired):
		return http.StatusUnauthorized, "CREDENTIAL_EXPIRED", "vendor credential bundle has expired"
	case errors.Is(err, domain.ErrDuplicateInvoice):
		return http.StatusConflict, "DUPLICATE_INVOICE", "an invoice with this code already exists"
	case errors.As(err, &auth):
		return http.StatusBadGateway, "VENDOR_AUTH_FAILED", auth.Error()
	case errors.As(err, &rejection):
		return http.StatusBadGateway, "VENDOR_REJECTED", rejection.Error()
	case errors.As(err, &malformed):
		return http.StatusBadGateway, "VENDOR_MALFORMED_RESPONSE", "vendor returned an unreadable response"
	case errors.As(err, &transport):
		return http.StatusBadGateway, "VENDOR_UNREACHABLE", "vendor endpoint could not be reached"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
