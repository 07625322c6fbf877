package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"vninvoice/internal/domain"
	"vninvoice/internal/provider"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"missing code", domain.ErrMissingInvoiceCode, http.StatusBadRequest, "MISSING_INVOICE_CODE"},
		{"validation", fmt.Errorf("%w: totals mismatch", domain.ErrValidation), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing provider", domain.ErrMissingProvider, http.StatusBadRequest, "MISSING_PROVIDER"},
		{"unknown provider", fmt.Errorf("%w: other", domain.ErrUnknownProvider), http.StatusBadRequest, "UNKNOWN_PROVIDER"},
		{"incomplete record", domain.ErrIncompleteRecord, http.StatusConflict, "INCOMPLETE_RECORD"},
		{"credential expired", domain.ErrCredentialExpired, http.StatusUnauthorized, "CREDENTIAL_EXPIRED"},
		{"duplicate invoice", domain.ErrDuplicateInvoice, http.StatusConflict, "DUPLICATE_INVOICE"},
		{"auth step", &provider.AuthStepError{Step: "token", Err: errors.New("denied")}, http.StatusBadGateway, "VENDOR_AUTH_FAILED"},
		{"vendor rejection", &provider.RemoteRejectionError{StatusCode: 500, Body: "boom"}, http.StatusBadGateway, "VENDOR_REJECTED"},
		{"malformed response", &provider.MalformedResponseError{Err: errors.New("bad json")}, http.StatusBadGateway, "VENDOR_MALFORMED_RESPONSE"},
		{"transport", &provider.TransportError{Err: errors.New("refused")}, http.StatusBadGateway, "VENDOR_UNREACHABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestAuthStepErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("authenticate: %w", &provider.AuthStepError{Step: "jwt", Err: errors.New("denied")})
	status, code, msg := MapDomainError(err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "VENDOR_AUTH_FAILED", code)
	assert.Contains(t, msg, "jwt")
}
