package domain

import "errors"

var (
	ErrNotFound           = errors.New("invoice not found in ledger")
	ErrMissingProvider    = errors.New("no invoice provider configured")
	ErrUnknownProvider    = errors.New("unknown invoice provider")
	ErrValidation         = errors.New("invoice data failed validation")
	ErrMissingInvoiceCode = errors.New("invoice code is required")
	ErrIncompleteRecord   = errors.New("ledger record is missing series or invoice number")
	ErrCredentialExpired  = errors.New("credential bundle has expired")
	ErrDuplicateInvoice   = errors.New("invoice code already exists in ledger")
)
