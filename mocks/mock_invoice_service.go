package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/port"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Issue(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	args := m.Called(ctx, override, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IssueOutput), args.Error(1)
}

func (m *MockInvoiceService) Replace(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	args := m.Called(ctx, override, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IssueOutput), args.Error(1)
}

func (m *MockInvoiceService) Preview(ctx context.Context, override *config.ProviderOverride, inv domain.InvoiceRequest) (*port.RemoteResponse, error) {
	args := m.Called(ctx, override, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceService) Cancel(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error) {
	args := m.Called(ctx, override, fkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceService) ListRemote(ctx context.Context, override *config.ProviderOverride) (*port.RemoteResponse, error) {
	args := m.Called(ctx, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceService) GetRemote(ctx context.Context, override *config.ProviderOverride, fkey string) (*port.RemoteResponse, error) {
	args := m.Called(ctx, override, fkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceService) GetCredential(ctx context.Context, override *config.ProviderOverride) (*domain.CredentialBundle, error) {
	args := m.Called(ctx, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CredentialBundle), args.Error(1)
}

func (m *MockInvoiceService) ListLedger(ctx context.Context, offset, limit int) ([]domain.InvoiceRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceRecord), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) DocumentURL(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceService) DocumentContent(ctx context.Context, code string) ([]byte, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
