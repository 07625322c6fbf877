package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/port"
)

// MockInvoiceProvider is a mock implementation of port.InvoiceProvider.
type MockInvoiceProvider struct {
	mock.Mock
}

func (m *MockInvoiceProvider) Authenticate(ctx context.Context, cfg config.ProviderConfig) (*domain.CredentialBundle, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CredentialBundle), args.Error(1)
}

func (m *MockInvoiceProvider) PreviewDraft(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.RemoteResponse, error) {
	args := m.Called(ctx, cfg, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceProvider) Issue(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	args := m.Called(ctx, cfg, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IssueOutput), args.Error(1)
}

func (m *MockInvoiceProvider) Replace(ctx context.Context, cfg config.ProviderConfig, inv domain.InvoiceRequest) (*port.IssueOutput, error) {
	args := m.Called(ctx, cfg, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.IssueOutput), args.Error(1)
}

func (m *MockInvoiceProvider) Cancel(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	args := m.Called(ctx, cfg, fkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceProvider) ListIssued(ctx context.Context, cfg config.ProviderConfig) (*port.RemoteResponse, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceProvider) GetIssued(ctx context.Context, cfg config.ProviderConfig, fkey string) (*port.RemoteResponse, error) {
	args := m.Called(ctx, cfg, fkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RemoteResponse), args.Error(1)
}

func (m *MockInvoiceProvider) FetchDocument(ctx context.Context, cfg config.ProviderConfig, fkey string) (*domain.DocumentHandle, error) {
	args := m.Called(ctx, cfg, fkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentHandle), args.Error(1)
}
