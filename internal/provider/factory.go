package provider

import (
	"fmt"

	"vninvoice/internal/docstore"
	"vninvoice/internal/domain"
	"vninvoice/internal/ledger"
	"vninvoice/internal/port"
)

// Deps carries the collaborators shared by every vendor adapter.
type Deps struct {
	Transport *Client
	Ledger    *ledger.Sync
	Store     *docstore.Store
}

// Factory is a function that creates an InvoiceProvider from shared deps.
type Factory func(deps Deps) port.InvoiceProvider

// Registry resolves a configured provider identifier to its adapter. It is
// populated once at startup; no runtime discovery.
type Registry struct {
	deps      Deps
	factories map[string]Factory
}

// NewRegistry creates an empty registry bound to the shared deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, factories: map[string]Factory{}}
}

// Register adds a vendor adapter factory under its provider identifier.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Resolve returns the adapter for the given provider identifier.
func (r *Registry) Resolve(name string) (port.InvoiceProvider, error) {
	if name == "" {
		return nil, domain.ErrMissingProvider
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}
	return factory(r.deps), nil
}
