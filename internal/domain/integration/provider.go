package integration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/finerp/backend/internal/domain/shared"
)

// TestResult is the outcome of a connection test
type TestResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// SyncRequest selects what to synchronize
type SyncRequest struct {
	DataType   string         `json:"data_type"` // companies, clients, suppliers, ...
	Parameters map[string]any `json:"parameters,omitempty"`
}

// SyncResult summarizes a synchronization run
type SyncResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Imported  int      `json:"imported"`
	Updated   int      `json:"updated"`
	Failed    int      `json:"failed"`
	Messages  []string `json:"messages"`
}

// Provider is the port implemented by each external system adapter
type Provider interface {
	// Kind returns the provider kind this adapter handles
	Kind() ProviderKind

	// TestConnection checks that the integration's settings reach the system
	TestConnection(ctx context.Context, integration *Integration) (*TestResult, error)

	// Sync pulls data of the requested type from the external system
	Sync(ctx context.Context, integration *Integration, req SyncRequest) (*SyncResult, error)
}

// ErrProviderNotSupported is returned when no adapter serves a kind or operation
var ErrProviderNotSupported = shared.NewValidationError("PROVIDER_NOT_SUPPORTED", "Integration provider is not supported")

// IsNotSupported reports whether err says a kind or operation has no adapter
func IsNotSupported(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Reason == ErrProviderNotSupported.Reason
}

// Registry maps provider kinds to adapters
type Registry struct {
	mu        sync.RWMutex
	providers map[ProviderKind]Provider
}

// NewRegistry creates a registry holding the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[ProviderKind]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces the adapter for its kind
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Kind()] = p
}

// Get returns the adapter for the kind
func (r *Registry) Get(kind ProviderKind) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[kind]
	if !ok {
		return nil, shared.NewValidationError(ErrProviderNotSupported.Reason,
			fmt.Sprintf("No provider is registered for kind %q", kind))
	}
	return p, nil
}

// Kinds returns the registered kinds, sorted
func (r *Registry) Kinds() []ProviderKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]ProviderKind, 0, len(r.providers))
	for k := range r.providers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
