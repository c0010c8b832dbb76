package integration

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProviderKind identifies the adapter that talks to an external system
type ProviderKind string

const (
	// ProviderKindGenericHTTP checks an arbitrary HTTP API by its base URL
	ProviderKindGenericHTTP ProviderKind = "GENERIC_HTTP"
	// ProviderKindOmie is the Omie ERP API
	ProviderKindOmie ProviderKind = "OMIE"
	// ProviderKindContaAzul is the ContaAzul API
	ProviderKindContaAzul ProviderKind = "CONTA_AZUL"
)

// AllProviderKinds returns every known provider kind
func AllProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderKindGenericHTTP, ProviderKindOmie, ProviderKindContaAzul}
}

// IsValid returns true if the kind is known
func (k ProviderKind) IsValid() bool {
	for _, known := range AllProviderKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the string representation of ProviderKind
func (k ProviderKind) String() string {
	return string(k)
}

// Integration holds the connection settings of one external system.
// Name is a display label only; adapter selection uses Kind.
type Integration struct {
	shared.TenantAggregateRoot
	Name        string         `json:"name"`
	Kind        ProviderKind   `json:"kind"`
	Category    string         `json:"category"` // ERP, CRM, FINANCE, ...
	Description string         `json:"description"`
	BaseURL     string         `json:"base_url"`
	AppKey      string         `json:"app_key"`
	AppSecret   string         `json:"-"`
	Token       string         `json:"-"`
	Settings    map[string]any `json:"settings"`
	Active      bool           `json:"active"`
	Tested      bool           `json:"tested"`
	LastSyncAt  *time.Time     `json:"last_sync_at,omitempty"`
}

// NewIntegration creates an active, untested integration
func NewIntegration(tenantID uuid.UUID, name string, kind ProviderKind, category string) (*Integration, error) {
	i := &Integration{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Settings:            map[string]any{},
		Active:              true,
	}
	if err := i.Rename(name, category); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_PROVIDER_KIND", fmt.Sprintf("Unknown provider kind %q", kind))
	}
	i.Kind = kind
	return i, nil
}

// Rename sets the display name and category
func (i *Integration) Rename(name, category string) error {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Integration name must have 1 to 100 characters")
	}
	if category == "" || len(category) > 50 {
		return shared.NewValidationError("INVALID_CATEGORY", "Integration category must have 1 to 50 characters")
	}
	i.Name = name
	i.Category = strings.ToUpper(category)
	i.touch()
	return nil
}

// Configure replaces the connection settings. Any change invalidates a
// previous successful test.
func (i *Integration) Configure(baseURL, appKey, appSecret, token string) error {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return shared.NewValidationError("INVALID_BASE_URL", "Base URL must be an absolute http(s) URL")
		}
	}
	if len(baseURL) > 255 || len(appKey) > 255 || len(appSecret) > 255 || len(token) > 500 {
		return shared.NewValidationError("INVALID_SETTINGS", "Connection settings exceed the allowed length")
	}
	if baseURL != i.BaseURL || appKey != i.AppKey || appSecret != i.AppSecret || token != i.Token {
		i.Tested = false
	}
	i.BaseURL = baseURL
	i.AppKey = appKey
	i.AppSecret = appSecret
	i.Token = token
	i.touch()
	return nil
}

// SetDescription sets the description
func (i *Integration) SetDescription(description string) {
	i.Description = description
	i.touch()
}

// SetSettings replaces the provider-specific settings
func (i *Integration) SetSettings(settings map[string]any) {
	if settings == nil {
		settings = map[string]any{}
	}
	i.Settings = settings
	i.touch()
}

// SetActive toggles the integration
func (i *Integration) SetActive(active bool) {
	i.Active = active
	i.touch()
}

// RecordTest stores the outcome of a connection test
func (i *Integration) RecordTest(success bool) {
	i.Tested = success
	i.touch()
}

// CanSync returns nil if the integration may be synchronized
func (i *Integration) CanSync() error {
	if !i.Active {
		return shared.NewValidationError("INTEGRATION_INACTIVE", "Integration is not active")
	}
	if !i.Tested {
		return shared.NewValidationError("INTEGRATION_NOT_TESTED", "Integration connection has not been tested successfully")
	}
	return nil
}

// MarkSynced stamps the last successful synchronization
func (i *Integration) MarkSynced(at time.Time) {
	i.LastSyncAt = &at
	i.touch()
}

// HasSecret reports whether a secret or token is configured
func (i *Integration) HasSecret() bool {
	return i.AppSecret != "" || i.Token != ""
}

func (i *Integration) touch() {
	i.Touch()
	i.IncrementVersion()
}
