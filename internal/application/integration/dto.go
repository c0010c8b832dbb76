package integration

import (
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// CreateIntegrationRequest represents a request to register an external system
type CreateIntegrationRequest struct {
	Name        string         `json:"name" binding:"required,min=1,max=100"`
	Kind        string         `json:"kind" binding:"required,oneof=GENERIC_HTTP OMIE CONTA_AZUL"`
	Category    string         `json:"category" binding:"required,min=1,max=50"`
	Description string         `json:"description" binding:"max=1000"`
	BaseURL     string         `json:"base_url" binding:"omitempty,url,max=255"`
	AppKey      string         `json:"app_key" binding:"max=255"`
	AppSecret   string         `json:"app_secret" binding:"max=255"`
	Token       string         `json:"token" binding:"max=500"`
	Settings    map[string]any `json:"settings"`
	Active      *bool          `json:"active"`
}

// UpdateIntegrationRequest represents a partial update of an integration.
// Empty secret fields keep the stored secret.
type UpdateIntegrationRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=1,max=100"`
	Category    *string        `json:"category" binding:"omitempty,min=1,max=50"`
	Description *string        `json:"description" binding:"omitempty,max=1000"`
	BaseURL     *string        `json:"base_url" binding:"omitempty,url,max=255"`
	AppKey      *string        `json:"app_key" binding:"omitempty,max=255"`
	AppSecret   *string        `json:"app_secret" binding:"omitempty,max=255"`
	Token       *string        `json:"token" binding:"omitempty,max=500"`
	Settings    map[string]any `json:"settings"`
	Active      *bool          `json:"active"`
}

// IntegrationResponse represents an integration in API responses. Secrets are
// never returned; HasSecret tells whether one is stored.
type IntegrationResponse struct {
	ID          uuid.UUID      `json:"id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	BaseURL     string         `json:"base_url,omitempty"`
	AppKey      string         `json:"app_key,omitempty"`
	HasSecret   bool           `json:"has_secret"`
	Settings    map[string]any `json:"settings,omitempty"`
	Active      bool           `json:"active"`
	Tested      bool           `json:"tested"`
	LastSyncAt  *time.Time     `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IntegrationListFilter defines filtering options for integration list queries
type IntegrationListFilter struct {
	Search   string `form:"search"`
	Kind     string `form:"kind" binding:"omitempty,oneof=GENERIC_HTTP OMIE CONTA_AZUL"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SyncIntegrationRequest represents a request to run a synchronization
type SyncIntegrationRequest struct {
	IntegrationID uuid.UUID      `json:"integration_id" binding:"required"`
	DataType      string         `json:"data_type" binding:"required,min=1,max=50"`
	Parameters    map[string]any `json:"parameters"`
}

// KindResponse describes a provider kind and whether it can be used
type KindResponse struct {
	Kind      string `json:"kind"`
	Supported bool   `json:"supported"`
}

func toIntegrationResponse(i *integration.Integration) *IntegrationResponse {
	return &IntegrationResponse{
		ID:          i.ID,
		TenantID:    i.TenantID,
		Name:        i.Name,
		Kind:        string(i.Kind),
		Category:    i.Category,
		Description: i.Description,
		BaseURL:     i.BaseURL,
		AppKey:      i.AppKey,
		HasSecret:   i.HasSecret(),
		Settings:    i.Settings,
		Active:      i.Active,
		Tested:      i.Tested,
		LastSyncAt:  i.LastSyncAt,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
