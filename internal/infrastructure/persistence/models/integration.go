package models

import (
	"encoding/json"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// IntegrationModel is the persistence model for the Integration aggregate root.
type IntegrationModel struct {
	TenantAggregateModel
	Name         string                   `gorm:"type:varchar(100);not null"`
	Kind         integration.ProviderKind `gorm:"type:varchar(30);not null;index"`
	Category     string                   `gorm:"type:varchar(50);not null"`
	Description  string                   `gorm:"type:text"`
	BaseURL      string                   `gorm:"type:varchar(255)"`
	AppKey       string                   `gorm:"type:varchar(255)"`
	AppSecret    string                   `gorm:"type:varchar(255)"`
	Token        string                   `gorm:"type:varchar(500)"`
	SettingsJSON string                   `gorm:"type:jsonb;column:settings"`
	Active       bool                     `gorm:"not null;index"`
	Tested       bool                     `gorm:"not null"`
	LastSyncAt   *time.Time
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "integrations"
}

// ToDomain converts the persistence model to a domain Integration entity.
func (m *IntegrationModel) ToDomain() *integration.Integration {
	return &integration.Integration{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Kind:                m.Kind,
		Category:            m.Category,
		Description:         m.Description,
		BaseURL:             m.BaseURL,
		AppKey:              m.AppKey,
		AppSecret:           m.AppSecret,
		Token:               m.Token,
		Settings:            decodeJSONMap(m.SettingsJSON),
		Active:              m.Active,
		Tested:              m.Tested,
		LastSyncAt:          m.LastSyncAt,
	}
}

// IntegrationModelFromDomain creates a new persistence model from a domain Integration entity.
func IntegrationModelFromDomain(i *integration.Integration) *IntegrationModel {
	m := &IntegrationModel{
		Name:         i.Name,
		Kind:         i.Kind,
		Category:     i.Category,
		Description:  i.Description,
		BaseURL:      i.BaseURL,
		AppKey:       i.AppKey,
		AppSecret:    i.AppSecret,
		Token:        i.Token,
		SettingsJSON: encodeJSONMap(i.Settings),
		Active:       i.Active,
		Tested:       i.Tested,
		LastSyncAt:   i.LastSyncAt,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// IntegrationLogModel is the persistence model for an integration log entry.
type IntegrationLogModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID             `gorm:"type:uuid;not null;index:idx_integration_log_tenant_time,priority:1"`
	IntegrationID *uuid.UUID            `gorm:"type:uuid;index"`
	Operation     string                `gorm:"type:varchar(50);not null;index"`
	Status        integration.LogStatus `gorm:"type:varchar(20);not null;index"`
	Message       string                `gorm:"type:text"`
	ErrorType     string                `gorm:"type:varchar(50)"`
	DetailsJSON   string                `gorm:"type:jsonb;column:details"`
	Processed     int                   `gorm:"not null;default:0"`
	Imported      int                   `gorm:"not null;default:0"`
	Updated       int                   `gorm:"not null;default:0"`
	Failed        int                   `gorm:"not null;default:0"`
	OccurredAt    time.Time             `gorm:"not null;index:idx_integration_log_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (IntegrationLogModel) TableName() string {
	return "integration_logs"
}

// ToDomain converts the persistence model to a domain Log entry.
func (m *IntegrationLogModel) ToDomain() *integration.Log {
	return &integration.Log{
		ID:            m.ID,
		TenantID:      m.TenantID,
		IntegrationID: m.IntegrationID,
		Operation:     m.Operation,
		Status:        m.Status,
		Message:       m.Message,
		ErrorType:     m.ErrorType,
		Details:       decodeJSONMap(m.DetailsJSON),
		Processed:     m.Processed,
		Imported:      m.Imported,
		Updated:       m.Updated,
		Failed:        m.Failed,
		OccurredAt:    m.OccurredAt,
	}
}

// IntegrationLogModelFromDomain creates a new persistence model from a domain Log entry.
func IntegrationLogModelFromDomain(l *integration.Log) *IntegrationLogModel {
	return &IntegrationLogModel{
		ID:            l.ID,
		TenantID:      l.TenantID,
		IntegrationID: l.IntegrationID,
		Operation:     l.Operation,
		Status:        l.Status,
		Message:       l.Message,
		ErrorType:     l.ErrorType,
		DetailsJSON:   encodeJSONMap(l.Details),
		Processed:     l.Processed,
		Imported:      l.Imported,
		Updated:       l.Updated,
		Failed:        l.Failed,
		OccurredAt:    l.OccurredAt,
	}
}

// encodeJSONMap stores nil and unmarshalable maps as an empty object
func encodeJSONMap(v map[string]any) string {
	if len(v) == 0 {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func decodeJSONMap(s string) map[string]any {
	out := map[string]any{}
	if s == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}
