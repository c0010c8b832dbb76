package integration

import (
	"context"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LogStatus is the outcome recorded in an integration log
type LogStatus string

const (
	LogStatusSuccess LogStatus = "SUCCESS"
	LogStatusError   LogStatus = "ERROR"
)

// Log is a persisted record of an integration operation outcome
type Log struct {
	ID            uuid.UUID      `json:"id"`
	TenantID      uuid.UUID      `json:"tenant_id"`
	IntegrationID *uuid.UUID     `json:"integration_id,omitempty"`
	Operation     string         `json:"operation"`
	Status        LogStatus      `json:"status"`
	Message       string         `json:"message"`
	ErrorType     string         `json:"error_type,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
	Processed     int            `json:"processed"`
	Imported      int            `json:"imported"`
	Updated       int            `json:"updated"`
	Failed        int            `json:"failed"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// NewLog creates a log entry stamped now
func NewLog(tenantID uuid.UUID, integrationID *uuid.UUID, operation string, status LogStatus, message string) *Log {
	return &Log{
		ID:            uuid.New(),
		TenantID:      tenantID,
		IntegrationID: integrationID,
		Operation:     operation,
		Status:        status,
		Message:       message,
		OccurredAt:    time.Now(),
	}
}

// OperationErrorCount is the number of errors recorded for one operation
type OperationErrorCount struct {
	Operation string `json:"operation"`
	Count     int64  `json:"count"`
}

// IntegrationFilter defines filtering options for integration queries
type IntegrationFilter struct {
	shared.Filter
	Kind   *ProviderKind
	Active *bool
}

// IntegrationRepository defines persistence for integrations
type IntegrationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Integration, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter IntegrationFilter) ([]Integration, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter IntegrationFilter) (int64, error)
	Save(ctx context.Context, integration *Integration) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LogRepository defines persistence for integration logs
type LogRepository interface {
	Create(ctx context.Context, log *Log) error
	FindRecentErrors(ctx context.Context, tenantID uuid.UUID, limit int) ([]Log, error)
	CountErrorsByOperation(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]OperationErrorCount, error)
}
