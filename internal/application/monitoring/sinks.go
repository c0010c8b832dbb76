package monitoring

import (
	"context"
	"fmt"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ZapSink writes events as structured error logs
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a ZapSink
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Report implements ErrorSink
func (s *ZapSink) Report(_ context.Context, event ErrorEvent) {
	fields := []zap.Field{
		zap.String("tenant_id", event.TenantID.String()),
		zap.String("operation", event.Operation),
		zap.String("error_type", event.ErrorType),
		zap.Error(event.Err),
	}
	if event.IntegrationID != nil {
		fields = append(fields, zap.String("integration_id", event.IntegrationID.String()))
	}
	if event.ProviderKind != "" {
		fields = append(fields, zap.String("provider_kind", event.ProviderKind))
	}
	if len(event.Context) > 0 {
		fields = append(fields, zap.Any("context", event.Context))
	}
	s.logger.Error("Integration operation failed", fields...)
}

// MetricsSink counts events on the integration error counter
type MetricsSink struct {
	metrics *telemetry.LedgerMetrics
}

// NewMetricsSink creates a MetricsSink
func NewMetricsSink(metrics *telemetry.LedgerMetrics) *MetricsSink {
	return &MetricsSink{metrics: metrics}
}

// Report implements ErrorSink
func (s *MetricsSink) Report(ctx context.Context, event ErrorEvent) {
	s.metrics.RecordIntegrationError(ctx, event.ProviderKind, event.Operation, event.ErrorType)
}

// LogRepositorySink persists events as ERROR rows in the integration log,
// which is what the health analysis reads back
type LogRepositorySink struct {
	logs   integration.LogRepository
	logger *zap.Logger
}

// NewLogRepositorySink creates a LogRepositorySink
func NewLogRepositorySink(logs integration.LogRepository, logger *zap.Logger) *LogRepositorySink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogRepositorySink{logs: logs, logger: logger}
}

// Report implements ErrorSink
func (s *LogRepositorySink) Report(ctx context.Context, event ErrorEvent) {
	entry := integration.NewLog(event.TenantID, event.IntegrationID, event.Operation, integration.LogStatusError,
		fmt.Sprintf("Error in %s: %s", event.Operation, event.Message()))
	entry.ErrorType = event.ErrorType
	entry.Details = event.Context
	entry.Failed = 1
	if !event.OccurredAt.IsZero() {
		entry.OccurredAt = event.OccurredAt
	}

	// The failing request may already be cancelled.
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("Failed to persist integration error",
			zap.String("operation", event.Operation),
			zap.Error(err),
		)
	}
}
