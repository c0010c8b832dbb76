package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenant := uuid.New()
	m.RecordPayment(ctx, tenant, "PIX", decimal.RequireFromString("600.25"))
	m.RecordPayment(ctx, tenant, "CASH", decimal.RequireFromString("400"))
	m.RecordOperation(ctx, tenant, "record_payment", nil, 5*time.Millisecond)
	m.RecordOperation(ctx, tenant, "record_payment", errors.New("x"), time.Millisecond)
	m.RecordStatusTransition(ctx, tenant, "PENDING", "PAID")
	m.RecordStatusTransition(ctx, tenant, "PAID", "PAID")
	m.RecordRetry(ctx)
	m.RecordIntegrationError(ctx, "GENERIC_HTTP", "test", "timeout")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["finerp_payment_recorded_total"]))
	assert.Equal(t, int64(100025), sumOf(t, got["finerp_payment_amount_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["finerp_ledger_operation_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["finerp_payable_status_transition_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["finerp_ledger_retry_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["finerp_integration_error_total"]))
	assert.Contains(t, got, "finerp_ledger_operation_duration_seconds")
}

func TestLedgerMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.LedgerMetrics
	assert.NotPanics(t, func() {
		m.RecordPayment(context.Background(), uuid.New(), "PIX", decimal.NewFromInt(1))
		m.RecordRetry(context.Background())
	})
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewLedgerMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}
