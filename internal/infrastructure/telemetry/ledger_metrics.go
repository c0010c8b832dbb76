package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Outcome labels for ledger operations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// LedgerMetrics tracks payment activity and settlement transitions.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	operationTotal    *Counter
	operationDuration *Histogram
	paymentTotal      *Counter
	paymentAmount     *Counter
	transitionTotal   *Counter
	retryTotal        *Counter
	integrationErrors *Counter
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   LedgerMetrics
		err error
	)
	if m.operationTotal, err = NewCounter(meter,
		"finerp_ledger_operation_total", "Ledger operations by name and outcome", "{operations}"); err != nil {
		return nil, err
	}
	if m.operationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "finerp_ledger_operation_duration_seconds",
		Description: "Ledger operation latency including the transaction",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.paymentTotal, err = NewCounter(meter,
		"finerp_payment_recorded_total", "Payments recorded against payables", "{payments}"); err != nil {
		return nil, err
	}
	if m.paymentAmount, err = NewCounter(meter,
		"finerp_payment_amount_total", "Recorded payment amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if m.transitionTotal, err = NewCounter(meter,
		"finerp_payable_status_transition_total", "Payable status changes caused by settlement", "{transitions}"); err != nil {
		return nil, err
	}
	if m.retryTotal, err = NewCounter(meter,
		"finerp_ledger_retry_total", "Ledger transactions retried after a serialization failure", "{retries}"); err != nil {
		return nil, err
	}
	if m.integrationErrors, err = NewCounter(meter,
		"finerp_integration_error_total", "Errors reported by integration operations", "{errors}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOperation records one ledger operation with its outcome and latency.
func (m *LedgerMetrics) RecordOperation(ctx context.Context, tenantID uuid.UUID, operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operationTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrOperation.String(operation),
		AttrOutcome.String(outcome),
	)
	m.operationDuration.RecordDuration(ctx, elapsed, AttrOperation.String(operation))
}

// RecordPayment records a new payment and its amount.
func (m *LedgerMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, method string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	tenant := AttrTenantID.String(tenantID.String())
	methodAttr := AttrPaymentMethod.String(method)
	m.paymentTotal.Inc(ctx, tenant, methodAttr)
	m.paymentAmount.Add(ctx, amount.Shift(2).IntPart(), tenant, methodAttr)
}

// RecordStatusTransition records a settlement-driven status change.
func (m *LedgerMetrics) RecordStatusTransition(ctx context.Context, tenantID uuid.UUID, from, to string) {
	if m == nil || from == to {
		return
	}
	m.transitionTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrFromStatus.String(from),
		AttrToStatus.String(to),
	)
}

// RecordRetry records a retried ledger transaction.
func (m *LedgerMetrics) RecordRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.retryTotal.Inc(ctx)
}

// RecordIntegrationError records an error reported by an integration operation.
func (m *LedgerMetrics) RecordIntegrationError(ctx context.Context, providerKind, operation, errorType string) {
	if m == nil {
		return
	}
	m.integrationErrors.Inc(ctx,
		AttrProviderKind.String(providerKind),
		AttrOperation.String(operation),
		AttrErrorType.String(errorType),
	)
}
