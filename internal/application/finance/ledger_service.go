package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Ledger operation names used for spans and metrics
const (
	OpRecordPayment = "record_payment"
	OpUpdatePayment = "update_payment"
	OpDeletePayment = "delete_payment"
	OpDeletePayable = "delete_payable"
)

// ErrDuplicateRequest is returned when an Idempotency-Key was already used
var ErrDuplicateRequest = shared.NewConflictError("DUPLICATE_REQUEST", "A request with this idempotency key was already processed")

// LedgerService applies payment mutations and keeps each payable's paid
// amount and status consistent with its payment set.
//
// Every mutation runs in one LedgerScope transaction that locks the payable
// row first, so concurrent mutations of the same payable are serialized.
type LedgerService struct {
	scope          finance.LedgerScope
	payments       finance.PaymentRepository
	ledger         *finance.PayableLedger
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        *telemetry.LedgerMetrics
	logger         *zap.Logger
}

// LedgerServiceOption is a functional option for configuring LedgerService
type LedgerServiceOption func(*LedgerService)

// WithLedgerLogger sets the logger
func WithLedgerLogger(logger *zap.Logger) LedgerServiceOption {
	return func(s *LedgerService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLedgerMetrics sets the metrics recorder
func WithLedgerMetrics(metrics *telemetry.LedgerMetrics) LedgerServiceOption {
	return func(s *LedgerService) {
		s.metrics = metrics
	}
}

// WithIdempotencyStore enables Idempotency-Key handling for RecordPayment
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) LedgerServiceOption {
	return func(s *LedgerService) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithPayableLedger replaces the settlement calculator
func WithPayableLedger(ledger *finance.PayableLedger) LedgerServiceOption {
	return func(s *LedgerService) {
		if ledger != nil {
			s.ledger = ledger
		}
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope finance.LedgerScope, payments finance.PaymentRepository, opts ...LedgerServiceOption) *LedgerService {
	s := &LedgerService{
		scope:          scope,
		payments:       payments,
		ledger:         finance.NewPayableLedger(),
		idempotencyTTL: shared.DefaultIdempotencyTTL,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordPayment registers a payment and settles its payable
func (s *LedgerService) RecordPayment(ctx context.Context, tenantID uuid.UUID, req RecordPaymentRequest) (resp *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", OpRecordPayment)
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperation(ctx, tenantID, OpRecordPayment, err, time.Since(start)) }()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPayableID, req.PayableID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrPaymentMethod, req.Method,
	)

	payment, err := s.newPayment(tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	release, err := s.reserve(ctx, tenantID, req.IdempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var settlement finance.SettlementResult
	err = s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		payable, err := repos.Payables.FindByIDForUpdate(ctx, tenantID, req.PayableID)
		if err != nil {
			return notFound(err, "Payable")
		}
		if err := checkBankAccount(ctx, repos.BankAccounts, tenantID, payment.BankAccountID); err != nil {
			return err
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		settlement, err = s.settle(ctx, repos, payable)
		return err
	})
	if err != nil {
		release()
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordPayment(ctx, tenantID, string(payment.Method), payment.Amount)
	s.afterSettle(ctx, span, tenantID, req.PayableID, settlement)
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, payment.ID.String())

	s.logger.Info("Payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payable_id", req.PayableID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("payable_status", string(settlement.Status)),
	)
	return toPaymentResponse(payment), nil
}

// UpdatePayment edits a payment and re-settles its payable
func (s *LedgerService) UpdatePayment(ctx context.Context, tenantID, paymentID uuid.UUID, req UpdatePaymentRequest) (resp *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", OpUpdatePayment)
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperation(ctx, tenantID, OpUpdatePayment, err, time.Since(start)) }()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPaymentID, paymentID.String(),
	)

	changes := toPaymentChanges(req)

	var (
		payment    *finance.Payment
		settlement finance.SettlementResult
	)
	err = s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		p, payable, err := lockPaymentPayable(ctx, repos, tenantID, paymentID)
		if err != nil {
			return err
		}
		payment = p
		if changes.BankAccountID != nil {
			if err := checkBankAccount(ctx, repos.BankAccounts, tenantID, changes.BankAccountID); err != nil {
				return err
			}
		}
		if err := payment.Apply(changes); err != nil {
			return err
		}
		if err := repos.Payments.Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		settlement, err = s.settle(ctx, repos, payable)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterSettle(ctx, span, tenantID, payment.PayableID, settlement)
	s.logger.Info("Payment updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("payable_status", string(settlement.Status)),
	)
	return toPaymentResponse(payment), nil
}

// DeletePayment removes a payment and returns its re-settled payable
func (s *LedgerService) DeletePayment(ctx context.Context, tenantID, paymentID uuid.UUID) (resp *PayableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", OpDeletePayment)
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperation(ctx, tenantID, OpDeletePayment, err, time.Since(start)) }()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPaymentID, paymentID.String(),
	)

	var (
		payable    *finance.AccountPayable
		settlement finance.SettlementResult
	)
	err = s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		var err error
		_, payable, err = lockPaymentPayable(ctx, repos, tenantID, paymentID)
		if err != nil {
			return err
		}
		if err := repos.Payments.DeleteForTenant(ctx, tenantID, paymentID); err != nil {
			return notFound(err, "Payment")
		}
		settlement, err = s.settle(ctx, repos, payable)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterSettle(ctx, span, tenantID, payable.ID, settlement)
	s.logger.Info("Payment deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("payable_id", payable.ID.String()),
		zap.String("payable_status", string(settlement.Status)),
	)
	return toPayableResponse(payable), nil
}

// DeletePayable deletes a payable that no payment references
func (s *LedgerService) DeletePayable(ctx context.Context, tenantID, payableID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", OpDeletePayable)
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperation(ctx, tenantID, OpDeletePayable, err, time.Since(start)) }()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrPayableID, payableID.String(),
	)

	err = s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		if _, err := repos.Payables.FindByIDForUpdate(ctx, tenantID, payableID); err != nil {
			return notFound(err, "Payable")
		}
		count, err := repos.Payments.CountByPayable(ctx, tenantID, payableID)
		if err != nil {
			return fmt.Errorf("failed to count payments: %w", err)
		}
		if count > 0 {
			return shared.NewConflictError("PAYABLE_HAS_PAYMENTS",
				fmt.Sprintf("Payable has %d payment(s); delete them first", count))
		}
		if err := repos.Payables.DeleteForTenant(ctx, tenantID, payableID); err != nil {
			return notFound(err, "Payable")
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Payable deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payable_id", payableID.String()),
	)
	return nil
}

// GetPayment gets a payment by ID
func (s *LedgerService) GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.payments.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, notFound(err, "Payment")
	}
	return toPaymentResponse(payment), nil
}

// ListPayments lists payments with filtering
func (s *LedgerService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := finance.PaymentFilter{
		PayableID:     filter.PayableID,
		BankAccountID: filter.BankAccountID,
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
	}
	domainFilter.Filter = shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.Method != "" {
		method := finance.PaymentMethod(filter.Method)
		domainFilter.Method = &method
	}

	payments, err := s.payments.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payments.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toPaymentResponses(payments), total, nil
}

func (s *LedgerService) newPayment(tenantID uuid.UUID, req RecordPaymentRequest) (*finance.Payment, error) {
	if req.PaymentDate == nil {
		return nil, shared.NewValidationError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	payment, err := finance.NewPayment(tenantID, req.PayableID, req.Amount, req.PaymentDate.Time, finance.PaymentMethod(req.Method))
	if err != nil {
		return nil, err
	}
	if err := payment.SetDocumentNumber(req.DocumentNumber); err != nil {
		return nil, err
	}
	payment.SetBankAccount(req.BankAccountID)
	payment.Remark = req.Remark
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}
	return payment, nil
}

// reserve claims the idempotency key. The returned func gives the key back
// so a failed request can be retried with it.
func (s *LedgerService) reserve(ctx context.Context, tenantID uuid.UUID, key string) (func(), error) {
	if s.idempotency == nil || key == "" {
		return func() {}, nil
	}
	scoped := tenantID.String() + ":" + key
	ok, err := s.idempotency.Reserve(ctx, scoped, s.idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}
	return func() {
		if err := s.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// settle recomputes the payable from its full payment set and saves it.
// Must run inside the scope that holds the payable's row lock.
func (s *LedgerService) settle(ctx context.Context, repos finance.LedgerRepositories, payable *finance.AccountPayable) (finance.SettlementResult, error) {
	payments, err := repos.Payments.FindByPayable(ctx, payable.TenantID, payable.ID)
	if err != nil {
		return finance.SettlementResult{}, fmt.Errorf("failed to load payments: %w", err)
	}
	result, err := s.ledger.Settle(payable, payments)
	if err != nil {
		return finance.SettlementResult{}, err
	}
	if err := repos.Payables.Save(ctx, payable); err != nil {
		return finance.SettlementResult{}, fmt.Errorf("failed to save payable: %w", err)
	}
	return result, nil
}

func (s *LedgerService) afterSettle(ctx context.Context, span trace.Span, tenantID, payableID uuid.UUID, r finance.SettlementResult) {
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaidAmount, r.PaidAmount.String(),
		telemetry.SpanAttrPayableStatus, string(r.Status),
		telemetry.SpanAttrPaymentCount, r.PaymentCount,
	)
	if !r.StatusChanged() {
		return
	}
	telemetry.AddEvent(span, "payable_status_changed",
		"from", string(r.PreviousStatus),
		"to", string(r.Status),
	)
	s.metrics.RecordStatusTransition(ctx, tenantID, string(r.PreviousStatus), string(r.Status))
	s.logger.Info("Payable status changed",
		zap.String("payable_id", payableID.String()),
		zap.String("from", string(r.PreviousStatus)),
		zap.String("to", string(r.Status)),
	)
}

// lockPaymentPayable locks the payment's payable and re-reads the payment
// under that lock so edits never apply to a stale copy.
func lockPaymentPayable(ctx context.Context, repos finance.LedgerRepositories, tenantID, paymentID uuid.UUID) (*finance.Payment, *finance.AccountPayable, error) {
	payment, err := repos.Payments.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, nil, notFound(err, "Payment")
	}
	payable, err := repos.Payables.FindByIDForUpdate(ctx, tenantID, payment.PayableID)
	if err != nil {
		return nil, nil, notFound(err, "Payable")
	}
	payment, err = repos.Payments.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, nil, notFound(err, "Payment")
	}
	return payment, payable, nil
}

func checkBankAccount(ctx context.Context, repo finance.BankAccountRepository, tenantID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	exists, err := repo.ExistsByID(ctx, tenantID, *id)
	if err != nil {
		return fmt.Errorf("failed to check bank account: %w", err)
	}
	if !exists {
		return shared.NewNotFoundError("Bank account")
	}
	return nil
}

func toPaymentChanges(req UpdatePaymentRequest) finance.PaymentChanges {
	changes := finance.PaymentChanges{
		Amount:         req.Amount,
		PaymentDate:    req.PaymentDate.timePtr(),
		DocumentNumber: req.DocumentNumber,
		BankAccountID:  req.BankAccountID,
		Remark:         req.Remark,
	}
	if req.Method != nil {
		method := finance.PaymentMethod(*req.Method)
		changes.Method = &method
	}
	return changes
}

// notFound turns a repository miss into a not-found error naming the resource
func notFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
