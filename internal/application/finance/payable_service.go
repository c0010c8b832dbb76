package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayableService handles direct edits of account payables.
// Payment-driven changes go through LedgerService.
type PayableService struct {
	scope        finance.LedgerScope
	payables     finance.AccountPayableRepository
	payments     finance.PaymentRepository
	parties      partner.PartyRepository
	categories   finance.CategoryRepository
	bankAccounts finance.BankAccountRepository
	ledger       *finance.PayableLedger
	now          func() time.Time
	logger       *zap.Logger
}

// PayableServiceDeps carries the collaborators of PayableService
type PayableServiceDeps struct {
	Scope        finance.LedgerScope
	Payables     finance.AccountPayableRepository
	Payments     finance.PaymentRepository
	Parties      partner.PartyRepository
	Categories   finance.CategoryRepository
	BankAccounts finance.BankAccountRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewPayableService creates a new PayableService
func NewPayableService(deps PayableServiceDeps) *PayableService {
	s := &PayableService{
		scope:        deps.Scope,
		payables:     deps.Payables,
		payments:     deps.Payments,
		parties:      deps.Parties,
		categories:   deps.Categories,
		bankAccounts: deps.BankAccounts,
		now:          deps.Now,
		logger:       deps.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.ledger = finance.NewPayableLedgerWithClock(s.now)
	return s
}

// Create creates an account payable
func (s *PayableService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payable", "create")
	defer span.End()

	if req.DueDate == nil {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}
	payable, err := finance.NewAccountPayable(tenantID, req.Description, req.OriginalAmount, req.DueDate.Time)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.checkLinks(ctx, tenantID, req.SupplierID, req.CategoryID, req.BankAccountID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payable.SetLinks(req.SupplierID, req.CategoryID, req.BankAccountID)
	if err := payable.SetRemark(req.Remark); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		payable.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.payables.Save(ctx, payable); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save payable: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPayableID, payable.ID.String())
	s.logger.Info("Payable created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payable_id", payable.ID.String()),
		zap.String("original_amount", payable.OriginalAmount.String()),
	)
	return toPayableResponse(payable), nil
}

// GetByID gets a payable by ID
func (s *PayableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payables.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Payable")
	}
	return toPayableResponse(payable), nil
}

// List lists payables with filtering
func (s *PayableService) List(ctx context.Context, tenantID uuid.UUID, filter PayableListFilter) ([]PayableResponse, int64, error) {
	domainFilter := finance.AccountPayableFilter{
		SupplierID: filter.SupplierID,
		CategoryID: filter.CategoryID,
		DueFrom:    filter.DueFrom,
		DueTo:      filter.DueTo,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()
	if filter.Status != "" {
		status := finance.PayableStatus(filter.Status)
		domainFilter.Status = &status
	}

	payables, err := s.payables.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payables.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayableResponse, len(payables))
	for i := range payables {
		responses[i] = *toPayableResponse(&payables[i])
	}
	return responses, total, nil
}

// Update applies a direct edit. Changing the original amount or reopening
// re-settles the payable against its current payment set.
func (s *PayableService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePayableRequest) (*PayableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payable", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPayableID, id.String())

	// references are checked before the payable row is locked
	if err := s.checkLinks(ctx, tenantID, req.SupplierID, req.CategoryID, req.BankAccountID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var payable *finance.AccountPayable
	err := s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		var err error
		payable, err = repos.Payables.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return notFound(err, "Payable")
		}

		supplierID := pick(req.SupplierID, payable.SupplierID)
		categoryID := pick(req.CategoryID, payable.CategoryID)
		bankAccountID := pick(req.BankAccountID, payable.BankAccountID)
		if req.SupplierID != nil || req.CategoryID != nil || req.BankAccountID != nil {
			payable.SetLinks(supplierID, categoryID, bankAccountID)
		}

		if req.Description != nil {
			if err := payable.SetDescription(*req.Description); err != nil {
				return err
			}
		}
		if req.DueDate != nil {
			if err := payable.SetDueDate(req.DueDate.Time); err != nil {
				return err
			}
		}
		if req.Remark != nil {
			if err := payable.SetRemark(*req.Remark); err != nil {
				return err
			}
		}

		resettle := func() error {
			payments, err := repos.Payments.FindByPayable(ctx, tenantID, id)
			if err != nil {
				return fmt.Errorf("failed to load payments: %w", err)
			}
			_, err = s.ledger.Settle(payable, payments)
			return err
		}
		if req.OriginalAmount != nil && !req.OriginalAmount.Equal(payable.OriginalAmount) {
			if err := payable.SetOriginalAmount(*req.OriginalAmount); err != nil {
				return err
			}
			if err := resettle(); err != nil {
				return err
			}
		}
		if req.Status != nil {
			reopened, err := applyStatusEdit(payable, finance.PayableStatus(*req.Status))
			if err != nil {
				return err
			}
			if reopened {
				if err := resettle(); err != nil {
					return err
				}
			}
		}
		if err := repos.Payables.Save(ctx, payable); err != nil {
			return fmt.Errorf("failed to save payable: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPayableStatus, string(payable.Status))
	return toPayableResponse(payable), nil
}

// Cancel cancels a payable
func (s *PayableService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payable", "cancel")
	defer span.End()

	var payable *finance.AccountPayable
	err := s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
		var err error
		payable, err = repos.Payables.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return notFound(err, "Payable")
		}
		if err := payable.Cancel(); err != nil {
			return err
		}
		return repos.Payables.Save(ctx, payable)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Payable cancelled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payable_id", id.String()),
	)
	return toPayableResponse(payable), nil
}

// MarkOverdue flags every pending payable of the tenant whose due date has passed
func (s *PayableService) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (*MarkOverdueResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payable", "mark_overdue")
	defer span.End()

	asOf := s.now()
	today := finance.CalendarDate(asOf)
	candidates, err := s.payables.FindPendingDueBefore(ctx, tenantID, today)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to find pending payables: %w", err)
	}

	marked := 0
	for i := range candidates {
		id := candidates[i].ID
		changed := false
		err := s.scope.Execute(ctx, func(repos finance.LedgerRepositories) error {
			payable, err := repos.Payables.FindByIDForUpdate(ctx, tenantID, id)
			if err != nil {
				return err
			}
			// A payment may have settled it since the scan.
			changed = payable.MarkOverdue(asOf)
			if !changed {
				return nil
			}
			return repos.Payables.Save(ctx, payable)
		})
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to mark payable %s overdue: %w", id, err)
		}
		if changed {
			marked++
		}
	}

	telemetry.SetAttributes(span, "marked", marked)
	if marked > 0 {
		s.logger.Info("Payables marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", marked),
		)
	}
	return &MarkOverdueResult{Marked: marked, AsOf: today}, nil
}

// ListPayments returns the payment set of a payable
func (s *PayableService) ListPayments(ctx context.Context, tenantID, id uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.payables.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, notFound(err, "Payable")
	}
	payments, err := s.payments.FindByPayable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// checkLinks verifies the optional references a payable may carry
func (s *PayableService) checkLinks(ctx context.Context, tenantID uuid.UUID, supplierID, categoryID, bankAccountID *uuid.UUID) error {
	if supplierID != nil {
		supplier, err := s.parties.FindByIDForTenant(ctx, tenantID, *supplierID)
		if err != nil {
			return notFound(err, "Supplier")
		}
		if !supplier.CanSupply() {
			return shared.NewValidationError("NOT_A_SUPPLIER", "The selected party is not flagged as a supplier")
		}
	}
	if categoryID != nil {
		exists, err := s.categories.ExistsByID(ctx, tenantID, *categoryID)
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return shared.NewNotFoundError("Category")
		}
	}
	return checkBankAccount(ctx, s.bankAccounts, tenantID, bankAccountID)
}

// applyStatusEdit applies a requested status and reports whether the payable
// was handed back to the ledger and needs re-settling
func applyStatusEdit(payable *finance.AccountPayable, status finance.PayableStatus) (bool, error) {
	switch status {
	case finance.PayableStatusPending:
		wasOutOfBand := !payable.Status.IsSettlementManaged()
		if err := payable.Reopen(); err != nil {
			return false, err
		}
		return wasOutOfBand, nil
	case finance.PayableStatusCancelled:
		if payable.Status == finance.PayableStatusCancelled {
			return false, nil
		}
		return false, payable.Cancel()
	case finance.PayableStatusOverdue:
		return false, payable.FlagOverdue()
	default:
		return false, shared.NewValidationError("INVALID_STATUS",
			fmt.Sprintf("Status %s cannot be set directly", status))
	}
}

func pick(next, current *uuid.UUID) *uuid.UUID {
	if next != nil {
		return next
	}
	return current
}
