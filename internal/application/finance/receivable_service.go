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

// ReceivableService handles account receivables
type ReceivableService struct {
	receivables finance.AccountReceivableRepository
	parties     partner.PartyRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewReceivableService creates a new ReceivableService. now defaults to time.Now.
func NewReceivableService(receivables finance.AccountReceivableRepository, parties partner.PartyRepository, now func() time.Time, logger *zap.Logger) *ReceivableService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivableService{receivables: receivables, parties: parties, now: now, logger: logger}
}

// Create creates an account receivable
func (s *ReceivableService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReceivableRequest) (*ReceivableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receivable", "create")
	defer span.End()

	if req.DueDate == nil {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}
	receivable, err := finance.NewAccountReceivable(tenantID, req.Description, req.Amount, req.DueDate.Time)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.checkClient(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}
	receivable.SetClient(req.ClientID)
	if err := receivable.SetRemark(req.Remark); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		receivable.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.receivables.Save(ctx, receivable); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save receivable: %w", err)
	}
	s.logger.Info("Receivable created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receivable_id", receivable.ID.String()),
		zap.String("amount", receivable.Amount.String()),
	)
	return toReceivableResponse(receivable), nil
}

// GetByID gets a receivable by ID
func (s *ReceivableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toReceivableResponse(receivable), nil
}

// List lists receivables with filtering
func (s *ReceivableService) List(ctx context.Context, tenantID uuid.UUID, filter ReceivableListFilter) ([]ReceivableResponse, int64, error) {
	domainFilter := finance.AccountReceivableFilter{
		ClientID: filter.ClientID,
		DueFrom:  filter.DueFrom,
		DueTo:    filter.DueTo,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()
	if filter.Status != "" {
		status := finance.ReceivableStatus(filter.Status)
		domainFilter.Status = &status
	}

	receivables, err := s.receivables.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receivables.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceivableResponse, len(receivables))
	for i := range receivables {
		responses[i] = *toReceivableResponse(&receivables[i])
	}
	return responses, total, nil
}

// Update applies a direct edit
func (s *ReceivableService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateReceivableRequest) (*ReceivableResponse, error) {
	receivable, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if err := s.checkClient(ctx, tenantID, req.ClientID); err != nil {
			return nil, err
		}
		receivable.SetClient(req.ClientID)
	}
	if req.Description != nil {
		if err := receivable.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Amount != nil {
		if err := receivable.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := receivable.SetDueDate(req.DueDate.Time); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		if err := receivable.SetRemark(*req.Remark); err != nil {
			return nil, err
		}
	}
	status := receivable.Status
	if req.Status != nil {
		status = finance.ReceivableStatus(*req.Status)
	}
	if status == finance.ReceivableStatusReceived && (req.Status != nil || req.ReceivedDate != nil) {
		receivedAt := s.now()
		if req.ReceivedDate != nil {
			receivedAt = req.ReceivedDate.Time
		} else if receivable.ReceivedAt != nil {
			receivedAt = *receivable.ReceivedAt
		}
		receivable.Reopen()
		if err := receivable.Receive(receivedAt); err != nil {
			return nil, err
		}
	} else if req.Status != nil {
		if err := receivable.ChangeStatus(status, nil); err != nil {
			return nil, err
		}
	}

	if err := s.receivables.Save(ctx, receivable); err != nil {
		return nil, fmt.Errorf("failed to save receivable: %w", err)
	}
	return toReceivableResponse(receivable), nil
}

// Receive settles a receivable on the given day, today when nil
func (s *ReceivableService) Receive(ctx context.Context, tenantID, id uuid.UUID, req ReceiveRequest) (*ReceivableResponse, error) {
	receivable, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	receivedAt := s.now()
	if req.ReceivedDate != nil {
		receivedAt = req.ReceivedDate.Time
	}
	if err := receivable.Receive(receivedAt); err != nil {
		return nil, err
	}
	if err := s.receivables.Save(ctx, receivable); err != nil {
		return nil, fmt.Errorf("failed to save receivable: %w", err)
	}
	s.logger.Info("Receivable received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receivable_id", id.String()),
	)
	return toReceivableResponse(receivable), nil
}

// Cancel cancels a receivable
func (s *ReceivableService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := receivable.Cancel(); err != nil {
		return nil, err
	}
	if err := s.receivables.Save(ctx, receivable); err != nil {
		return nil, fmt.Errorf("failed to save receivable: %w", err)
	}
	return toReceivableResponse(receivable), nil
}

// MarkOverdue flags every pending receivable of the tenant whose due date has passed
func (s *ReceivableService) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (*MarkOverdueResult, error) {
	asOf := s.now()
	today := finance.CalendarDate(asOf)
	candidates, err := s.receivables.FindPendingDueBefore(ctx, tenantID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending receivables: %w", err)
	}

	marked := 0
	for i := range candidates {
		if !candidates[i].MarkOverdue(asOf) {
			continue
		}
		if err := s.receivables.Save(ctx, &candidates[i]); err != nil {
			return nil, fmt.Errorf("failed to mark receivable %s overdue: %w", candidates[i].ID, err)
		}
		marked++
	}
	if marked > 0 {
		s.logger.Info("Receivables marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", marked),
		)
	}
	return &MarkOverdueResult{Marked: marked, AsOf: today}, nil
}

// Delete deletes a receivable
func (s *ReceivableService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.receivables.DeleteForTenant(ctx, tenantID, id); err != nil {
		return notFound(err, "Receivable")
	}
	return nil
}

func (s *ReceivableService) find(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	receivable, err := s.receivables.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Receivable")
	}
	return receivable, nil
}

func (s *ReceivableService) checkClient(ctx context.Context, tenantID uuid.UUID, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	client, err := s.parties.FindByIDForTenant(ctx, tenantID, *clientID)
	if err != nil {
		return notFound(err, "Client")
	}
	if !client.IsClient {
		return shared.NewValidationError("NOT_A_CLIENT", "The selected party is not flagged as a client")
	}
	return nil
}
