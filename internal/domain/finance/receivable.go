package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the status of an account receivable
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "PENDING"
	ReceivableStatusReceived  ReceivableStatus = "RECEIVED"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
	ReceivableStatusOverdue   ReceivableStatus = "OVERDUE"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusReceived, ReceivableStatusCancelled, ReceivableStatusOverdue:
		return true
	}
	return false
}

// AccountReceivable is an amount a client owes the company.
// Unlike payables it is settled in one step; there is no payment set.
type AccountReceivable struct {
	shared.TenantAggregateRoot
	Description string           `json:"description"`
	ClientID    *uuid.UUID       `json:"client_id,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	DueDate     time.Time        `json:"due_date"`
	ReceivedAt  *time.Time       `json:"received_at,omitempty"`
	Status      ReceivableStatus `json:"status"`
	Remark      string           `json:"remark"`
}

// NewAccountReceivable creates a pending receivable
func NewAccountReceivable(tenantID uuid.UUID, description string, amount decimal.Decimal, dueDate time.Time) (*AccountReceivable, error) {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := ValidateAmount(amount, "Amount"); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}
	return &AccountReceivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		Amount:              amount,
		DueDate:             CalendarDate(dueDate),
		Status:              ReceivableStatusPending,
	}, nil
}

// SetDescription updates the description
func (ar *AccountReceivable) SetDescription(description string) error {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return err
	}
	ar.Description = description
	ar.touch()
	return nil
}

// SetAmount changes the amount owed
func (ar *AccountReceivable) SetAmount(amount decimal.Decimal) error {
	if err := ValidateAmount(amount, "Amount"); err != nil {
		return err
	}
	ar.Amount = amount
	ar.touch()
	return nil
}

// SetDueDate updates the due date
func (ar *AccountReceivable) SetDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}
	ar.DueDate = CalendarDate(dueDate)
	ar.touch()
	return nil
}

// SetClient replaces the client reference; nil clears it
func (ar *AccountReceivable) SetClient(clientID *uuid.UUID) {
	ar.ClientID = clientID
	ar.touch()
}

// SetRemark sets the remark
func (ar *AccountReceivable) SetRemark(remark string) error {
	if len(remark) > MaxRemarkLength {
		return shared.NewValidationError("INVALID_REMARK", fmt.Sprintf("Remark cannot exceed %d characters", MaxRemarkLength))
	}
	ar.Remark = remark
	ar.touch()
	return nil
}

// Receive settles the receivable on the given day
func (ar *AccountReceivable) Receive(at time.Time) error {
	if at.IsZero() {
		return shared.NewValidationError("INVALID_RECEIVED_DATE", "Received date is required")
	}
	switch ar.Status {
	case ReceivableStatusReceived:
		return shared.NewDomainError(shared.CodeInvalidState, "Receivable is already received").WithReason("ALREADY_RECEIVED")
	case ReceivableStatusCancelled:
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot receive a cancelled receivable").WithReason("ALREADY_CANCELLED")
	}
	day := CalendarDate(at)
	ar.ReceivedAt = &day
	ar.Status = ReceivableStatusReceived
	ar.touch()
	return nil
}

// Cancel marks the receivable as cancelled
func (ar *AccountReceivable) Cancel() error {
	switch ar.Status {
	case ReceivableStatusCancelled:
		return shared.NewDomainError(shared.CodeInvalidState, "Receivable is already cancelled").WithReason("ALREADY_CANCELLED")
	case ReceivableStatusReceived:
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot cancel a received receivable").WithReason("ALREADY_RECEIVED")
	}
	ar.Status = ReceivableStatusCancelled
	ar.touch()
	return nil
}

// MarkOverdue flags a pending receivable whose due date is before asOf.
// Returns false if the receivable was left unchanged.
func (ar *AccountReceivable) MarkOverdue(asOf time.Time) bool {
	if ar.Status != ReceivableStatusPending || !ar.DueDate.Before(CalendarDate(asOf)) {
		return false
	}
	ar.Status = ReceivableStatusOverdue
	ar.touch()
	return true
}

// Reopen moves the receivable back to PENDING and clears the received date
func (ar *AccountReceivable) Reopen() {
	if ar.Status == ReceivableStatusPending {
		return
	}
	ar.Status = ReceivableStatusPending
	ar.ReceivedAt = nil
	ar.touch()
}

// ChangeStatus applies a status chosen by a direct edit.
// RECEIVED needs receivedAt; the other statuses ignore it.
func (ar *AccountReceivable) ChangeStatus(status ReceivableStatus, receivedAt *time.Time) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown receivable status %q", status))
	}
	if status == ar.Status {
		return nil
	}
	switch status {
	case ReceivableStatusPending:
		ar.Reopen()
		return nil
	case ReceivableStatusReceived:
		if receivedAt == nil {
			return shared.NewValidationError("INVALID_RECEIVED_DATE", "Received date is required")
		}
		ar.Reopen()
		return ar.Receive(*receivedAt)
	case ReceivableStatusCancelled:
		ar.Reopen()
		return ar.Cancel()
	default:
		ar.Reopen()
		ar.Status = ReceivableStatusOverdue
		ar.touch()
		return nil
	}
}

func (ar *AccountReceivable) touch() {
	ar.UpdatedAt = time.Now()
	ar.IncrementVersion()
}
