package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the status of an account payable
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "PENDING"   // Outstanding, including partially paid
	PayableStatusPaid      PayableStatus = "PAID"      // Payments cover the original amount
	PayableStatusCancelled PayableStatus = "CANCELLED" // Set by a direct edit
	PayableStatusOverdue   PayableStatus = "OVERDUE"   // Set by the due date sweep or a direct edit
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusPending, PayableStatusPaid, PayableStatusCancelled, PayableStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// IsSettlementManaged reports whether recomputation owns this status.
// CANCELLED and OVERDUE are externally managed and survive payment changes.
func (s PayableStatus) IsSettlementManaged() bool {
	return s == PayableStatusPending || s == PayableStatusPaid
}

// Amount limits
const (
	AmountScale          = 2
	MaxDescriptionLength = 200
	MaxRemarkLength      = 1000
)

// AccountPayable is an invoice owed to a supplier.
// PaidAmount is derived from the payment set by PayableLedger and is never
// assigned directly by callers.
type AccountPayable struct {
	shared.TenantAggregateRoot
	Description    string          `json:"description"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id,omitempty"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	DueDate        time.Time       `json:"due_date"`
	Status         PayableStatus   `json:"status"`
	Remark         string          `json:"remark"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

// NewAccountPayable creates a new account payable with nothing paid
func NewAccountPayable(
	tenantID uuid.UUID,
	description string,
	originalAmount decimal.Decimal,
	dueDate time.Time,
) (*AccountPayable, error) {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := ValidateAmount(originalAmount, "Original amount"); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}

	return &AccountPayable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		OriginalAmount:      originalAmount,
		PaidAmount:          decimal.Zero,
		DueDate:             CalendarDate(dueDate),
		Status:              PayableStatusPending,
	}, nil
}

// ValidateAmount checks that an amount is positive and fits the currency minor unit
func ValidateAmount(amount decimal.Decimal, field string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_AMOUNT", fmt.Sprintf("%s must be positive", field))
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return shared.NewValidationError("INVALID_AMOUNT", fmt.Sprintf("%s cannot have more than %d decimal places", field, AmountScale))
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return shared.NewValidationError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > MaxDescriptionLength {
		return shared.NewValidationError("INVALID_DESCRIPTION", fmt.Sprintf("Description cannot exceed %d characters", MaxDescriptionLength))
	}
	return nil
}

// SetDescription updates the description
func (ap *AccountPayable) SetDescription(description string) error {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return err
	}
	ap.Description = description
	ap.touch()
	return nil
}

// SetOriginalAmount changes the amount owed. The caller must re-settle the
// payable against its payment set afterwards.
func (ap *AccountPayable) SetOriginalAmount(amount decimal.Decimal) error {
	if err := ValidateAmount(amount, "Original amount"); err != nil {
		return err
	}
	ap.OriginalAmount = amount
	ap.touch()
	return nil
}

// SetDueDate updates the due date
func (ap *AccountPayable) SetDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return shared.NewValidationError("INVALID_DUE_DATE", "Due date is required")
	}
	ap.DueDate = CalendarDate(dueDate)
	ap.touch()
	return nil
}

// SetLinks replaces the optional supplier, category and bank account references
func (ap *AccountPayable) SetLinks(supplierID, categoryID, bankAccountID *uuid.UUID) {
	ap.SupplierID = supplierID
	ap.CategoryID = categoryID
	ap.BankAccountID = bankAccountID
	ap.touch()
}

// SetRemark sets the remark
func (ap *AccountPayable) SetRemark(remark string) error {
	if len(remark) > MaxRemarkLength {
		return shared.NewValidationError("INVALID_REMARK", fmt.Sprintf("Remark cannot exceed %d characters", MaxRemarkLength))
	}
	ap.Remark = remark
	ap.touch()
	return nil
}

// Cancel marks the payable as cancelled
func (ap *AccountPayable) Cancel() error {
	if ap.Status == PayableStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Payable is already cancelled").WithReason("ALREADY_CANCELLED")
	}
	if ap.Status == PayableStatusPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot cancel a paid payable").WithReason("ALREADY_PAID")
	}
	ap.Status = PayableStatusCancelled
	ap.touch()
	return nil
}

// MarkOverdue flags a pending payable whose due date is before asOf.
// Returns false if the payable was left unchanged.
func (ap *AccountPayable) MarkOverdue(asOf time.Time) bool {
	if ap.Status != PayableStatusPending {
		return false
	}
	if !ap.DueDate.Before(CalendarDate(asOf)) {
		return false
	}
	ap.Status = PayableStatusOverdue
	ap.touch()
	return true
}

// FlagOverdue marks a pending payable as overdue regardless of its due date.
// Used by direct edits; the sweep goes through MarkOverdue.
func (ap *AccountPayable) FlagOverdue() error {
	switch ap.Status {
	case PayableStatusOverdue:
		return nil
	case PayableStatusPending:
		ap.Status = PayableStatusOverdue
		ap.touch()
		return nil
	default:
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot flag a %s payable as overdue", ap.Status)).WithReason("NOT_PENDING")
	}
}

// Reopen moves a cancelled or overdue payable back under settlement control.
// The caller must re-settle it so the status reflects the current sum.
func (ap *AccountPayable) Reopen() error {
	if ap.Status.IsSettlementManaged() {
		return nil
	}
	ap.Status = PayableStatusPending
	ap.touch()
	return nil
}

// OutstandingAmount returns the remaining amount, never negative
func (ap *AccountPayable) OutstandingAmount() decimal.Decimal {
	outstanding := ap.OriginalAmount.Sub(ap.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// IsCovered reports whether the paid amount reaches the original amount
func (ap *AccountPayable) IsCovered() bool {
	return ap.PaidAmount.GreaterThanOrEqual(ap.OriginalAmount)
}

// IsPaid returns true if the payable is fully paid
func (ap *AccountPayable) IsPaid() bool {
	return ap.Status == PayableStatusPaid
}

func (ap *AccountPayable) touch() {
	ap.UpdatedAt = time.Now()
	ap.IncrementVersion()
}
