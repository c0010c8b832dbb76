package finance

import (
	"fmt"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SettlementResult describes what a settlement changed on a payable
type SettlementResult struct {
	PreviousPaid   decimal.Decimal
	PreviousStatus PayableStatus
	PaidAmount     decimal.Decimal
	Status         PayableStatus
	PaymentCount   int
}

// StatusChanged reports whether the settlement moved the payable's status
func (r SettlementResult) StatusChanged() bool {
	return r.PreviousStatus != r.Status
}

// PayableLedger derives a payable's paid amount and status from its payment set.
//
// The paid amount is always the sum of the complete set handed in, never an
// increment of the stored value, so drift in the stored figure is repaired
// on the next settlement. PENDING and PAID are owned by the ledger: the
// payable is PAID iff the sum reaches the original amount. CANCELLED and
// OVERDUE are set out of band and kept as they are.
type PayableLedger struct {
	now func() time.Time
}

// NewPayableLedger creates a ledger using the wall clock for PaidAt stamps
func NewPayableLedger() *PayableLedger {
	return &PayableLedger{now: time.Now}
}

// NewPayableLedgerWithClock creates a ledger with a custom clock, used in tests
func NewPayableLedgerWithClock(now func() time.Time) *PayableLedger {
	return &PayableLedger{now: now}
}

// Sum returns the total of the payments' amounts
func (l *PayableLedger) Sum(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total
}

// Settle recomputes the payable from the full current payment set.
// Every payment must belong to the payable.
func (l *PayableLedger) Settle(payable *AccountPayable, payments []Payment) (SettlementResult, error) {
	if payable == nil {
		return SettlementResult{}, shared.NewValidationError("INVALID_PAYABLE", "Payable is required")
	}
	for i := range payments {
		if payments[i].PayableID != payable.ID {
			return SettlementResult{}, shared.NewValidationError(
				"FOREIGN_PAYMENT",
				fmt.Sprintf("Payment %s does not belong to payable %s", payments[i].ID, payable.ID),
			)
		}
	}

	result := SettlementResult{
		PreviousPaid:   payable.PaidAmount,
		PreviousStatus: payable.Status,
		PaymentCount:   len(payments),
	}

	paid := l.Sum(payments)
	status := payable.Status
	if status.IsSettlementManaged() {
		if paid.GreaterThanOrEqual(payable.OriginalAmount) {
			status = PayableStatusPaid
		} else {
			status = PayableStatusPending
		}
	}

	changed := !paid.Equal(payable.PaidAmount) || status != payable.Status
	payable.PaidAmount = paid
	if status != payable.Status {
		payable.Status = status
		if status == PayableStatusPaid {
			now := l.now()
			payable.PaidAt = &now
		} else if status == PayableStatusPending {
			payable.PaidAt = nil
		}
	}
	if changed {
		payable.touch()
	}

	result.PaidAmount = payable.PaidAmount
	result.Status = payable.Status
	return result, nil
}
