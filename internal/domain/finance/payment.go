package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was settled
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodTransfer   PaymentMethod = "TRANSFER"
	PaymentMethodBoleto     PaymentMethod = "BOLETO" // Bank slip
	PaymentMethodPix        PaymentMethod = "PIX"    // Instant transfer
	PaymentMethodCheck      PaymentMethod = "CHECK"
)

// AllPaymentMethods returns every accepted payment method
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCreditCard,
		PaymentMethodDebitCard,
		PaymentMethodTransfer,
		PaymentMethodBoleto,
		PaymentMethodPix,
		PaymentMethodCheck,
	}
}

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	for _, known := range AllPaymentMethods() {
		if m == known {
			return true
		}
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// MaxDocumentNumberLength is the longest accepted document number
const MaxDocumentNumberLength = 100

// Payment is a settlement event against exactly one AccountPayable
type Payment struct {
	shared.TenantEntity
	PayableID      uuid.UUID       `json:"payable_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         PaymentMethod   `json:"method"`
	DocumentNumber string          `json:"document_number"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id,omitempty"`
	Remark         string          `json:"remark"`
}

// NewPayment creates a payment for the given payable
func NewPayment(
	tenantID uuid.UUID,
	payableID uuid.UUID,
	amount decimal.Decimal,
	paymentDate time.Time,
	method PaymentMethod,
) (*Payment, error) {
	if payableID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PAYABLE", "Payable ID cannot be empty")
	}
	if err := ValidateAmount(amount, "Payment amount"); err != nil {
		return nil, err
	}
	if paymentDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	return &Payment{
		TenantEntity: shared.NewTenantEntity(tenantID),
		PayableID:    payableID,
		Amount:       amount,
		PaymentDate:  CalendarDate(paymentDate),
		Method:       method,
	}, nil
}

// SetDocumentNumber sets the optional reference of the settling document
func (p *Payment) SetDocumentNumber(documentNumber string) error {
	documentNumber = strings.TrimSpace(documentNumber)
	if len(documentNumber) > MaxDocumentNumberLength {
		return shared.NewValidationError("INVALID_DOCUMENT_NUMBER", fmt.Sprintf("Document number cannot exceed %d characters", MaxDocumentNumberLength))
	}
	p.DocumentNumber = documentNumber
	p.Touch()
	return nil
}

// SetBankAccount sets or clears the bank account the payment left from
func (p *Payment) SetBankAccount(bankAccountID *uuid.UUID) {
	p.BankAccountID = bankAccountID
	p.Touch()
}

// SetCreatedBy records the user that registered the payment
func (p *Payment) SetCreatedBy(userID uuid.UUID) {
	p.CreatedBy = &userID
}

// PaymentChanges carries an optional subset of editable payment fields.
// Nil fields are left untouched.
type PaymentChanges struct {
	Amount         *decimal.Decimal
	PaymentDate    *time.Time
	Method         *PaymentMethod
	DocumentNumber *string
	BankAccountID  *uuid.UUID
	Remark         *string
}

// Apply validates every supplied change before mutating the payment
func (p *Payment) Apply(changes PaymentChanges) error {
	if changes.Amount != nil {
		if err := ValidateAmount(*changes.Amount, "Payment amount"); err != nil {
			return err
		}
	}
	if changes.PaymentDate != nil && changes.PaymentDate.IsZero() {
		return shared.NewValidationError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if changes.Method != nil && !changes.Method.IsValid() {
		return shared.NewValidationError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", *changes.Method))
	}
	if changes.DocumentNumber != nil && len(strings.TrimSpace(*changes.DocumentNumber)) > MaxDocumentNumberLength {
		return shared.NewValidationError("INVALID_DOCUMENT_NUMBER", fmt.Sprintf("Document number cannot exceed %d characters", MaxDocumentNumberLength))
	}

	if changes.Amount != nil {
		p.Amount = *changes.Amount
	}
	if changes.PaymentDate != nil {
		p.PaymentDate = CalendarDate(*changes.PaymentDate)
	}
	if changes.Method != nil {
		p.Method = *changes.Method
	}
	if changes.DocumentNumber != nil {
		p.DocumentNumber = strings.TrimSpace(*changes.DocumentNumber)
	}
	if changes.BankAccountID != nil {
		id := *changes.BankAccountID
		p.BankAccountID = &id
	}
	if changes.Remark != nil {
		p.Remark = *changes.Remark
	}
	p.Touch()
	return nil
}
