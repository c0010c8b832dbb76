package finance

import (
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Payment DTOs
// =============================================================================

// RecordPaymentRequest represents a request to register a payment against a payable
type RecordPaymentRequest struct {
	PayableID      uuid.UUID       `json:"payable_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required,gt=0"`
	PaymentDate    *Date           `json:"payment_date" binding:"required" swaggertype:"string" format:"date" example:"2026-10-14"`
	Method         string          `json:"method" binding:"required,oneof=CASH CREDIT_CARD DEBIT_CARD TRANSFER BOLETO PIX CHECK"`
	DocumentNumber string          `json:"document_number" binding:"max=100"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id"`
	Remark         string          `json:"remark" binding:"max=1000"`
	IdempotencyKey string          `json:"-"` // Set from the Idempotency-Key header
	CreatedBy      *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// UpdatePaymentRequest represents a partial update of a payment
type UpdatePaymentRequest struct {
	Amount         *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	PaymentDate    *Date            `json:"payment_date" swaggertype:"string" format:"date" example:"2026-10-14"`
	Method         *string          `json:"method" binding:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD TRANSFER BOLETO PIX CHECK"`
	DocumentNumber *string          `json:"document_number" binding:"omitempty,max=100"`
	BankAccountID  *uuid.UUID       `json:"bank_account_id"`
	Remark         *string          `json:"remark" binding:"omitempty,max=1000"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	PayableID      uuid.UUID       `json:"payable_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         string          `json:"method"`
	DocumentNumber string          `json:"document_number,omitempty"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id,omitempty"`
	Remark         string          `json:"remark,omitempty"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	PayableID     *uuid.UUID `form:"-"` // parsed by the handler
	BankAccountID *uuid.UUID `form:"-"` // parsed by the handler
	Method        string     `form:"method" binding:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD TRANSFER BOLETO PIX CHECK"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir"`
}

// =============================================================================
// Payable DTOs
// =============================================================================

// CreatePayableRequest represents a request to create an account payable
type CreatePayableRequest struct {
	Description    string          `json:"description" binding:"required,min=1,max=200"`
	OriginalAmount decimal.Decimal `json:"original_amount" binding:"required,gt=0"`
	DueDate        *Date           `json:"due_date" binding:"required" swaggertype:"string" format:"date" example:"2026-11-10"`
	SupplierID     *uuid.UUID      `json:"supplier_id"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id"`
	Remark         string          `json:"remark" binding:"max=1000"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdatePayableRequest represents a direct edit of an account payable.
// Status only accepts the out-of-band states and PENDING to reopen.
type UpdatePayableRequest struct {
	Description    *string          `json:"description" binding:"omitempty,min=1,max=200"`
	OriginalAmount *decimal.Decimal `json:"original_amount" binding:"omitempty,gt=0"`
	DueDate        *Date            `json:"due_date" swaggertype:"string" format:"date" example:"2026-11-10"`
	SupplierID     *uuid.UUID       `json:"supplier_id"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	BankAccountID  *uuid.UUID       `json:"bank_account_id"`
	Remark         *string          `json:"remark" binding:"omitempty,max=1000"`
	Status         *string          `json:"status" binding:"omitempty,oneof=PENDING CANCELLED OVERDUE"`
}

// PayableResponse represents an account payable in API responses
type PayableResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Description       string          `json:"description"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	BankAccountID     *uuid.UUID      `json:"bank_account_id,omitempty"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	DueDate           time.Time       `json:"due_date"`
	Status            string          `json:"status"`
	Remark            string          `json:"remark,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// PayableListFilter defines filtering options for payable list queries
type PayableListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"-"` // parsed by the handler
	CategoryID *uuid.UUID `form:"-"` // parsed by the handler
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED OVERDUE"`
	DueFrom    *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo      *time.Time `form:"due_to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// MarkOverdueResult reports the outcome of an overdue sweep
type MarkOverdueResult struct {
	Marked int       `json:"marked"`
	AsOf   time.Time `json:"as_of"`
}

// =============================================================================
// Bank account DTOs
// =============================================================================

// CreateBankAccountRequest represents a request to create a bank account
type CreateBankAccountRequest struct {
	Bank           string           `json:"bank" binding:"required,min=1,max=100"`
	Branch         string           `json:"branch" binding:"required,min=1,max=20"`
	AccountNumber  string           `json:"account_number" binding:"required,min=1,max=30"`
	AccountType    string           `json:"account_type" binding:"omitempty,oneof=CHECKING SAVINGS PAYMENT"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

// UpdateBankAccountRequest represents a request to update a bank account
type UpdateBankAccountRequest struct {
	Bank           *string          `json:"bank" binding:"omitempty,min=1,max=100"`
	Branch         *string          `json:"branch" binding:"omitempty,min=1,max=20"`
	AccountNumber  *string          `json:"account_number" binding:"omitempty,min=1,max=30"`
	AccountType    *string          `json:"account_type" binding:"omitempty,oneof=CHECKING SAVINGS PAYMENT"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	CurrentBalance *decimal.Decimal `json:"current_balance"`
	Active         *bool            `json:"active"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	Bank           string          `json:"bank"`
	Branch         string          `json:"branch"`
	AccountNumber  string          `json:"account_number"`
	AccountType    string          `json:"account_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankAccountListFilter defines filtering options for bank account list queries
type BankAccountListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// =============================================================================
// Category DTOs
// =============================================================================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Kind        string `json:"kind" binding:"omitempty,oneof=EXPENSE INCOME"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Kind        *string `json:"kind" binding:"omitempty,oneof=EXPENSE INCOME"`
	Active      *bool   `json:"active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        string    `json:"kind"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListFilter defines filtering options for category list queries
type CategoryListFilter struct {
	Search   string `form:"search"`
	Kind     string `form:"kind" binding:"omitempty,oneof=EXPENSE INCOME"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// =============================================================================
// Converters
// =============================================================================

func toPaymentResponse(p *finance.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		PayableID:      p.PayableID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         string(p.Method),
		DocumentNumber: p.DocumentNumber,
		BankAccountID:  p.BankAccountID,
		Remark:         p.Remark,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPaymentResponses(payments []finance.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}
	return responses
}

func toPayableResponse(p *finance.AccountPayable) *PayableResponse {
	return &PayableResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Description:       p.Description,
		SupplierID:        p.SupplierID,
		CategoryID:        p.CategoryID,
		BankAccountID:     p.BankAccountID,
		OriginalAmount:    p.OriginalAmount,
		PaidAmount:        p.PaidAmount,
		OutstandingAmount: p.OutstandingAmount(),
		DueDate:           p.DueDate,
		Status:            string(p.Status),
		Remark:            p.Remark,
		PaidAt:            p.PaidAt,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

func toBankAccountResponse(b *finance.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:             b.ID,
		TenantID:       b.TenantID,
		Bank:           b.Bank,
		Branch:         b.Branch,
		AccountNumber:  b.AccountNumber,
		AccountType:    string(b.AccountType),
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		Active:         b.Active,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toCategoryResponse(c *finance.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Name:        c.Name,
		Description: c.Description,
		Kind:        string(c.Kind),
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
