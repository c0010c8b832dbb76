package finance

import (
	"context"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountPayableFilter defines filtering options for payable queries
type AccountPayableFilter struct {
	shared.Filter
	SupplierID *uuid.UUID     // Filter by supplier
	CategoryID *uuid.UUID     // Filter by category
	Status     *PayableStatus // Filter by status
	DueFrom    *time.Time     // Due date range start (inclusive)
	DueTo      *time.Time     // Due date range end (inclusive)
}

// AccountPayableRepository defines persistence for account payables
type AccountPayableRepository interface {
	// FindByIDForTenant finds a payable by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)

	// FindByIDForUpdate finds a payable and holds a row lock on it until the
	// enclosing transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)

	// FindAllForTenant finds payables for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountPayableFilter) ([]AccountPayable, error)

	// CountForTenant counts payables matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountPayableFilter) (int64, error)

	// FindPendingDueBefore finds PENDING payables whose due date is before the given day
	FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]AccountPayable, error)

	// ExistsByBankAccount reports whether any payable references the bank account
	ExistsByBankAccount(ctx context.Context, tenantID, bankAccountID uuid.UUID) (bool, error)

	// Save creates or updates a payable
	Save(ctx context.Context, payable *AccountPayable) error

	// DeleteForTenant deletes a payable
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	PayableID     *uuid.UUID
	BankAccountID *uuid.UUID
	Method        *PaymentMethod
	FromDate      *time.Time
	ToDate        *time.Time
}

// PaymentRepository defines persistence for payments
type PaymentRepository interface {
	// FindByIDForTenant finds a payment by ID
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByPayable returns the complete payment set of a payable
	FindByPayable(ctx context.Context, tenantID, payableID uuid.UUID) ([]Payment, error)

	// FindAllForTenant finds payments with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// CountForTenant counts payments matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) (int64, error)

	// CountByPayable counts payments referencing a payable
	CountByPayable(ctx context.Context, tenantID, payableID uuid.UUID) (int64, error)

	// ExistsByBankAccount reports whether any payment references the bank account
	ExistsByBankAccount(ctx context.Context, tenantID, bankAccountID uuid.UUID) (bool, error)

	// Create inserts a new payment
	Create(ctx context.Context, payment *Payment) error

	// Save updates an existing payment
	Save(ctx context.Context, payment *Payment) error

	// DeleteForTenant deletes a payment
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// BankAccountFilter defines filtering options for bank account queries
type BankAccountFilter struct {
	shared.Filter
	Active *bool
}

// BankAccountRepository defines persistence for bank accounts
type BankAccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter BankAccountFilter) ([]BankAccount, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter BankAccountFilter) (int64, error)
	ExistsByID(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, account *BankAccount) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryFilter defines filtering options for category queries
type CategoryFilter struct {
	shared.Filter
	Kind   *CategoryKind
	Active *bool
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CategoryFilter) ([]Category, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CategoryFilter) (int64, error)
	ExistsByID(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LedgerRepositories are the stores bound to one ledger transaction
type LedgerRepositories struct {
	Payables     AccountPayableRepository
	Payments     PaymentRepository
	BankAccounts BankAccountRepository
}

// LedgerScope runs fn inside a single transaction. Either every write issued
// through the given repositories commits or none does.
type LedgerScope interface {
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// AccountReceivableFilter defines filtering options for receivable queries
type AccountReceivableFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *ReceivableStatus
	DueFrom  *time.Time
	DueTo    *time.Time
}

// AccountReceivableRepository defines persistence for account receivables
type AccountReceivableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountReceivable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountReceivableFilter) ([]AccountReceivable, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountReceivableFilter) (int64, error)

	// FindPendingDueBefore finds PENDING receivables whose due date is before the given day
	FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]AccountReceivable, error)

	Save(ctx context.Context, receivable *AccountReceivable) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
