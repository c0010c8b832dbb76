package finance

import (
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountType classifies a bank account
type BankAccountType string

const (
	BankAccountTypeChecking BankAccountType = "CHECKING"
	BankAccountTypeSavings  BankAccountType = "SAVINGS"
	BankAccountTypePayment  BankAccountType = "PAYMENT"
)

// IsValid checks if the account type is known
func (t BankAccountType) IsValid() bool {
	switch t {
	case BankAccountTypeChecking, BankAccountTypeSavings, BankAccountTypePayment:
		return true
	}
	return false
}

// BankAccount is a company bank account that payments leave from
type BankAccount struct {
	shared.TenantAggregateRoot
	Bank           string          `json:"bank"`
	Branch         string          `json:"branch"`
	AccountNumber  string          `json:"account_number"`
	AccountType    BankAccountType `json:"account_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
}

// NewBankAccount creates an active bank account whose current balance starts at the opening balance
func NewBankAccount(tenantID uuid.UUID, bank, branch, accountNumber string, accountType BankAccountType, openingBalance decimal.Decimal) (*BankAccount, error) {
	ba := &BankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OpeningBalance:      openingBalance,
		CurrentBalance:      openingBalance,
		Active:              true,
	}
	if err := ba.Update(bank, branch, accountNumber, accountType); err != nil {
		return nil, err
	}
	return ba, nil
}

// Update changes the identifying fields of the account
func (b *BankAccount) Update(bank, branch, accountNumber string, accountType BankAccountType) error {
	bank = strings.TrimSpace(bank)
	branch = strings.TrimSpace(branch)
	accountNumber = strings.TrimSpace(accountNumber)
	if bank == "" {
		return shared.NewValidationError("INVALID_BANK", "Bank cannot be empty")
	}
	if branch == "" {
		return shared.NewValidationError("INVALID_BRANCH", "Branch cannot be empty")
	}
	if accountNumber == "" {
		return shared.NewValidationError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if accountType == "" {
		accountType = BankAccountTypeChecking
	}
	if !accountType.IsValid() {
		return shared.NewValidationError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	b.Bank = bank
	b.Branch = branch
	b.AccountNumber = accountNumber
	b.AccountType = accountType
	b.touch()
	return nil
}

// SetBalances overrides the opening and current balances
func (b *BankAccount) SetBalances(opening, current decimal.Decimal) {
	b.OpeningBalance = opening
	b.CurrentBalance = current
	b.touch()
}

// Activate marks the account as usable
func (b *BankAccount) Activate() {
	b.Active = true
	b.touch()
}

// Deactivate hides the account from the active list
func (b *BankAccount) Deactivate() {
	b.Active = false
	b.touch()
}

func (b *BankAccount) touch() {
	b.Touch()
	b.IncrementVersion()
}
