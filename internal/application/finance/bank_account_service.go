package finance

import (
	"context"
	"fmt"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountService manages the tenant's bank accounts
type BankAccountService struct {
	accounts finance.BankAccountRepository
	payables finance.AccountPayableRepository
	payments finance.PaymentRepository
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(
	accounts finance.BankAccountRepository,
	payables finance.AccountPayableRepository,
	payments finance.PaymentRepository,
) *BankAccountService {
	return &BankAccountService{
		accounts: accounts,
		payables: payables,
		payments: payments,
	}
}

// Create creates a bank account
func (s *BankAccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}
	account, err := finance.NewBankAccount(tenantID, req.Bank, req.Branch, req.AccountNumber, finance.BankAccountType(req.AccountType), opening)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}

// GetByID gets a bank account by ID
func (s *BankAccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Bank account")
	}
	return toBankAccountResponse(account), nil
}

// List lists bank accounts with filtering
func (s *BankAccountService) List(ctx context.Context, tenantID uuid.UUID, filter BankAccountListFilter) ([]BankAccountResponse, int64, error) {
	domainFilter := finance.BankAccountFilter{Active: filter.Active}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()

	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accounts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toBankAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

// ListActive lists the active bank accounts
func (s *BankAccountService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]BankAccountResponse, error) {
	active := true
	responses, _, err := s.List(ctx, tenantID, BankAccountListFilter{Active: &active, PageSize: 100})
	return responses, err
}

// Update updates a bank account
func (s *BankAccountService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Bank account")
	}

	if req.Bank != nil || req.Branch != nil || req.AccountNumber != nil || req.AccountType != nil {
		bank, branch, number, accountType := account.Bank, account.Branch, account.AccountNumber, account.AccountType
		if req.Bank != nil {
			bank = *req.Bank
		}
		if req.Branch != nil {
			branch = *req.Branch
		}
		if req.AccountNumber != nil {
			number = *req.AccountNumber
		}
		if req.AccountType != nil {
			accountType = finance.BankAccountType(*req.AccountType)
		}
		if err := account.Update(bank, branch, number, accountType); err != nil {
			return nil, err
		}
	}
	if req.OpeningBalance != nil || req.CurrentBalance != nil {
		opening, current := account.OpeningBalance, account.CurrentBalance
		if req.OpeningBalance != nil {
			opening = *req.OpeningBalance
		}
		if req.CurrentBalance != nil {
			current = *req.CurrentBalance
		}
		account.SetBalances(opening, current)
	}
	if req.Active != nil {
		if *req.Active {
			account.Activate()
		} else {
			account.Deactivate()
		}
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}

// Delete deletes a bank account that no payable or payment references
func (s *BankAccountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	exists, err := s.accounts.ExistsByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewNotFoundError("Bank account")
	}

	inUse, err := s.payables.ExistsByBankAccount(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !inUse {
		if inUse, err = s.payments.ExistsByBankAccount(ctx, tenantID, id); err != nil {
			return err
		}
	}
	if inUse {
		return shared.NewConflictError("BANK_ACCOUNT_IN_USE", "Bank account is referenced by payables or payments")
	}

	return notFound(s.accounts.DeleteForTenant(ctx, tenantID, id), "Bank account")
}
