package finance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// In-memory ledger store
// =============================================================================

// memStore keeps payables, payments and bank accounts in maps. Its scope
// serializes Execute calls and restores the previous state when fn fails,
// which mirrors a row-locked transaction closely enough for service tests.
type memStore struct {
	mu        sync.Mutex
	payables  map[uuid.UUID]finance.AccountPayable
	payments  map[uuid.UUID]finance.Payment
	accounts  map[uuid.UUID]finance.BankAccount
	failSave  error // returned by the next payable Save, once
	executes  int
	inScope   bool
	lockCalls int

	lastPaymentFilter finance.PaymentFilter
}

func newMemStore() *memStore {
	return &memStore{
		payables: make(map[uuid.UUID]finance.AccountPayable),
		payments: make(map[uuid.UUID]finance.Payment),
		accounts: make(map[uuid.UUID]finance.BankAccount),
	}
}

func (s *memStore) Execute(ctx context.Context, fn func(repos finance.LedgerRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executes++

	payables := cloneMap(s.payables)
	payments := cloneMap(s.payments)
	s.inScope = true
	err := fn(s.repos())
	s.inScope = false
	if err != nil {
		s.payables = payables
		s.payments = payments
	}
	return err
}

func (s *memStore) repos() finance.LedgerRepositories {
	return finance.LedgerRepositories{
		Payables:     &memPayables{s},
		Payments:     &memPayments{s},
		BankAccounts: &memAccounts{s},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) addPayable(p *finance.AccountPayable) {
	s.payables[p.ID] = *p
}

func (s *memStore) addAccount(a *finance.BankAccount) {
	s.accounts[a.ID] = *a
}

func (s *memStore) payable(id uuid.UUID) finance.AccountPayable {
	return s.payables[id]
}

type memPayables struct{ s *memStore }

func (r *memPayables) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	p, ok := r.s.payables[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memPayables) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	if !r.s.inScope {
		return nil, errors.New("row lock requested outside a transaction")
	}
	r.s.lockCalls++
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *memPayables) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter finance.AccountPayableFilter) ([]finance.AccountPayable, error) {
	var out []finance.AccountPayable
	for _, p := range r.s.payables {
		if p.TenantID != tenantID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *memPayables) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountPayableFilter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *memPayables) FindPendingDueBefore(_ context.Context, tenantID uuid.UUID, day time.Time) ([]finance.AccountPayable, error) {
	var out []finance.AccountPayable
	for _, p := range r.s.payables {
		if p.TenantID == tenantID && p.Status == finance.PayableStatusPending && p.DueDate.Before(day) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPayables) ExistsByBankAccount(_ context.Context, tenantID, bankAccountID uuid.UUID) (bool, error) {
	for _, p := range r.s.payables {
		if p.TenantID == tenantID && p.BankAccountID != nil && *p.BankAccountID == bankAccountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPayables) Save(_ context.Context, payable *finance.AccountPayable) error {
	if r.s.failSave != nil {
		err := r.s.failSave
		r.s.failSave = nil
		return err
	}
	r.s.payables[payable.ID] = *payable
	return nil
}

func (r *memPayables) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := r.s.payables[id]
	if !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.s.payables, id)
	return nil
}

type memPayments struct{ s *memStore }

func (r *memPayments) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memPayments) FindByPayable(_ context.Context, tenantID, payableID uuid.UUID) ([]finance.Payment, error) {
	var out []finance.Payment
	for _, p := range r.s.payments {
		if p.TenantID == tenantID && p.PayableID == payableID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memPayments) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter finance.PaymentFilter) ([]finance.Payment, error) {
	r.s.lastPaymentFilter = filter
	var out []finance.Payment
	for _, p := range r.s.payments {
		if p.TenantID != tenantID {
			continue
		}
		if filter.PayableID != nil && p.PayableID != *filter.PayableID {
			continue
		}
		if filter.Method != nil && p.Method != *filter.Method {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memPayments) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.PaymentFilter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *memPayments) CountByPayable(ctx context.Context, tenantID, payableID uuid.UUID) (int64, error) {
	all, _ := r.FindByPayable(ctx, tenantID, payableID)
	return int64(len(all)), nil
}

func (r *memPayments) ExistsByBankAccount(_ context.Context, tenantID, bankAccountID uuid.UUID) (bool, error) {
	for _, p := range r.s.payments {
		if p.TenantID == tenantID && p.BankAccountID != nil && *p.BankAccountID == bankAccountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPayments) Create(_ context.Context, payment *finance.Payment) error {
	if _, ok := r.s.payments[payment.ID]; ok {
		return errors.New("duplicate payment id")
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memPayments) Save(_ context.Context, payment *finance.Payment) error {
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memPayments) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := r.s.payments[id]
	if !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.s.payments, id)
	return nil
}

type memAccounts struct{ s *memStore }

func (r *memAccounts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.BankAccount, error) {
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r *memAccounts) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter finance.BankAccountFilter) ([]finance.BankAccount, error) {
	var out []finance.BankAccount
	for _, a := range r.s.accounts {
		if a.TenantID != tenantID {
			continue
		}
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memAccounts) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.BankAccountFilter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r *memAccounts) ExistsByID(_ context.Context, tenantID, id uuid.UUID) (bool, error) {
	a, ok := r.s.accounts[id]
	return ok && a.TenantID == tenantID, nil
}

func (r *memAccounts) Save(_ context.Context, account *finance.BankAccount) error {
	r.s.accounts[account.ID] = *account
	return nil
}

func (r *memAccounts) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

// =============================================================================
// Mocks
// =============================================================================

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockPartyRepository is a mock implementation of partner.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Party, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Party), args.Error(1)
}

func (m *MockPartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.PartyFilter) ([]partner.Party, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Party), args.Error(1)
}

func (m *MockPartyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.PartyFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, document, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return m.Called(ctx, party).Error(0)
}

func (m *MockPartyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockCategoryRepository is a mock implementation of finance.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CategoryFilter) ([]finance.Category, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CategoryFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByID(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *finance.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// =============================================================================
// In-memory receivables
// =============================================================================

type memReceivables struct {
	items map[uuid.UUID]finance.AccountReceivable
	saves int
}

func newMemReceivables(items ...*finance.AccountReceivable) *memReceivables {
	r := &memReceivables{items: make(map[uuid.UUID]finance.AccountReceivable)}
	for _, ar := range items {
		r.items[ar.ID] = *ar
	}
	return r
}

func (r *memReceivables) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	ar, ok := r.items[id]
	if !ok || ar.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &ar, nil
}

func (r *memReceivables) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter finance.AccountReceivableFilter) ([]finance.AccountReceivable, error) {
	var out []finance.AccountReceivable
	for _, ar := range r.items {
		if ar.TenantID != tenantID {
			continue
		}
		if filter.Status != nil && ar.Status != *filter.Status {
			continue
		}
		out = append(out, ar)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *memReceivables) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountReceivableFilter) (int64, error) {
	items, err := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(items)), err
}

func (r *memReceivables) FindPendingDueBefore(_ context.Context, tenantID uuid.UUID, day time.Time) ([]finance.AccountReceivable, error) {
	var out []finance.AccountReceivable
	for _, ar := range r.items {
		if ar.TenantID == tenantID && ar.Status == finance.ReceivableStatusPending && ar.DueDate.Before(day) {
			out = append(out, ar)
		}
	}
	return out, nil
}

func (r *memReceivables) Save(_ context.Context, receivable *finance.AccountReceivable) error {
	r.items[receivable.ID] = *receivable
	r.saves++
	return nil
}

func (r *memReceivables) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	ar, ok := r.items[id]
	if !ok || ar.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ finance.AccountReceivableRepository = (*memReceivables)(nil)
