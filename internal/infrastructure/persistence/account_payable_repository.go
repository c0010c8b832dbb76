package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountPayableRepository implements AccountPayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

// FindByIDForTenant finds an account payable by ID for a specific tenant
func (r *GormAccountPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.first(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a payable with SELECT ... FOR UPDATE. It must run
// inside a transaction; the lock is released on commit or rollback.
func (r *GormAccountPayableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormAccountPayableRepository) first(query *gorm.DB, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	if err := query.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all account payables for a tenant with filtering
func (r *GormAccountPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountPayableFilter) ([]finance.AccountPayable, error) {
	var payableModels []models.AccountPayableModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	query = pageAndSort(query, filter.Filter, PayableSortFields, payableDefaultSort)
	if err := query.Find(&payableModels).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(payableModels), nil
}

// CountForTenant counts account payables for a tenant
func (r *GormAccountPayableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountPayableFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AccountPayableModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPendingDueBefore finds PENDING payables due strictly before day
func (r *GormAccountPayableRepository) FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.AccountPayable, error) {
	var payableModels []models.AccountPayableModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, finance.PayableStatusPending, finance.CalendarDate(day)).
		Order("due_date ASC").
		Find(&payableModels).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(payableModels), nil
}

// ExistsByBankAccount reports whether any payable references the bank account
func (r *GormAccountPayableRepository) ExistsByBankAccount(ctx context.Context, tenantID, bankAccountID uuid.UUID) (bool, error) {
	return r.exists(ctx, "tenant_id = ? AND bank_account_id = ?", tenantID, bankAccountID)
}

// ExistsBySupplier reports whether any payable references the supplier
func (r *GormAccountPayableRepository) ExistsBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (bool, error) {
	return r.exists(ctx, "tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
}

func (r *GormAccountPayableRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountPayableModel{}).
		Where(where, args...).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account payable
func (r *GormAccountPayableRepository) Save(ctx context.Context, payable *finance.AccountPayable) error {
	return r.db.WithContext(ctx).Save(models.AccountPayableModelFromDomain(payable)).Error
}

// DeleteForTenant deletes an account payable for a tenant
func (r *GormAccountPayableRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountPayableModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAccountPayableRepository) applyFilter(query *gorm.DB, filter finance.AccountPayableFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", finance.CalendarDate(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", finance.CalendarDate(*filter.DueTo))
	}
	return query
}

func payablesToDomain(payableModels []models.AccountPayableModel) []finance.AccountPayable {
	payables := make([]finance.AccountPayable, len(payableModels))
	for i := range payableModels {
		payables[i] = *payableModels[i].ToDomain()
	}
	return payables
}

var _ finance.AccountPayableRepository = (*GormAccountPayableRepository)(nil)
