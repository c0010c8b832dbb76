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
)

// GormAccountReceivableRepository implements AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

// FindByIDForTenant finds a receivable by ID for a specific tenant
func (r *GormAccountReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	var model models.AccountReceivableModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds receivables for a tenant with filtering
func (r *GormAccountReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountReceivableFilter) ([]finance.AccountReceivable, error) {
	var receivableModels []models.AccountReceivableModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	query = pageAndSort(query, filter.Filter, ReceivableSortFields, receivableDefaultSort)
	if err := query.Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(receivableModels), nil
}

// CountForTenant counts receivables matching the filter
func (r *GormAccountReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountReceivableFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPendingDueBefore finds PENDING receivables due strictly before day
func (r *GormAccountReceivableRepository) FindPendingDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.AccountReceivable, error) {
	var receivableModels []models.AccountReceivableModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, finance.ReceivableStatusPending, finance.CalendarDate(day)).
		Order("due_date ASC").
		Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(receivableModels), nil
}

// Save creates or updates a receivable
func (r *GormAccountReceivableRepository) Save(ctx context.Context, receivable *finance.AccountReceivable) error {
	return r.db.WithContext(ctx).Save(models.AccountReceivableModelFromDomain(receivable)).Error
}

// DeleteForTenant deletes a receivable
func (r *GormAccountReceivableRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountReceivableModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAccountReceivableRepository) applyFilter(query *gorm.DB, filter finance.AccountReceivableFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(description) LIKE ? OR LOWER(remark) LIKE ?", pattern, pattern)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
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

func receivablesToDomain(receivableModels []models.AccountReceivableModel) []finance.AccountReceivable {
	receivables := make([]finance.AccountReceivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = *receivableModels[i].ToDomain()
	}
	return receivables
}

var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
