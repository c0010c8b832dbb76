package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntegrationRepository implements IntegrationRepository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByIDForTenant finds an integration by ID
func (r *GormIntegrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*integration.Integration, error) {
	var model models.IntegrationModel
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

// FindAllForTenant finds integrations with filtering
func (r *GormIntegrationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter integration.IntegrationFilter) ([]integration.Integration, error) {
	var integrationModels []models.IntegrationModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	query = pageAndSort(query, filter.Filter, IntegrationSortFields, integrationDefaultSort)
	if err := query.Find(&integrationModels).Error; err != nil {
		return nil, err
	}
	items := make([]integration.Integration, len(integrationModels))
	for i := range integrationModels {
		items[i] = *integrationModels[i].ToDomain()
	}
	return items, nil
}

// CountForTenant counts integrations matching the filter
func (r *GormIntegrationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter integration.IntegrationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.IntegrationModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an integration
func (r *GormIntegrationRepository) Save(ctx context.Context, i *integration.Integration) error {
	return r.db.WithContext(ctx).Save(models.IntegrationModelFromDomain(i)).Error
}

// DeleteForTenant deletes an integration. Its logs are kept for error analysis.
func (r *GormIntegrationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.IntegrationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormIntegrationRepository) applyFilter(query *gorm.DB, filter integration.IntegrationFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// GormIntegrationLogRepository implements LogRepository using GORM
type GormIntegrationLogRepository struct {
	db *gorm.DB
}

// NewGormIntegrationLogRepository creates a new GormIntegrationLogRepository
func NewGormIntegrationLogRepository(db *gorm.DB) *GormIntegrationLogRepository {
	return &GormIntegrationLogRepository{db: db}
}

// Create inserts a log entry
func (r *GormIntegrationLogRepository) Create(ctx context.Context, log *integration.Log) error {
	return r.db.WithContext(ctx).Create(models.IntegrationLogModelFromDomain(log)).Error
}

// FindRecentErrors returns the tenant's latest ERROR entries, newest first
func (r *GormIntegrationLogRepository) FindRecentErrors(ctx context.Context, tenantID uuid.UUID, limit int) ([]integration.Log, error) {
	var logModels []models.IntegrationLogModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, integration.LogStatusError).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}
	logs := make([]integration.Log, len(logModels))
	for i := range logModels {
		logs[i] = *logModels[i].ToDomain()
	}
	return logs, nil
}

// CountErrorsByOperation counts ERROR entries since the given time per operation
func (r *GormIntegrationLogRepository) CountErrorsByOperation(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]integration.OperationErrorCount, error) {
	var counts []integration.OperationErrorCount
	if err := r.db.WithContext(ctx).
		Model(&models.IntegrationLogModel{}).
		Select("operation, COUNT(*) AS count").
		Where("tenant_id = ? AND status = ? AND occurred_at >= ?", tenantID, integration.LogStatusError, since).
		Group("operation").
		Order("count DESC, operation ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

var (
	_ integration.IntegrationRepository = (*GormIntegrationRepository)(nil)
	_ integration.LogRepository         = (*GormIntegrationLogRepository)(nil)
)
