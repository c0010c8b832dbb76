package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByIDForTenant finds a company by ID within a tenant
func (r *GormCompanyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
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

// FindAllForTenant finds companies matching the filter
func (r *GormCompanyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.CompanyFilter) ([]partner.Company, error) {
	var companyModels []models.CompanyModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	query = pageAndSort(query, filter.Filter, CompanySortFields, companyDefaultSort)
	if err := query.Find(&companyModels).Error; err != nil {
		return nil, err
	}
	companies := make([]partner.Company, len(companyModels))
	for i := range companyModels {
		companies[i] = *companyModels[i].ToDomain()
	}
	return companies, nil
}

// CountForTenant counts companies matching the filter
func (r *GormCompanyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.CompanyFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDocument checks whether another company already uses the CNPJ
func (r *GormCompanyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "document = ?", partner.NormalizeDocument(document), excludeID)
}

// ExistsByIntegrationCode checks whether another company already uses the code
func (r *GormCompanyRepository) ExistsByIntegrationCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "integration_code = ?", strings.TrimSpace(code), excludeID)
}

func (r *GormCompanyRepository) exists(ctx context.Context, tenantID uuid.UUID, cond string, value string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Where("tenant_id = ?", tenantID).
		Where(cond, value)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(company)).Error
}

// DeleteForTenant deletes a company
func (r *GormCompanyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCompanyRepository) applyFilter(query *gorm.DB, filter partner.CompanyFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		if digits := partner.NormalizeDocument(filter.Search); digits != "" {
			query = query.Where("LOWER(legal_name) LIKE ? OR LOWER(trade_name) LIKE ? OR LOWER(integration_code) LIKE ? OR document LIKE ?",
				pattern, pattern, pattern, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(legal_name) LIKE ? OR LOWER(trade_name) LIKE ? OR LOWER(integration_code) LIKE ?",
				pattern, pattern, pattern)
		}
	}
	if filter.ActiveOnly {
		query = query.Where("active = ? AND blocked = ?", true, false)
	}
	return query
}

var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
