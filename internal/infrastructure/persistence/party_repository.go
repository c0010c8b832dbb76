package persistence

import (
	"context"
	"errors"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartyRepository implements PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByIDForTenant finds a party by ID within a tenant
func (r *GormPartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Party, error) {
	var model models.PartyModel
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

// FindAllForTenant finds parties matching the filter
func (r *GormPartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.PartyFilter) ([]partner.Party, error) {
	var partyModels []models.PartyModel
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	query = pageAndSort(query, filter.Filter, PartySortFields, partyDefaultSort)
	if err := query.Find(&partyModels).Error; err != nil {
		return nil, err
	}
	parties := make([]partner.Party, len(partyModels))
	for i := range partyModels {
		parties[i] = *partyModels[i].ToDomain()
	}
	return parties, nil
}

// CountForTenant counts parties matching the filter
func (r *GormPartyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.PartyFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PartyModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDocument checks whether another party already uses the document
func (r *GormPartyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.PartyModel{}).
		Where("tenant_id = ? AND document = ?", tenantID, partner.NormalizeDocument(document))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return r.db.WithContext(ctx).Save(models.PartyModelFromDomain(party)).Error
}

// DeleteForTenant deletes a party
func (r *GormPartyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PartyModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPartyRepository) applyFilter(query *gorm.DB, filter partner.PartyFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		if digits := partner.NormalizeDocument(filter.Search); digits != "" {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(trade_name) LIKE ? OR document LIKE ?",
				pattern, pattern, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(trade_name) LIKE ?", pattern, pattern)
		}
	}
	if filter.IsClient != nil {
		query = query.Where("is_client = ?", *filter.IsClient)
	}
	if filter.IsSupplier != nil {
		query = query.Where("is_supplier = ?", *filter.IsSupplier)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

var _ partner.PartyRepository = (*GormPartyRepository)(nil)
