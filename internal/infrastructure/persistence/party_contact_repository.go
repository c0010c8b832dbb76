package persistence

import (
	"context"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartyContactRepository implements ContactRepository using GORM
type GormPartyContactRepository struct {
	db *gorm.DB
}

// NewGormPartyContactRepository creates a new GormPartyContactRepository
func NewGormPartyContactRepository(db *gorm.DB) *GormPartyContactRepository {
	return &GormPartyContactRepository{db: db}
}

// FindByParty returns the contacts of a party, primary contacts first
func (r *GormPartyContactRepository) FindByParty(ctx context.Context, tenantID, partyID uuid.UUID) ([]partner.Contact, error) {
	var contactModels []models.PartyContactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID).
		Order("is_primary DESC").
		Order("name ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]partner.Contact, len(contactModels))
	for i := range contactModels {
		contacts[i] = *contactModels[i].ToDomain()
	}
	return contacts, nil
}

// Create inserts a contact
func (r *GormPartyContactRepository) Create(ctx context.Context, contact *partner.Contact) error {
	return r.db.WithContext(ctx).Create(models.PartyContactModelFromDomain(contact)).Error
}

// DeleteByParty removes every contact of a party
func (r *GormPartyContactRepository) DeleteByParty(ctx context.Context, tenantID, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PartyContactModel{}, "tenant_id = ? AND party_id = ?", tenantID, partyID).Error
}

var _ partner.ContactRepository = (*GormPartyContactRepository)(nil)
