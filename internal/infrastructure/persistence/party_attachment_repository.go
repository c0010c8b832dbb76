package persistence

import (
	"context"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartyAttachmentRepository implements AttachmentRepository using GORM
type GormPartyAttachmentRepository struct {
	db *gorm.DB
}

// NewGormPartyAttachmentRepository creates a new GormPartyAttachmentRepository
func NewGormPartyAttachmentRepository(db *gorm.DB) *GormPartyAttachmentRepository {
	return &GormPartyAttachmentRepository{db: db}
}

// FindByParty returns the attachments of a party, newest first
func (r *GormPartyAttachmentRepository) FindByParty(ctx context.Context, tenantID, partyID uuid.UUID) ([]partner.Attachment, error) {
	var attachmentModels []models.PartyAttachmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID).
		Order("created_at DESC").
		Find(&attachmentModels).Error; err != nil {
		return nil, err
	}
	attachments := make([]partner.Attachment, len(attachmentModels))
	for i := range attachmentModels {
		attachments[i] = *attachmentModels[i].ToDomain()
	}
	return attachments, nil
}

// Create inserts an attachment record
func (r *GormPartyAttachmentRepository) Create(ctx context.Context, attachment *partner.Attachment) error {
	return r.db.WithContext(ctx).Create(models.PartyAttachmentModelFromDomain(attachment)).Error
}

// DeleteByParty removes every attachment record of a party
func (r *GormPartyAttachmentRepository) DeleteByParty(ctx context.Context, tenantID, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PartyAttachmentModel{}, "tenant_id = ? AND party_id = ?", tenantID, partyID).Error
}

var _ partner.AttachmentRepository = (*GormPartyAttachmentRepository)(nil)
