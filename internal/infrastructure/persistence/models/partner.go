package models

import (
	"github.com/finerp/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// PartyModel is the persistence model for the Party aggregate root.
// Document uniqueness within a tenant is checked before save.
type PartyModel struct {
	TenantAggregateModel
	Name       string `gorm:"type:varchar(200);not null;index"`
	TradeName  string `gorm:"type:varchar(200)"`
	Document   string `gorm:"type:varchar(14);index"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(50)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2)"`
	IsClient   bool   `gorm:"not null;index"`
	IsSupplier bool   `gorm:"not null;index"`
	Active     bool   `gorm:"not null"`
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party entity.
func (m *PartyModel) ToDomain() *partner.Party {
	return &partner.Party{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		TradeName:           m.TradeName,
		Document:            m.Document,
		Email:               m.Email,
		Phone:               m.Phone,
		City:                m.City,
		State:               m.State,
		IsClient:            m.IsClient,
		IsSupplier:          m.IsSupplier,
		Active:              m.Active,
		Notes:               m.Notes,
	}
}

// PartyModelFromDomain creates a new persistence model from a domain Party entity.
func PartyModelFromDomain(p *partner.Party) *PartyModel {
	m := &PartyModel{
		Name:       p.Name,
		TradeName:  p.TradeName,
		Document:   p.Document,
		Email:      p.Email,
		Phone:      p.Phone,
		City:       p.City,
		State:      p.State,
		IsClient:   p.IsClient,
		IsSupplier: p.IsSupplier,
		Active:     p.Active,
		Notes:      p.Notes,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// PartyAttachmentModel is the persistence model for a stored party file.
type PartyAttachmentModel struct {
	TenantModel
	PartyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	FileSize    int64     `gorm:"not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PartyAttachmentModel) TableName() string {
	return "party_attachments"
}

// ToDomain converts the persistence model to a domain Attachment entity.
func (m *PartyAttachmentModel) ToDomain() *partner.Attachment {
	return &partner.Attachment{
		TenantEntity: m.TenantEntity(),
		PartyID:      m.PartyID,
		FileName:     m.FileName,
		FileSize:     m.FileSize,
		ContentType:  m.ContentType,
		StorageKey:   m.StorageKey,
	}
}

// PartyAttachmentModelFromDomain creates a new persistence model from a domain Attachment entity.
func PartyAttachmentModelFromDomain(a *partner.Attachment) *PartyAttachmentModel {
	m := &PartyAttachmentModel{
		PartyID:     a.PartyID,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		StorageKey:  a.StorageKey,
	}
	m.FromTenantEntity(a.TenantEntity)
	return m
}

// PartyContactModel is the persistence model for a party contact.
type PartyContactModel struct {
	TenantModel
	PartyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(200);not null"`
	Role    string    `gorm:"type:varchar(100)"`
	Email   string    `gorm:"type:varchar(200)"`
	Phone   string    `gorm:"type:varchar(50)"`
	Primary bool      `gorm:"column:is_primary;not null;default:false"`
}

// TableName returns the table name for GORM
func (PartyContactModel) TableName() string {
	return "party_contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *PartyContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		TenantEntity: m.TenantEntity(),
		PartyID:      m.PartyID,
		Name:         m.Name,
		Role:         m.Role,
		Email:        m.Email,
		Phone:        m.Phone,
		Primary:      m.Primary,
	}
}

// PartyContactModelFromDomain creates a new persistence model from a domain Contact entity.
func PartyContactModelFromDomain(c *partner.Contact) *PartyContactModel {
	m := &PartyContactModel{
		PartyID: c.PartyID,
		Name:    c.Name,
		Role:    c.Role,
		Email:   c.Email,
		Phone:   c.Phone,
		Primary: c.Primary,
	}
	m.FromTenantEntity(c.TenantEntity)
	return m
}
