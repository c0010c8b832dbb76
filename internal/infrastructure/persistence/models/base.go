package models

import (
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) fromEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

func (m *BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// TenantModel holds the columns of a tenant entity that has no version of its own
type TenantModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromTenantEntity populates the columns from a domain TenantEntity
func (m *TenantModel) FromTenantEntity(e shared.TenantEntity) {
	m.fromEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.CreatedBy = e.CreatedBy
}

// TenantEntity rebuilds the domain TenantEntity
func (m *TenantModel) TenantEntity() shared.TenantEntity {
	return shared.TenantEntity{BaseEntity: m.entity(), TenantID: m.TenantID, CreatedBy: m.CreatedBy}
}

// TenantAggregateModel provides common persistence fields for tenant-scoped
// aggregate roots, with a version column for optimistic checks.
type TenantAggregateModel struct {
	BaseModel
	Version   int        `gorm:"not null;default:1"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.fromEntity(t.BaseEntity)
	m.Version = t.Version
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// TenantAggregateRoot rebuilds the domain TenantAggregateRoot
func (m *TenantAggregateModel) TenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version},
		TenantID:          m.TenantID,
		CreatedBy:         m.CreatedBy,
	}
}

// All returns every model for AutoMigrate, parents before children
func All() []any {
	return []any{
		&PartyModel{},
		&PartyAttachmentModel{},
		&PartyContactModel{},
		&CompanyModel{},
		&BankAccountModel{},
		&CategoryModel{},
		&AccountPayableModel{},
		&PaymentModel{},
		&AccountReceivableModel{},
		&IntegrationModel{},
		&IntegrationLogModel{},
	}
}
