package models

import (
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountReceivableModel is the persistence model for the AccountReceivable aggregate root.
type AccountReceivableModel struct {
	TenantAggregateModel
	Description string                   `gorm:"type:varchar(200);not null"`
	ClientID    *uuid.UUID               `gorm:"type:uuid;index"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	DueDate     time.Time                `gorm:"type:date;not null;index"`
	ReceivedAt  *time.Time               `gorm:"type:date"`
	Status      finance.ReceivableStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Remark      string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "account_receivables"
}

// ToDomain converts the persistence model to a domain AccountReceivable entity.
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	return &finance.AccountReceivable{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Description:         m.Description,
		ClientID:            m.ClientID,
		Amount:              m.Amount,
		DueDate:             finance.CalendarDate(m.DueDate),
		ReceivedAt:          m.ReceivedAt,
		Status:              m.Status,
		Remark:              m.Remark,
	}
}

// AccountReceivableModelFromDomain creates a new persistence model from a domain AccountReceivable entity.
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		Description: ar.Description,
		ClientID:    ar.ClientID,
		Amount:      ar.Amount,
		DueDate:     ar.DueDate,
		ReceivedAt:  ar.ReceivedAt,
		Status:      ar.Status,
		Remark:      ar.Remark,
	}
	m.FromDomainTenantAggregateRoot(ar.TenantAggregateRoot)
	return m
}
