package models

import (
	"time"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountPayableModel is the persistence model for the AccountPayable aggregate root.
type AccountPayableModel struct {
	TenantAggregateModel
	Description    string                `gorm:"type:varchar(200);not null"`
	SupplierID     *uuid.UUID            `gorm:"type:uuid;index"`
	CategoryID     *uuid.UUID            `gorm:"type:uuid;index"`
	BankAccountID  *uuid.UUID            `gorm:"type:uuid;index"`
	OriginalAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate        time.Time             `gorm:"type:date;not null;index"`
	Status         finance.PayableStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Remark         string                `gorm:"type:text"`
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "account_payables"
}

// ToDomain converts the persistence model to a domain AccountPayable entity.
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	return &finance.AccountPayable{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Description:         m.Description,
		SupplierID:          m.SupplierID,
		CategoryID:          m.CategoryID,
		BankAccountID:       m.BankAccountID,
		OriginalAmount:      m.OriginalAmount,
		PaidAmount:          m.PaidAmount,
		DueDate:             finance.CalendarDate(m.DueDate),
		Status:              m.Status,
		Remark:              m.Remark,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain AccountPayable entity.
func (m *AccountPayableModel) FromDomain(ap *finance.AccountPayable) {
	m.FromDomainTenantAggregateRoot(ap.TenantAggregateRoot)
	m.Description = ap.Description
	m.SupplierID = ap.SupplierID
	m.CategoryID = ap.CategoryID
	m.BankAccountID = ap.BankAccountID
	m.OriginalAmount = ap.OriginalAmount
	m.PaidAmount = ap.PaidAmount
	m.DueDate = ap.DueDate
	m.Status = ap.Status
	m.Remark = ap.Remark
	m.PaidAt = ap.PaidAt
}

// AccountPayableModelFromDomain creates a new persistence model from a domain AccountPayable entity.
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{}
	m.FromDomain(ap)
	return m
}

// PaymentModel is the persistence model for a payment against a payable.
type PaymentModel struct {
	TenantModel
	PayableID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentDate    time.Time             `gorm:"type:date;not null;index"`
	Method         finance.PaymentMethod `gorm:"type:varchar(30);not null"`
	DocumentNumber string                `gorm:"type:varchar(100)"`
	BankAccountID  *uuid.UUID            `gorm:"type:uuid;index"`
	Remark         string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		TenantEntity:   m.TenantEntity(),
		PayableID:      m.PayableID,
		Amount:         m.Amount,
		PaymentDate:    finance.CalendarDate(m.PaymentDate),
		Method:         m.Method,
		DocumentNumber: m.DocumentNumber,
		BankAccountID:  m.BankAccountID,
		Remark:         m.Remark,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		PayableID:      p.PayableID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         p.Method,
		DocumentNumber: p.DocumentNumber,
		BankAccountID:  p.BankAccountID,
		Remark:         p.Remark,
	}
	m.FromTenantEntity(p.TenantEntity)
	return m
}

// BankAccountModel is the persistence model for the BankAccount aggregate root.
type BankAccountModel struct {
	TenantAggregateModel
	Bank           string                  `gorm:"type:varchar(100);not null"`
	Branch         string                  `gorm:"type:varchar(20)"`
	AccountNumber  string                  `gorm:"type:varchar(30);not null"`
	AccountType    finance.BankAccountType `gorm:"type:varchar(20);not null;default:'CHECKING'"`
	OpeningBalance decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentBalance decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Active         bool                    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount entity.
func (m *BankAccountModel) ToDomain() *finance.BankAccount {
	return &finance.BankAccount{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Bank:                m.Bank,
		Branch:              m.Branch,
		AccountNumber:       m.AccountNumber,
		AccountType:         m.AccountType,
		OpeningBalance:      m.OpeningBalance,
		CurrentBalance:      m.CurrentBalance,
		Active:              m.Active,
	}
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount entity.
func BankAccountModelFromDomain(b *finance.BankAccount) *BankAccountModel {
	m := &BankAccountModel{
		Bank:           b.Bank,
		Branch:         b.Branch,
		AccountNumber:  b.AccountNumber,
		AccountType:    b.AccountType,
		OpeningBalance: b.OpeningBalance,
		CurrentBalance: b.CurrentBalance,
		Active:         b.Active,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}

// CategoryModel is the persistence model for a payable category.
type CategoryModel struct {
	TenantAggregateModel
	Name        string               `gorm:"type:varchar(100);not null"`
	Description string               `gorm:"type:varchar(500)"`
	Kind        finance.CategoryKind `gorm:"type:varchar(20);not null;default:'EXPENSE'"`
	Active      bool                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "finance_categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *finance.Category {
	return &finance.Category{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Kind:                m.Kind,
		Active:              m.Active,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *finance.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
		Kind:        c.Kind,
		Active:      c.Active,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
