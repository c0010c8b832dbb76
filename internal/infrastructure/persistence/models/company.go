package models

import (
	"time"

	"github.com/finerp/backend/internal/domain/partner"
)

// CompanyModel is the persistence model for the Company aggregate root.
// Document and integration code uniqueness is checked before save.
type CompanyModel struct {
	TenantAggregateModel
	LegalName             string     `gorm:"type:varchar(200);not null;index"`
	TradeName             string     `gorm:"type:varchar(100)"`
	Document              string     `gorm:"type:varchar(14);index"`
	IntegrationCode       string     `gorm:"type:varchar(60);index"`
	StateRegistration     string     `gorm:"type:varchar(20)"`
	MunicipalRegistration string     `gorm:"type:varchar(20)"`
	Street                string     `gorm:"type:varchar(200)"`
	Number                string     `gorm:"type:varchar(20)"`
	District              string     `gorm:"type:varchar(100)"`
	Complement            string     `gorm:"type:varchar(100)"`
	City                  string     `gorm:"type:varchar(100)"`
	State                 string     `gorm:"type:varchar(2)"`
	PostalCode            string     `gorm:"type:varchar(8)"`
	CountryCode           string     `gorm:"type:varchar(4);not null;default:'1058'"`
	Phone                 string     `gorm:"type:varchar(50)"`
	Email                 string     `gorm:"type:varchar(200)"`
	Homepage              string     `gorm:"type:varchar(200)"`
	SimplesNacional       bool       `gorm:"not null;default:false"`
	OpenedAt              *time.Time `gorm:"type:date"`
	CNAE                  string     `gorm:"type:varchar(20)"`
	ActivityType          *int
	TaxRegime             *int
	Notes                 string `gorm:"type:text"`
	Active                bool   `gorm:"not null;index"`
	Blocked               bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *partner.Company {
	return &partner.Company{
		TenantAggregateRoot:   m.TenantAggregateRoot(),
		LegalName:             m.LegalName,
		TradeName:             m.TradeName,
		Document:              m.Document,
		IntegrationCode:       m.IntegrationCode,
		StateRegistration:     m.StateRegistration,
		MunicipalRegistration: m.MunicipalRegistration,
		Address: partner.Address{
			Street:      m.Street,
			Number:      m.Number,
			District:    m.District,
			Complement:  m.Complement,
			City:        m.City,
			State:       m.State,
			PostalCode:  m.PostalCode,
			CountryCode: m.CountryCode,
		},
		Phone:           m.Phone,
		Email:           m.Email,
		Homepage:        m.Homepage,
		SimplesNacional: m.SimplesNacional,
		OpenedAt:        m.OpenedAt,
		CNAE:            m.CNAE,
		ActivityType:    m.ActivityType,
		TaxRegime:       m.TaxRegime,
		Notes:           m.Notes,
		Active:          m.Active,
		Blocked:         m.Blocked,
	}
}

// CompanyModelFromDomain creates a new persistence model from a domain Company entity.
func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	m := &CompanyModel{
		LegalName:             c.LegalName,
		TradeName:             c.TradeName,
		Document:              c.Document,
		IntegrationCode:       c.IntegrationCode,
		StateRegistration:     c.StateRegistration,
		MunicipalRegistration: c.MunicipalRegistration,
		Street:                c.Address.Street,
		Number:                c.Address.Number,
		District:              c.Address.District,
		Complement:            c.Address.Complement,
		City:                  c.Address.City,
		State:                 c.Address.State,
		PostalCode:            c.Address.PostalCode,
		CountryCode:           c.Address.CountryCode,
		Phone:                 c.Phone,
		Email:                 c.Email,
		Homepage:              c.Homepage,
		SimplesNacional:       c.SimplesNacional,
		OpenedAt:              c.OpenedAt,
		CNAE:                  c.CNAE,
		ActivityType:          c.ActivityType,
		TaxRegime:             c.TaxRegime,
		Notes:                 c.Notes,
		Active:                c.Active,
		Blocked:               c.Blocked,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
