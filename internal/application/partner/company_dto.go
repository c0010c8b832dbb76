package partner

import (
	"time"

	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/finerp/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// AddressDTO is the postal address of a company
type AddressDTO struct {
	Street      string `json:"street" binding:"max=200"`
	Number      string `json:"number" binding:"max=20"`
	District    string `json:"district" binding:"max=100"`
	Complement  string `json:"complement" binding:"max=100"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"omitempty,len=2"`
	PostalCode  string `json:"postal_code" binding:"max=10"`
	CountryCode string `json:"country_code" binding:"max=4"`
}

// CreateCompanyRequest represents a request to register a company
type CreateCompanyRequest struct {
	LegalName             string           `json:"legal_name" binding:"required,min=1,max=200"`
	TradeName             string           `json:"trade_name" binding:"max=100"`
	Document              string           `json:"document" binding:"max=20"`
	IntegrationCode       string           `json:"integration_code" binding:"max=60"`
	StateRegistration     string           `json:"state_registration" binding:"max=20"`
	MunicipalRegistration string           `json:"municipal_registration" binding:"max=20"`
	Address               AddressDTO       `json:"address"`
	Phone                 string           `json:"phone" binding:"max=50"`
	Email                 string           `json:"email" binding:"omitempty,email,max=200"`
	Homepage              string           `json:"homepage" binding:"max=200"`
	SimplesNacional       bool             `json:"simples_nacional"`
	OpenedAt              *financeapp.Date `json:"opened_at" swaggertype:"string" format:"date" example:"2010-05-04"`
	CNAE                  string           `json:"cnae" binding:"max=20"`
	ActivityType          *int             `json:"activity_type" binding:"omitempty,min=0,max=5"`
	TaxRegime             *int             `json:"tax_regime" binding:"omitempty,min=1,max=3"`
	Notes                 string           `json:"notes" binding:"max=2000"`
}

// UpdateCompanyRequest represents a partial update of a company
type UpdateCompanyRequest struct {
	LegalName             *string          `json:"legal_name" binding:"omitempty,min=1,max=200"`
	TradeName             *string          `json:"trade_name" binding:"omitempty,max=100"`
	Document              *string          `json:"document" binding:"omitempty,max=20"`
	IntegrationCode       *string          `json:"integration_code" binding:"omitempty,max=60"`
	StateRegistration     *string          `json:"state_registration" binding:"omitempty,max=20"`
	MunicipalRegistration *string          `json:"municipal_registration" binding:"omitempty,max=20"`
	Address               *AddressDTO      `json:"address"`
	Phone                 *string          `json:"phone" binding:"omitempty,max=50"`
	Email                 *string          `json:"email" binding:"omitempty,email,max=200"`
	Homepage              *string          `json:"homepage" binding:"omitempty,max=200"`
	SimplesNacional       *bool            `json:"simples_nacional"`
	OpenedAt              *financeapp.Date `json:"opened_at" swaggertype:"string" format:"date" example:"2010-05-04"`
	CNAE                  *string          `json:"cnae" binding:"omitempty,max=20"`
	ActivityType          *int             `json:"activity_type" binding:"omitempty,min=0,max=5"`
	TaxRegime             *int             `json:"tax_regime" binding:"omitempty,min=1,max=3"`
	Notes                 *string          `json:"notes" binding:"omitempty,max=2000"`
	Active                *bool            `json:"active"`
	Blocked               *bool            `json:"blocked"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TenantID              uuid.UUID  `json:"tenant_id"`
	LegalName             string     `json:"legal_name"`
	TradeName             string     `json:"trade_name,omitempty"`
	Document              string     `json:"document,omitempty"`
	IntegrationCode       string     `json:"integration_code,omitempty"`
	StateRegistration     string     `json:"state_registration,omitempty"`
	MunicipalRegistration string     `json:"municipal_registration,omitempty"`
	Address               AddressDTO `json:"address"`
	Phone                 string     `json:"phone,omitempty"`
	Email                 string     `json:"email,omitempty"`
	Homepage              string     `json:"homepage,omitempty"`
	SimplesNacional       bool       `json:"simples_nacional"`
	OpenedAt              *string    `json:"opened_at,omitempty"`
	CNAE                  string     `json:"cnae,omitempty"`
	ActivityType          *int       `json:"activity_type,omitempty"`
	TaxRegime             *int       `json:"tax_regime,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	Active                bool       `json:"active"`
	Blocked               bool       `json:"blocked"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Version               int        `json:"version"`
}

// CompanyListFilter defines filtering options for company list queries
type CompanyListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

func (a AddressDTO) toDomain() partner.Address {
	return partner.Address{
		Street:      a.Street,
		Number:      a.Number,
		District:    a.District,
		Complement:  a.Complement,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
	}
}

func toCompanyResponse(c *partner.Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:                    c.ID,
		TenantID:              c.TenantID,
		LegalName:             c.LegalName,
		TradeName:             c.TradeName,
		Document:              c.Document,
		IntegrationCode:       c.IntegrationCode,
		StateRegistration:     c.StateRegistration,
		MunicipalRegistration: c.MunicipalRegistration,
		Address: AddressDTO{
			Street:      c.Address.Street,
			Number:      c.Address.Number,
			District:    c.Address.District,
			Complement:  c.Address.Complement,
			City:        c.Address.City,
			State:       c.Address.State,
			PostalCode:  c.Address.PostalCode,
			CountryCode: c.Address.CountryCode,
		},
		Phone:           c.Phone,
		Email:           c.Email,
		Homepage:        c.Homepage,
		SimplesNacional: c.SimplesNacional,
		CNAE:            c.CNAE,
		ActivityType:    c.ActivityType,
		TaxRegime:       c.TaxRegime,
		Notes:           c.Notes,
		Active:          c.Active,
		Blocked:         c.Blocked,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
	if c.OpenedAt != nil {
		opened := c.OpenedAt.Format(financeapp.DateLayout)
		resp.OpenedAt = &opened
	}
	return resp
}
