package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultCountryCode is the country code used when none is given (Brazil)
const DefaultCountryCode = "1058"

// Activity types accepted by the tax authority registration
const (
	MinActivityType = 0
	MaxActivityType = 5
)

// Tax regime codes (1 Simples Nacional, 2 excess revenue, 3 normal regime)
const (
	MinTaxRegime = 1
	MaxTaxRegime = 3
)

// Address is the postal address of a company
type Address struct {
	Street      string `json:"street"`
	Number      string `json:"number"`
	District    string `json:"district"`
	Complement  string `json:"complement"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// Company is a legal entity operated by the tenant.
// Document (CNPJ) and IntegrationCode are unique within a tenant when set.
type Company struct {
	shared.TenantAggregateRoot
	LegalName             string     `json:"legal_name"`
	TradeName             string     `json:"trade_name"`
	Document              string     `json:"document"`
	IntegrationCode       string     `json:"integration_code"`
	StateRegistration     string     `json:"state_registration"`
	MunicipalRegistration string     `json:"municipal_registration"`
	Address               Address    `json:"address"`
	Phone                 string     `json:"phone"`
	Email                 string     `json:"email"`
	Homepage              string     `json:"homepage"`
	SimplesNacional       bool       `json:"simples_nacional"`
	OpenedAt              *time.Time `json:"opened_at,omitempty"`
	CNAE                  string     `json:"cnae"`
	ActivityType          *int       `json:"activity_type,omitempty"`
	TaxRegime             *int       `json:"tax_regime,omitempty"`
	Notes                 string     `json:"notes"`
	Active                bool       `json:"active"`
	Blocked               bool       `json:"blocked"`
}

// NewCompany creates an active, unblocked company
func NewCompany(tenantID uuid.UUID, legalName, document string) (*Company, error) {
	c := &Company{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Address:             Address{CountryCode: DefaultCountryCode},
		Active:              true,
	}
	if err := c.Rename(legalName, ""); err != nil {
		return nil, err
	}
	if err := c.SetDocument(document); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename sets the legal and trade names
func (c *Company) Rename(legalName, tradeName string) error {
	legalName = strings.TrimSpace(legalName)
	if legalName == "" {
		return shared.NewValidationError("INVALID_NAME", "Legal name cannot be empty")
	}
	if len(legalName) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Legal name cannot exceed 200 characters")
	}
	tradeName = strings.TrimSpace(tradeName)
	if len(tradeName) > 100 {
		return shared.NewValidationError("INVALID_TRADE_NAME", "Trade name cannot exceed 100 characters")
	}
	c.LegalName = legalName
	c.TradeName = tradeName
	c.touch()
	return nil
}

// SetDocument sets the CNPJ (14 digits); empty clears it
func (c *Company) SetDocument(document string) error {
	digits := NormalizeDocument(document)
	if digits != "" && len(digits) != 14 {
		return shared.NewValidationError("INVALID_DOCUMENT", fmt.Sprintf("CNPJ must have 14 digits, got %d", len(digits)))
	}
	c.Document = digits
	c.touch()
	return nil
}

// SetIntegrationCode sets the code used by external systems to find the company
func (c *Company) SetIntegrationCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) > 60 {
		return shared.NewValidationError("INVALID_INTEGRATION_CODE", "Integration code cannot exceed 60 characters")
	}
	c.IntegrationCode = code
	c.touch()
	return nil
}

// SetRegistrations sets the state and municipal registrations
func (c *Company) SetRegistrations(state, municipal string) {
	c.StateRegistration = strings.TrimSpace(state)
	c.MunicipalRegistration = strings.TrimSpace(municipal)
	c.touch()
}

// SetAddress replaces the address. An empty country code becomes DefaultCountryCode.
func (c *Company) SetAddress(addr Address) error {
	addr.State = strings.ToUpper(strings.TrimSpace(addr.State))
	if addr.State != "" && len(addr.State) != 2 {
		return shared.NewValidationError("INVALID_STATE_CODE", "State must be a two-letter code")
	}
	addr.PostalCode = NormalizeDocument(addr.PostalCode)
	if addr.PostalCode != "" && len(addr.PostalCode) != 8 {
		return shared.NewValidationError("INVALID_POSTAL_CODE", "Postal code must have 8 digits")
	}
	if strings.TrimSpace(addr.CountryCode) == "" {
		addr.CountryCode = DefaultCountryCode
	}
	c.Address = addr
	c.touch()
	return nil
}

// SetContact sets phone, email and homepage
func (c *Company) SetContact(phone, email, homepage string) {
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Homepage = strings.TrimSpace(homepage)
	c.touch()
}

// SetTaxProfile sets the tax classification of the company
func (c *Company) SetTaxProfile(simplesNacional bool, cnae string, activityType, taxRegime *int) error {
	if activityType != nil && (*activityType < MinActivityType || *activityType > MaxActivityType) {
		return shared.NewValidationError("INVALID_ACTIVITY_TYPE", fmt.Sprintf("Activity type must be between %d and %d", MinActivityType, MaxActivityType))
	}
	if taxRegime != nil && (*taxRegime < MinTaxRegime || *taxRegime > MaxTaxRegime) {
		return shared.NewValidationError("INVALID_TAX_REGIME", fmt.Sprintf("Tax regime must be between %d and %d", MinTaxRegime, MaxTaxRegime))
	}
	c.SimplesNacional = simplesNacional
	c.CNAE = strings.TrimSpace(cnae)
	c.ActivityType = activityType
	c.TaxRegime = taxRegime
	c.touch()
	return nil
}

// SetOpenedAt sets the date the company was opened; nil clears it
func (c *Company) SetOpenedAt(openedAt *time.Time) {
	if openedAt != nil {
		day := time.Date(openedAt.Year(), openedAt.Month(), openedAt.Day(), 0, 0, 0, 0, time.UTC)
		openedAt = &day
	}
	c.OpenedAt = openedAt
	c.touch()
}

// SetNotes sets free-text notes
func (c *Company) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// SetStatus sets the active and blocked flags
func (c *Company) SetStatus(active, blocked bool) {
	c.Active = active
	c.Blocked = blocked
	c.touch()
}

func (c *Company) touch() {
	c.Touch()
	c.IncrementVersion()
}
