package partner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Party is a client and/or supplier of the company.
// A party must play at least one of the two roles.
type Party struct {
	shared.TenantAggregateRoot
	Name       string `json:"name"`
	TradeName  string `json:"trade_name"`
	Document   string `json:"document"` // CPF or CNPJ, digits only
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	State      string `json:"state"`
	IsClient   bool   `json:"is_client"`
	IsSupplier bool   `json:"is_supplier"`
	Active     bool   `json:"active"`
	Notes      string `json:"notes"`
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeDocument strips punctuation from a CPF/CNPJ
func NormalizeDocument(document string) string {
	return nonDigits.ReplaceAllString(document, "")
}

// NewParty creates an active party
func NewParty(tenantID uuid.UUID, name, document string, isClient, isSupplier bool) (*Party, error) {
	p := &Party{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := p.Rename(name, ""); err != nil {
		return nil, err
	}
	if err := p.SetDocument(document); err != nil {
		return nil, err
	}
	if err := p.SetRoles(isClient, isSupplier); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename sets the legal and trade names
func (p *Party) Rename(name, tradeName string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Party name cannot exceed 200 characters")
	}
	p.Name = name
	p.TradeName = strings.TrimSpace(tradeName)
	p.touch()
	return nil
}

// SetDocument sets the CPF (11 digits) or CNPJ (14 digits); empty clears it
func (p *Party) SetDocument(document string) error {
	digits := NormalizeDocument(document)
	if digits != "" && len(digits) != 11 && len(digits) != 14 {
		return shared.NewValidationError("INVALID_DOCUMENT", fmt.Sprintf("Document must have 11 or 14 digits, got %d", len(digits)))
	}
	p.Document = digits
	p.touch()
	return nil
}

// SetRoles sets the client and supplier flags
func (p *Party) SetRoles(isClient, isSupplier bool) error {
	if !isClient && !isSupplier {
		return shared.NewValidationError("INVALID_ROLES", "Party must be a client, a supplier or both")
	}
	p.IsClient = isClient
	p.IsSupplier = isSupplier
	p.touch()
	return nil
}

// SetContact sets email and phone
func (p *Party) SetContact(email, phone string) {
	p.Email = strings.TrimSpace(email)
	p.Phone = strings.TrimSpace(phone)
	p.touch()
}

// SetLocation sets city and two-letter state
func (p *Party) SetLocation(city, state string) error {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != "" && len(state) != 2 {
		return shared.NewValidationError("INVALID_STATE_CODE", "State must be a two-letter code")
	}
	p.City = strings.TrimSpace(city)
	p.State = state
	p.touch()
	return nil
}

// SetNotes sets free-text notes
func (p *Party) SetNotes(notes string) {
	p.Notes = notes
	p.touch()
}

// SetActive toggles the party
func (p *Party) SetActive(active bool) {
	p.Active = active
	p.touch()
}

// CanSupply reports whether payables may reference this party
func (p *Party) CanSupply() bool {
	return p.IsSupplier
}

func (p *Party) touch() {
	p.Touch()
	p.IncrementVersion()
}
