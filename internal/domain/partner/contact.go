package partner

import (
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact is a person reachable at a party
type Contact struct {
	shared.TenantEntity
	PartyID uuid.UUID `json:"party_id"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Primary bool      `json:"primary"`
}

// NewContact validates and creates a contact for a party
func NewContact(tenantID, partyID uuid.UUID, name, role, email, phone string, primary bool) (*Contact, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PARTY", "Party ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Contact name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("INVALID_NAME", "Contact name cannot exceed 200 characters")
	}
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("INVALID_EMAIL", "Contact email is not valid")
	}
	return &Contact{
		TenantEntity: shared.NewTenantEntity(tenantID),
		PartyID:      partyID,
		Name:         name,
		Role:         strings.TrimSpace(role),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		Primary:      primary,
	}, nil
}
