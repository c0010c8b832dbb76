package partner

import (
	"context"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartyFilter defines filtering options for party queries
type PartyFilter struct {
	shared.Filter
	IsClient   *bool
	IsSupplier *bool
	Active     *bool
}

// PartyRepository defines the interface for party persistence
type PartyRepository interface {
	// FindByIDForTenant finds a party by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Party, error)

	// FindAllForTenant finds parties matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PartyFilter) ([]Party, error)

	// CountForTenant counts parties matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PartyFilter) (int64, error)

	// ExistsByDocument checks whether another party already uses the document
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a party
	Save(ctx context.Context, party *Party) error

	// DeleteForTenant deletes a party
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AttachmentRepository defines persistence for party attachments
type AttachmentRepository interface {
	FindByParty(ctx context.Context, tenantID, partyID uuid.UUID) ([]Attachment, error)
	Create(ctx context.Context, attachment *Attachment) error
	DeleteByParty(ctx context.Context, tenantID, partyID uuid.UUID) error
}

// ContactRepository defines persistence for party contacts
type ContactRepository interface {
	FindByParty(ctx context.Context, tenantID, partyID uuid.UUID) ([]Contact, error)
	Create(ctx context.Context, contact *Contact) error
	DeleteByParty(ctx context.Context, tenantID, partyID uuid.UUID) error
}

// CompanyFilter defines filtering options for company queries
type CompanyFilter struct {
	shared.Filter
	ActiveOnly bool
}

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CompanyFilter) ([]Company, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CompanyFilter) (int64, error)

	// ExistsByDocument checks whether another company already uses the CNPJ
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error)

	// ExistsByIntegrationCode checks whether another company already uses the code
	ExistsByIntegrationCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)

	Save(ctx context.Context, company *Company) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
