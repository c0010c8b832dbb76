package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierUsage reports whether payables still reference a supplier
type SupplierUsage interface {
	ExistsBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (bool, error)
}

// PartyService handles client and supplier records
type PartyService struct {
	parties     partner.PartyRepository
	attachments *AttachmentService
	contacts    partner.ContactRepository
	usage       SupplierUsage
	logger      *zap.Logger
}

// NewPartyService creates a new PartyService. attachments and usage may be nil.
func NewPartyService(parties partner.PartyRepository, attachments *AttachmentService, usage SupplierUsage, logger *zap.Logger) *PartyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartyService{
		parties:     parties,
		attachments: attachments,
		usage:       usage,
		logger:      logger,
	}
}

// SetContacts enables the contact operations
func (s *PartyService) SetContacts(contacts partner.ContactRepository) {
	s.contacts = contacts
}

// Create creates a party with a tenant-unique document
func (s *PartyService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePartyRequest, createdBy *uuid.UUID) (*PartyResponse, error) {
	party, err := partner.NewParty(tenantID, req.Name, req.Document, req.IsClient, req.IsSupplier)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueDocument(ctx, tenantID, party.Document, nil); err != nil {
		return nil, err
	}
	if req.TradeName != "" {
		if err := party.Rename(req.Name, req.TradeName); err != nil {
			return nil, err
		}
	}
	party.SetContact(req.Email, req.Phone)
	if err := party.SetLocation(req.City, req.State); err != nil {
		return nil, err
	}
	party.SetNotes(req.Notes)
	if createdBy != nil {
		party.SetCreatedBy(*createdBy)
	}

	if err := s.parties.Save(ctx, party); err != nil {
		return nil, fmt.Errorf("failed to save party: %w", err)
	}
	return toPartyResponse(party), nil
}

// GetByID gets a party by ID
func (s *PartyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PartyResponse, error) {
	party, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// List lists parties with filtering
func (s *PartyService) List(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	return s.list(ctx, tenantID, filter, nil, nil)
}

// ListClients lists the parties flagged as clients
func (s *PartyService) ListClients(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	yes := true
	return s.list(ctx, tenantID, filter, &yes, nil)
}

// ListSuppliers lists the parties flagged as suppliers
func (s *PartyService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter) ([]PartyResponse, int64, error) {
	yes := true
	return s.list(ctx, tenantID, filter, nil, &yes)
}

func (s *PartyService) list(ctx context.Context, tenantID uuid.UUID, filter PartyListFilter, isClient, isSupplier *bool) ([]PartyResponse, int64, error) {
	domainFilter := partner.PartyFilter{
		IsClient:   isClient,
		IsSupplier: isSupplier,
		Active:     filter.Active,
	}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()

	parties, err := s.parties.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.parties.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = *toPartyResponse(&parties[i])
	}
	return responses, total, nil
}

// Update applies a partial update
func (s *PartyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	party, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.TradeName != nil {
		name, tradeName := party.Name, party.TradeName
		if req.Name != nil {
			name = *req.Name
		}
		if req.TradeName != nil {
			tradeName = *req.TradeName
		}
		if err := party.Rename(name, tradeName); err != nil {
			return nil, err
		}
	}
	if req.Document != nil {
		if err := party.SetDocument(*req.Document); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueDocument(ctx, tenantID, party.Document, &id); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil {
		email, phone := party.Email, party.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		party.SetContact(email, phone)
	}
	if req.City != nil || req.State != nil {
		city, state := party.City, party.State
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if err := party.SetLocation(city, state); err != nil {
			return nil, err
		}
	}
	if req.IsClient != nil || req.IsSupplier != nil {
		isClient, isSupplier := party.IsClient, party.IsSupplier
		if req.IsClient != nil {
			isClient = *req.IsClient
		}
		if req.IsSupplier != nil {
			isSupplier = *req.IsSupplier
		}
		if err := party.SetRoles(isClient, isSupplier); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		party.SetActive(*req.Active)
	}
	if req.Notes != nil {
		party.SetNotes(*req.Notes)
	}

	if err := s.parties.Save(ctx, party); err != nil {
		return nil, fmt.Errorf("failed to save party: %w", err)
	}
	return toPartyResponse(party), nil
}

// Delete deletes a party and its attachments. A supplier still referenced by
// payables is kept.
func (s *PartyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	if s.usage != nil {
		inUse, err := s.usage.ExistsBySupplier(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to check supplier usage: %w", err)
		}
		if inUse {
			return shared.NewConflictError("PARTY_IN_USE", "Party is referenced by account payables")
		}
	}
	if s.attachments != nil {
		if err := s.attachments.DeleteAll(ctx, tenantID, id); err != nil {
			return err
		}
	}
	if s.contacts != nil {
		if err := s.contacts.DeleteByParty(ctx, tenantID, id); err != nil {
			return fmt.Errorf("failed to delete party contacts: %w", err)
		}
	}
	if err := s.parties.DeleteForTenant(ctx, tenantID, id); err != nil {
		return notFound(err, "Party")
	}

	s.logger.Info("Party deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("party_id", id.String()),
	)
	return nil
}

// AddContact records a contact person for a party
func (s *PartyService) AddContact(ctx context.Context, tenantID, partyID uuid.UUID, req CreateContactRequest, createdBy *uuid.UUID) (*ContactResponse, error) {
	if s.contacts == nil {
		return nil, errContactsDisabled
	}
	if _, err := s.find(ctx, tenantID, partyID); err != nil {
		return nil, err
	}
	contact, err := partner.NewContact(tenantID, partyID, req.Name, req.Role, req.Email, req.Phone, req.Primary)
	if err != nil {
		return nil, err
	}
	contact.CreatedBy = createdBy
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return toContactResponse(contact), nil
}

// ListContacts lists the contacts of a party
func (s *PartyService) ListContacts(ctx context.Context, tenantID, partyID uuid.UUID) ([]ContactResponse, error) {
	if s.contacts == nil {
		return nil, errContactsDisabled
	}
	if _, err := s.find(ctx, tenantID, partyID); err != nil {
		return nil, err
	}
	contacts, err := s.contacts.FindByParty(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = *toContactResponse(&contacts[i])
	}
	return responses, nil
}

var errContactsDisabled = errors.New("party contacts are not configured")

func (s *PartyService) find(ctx context.Context, tenantID, id uuid.UUID) (*partner.Party, error) {
	party, err := s.parties.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Party")
	}
	return party, nil
}

func (s *PartyService) ensureUniqueDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) error {
	if document == "" {
		return nil
	}
	exists, err := s.parties.ExistsByDocument(ctx, tenantID, document, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check party document: %w", err)
	}
	if exists {
		return shared.NewConflictError("DUPLICATE_DOCUMENT", "A party with this document already exists")
	}
	return nil
}

func notFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
