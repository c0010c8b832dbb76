package partner

import (
	"context"
	"fmt"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyService handles the companies operated by a tenant
type CompanyService struct {
	companies partner.CompanyRepository
	logger    *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies partner.CompanyRepository, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{companies: companies, logger: logger}
}

// Create registers a company. CNPJ and integration code must be unused.
func (s *CompanyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCompanyRequest, createdBy *uuid.UUID) (*CompanyResponse, error) {
	company, err := partner.NewCompany(tenantID, req.LegalName, req.Document)
	if err != nil {
		return nil, err
	}
	if err := company.Rename(req.LegalName, req.TradeName); err != nil {
		return nil, err
	}
	if err := company.SetIntegrationCode(req.IntegrationCode); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, company, nil); err != nil {
		return nil, err
	}
	company.SetRegistrations(req.StateRegistration, req.MunicipalRegistration)
	if err := company.SetAddress(req.Address.toDomain()); err != nil {
		return nil, err
	}
	company.SetContact(req.Phone, req.Email, req.Homepage)
	if err := company.SetTaxProfile(req.SimplesNacional, req.CNAE, req.ActivityType, req.TaxRegime); err != nil {
		return nil, err
	}
	if req.OpenedAt != nil {
		opened := req.OpenedAt.Time
		company.SetOpenedAt(&opened)
	}
	company.SetNotes(req.Notes)
	if createdBy != nil {
		company.SetCreatedBy(*createdBy)
	}

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	s.logger.Info("Company created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("company_id", company.ID.String()),
	)
	return toCompanyResponse(company), nil
}

// GetByID gets a company by ID
func (s *CompanyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// List lists companies with filtering
func (s *CompanyService) List(ctx context.Context, tenantID uuid.UUID, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	domainFilter := partner.CompanyFilter{ActiveOnly: filter.ActiveOnly}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()

	companies, err := s.companies.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.companies.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = *toCompanyResponse(&companies[i])
	}
	return responses, total, nil
}

// Update applies a partial update, re-checking uniqueness against other companies
func (s *CompanyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.LegalName != nil || req.TradeName != nil {
		if err := company.Rename(valueOr(req.LegalName, company.LegalName), valueOr(req.TradeName, company.TradeName)); err != nil {
			return nil, err
		}
	}
	if req.Document != nil {
		if err := company.SetDocument(*req.Document); err != nil {
			return nil, err
		}
	}
	if req.IntegrationCode != nil {
		if err := company.SetIntegrationCode(*req.IntegrationCode); err != nil {
			return nil, err
		}
	}
	if req.Document != nil || req.IntegrationCode != nil {
		if err := s.ensureUnique(ctx, company, &id); err != nil {
			return nil, err
		}
	}
	if req.StateRegistration != nil || req.MunicipalRegistration != nil {
		company.SetRegistrations(
			valueOr(req.StateRegistration, company.StateRegistration),
			valueOr(req.MunicipalRegistration, company.MunicipalRegistration),
		)
	}
	if req.Address != nil {
		if err := company.SetAddress(req.Address.toDomain()); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil || req.Homepage != nil {
		company.SetContact(valueOr(req.Phone, company.Phone), valueOr(req.Email, company.Email), valueOr(req.Homepage, company.Homepage))
	}
	if req.SimplesNacional != nil || req.CNAE != nil || req.ActivityType != nil || req.TaxRegime != nil {
		activityType, taxRegime := company.ActivityType, company.TaxRegime
		if req.ActivityType != nil {
			activityType = req.ActivityType
		}
		if req.TaxRegime != nil {
			taxRegime = req.TaxRegime
		}
		if err := company.SetTaxProfile(valueOr(req.SimplesNacional, company.SimplesNacional), valueOr(req.CNAE, company.CNAE), activityType, taxRegime); err != nil {
			return nil, err
		}
	}
	if req.OpenedAt != nil {
		opened := req.OpenedAt.Time
		company.SetOpenedAt(&opened)
	}
	if req.Notes != nil {
		company.SetNotes(*req.Notes)
	}
	if req.Active != nil || req.Blocked != nil {
		company.SetStatus(valueOr(req.Active, company.Active), valueOr(req.Blocked, company.Blocked))
	}

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	return toCompanyResponse(company), nil
}

// Delete deletes a company
func (s *CompanyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.companies.DeleteForTenant(ctx, tenantID, id); err != nil {
		return notFound(err, "Company")
	}
	s.logger.Info("Company deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("company_id", id.String()),
	)
	return nil
}

func (s *CompanyService) find(ctx context.Context, tenantID, id uuid.UUID) (*partner.Company, error) {
	company, err := s.companies.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Company")
	}
	return company, nil
}

func (s *CompanyService) ensureUnique(ctx context.Context, company *partner.Company, excludeID *uuid.UUID) error {
	if company.Document != "" {
		exists, err := s.companies.ExistsByDocument(ctx, company.TenantID, company.Document, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check company document: %w", err)
		}
		if exists {
			return shared.NewConflictError("DUPLICATE_DOCUMENT", "A company with this CNPJ already exists")
		}
	}
	if company.IntegrationCode != "" {
		exists, err := s.companies.ExistsByIntegrationCode(ctx, company.TenantID, company.IntegrationCode, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check company integration code: %w", err)
		}
		if exists {
			return shared.NewConflictError("DUPLICATE_INTEGRATION_CODE", "A company with this integration code already exists")
		}
	}
	return nil
}

func valueOr[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}
