package partner

import (
	"context"
	"testing"
	"time"

	financeapp "github.com/finerp/backend/internal/application/finance"
	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores address tax profile and opening date", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "12345678000190", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("ExistsByIntegrationCode", mock.Anything, tenantID, "ACME-01", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Company")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateCompanyRequest{
			LegalName:       "Acme Industria Ltda",
			TradeName:       "Acme",
			Document:        "12.345.678/0001-90",
			IntegrationCode: "ACME-01",
			Address:         AddressDTO{City: "Campinas", State: "sp"},
			SimplesNacional: true,
			TaxRegime:       ptr(1),
			OpenedAt:        financeapp.DateOf(time.Date(2010, 5, 4, 0, 0, 0, 0, time.UTC)),
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, "12345678000190", resp.Document)
		assert.Equal(t, "SP", resp.Address.State)
		assert.Equal(t, partner.DefaultCountryCode, resp.Address.CountryCode)
		require.NotNil(t, resp.OpenedAt)
		assert.Equal(t, "2010-05-04", *resp.OpenedAt)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate CNPJ is a conflict", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "12345678000190", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateCompanyRequest{LegalName: "Acme", Document: "12345678000190"}, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeConflict, domainErr.Code)
		assert.Equal(t, "DUPLICATE_DOCUMENT", domainErr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate integration code is a conflict", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		repo.On("ExistsByIntegrationCode", mock.Anything, tenantID, "ACME-01", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateCompanyRequest{LegalName: "Acme", IntegrationCode: "ACME-01"}, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_INTEGRATION_CODE", domainErr.Reason)
	})

	t.Run("out of range tax regime is rejected", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)

		_, err := svc.Create(ctx, tenantID, CreateCompanyRequest{LegalName: "Acme", TaxRegime: ptr(9)}, nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("uniqueness excludes the company itself", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		company, err := partner.NewCompany(tenantID, "Acme", "")
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, company.ID).Return(company, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "12345678000190", &company.ID).Return(false, nil)
		repo.On("Save", mock.Anything, company).Return(nil)

		resp, err := svc.Update(ctx, tenantID, company.ID, UpdateCompanyRequest{
			Document: ptr("12.345.678/0001-90"),
			Blocked:  ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "12345678000190", resp.Document)
		assert.True(t, resp.Blocked)
		assert.True(t, resp.Active, "unset flags keep their value")
		repo.AssertExpectations(t)
	})

	t.Run("missing company", func(t *testing.T) {
		repo := new(MockCompanyRepository)
		svc := NewCompanyService(repo, nil)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, tenantID, id, UpdateCompanyRequest{Notes: ptr("x")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCompanyService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepository)
	svc := NewCompanyService(repo, nil)
	company, err := partner.NewCompany(tenantID, "Acme", "")
	require.NoError(t, err)

	expected := partner.CompanyFilter{ActiveOnly: true}
	expected.Search = "acme"
	expected.Filter = expected.Filter.Normalize()
	repo.On("FindAllForTenant", mock.Anything, tenantID, expected).Return([]partner.Company{*company}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, expected).Return(int64(1), nil)

	items, total, err := svc.List(ctx, tenantID, CompanyListFilter{Search: "acme", ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, company.ID, items[0].ID)

	missing := uuid.New()
	repo.On("DeleteForTenant", mock.Anything, tenantID, missing).Return(shared.ErrNotFound)
	var domainErr *shared.DomainError
	require.ErrorAs(t, svc.Delete(ctx, tenantID, missing), &domainErr)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	repo.AssertExpectations(t)
}
