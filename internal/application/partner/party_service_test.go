package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/finerp/backend/internal/domain/partner"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func TestPartyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the document and stores contact data", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "12345678000190", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Party")).Return(nil)

		userID := uuid.New()
		resp, err := svc.Create(ctx, tenantID, CreatePartyRequest{
			Name:       "Papelaria Central Ltda",
			TradeName:  "Papelaria Central",
			Document:   "12.345.678/0001-90",
			Email:      "contato@central.com.br",
			City:       "Curitiba",
			State:      "pr",
			IsSupplier: true,
		}, &userID)
		require.NoError(t, err)

		assert.Equal(t, "12345678000190", resp.Document)
		assert.Equal(t, "Papelaria Central", resp.TradeName)
		assert.Equal(t, "PR", resp.State)
		assert.True(t, resp.IsSupplier)
		assert.False(t, resp.IsClient)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate document is a conflict", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "12345678901", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreatePartyRequest{Name: "Joao", Document: "123.456.789-01", IsClient: true}, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeConflict, domainErr.Code)
		assert.Equal(t, "DUPLICATE_DOCUMENT", domainErr.Reason)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty document skips the uniqueness check", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(ctx, tenantID, CreatePartyRequest{Name: "Walk-in", IsClient: true}, nil)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a party needs a role", func(t *testing.T) {
		svc := NewPartyService(new(MockPartyRepository), nil, nil, nil)
		_, err := svc.Create(ctx, tenantID, CreatePartyRequest{Name: "Nobody"}, nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestPartyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		party, err := partner.NewParty(tenantID, "Acme", "", true, false)
		require.NoError(t, err)
		party.SetContact("old@acme.com", "41 3333-0000")

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		repo.On("Save", mock.Anything, party).Return(nil)

		resp, err := svc.Update(ctx, tenantID, party.ID, UpdatePartyRequest{
			Email:      ptr("new@acme.com"),
			IsSupplier: ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "new@acme.com", resp.Email)
		assert.Equal(t, "41 3333-0000", resp.Phone)
		assert.True(t, resp.IsClient)
		assert.True(t, resp.IsSupplier)
	})

	t.Run("document change excludes the party itself", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		party, err := partner.NewParty(tenantID, "Acme", "", true, false)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		repo.On("ExistsByDocument", mock.Anything, tenantID, "98765432000110", &party.ID).Return(true, nil)

		_, err = svc.Update(ctx, tenantID, party.ID, UpdatePartyRequest{Document: ptr("98.765.432/0001-10")})
		assert.True(t, errors.Is(err, shared.ErrConflict))
	})

	t.Run("clearing both roles is rejected", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		party, err := partner.NewParty(tenantID, "Acme", "", true, false)
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)

		_, err = svc.Update(ctx, tenantID, party.ID, UpdatePartyRequest{IsClient: ptr(false)})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("unknown party", func(t *testing.T) {
		repo := new(MockPartyRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, tenantID, id, UpdatePartyRequest{Name: ptr("x")})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Party not found", domainErr.Message)
	})
}

func TestPartyService_ListSuppliers(t *testing.T) {
	repo := new(MockPartyRepository)
	svc := NewPartyService(repo, nil, nil, nil)
	supplier, err := partner.NewParty(tenantID, "Paper Co", "", false, true)
	require.NoError(t, err)

	onlySuppliers := mock.MatchedBy(func(f partner.PartyFilter) bool {
		return f.IsSupplier != nil && *f.IsSupplier && f.IsClient == nil && f.PageSize == 20
	})
	repo.On("FindAllForTenant", mock.Anything, tenantID, onlySuppliers).Return([]partner.Party{*supplier}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, onlySuppliers).Return(int64(1), nil)

	items, total, err := svc.ListSuppliers(context.Background(), tenantID, PartyListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Paper Co", items[0].Name)
	repo.AssertExpectations(t)
}

func TestPartyService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("supplier referenced by payables is kept", func(t *testing.T) {
		repo := new(MockPartyRepository)
		usage := new(MockSupplierUsage)
		svc := NewPartyService(repo, nil, usage, nil)
		party, err := partner.NewParty(tenantID, "Paper Co", "", false, true)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		usage.On("ExistsBySupplier", mock.Anything, tenantID, party.ID).Return(true, nil)

		err = svc.Delete(ctx, tenantID, party.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PARTY_IN_USE", domainErr.Reason)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes attachments before the party", func(t *testing.T) {
		repo := new(MockPartyRepository)
		attachments := new(MockAttachmentRepository)
		storage := new(MockObjectStorage)
		usage := new(MockSupplierUsage)
		svc := NewPartyService(repo, NewAttachmentService(attachments, repo, storage, nil), usage, nil)

		party, err := partner.NewParty(tenantID, "Paper Co", "", false, true)
		require.NoError(t, err)
		file, err := partner.NewAttachment(tenantID, party.ID, "contract.pdf", 10, "application/pdf", nil)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		usage.On("ExistsBySupplier", mock.Anything, tenantID, party.ID).Return(false, nil)
		attachments.On("FindByParty", mock.Anything, tenantID, party.ID).Return([]partner.Attachment{*file}, nil)
		storage.On("DeleteObject", mock.Anything, file.StorageKey).Return(nil)
		attachments.On("DeleteByParty", mock.Anything, tenantID, party.ID).Return(nil)
		repo.On("DeleteForTenant", mock.Anything, tenantID, party.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, party.ID))
		storage.AssertExpectations(t)
		attachments.AssertExpectations(t)
		repo.AssertExpectations(t)
	})
}

func ptr[T any](v T) *T {
	return &v
}

func TestPartyService_Contacts(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and lists contacts of an existing party", func(t *testing.T) {
		repo := new(MockPartyRepository)
		contacts := new(MockContactRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		svc.SetContacts(contacts)
		party, err := partner.NewParty(tenantID, "Paper Co", "", false, true)
		require.NoError(t, err)
		userID := uuid.New()

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		contacts.On("Create", mock.Anything, mock.MatchedBy(func(c *partner.Contact) bool {
			return c.PartyID == party.ID && c.Name == "Maria" && *c.CreatedBy == userID
		})).Return(nil)

		resp, err := svc.AddContact(ctx, tenantID, party.ID, CreateContactRequest{Name: " Maria ", Role: "Billing", Primary: true}, &userID)
		require.NoError(t, err)
		assert.Equal(t, "Maria", resp.Name)
		assert.True(t, resp.Primary)

		stored, err := partner.NewContact(tenantID, party.ID, "Maria", "Billing", "", "", true)
		require.NoError(t, err)
		contacts.On("FindByParty", mock.Anything, tenantID, party.ID).Return([]partner.Contact{*stored}, nil)
		items, err := svc.ListContacts(ctx, tenantID, party.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Billing", items[0].Role)
		contacts.AssertExpectations(t)
	})

	t.Run("missing party is not found", func(t *testing.T) {
		repo := new(MockPartyRepository)
		contacts := new(MockContactRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		svc.SetContacts(contacts)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.AddContact(ctx, tenantID, id, CreateContactRequest{Name: "Maria"}, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = svc.ListContacts(ctx, tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		contacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("deleting a party removes its contacts", func(t *testing.T) {
		repo := new(MockPartyRepository)
		contacts := new(MockContactRepository)
		svc := NewPartyService(repo, nil, nil, nil)
		svc.SetContacts(contacts)
		party, err := partner.NewParty(tenantID, "Paper Co", "", true, false)
		require.NoError(t, err)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, party.ID).Return(party, nil)
		contacts.On("DeleteByParty", mock.Anything, tenantID, party.ID).Return(nil)
		repo.On("DeleteForTenant", mock.Anything, tenantID, party.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, party.ID))
		contacts.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("without a contact store", func(t *testing.T) {
		svc := NewPartyService(new(MockPartyRepository), nil, nil, nil)
		_, err := svc.ListContacts(ctx, tenantID, uuid.New())
		assert.Error(t, err)
	})
}
