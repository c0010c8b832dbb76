package partner

import (
	"errors"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	c, err := NewCompany(uuid.New(), "  Acme Indústria Ltda ", "12.345.678/0001-90")
	require.NoError(t, err)
	assert.Equal(t, "Acme Indústria Ltda", c.LegalName)
	assert.Equal(t, "12345678000190", c.Document)
	assert.Equal(t, DefaultCountryCode, c.Address.CountryCode)
	assert.True(t, c.Active)
	assert.False(t, c.Blocked)

	_, err = NewCompany(uuid.New(), "", "")
	assert.True(t, errors.Is(err, shared.ErrValidation))
	_, err = NewCompany(uuid.New(), "Acme", "123.456.789-01")
	assert.True(t, errors.Is(err, shared.ErrValidation), "a CPF is not a company document")
}

func TestCompany_SetAddress(t *testing.T) {
	c, err := NewCompany(uuid.New(), "Acme", "")
	require.NoError(t, err)

	require.NoError(t, c.SetAddress(Address{City: "Campinas", State: "sp", PostalCode: "13010-000"}))
	assert.Equal(t, "SP", c.Address.State)
	assert.Equal(t, "13010000", c.Address.PostalCode)
	assert.Equal(t, DefaultCountryCode, c.Address.CountryCode)

	assert.Error(t, c.SetAddress(Address{State: "SAO"}))
	assert.Error(t, c.SetAddress(Address{PostalCode: "123"}))
}

func TestCompany_SetTaxProfile(t *testing.T) {
	c, err := NewCompany(uuid.New(), "Acme", "")
	require.NoError(t, err)
	of := func(v int) *int { return &v }

	require.NoError(t, c.SetTaxProfile(true, "6201-5/01", of(0), of(1)))
	assert.True(t, c.SimplesNacional)
	assert.Equal(t, 1, *c.TaxRegime)

	assert.Error(t, c.SetTaxProfile(false, "", of(6), nil))
	assert.Error(t, c.SetTaxProfile(false, "", nil, of(4)))
	require.NoError(t, c.SetTaxProfile(false, "", nil, nil))
	assert.Nil(t, c.ActivityType)
}

func TestCompany_SetOpenedAt(t *testing.T) {
	c, err := NewCompany(uuid.New(), "Acme", "")
	require.NoError(t, err)
	opened := time.Date(2010, 5, 4, 13, 0, 0, 0, time.UTC)
	c.SetOpenedAt(&opened)
	assert.Equal(t, time.Date(2010, 5, 4, 0, 0, 0, 0, time.UTC), *c.OpenedAt)
	c.SetOpenedAt(nil)
	assert.Nil(t, c.OpenedAt)
}

func TestNewContact(t *testing.T) {
	tenantID, partyID := uuid.New(), uuid.New()

	contact, err := NewContact(tenantID, partyID, " Maria Souza ", "Finance", "maria@acme.example", "", true)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", contact.Name)
	assert.Equal(t, partyID, contact.PartyID)
	assert.True(t, contact.Primary)

	_, err = NewContact(tenantID, uuid.Nil, "Maria", "", "", "", false)
	assert.Error(t, err)
	_, err = NewContact(tenantID, partyID, " ", "", "", "", false)
	assert.Error(t, err)
	_, err = NewContact(tenantID, partyID, "Maria", "", "not-an-email", "", false)
	assert.Error(t, err)
}
