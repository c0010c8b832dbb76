package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE payments;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input, "DESC"))
		})
	}

	t.Run("default direction applies when none is given", func(t *testing.T) {
		assert.Equal(t, "ASC", ValidateSortOrder("", "asc"))
		assert.Equal(t, "ASC", ValidateSortOrder("bogus", "ASC"))
		assert.Equal(t, "DESC", ValidateSortOrder("DESC", "ASC"))
		assert.Equal(t, "DESC", ValidateSortOrder("", ""))
	})
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty falls back", "", "created_at"},
		{"whitelisted", "due_date", "due_date"},
		{"trimmed", "  paid_amount ", "paid_amount"},
		{"case sensitive", "DUE_DATE", "created_at"},
		{"unknown column", "supplier_secret", "created_at"},
		{"injection", "due_date; DROP TABLE account_payables;--", "created_at"},
		{"subquery", "id, (SELECT token FROM integrations)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, PayableSortFields, "created_at"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"payables":      PayableSortFields,
		"payments":      PaymentSortFields,
		"bank_accounts": BankAccountSortFields,
		"categories":    CategorySortFields,
		"parties":       PartySortFields,
		"integrations":  IntegrationSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should allow %s", name, field)
			}
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme ltda%", likePattern("  ACME Ltda "))
}
