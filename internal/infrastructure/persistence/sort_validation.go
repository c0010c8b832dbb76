package persistence

import (
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC. Anything else
// yields defaultDir, itself DESC unless it reads ASC.
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	if strings.EqualFold(defaultDir, "ASC") {
		return "ASC"
	}
	return "DESC"
}

// sortSpec is the order applied when the caller names none
type sortSpec struct {
	field string
	dir   string
}

var (
	payableDefaultSort     = sortSpec{"due_date", "ASC"}
	paymentDefaultSort     = sortSpec{"payment_date", "DESC"}
	bankAccountDefaultSort = sortSpec{"bank", "ASC"}
	categoryDefaultSort    = sortSpec{"name", "ASC"}
	partyDefaultSort       = sortSpec{"name", "ASC"}
	integrationDefaultSort = sortSpec{"name", "ASC"}
	receivableDefaultSort  = sortSpec{"due_date", "ASC"}
	companyDefaultSort     = sortSpec{"legal_name", "ASC"}
)

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PayableSortFields contains allowed sort fields for payables
var PayableSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"due_date":        true,
	"original_amount": true,
	"paid_amount":     true,
	"status":          true,
	"description":     true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"payment_date": true,
	"amount":       true,
	"method":       true,
}

// BankAccountSortFields contains allowed sort fields for bank accounts
var BankAccountSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"bank":            true,
	"account_number":  true,
	"current_balance": true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
}

// PartySortFields contains allowed sort fields for parties
var PartySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"document":   true,
	"city":       true,
}

// ReceivableSortFields contains allowed sort fields for receivables
var ReceivableSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"due_date":    true,
	"amount":      true,
	"status":      true,
	"description": true,
	"received_at": true,
}

// CompanySortFields contains allowed sort fields for companies
var CompanySortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"legal_name":       true,
	"trade_name":       true,
	"document":         true,
	"integration_code": true,
}

// IntegrationSortFields contains allowed sort fields for integrations
var IntegrationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"kind":         true,
	"last_sync_at": true,
}

// pageAndSort applies the whitelisted order and the page window of filter
func pageAndSort(query *gorm.DB, filter shared.Filter, allowed map[string]bool, def sortSpec) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, def.field)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir, def.dir))
	if field != "id" {
		query = query.Order("id ASC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern for search
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
