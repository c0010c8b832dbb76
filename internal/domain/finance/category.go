package finance

import (
	"fmt"
	"strings"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryKind tells whether a category classifies expenses or income
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "EXPENSE"
	CategoryKindIncome  CategoryKind = "INCOME"
)

// IsValid checks if the kind is known
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindExpense || k == CategoryKindIncome
}

const maxCategoryNameLength = 100

// Category groups payables for reporting
type Category struct {
	shared.TenantAggregateRoot
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Kind        CategoryKind `json:"kind"`
	Active      bool         `json:"active"`
}

// NewCategory creates an active category
func NewCategory(tenantID uuid.UUID, name string, kind CategoryKind) (*Category, error) {
	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := c.SetKind(kind); err != nil {
		return nil, err
	}
	return c, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > maxCategoryNameLength {
		return shared.NewValidationError("INVALID_NAME", fmt.Sprintf("Category name cannot exceed %d characters", maxCategoryNameLength))
	}
	c.Name = name
	c.touch()
	return nil
}

// SetKind changes the category kind, defaulting to EXPENSE
func (c *Category) SetKind(kind CategoryKind) error {
	if kind == "" {
		kind = CategoryKindExpense
	}
	if !kind.IsValid() {
		return shared.NewValidationError("INVALID_KIND", "Category kind is not valid")
	}
	c.Kind = kind
	c.touch()
	return nil
}

// SetDescription sets the free-text description
func (c *Category) SetDescription(description string) {
	c.Description = description
	c.touch()
}

// SetActive toggles whether the category is offered for new payables
func (c *Category) SetActive(active bool) {
	c.Active = active
	c.touch()
}

func (c *Category) touch() {
	c.Touch()
	c.IncrementVersion()
}
