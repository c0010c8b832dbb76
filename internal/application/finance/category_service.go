package finance

import (
	"context"
	"fmt"

	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService manages payable categories
type CategoryService struct {
	categories finance.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories finance.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create creates a category with a tenant-unique name
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := finance.NewCategory(tenantID, req.Name, finance.CategoryKind(req.Kind))
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, tenantID, category.Name, nil); err != nil {
		return nil, err
	}
	category.SetDescription(req.Description)

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return toCategoryResponse(category), nil
}

// GetByID gets a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Category")
	}
	return toCategoryResponse(category), nil
}

// List lists categories with filtering
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := finance.CategoryFilter{Active: filter.Active}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Filter = domainFilter.Filter.Normalize()
	if filter.Kind != "" {
		kind := finance.CategoryKind(filter.Kind)
		domainFilter.Kind = &kind
	}

	categories, err := s.categories.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categories.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// ListActive lists the active categories
func (s *CategoryService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]CategoryResponse, error) {
	active := true
	responses, _, err := s.List(ctx, tenantID, CategoryListFilter{Active: &active, PageSize: 100})
	return responses, err
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Category")
	}

	if req.Name != nil {
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueName(ctx, tenantID, category.Name, &id); err != nil {
			return nil, err
		}
	}
	if req.Kind != nil {
		if err := category.SetKind(finance.CategoryKind(*req.Kind)); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		category.SetDescription(*req.Description)
	}
	if req.Active != nil {
		category.SetActive(*req.Active)
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return toCategoryResponse(category), nil
}

// Delete deletes a category
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return notFound(s.categories.DeleteForTenant(ctx, tenantID, id), "Category")
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.categories.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return shared.NewConflictError("DUPLICATE_NAME", fmt.Sprintf("Category %q already exists", name))
	}
	return nil
}
