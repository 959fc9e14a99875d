package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/sangkips/dairy-coop-api/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, itemRepo repository.ItemRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, itemRepo: itemRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this name already exists")
	}

	category := &entity.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories
func (s *CategoryService) ListCategories(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Category], error) {
	categories, total, err := s.categoryRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(categories, params, total), nil
}

// UpdateCategory renames a category. Items keep the ledgers they were linked to.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	newSlug := utils.Slugify(name)
	if newSlug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, apperror.NewConflictError("Category with this name already exists")
		}
		category.Slug = newSlug
	}
	category.Name = name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no item uses
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Category is used by existing items")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// UnitService handles unit-related operations
type UnitService struct {
	unitRepo repository.UnitRepository
}

// NewUnitService creates a new unit service
func NewUnitService(unitRepo repository.UnitRepository) *UnitService {
	return &UnitService{unitRepo: unitRepo}
}

// CreateUnit creates a new unit
func (s *UnitService) CreateUnit(ctx context.Context, name, shortCode string) (*entity.Unit, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)

	existing, err := s.unitRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Unit with this name already exists")
	}

	unit := &entity.Unit{Name: name, Slug: slug, ShortCode: shortCode}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit retrieves a unit by ID
func (s *UnitService) GetUnit(ctx context.Context, id uuid.UUID) (*entity.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.NewNotFoundError("Unit")
	}
	return unit, nil
}

// ListUnits lists units
func (s *UnitService) ListUnits(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Unit], error) {
	units, total, err := s.unitRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(units, params, total), nil
}

// UpdateUnit updates a unit
func (s *UnitService) UpdateUnit(ctx context.Context, id uuid.UUID, name, shortCode string) (*entity.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	newSlug := utils.Slugify(name)
	if newSlug != unit.Slug {
		existing, err := s.unitRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != unit.ID {
			return nil, apperror.NewConflictError("Unit with this name already exists")
		}
		unit.Slug = newSlug
	}
	unit.Name = name
	unit.ShortCode = shortCode

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit deletes a unit
func (s *UnitService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUnit(ctx, id); err != nil {
		return err
	}
	return s.unitRepo.Delete(ctx, id)
}
