package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

// Service exposes category management and browsing operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)
}

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NameEN        *string   `json:"name_en,omitempty"`
	Description   *string   `json:"description,omitempty"`
	DescriptionEN *string   `json:"description_en,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	SortOrder     int       `json:"sort_order"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name          string
	NameEN        *string
	Description   *string
	DescriptionEN *string
	ImageURL      *string
	SortOrder     int
	IsActive      bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name          *string
	NameEN        *string
	Description   *string
	DescriptionEN *string
	ImageURL      *string
	SortOrder     *int
	IsActive      *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCategory validates and inserts the category.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category := &models.Category{
		Name:          name,
		NameEN:        input.NameEN,
		Description:   input.Description,
		DescriptionEN: input.DescriptionEN,
		ImageURL:      input.ImageURL,
		SortOrder:     input.SortOrder,
		IsActive:      input.IsActive,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return newCategoryDTO(created), nil
}

// UpdateCategory applies the provided fields to an existing category.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	applyUpdateToCategory(category, input)
	if strings.TrimSpace(category.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return newCategoryDTO(category), nil
}

// DeleteCategory removes an empty category. Categories still holding products
// are refused so catalog rows never dangle.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.load(ctx, categoryID); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category still has products")
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// GetCategory returns one category.
func (s *service) GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error) {
	category, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return newCategoryDTO(category), nil
}

// ListCategories returns the catalog groupings in display order.
func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newCategoryDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) load(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func newCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:            category.ID,
		Name:          category.Name,
		NameEN:        category.NameEN,
		Description:   category.Description,
		DescriptionEN: category.DescriptionEN,
		ImageURL:      category.ImageURL,
		SortOrder:     category.SortOrder,
		IsActive:      category.IsActive,
		CreatedAt:     category.CreatedAt,
		UpdatedAt:     category.UpdatedAt,
	}
}

func applyUpdateToCategory(category *models.Category, input UpdateCategoryInput) {
	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.NameEN != nil {
		category.NameEN = input.NameEN
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.DescriptionEN != nil {
		category.DescriptionEN = input.DescriptionEN
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
}
