package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

// Service exposes catalog product management and browsing operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetStorefrontProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error)
	ListLowStock(ctx context.Context) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID     uuid.UUID
	Name           string
	NameEN         *string
	Description    *string
	DescriptionEN  *string
	PriceCents     int
	OldPriceCents  *int
	Stock          int
	SizeLiters     *float64
	Images         []string
	Specifications models.ProductSpecifications
	Features       models.ProductFeatures
	IsActive       bool
	IsFeatured     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID     *uuid.UUID
	Name           *string
	NameEN         *string
	Description    *string
	DescriptionEN  *string
	PriceCents     *int
	OldPriceCents  *int
	Stock          *int
	SizeLiters     *float64
	Images         *[]string
	Specifications *models.ProductSpecifications
	Features       *models.ProductFeatures
	IsActive       *bool
	IsFeatured     *bool
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo         *Repository
	categoryRepo categoryLoader
	lowStockAt   int
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categoryRepo categoryLoader, lowStockAt int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if lowStockAt <= 0 {
		lowStockAt = 10
	}
	return &service{repo: repo, categoryRepo: categoryRepo, lowStockAt: lowStockAt}, nil
}

// CreateProduct validates the payload and inserts the catalog row.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validatePriceCents(input.PriceCents); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:     input.CategoryID,
		Name:           strings.TrimSpace(input.Name),
		NameEN:         input.NameEN,
		Description:    input.Description,
		DescriptionEN:  input.DescriptionEN,
		PriceCents:     input.PriceCents,
		OldPriceCents:  input.OldPriceCents,
		Stock:          input.Stock,
		SizeLiters:     input.SizeLiters,
		Images:         input.Images,
		Specifications: input.Specifications,
		Features:       input.Features,
		IsActive:       input.IsActive,
		IsFeatured:     input.IsFeatured,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return s.loadDTO(ctx, created.ID)
}

// UpdateProduct applies the provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.PriceCents != nil {
		if err := validatePriceCents(*input.PriceCents); err != nil {
			return nil, err
		}
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyUpdateToProduct(product, input)
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return s.loadDTO(ctx, product.ID)
}

// DeleteProduct removes a product. Past orders keep their priced snapshots.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct returns a product regardless of active state.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	return s.loadDTO(ctx, productID)
}

// GetStorefrontProduct returns an active product; hidden products read as
// absent to the public storefront.
func (s *service) GetStorefrontProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	dto, err := s.loadDTO(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !dto.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return dto, nil
}

// ListProducts pages through the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error) {
	result, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		ActiveOnly: !input.IncludeInactive,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// ListLowStock returns active products at or below the restock threshold.
func (s *service) ListLowStock(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListLowStock(ctx, s.lowStockAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadDTO(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

func validatePriceCents(value int) error {
	if value <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	return nil
}

func validateStock(value int) error {
	if value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.NameEN != nil {
		product.NameEN = input.NameEN
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.DescriptionEN != nil {
		product.DescriptionEN = input.DescriptionEN
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.OldPriceCents != nil {
		product.OldPriceCents = input.OldPriceCents
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.SizeLiters != nil {
		product.SizeLiters = input.SizeLiters
	}
	if input.Images != nil {
		product.Images = append([]string(nil), *input.Images...)
	}
	if input.Specifications != nil {
		product.Specifications = *input.Specifications
	}
	if input.Features != nil {
		product.Features = *input.Features
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}
