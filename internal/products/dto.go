package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog product payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID                    `json:"id"`
	CategoryID     uuid.UUID                    `json:"category_id"`
	Name           string                       `json:"name"`
	NameEN         *string                      `json:"name_en,omitempty"`
	Description    *string                      `json:"description,omitempty"`
	DescriptionEN  *string                      `json:"description_en,omitempty"`
	PriceCents     int                          `json:"price_cents"`
	OldPriceCents  *int                         `json:"old_price_cents,omitempty"`
	Stock          int                          `json:"stock"`
	SizeLiters     *float64                     `json:"size_liters,omitempty"`
	Images         []string                     `json:"images"`
	Specifications models.ProductSpecifications `json:"specifications"`
	Features       models.ProductFeatures       `json:"features"`
	IsActive       bool                         `json:"is_active"`
	IsFeatured     bool                         `json:"is_featured"`
	Category       *CategorySummaryDTO          `json:"category,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

// CategorySummaryDTO surfaces the minimal category data on product payloads.
type CategorySummaryDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	NameEN *string   `json:"name_en,omitempty"`
}

// ListResult is one page of catalog products.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:             product.ID,
		CategoryID:     product.CategoryID,
		Name:           product.Name,
		NameEN:         product.NameEN,
		Description:    product.Description,
		DescriptionEN:  product.DescriptionEN,
		PriceCents:     product.PriceCents,
		OldPriceCents:  product.OldPriceCents,
		Stock:          product.Stock,
		SizeLiters:     product.SizeLiters,
		Images:         append([]string{}, product.Images...),
		Specifications: product.Specifications,
		Features:       product.Features,
		IsActive:       product.IsActive,
		IsFeatured:     product.IsFeatured,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategorySummaryDTO{
			ID:     product.Category.ID,
			Name:   product.Category.Name,
			NameEN: product.Category.NameEN,
		}
	}
	return dto
}
