package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/products"
	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

type productWriteBody struct {
	CategoryID     string                        `json:"category_id" validate:"required,uuid"`
	Name           string                        `json:"name" validate:"required,max=200"`
	NameEN         *string                       `json:"name_en,omitempty" validate:"omitempty,max=200"`
	Description    *string                       `json:"description,omitempty" validate:"omitempty,max=5000"`
	DescriptionEN  *string                       `json:"description_en,omitempty" validate:"omitempty,max=5000"`
	PriceCents     int                           `json:"price_cents" validate:"required,min=1"`
	OldPriceCents  *int                          `json:"old_price_cents,omitempty" validate:"omitempty,min=1"`
	Stock          int                           `json:"stock" validate:"min=0"`
	SizeLiters     *float64                      `json:"size_liters,omitempty" validate:"omitempty,gt=0"`
	Images         []string                      `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Specifications *models.ProductSpecifications `json:"specifications,omitempty"`
	Features       *models.ProductFeatures       `json:"features,omitempty"`
	IsActive       *bool                         `json:"is_active,omitempty"`
	IsFeatured     *bool                         `json:"is_featured,omitempty"`
}

// AdminCreateProduct adds a catalog listing.
func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productWriteBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(body.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id"))
			return
		}

		input := product.CreateProductInput{
			CategoryID:    categoryID,
			Name:          body.Name,
			NameEN:        body.NameEN,
			Description:   body.Description,
			DescriptionEN: body.DescriptionEN,
			PriceCents:    body.PriceCents,
			OldPriceCents: body.OldPriceCents,
			Stock:         body.Stock,
			SizeLiters:    body.SizeLiters,
			Images:        body.Images,
			IsActive:      true,
		}
		if body.Specifications != nil {
			input.Specifications = *body.Specifications
		}
		if body.Features != nil {
			input.Features = *body.Features
		}
		if body.IsActive != nil {
			input.IsActive = *body.IsActive
		}
		if body.IsFeatured != nil {
			input.IsFeatured = *body.IsFeatured
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*product.ProductDTO{"product": dto})
	}
}

// AdminUpdateProduct applies a partial update; absent fields keep their value.
func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			CategoryID     *string                       `json:"category_id,omitempty" validate:"omitempty,uuid"`
			Name           *string                       `json:"name,omitempty" validate:"omitempty,max=200"`
			NameEN         *string                       `json:"name_en,omitempty" validate:"omitempty,max=200"`
			Description    *string                       `json:"description,omitempty" validate:"omitempty,max=5000"`
			DescriptionEN  *string                       `json:"description_en,omitempty" validate:"omitempty,max=5000"`
			PriceCents     *int                          `json:"price_cents,omitempty" validate:"omitempty,min=1"`
			OldPriceCents  *int                          `json:"old_price_cents,omitempty" validate:"omitempty,min=1"`
			Stock          *int                          `json:"stock,omitempty" validate:"omitempty,min=0"`
			SizeLiters     *float64                      `json:"size_liters,omitempty" validate:"omitempty,gt=0"`
			Images         *[]string                     `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
			Specifications *models.ProductSpecifications `json:"specifications,omitempty"`
			Features       *models.ProductFeatures       `json:"features,omitempty"`
			IsActive       *bool                         `json:"is_active,omitempty"`
			IsFeatured     *bool                         `json:"is_featured,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			Name:           body.Name,
			NameEN:         body.NameEN,
			Description:    body.Description,
			DescriptionEN:  body.DescriptionEN,
			PriceCents:     body.PriceCents,
			OldPriceCents:  body.OldPriceCents,
			Stock:          body.Stock,
			SizeLiters:     body.SizeLiters,
			Images:         body.Images,
			Specifications: body.Specifications,
			Features:       body.Features,
			IsActive:       body.IsActive,
			IsFeatured:     body.IsFeatured,
		}
		if body.CategoryID != nil {
			categoryID, err := uuid.Parse(*body.CategoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id"))
				return
			}
			input.CategoryID = &categoryID
		}

		dto, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*product.ProductDTO{"product": dto})
	}
}

// AdminDeleteProduct retires a listing.
func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminGetProduct returns one product including back-office-only fields.
func AdminGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*product.ProductDTO{"product": dto})
	}
}

// AdminListProducts pages through the catalog, optionally including
// deactivated listings.
func AdminListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProductListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IncludeInactive = includeInactive != nil && *includeInactive

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminLowStockProducts lists products at or below the restock threshold.
func AdminLowStockProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]product.ProductDTO{"products": list})
	}
}
