package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/categories"
	"github.com/sipeslibya/storefront-backend/internal/products"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

const maxSearchQueryLen = 120

// StorefrontListProducts serves the public catalog. Inactive products are
// never visible here regardless of query parameters.
func StorefrontListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProductListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IncludeInactive = false

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// StorefrontGetProduct serves one public product page.
func StorefrontGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetStorefrontProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*product.ProductDTO{"product": dto})
	}
}

// StorefrontListCategories serves the public category navigation.
func StorefrontListCategories(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]category.CategoryDTO{"categories": list})
	}
}

func parseProductListInput(r *http.Request) (product.ListProductsInput, error) {
	var input product.ListProductsInput

	page, err := validators.ParsePagination(r)
	if err != nil {
		return input, err
	}
	input.Pagination = page

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return input, err
	}
	if categoryID != uuid.Nil {
		input.Filters.CategoryID = &categoryID
	}

	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return input, err
	}
	input.Filters.Featured = featured

	inStock, err := validators.ParseQueryBool(r, "in_stock")
	if err != nil {
		return input, err
	}
	input.Filters.InStock = inStock

	input.Filters.Query = validators.SanitizeString(strings.TrimSpace(r.URL.Query().Get("q")), maxSearchQueryLen)
	return input, nil
}
