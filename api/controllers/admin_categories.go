package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/categories"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminListCategories lists every category, inactive ones included.
func AdminListCategories(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListCategories(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]category.CategoryDTO{"categories": list})
	}
}

// AdminCreateCategory adds a catalog category.
func AdminCreateCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name          string  `json:"name" validate:"required,max=120"`
			NameEN        *string `json:"name_en,omitempty" validate:"omitempty,max=120"`
			Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
			DescriptionEN *string `json:"description_en,omitempty" validate:"omitempty,max=2000"`
			ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
			SortOrder     int     `json:"sort_order" validate:"min=0"`
			IsActive      *bool   `json:"is_active,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := category.CreateCategoryInput{
			Name:          body.Name,
			NameEN:        body.NameEN,
			Description:   body.Description,
			DescriptionEN: body.DescriptionEN,
			ImageURL:      body.ImageURL,
			SortOrder:     body.SortOrder,
			IsActive:      true,
		}
		if body.IsActive != nil {
			input.IsActive = *body.IsActive
		}

		dto, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*category.CategoryDTO{"category": dto})
	}
}

// AdminUpdateCategory applies a partial update; absent fields keep their value.
func AdminUpdateCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseUUIDParam(r, "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Name          *string `json:"name,omitempty" validate:"omitempty,max=120"`
			NameEN        *string `json:"name_en,omitempty" validate:"omitempty,max=120"`
			Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
			DescriptionEN *string `json:"description_en,omitempty" validate:"omitempty,max=2000"`
			ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
			SortOrder     *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
			IsActive      *bool   `json:"is_active,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateCategory(r.Context(), categoryID, category.UpdateCategoryInput{
			Name:          body.Name,
			NameEN:        body.NameEN,
			Description:   body.Description,
			DescriptionEN: body.DescriptionEN,
			ImageURL:      body.ImageURL,
			SortOrder:     body.SortOrder,
			IsActive:      body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*category.CategoryDTO{"category": dto})
	}
}

// AdminDeleteCategory removes an empty category.
func AdminDeleteCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParseUUIDParam(r, "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
