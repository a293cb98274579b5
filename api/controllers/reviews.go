package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/reviews"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// ProductReviewsList serves the approved reviews for one product, with the
// aggregate rating.
func ProductReviewsList(svc review.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProductReviews(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductReviewSubmit accepts a storefront review. It lands unapproved and
// stays invisible until an admin releases it.
func ProductReviewSubmit(svc review.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			CustomerName string `json:"customer_name" validate:"required,max=120"`
			Rating       int    `json:"rating" validate:"required,min=1,max=5"`
			Comment      string `json:"comment" validate:"required,max=2000"`
			Phone        string `json:"phone,omitempty" validate:"omitempty,max=32"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SubmitReview(r.Context(), review.SubmitReviewInput{
			ProductID:    productID,
			CustomerName: body.CustomerName,
			Rating:       body.Rating,
			Comment:      body.Comment,
			Phone:        body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*review.ReviewDTO{"review": dto})
	}
}
