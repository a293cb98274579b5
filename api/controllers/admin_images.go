package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/imgbb"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminUploadImage pushes a base64-encoded image to the hosting provider and
// returns the hosted URLs for use on products and categories.
func AdminUploadImage(client *imgbb.Client, expiration int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil || !client.Configured() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image hosting is not configured"))
			return
		}

		var body struct {
			Image string `json:"image" validate:"required"`
			Name  string `json:"name,omitempty" validate:"omitempty,max=200"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := client.Upload(r.Context(), imgbb.UploadParams{
			Image:             body.Image,
			Name:              body.Name,
			ExpirationSeconds: expiration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*imgbb.UploadResult{"image": result})
	}
}

// AdminDeleteImage removes a previously hosted image via its delete URL.
func AdminDeleteImage(client *imgbb.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil || !client.Configured() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image hosting is not configured"))
			return
		}

		var body struct {
			DeleteURL string `json:"delete_url" validate:"required,url"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.Delete(r.Context(), body.DeleteURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
