package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/messages"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// ContactSubmit accepts a storefront contact-form message.
func ContactSubmit(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name    string  `json:"name" validate:"required,max=120"`
			Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
			Email   *string `json:"email,omitempty" validate:"omitempty,email"`
			Subject *string `json:"subject,omitempty" validate:"omitempty,max=200"`
			Body    string  `json:"body" validate:"required,max=5000"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SubmitMessage(r.Context(), message.SubmitMessageInput{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   body.Email,
			Subject: body.Subject,
			Body:    body.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*message.MessageDTO{"message": dto})
	}
}
