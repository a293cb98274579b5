package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/middleware"
	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/checkout"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// CheckoutSubmit turns the session cart into an order. A 201 with
// notification_sent=false means the order was saved but the Telegram
// broadcast failed; the cart is kept so the client can surface a retry.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing cart session"))
			return
		}

		var body struct {
			Name          string  `json:"name" validate:"required,max=120"`
			Phone         string  `json:"phone" validate:"required,max=32"`
			Email         *string `json:"email,omitempty" validate:"omitempty,email"`
			Address       string  `json:"address" validate:"required,max=500"`
			Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
			PaymentMethod string  `json:"payment_method,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, checkout.SubmitInput{
			Name:          body.Name,
			Phone:         body.Phone,
			Email:         body.Email,
			Address:       body.Address,
			Notes:         body.Notes,
			PaymentMethod: enums.PaymentMethod(body.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
