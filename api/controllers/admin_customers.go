package controllers

import (
	"net/http"
	"strings"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/customers"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminListCustomers pages through the customer book, optionally matching a
// name or phone search.
func AdminListCustomers(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCustomers(r.Context(), customer.ListCustomersInput{
			Pagination: page,
			Query:      validators.SanitizeString(strings.TrimSpace(r.URL.Query().Get("q")), maxSearchQueryLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminGetCustomer returns one customer with order aggregates.
func AdminGetCustomer(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseUUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*customer.CustomerDTO{"customer": dto})
	}
}

// AdminUpdateCustomer edits a customer's contact details. The phone number is
// the checkout upsert key and cannot be changed here.
func AdminUpdateCustomer(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseUUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Name    *string `json:"name" validate:"omitempty,max=120"`
			Email   *string `json:"email" validate:"omitempty,email"`
			Address *string `json:"address" validate:"omitempty,max=500"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateCustomer(r.Context(), customerID, customer.UpdateCustomerInput{
			Name:    body.Name,
			Email:   body.Email,
			Address: body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*customer.CustomerDTO{"customer": dto})
	}
}
