package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/dashboard"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminDashboardStats serves the back-office headline numbers.
func AdminDashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// AdminSalesChart serves the daily order/revenue series. days=0 falls back
// to the default window.
func AdminSalesChart(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 0, 0, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chart, err := svc.GetSalesChart(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chart)
	}
}
