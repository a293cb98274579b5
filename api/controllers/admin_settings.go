package controllers

import (
	"net/http"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/settings"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminGetSettings returns the notification settings with the bot token
// masked.
func AdminGetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := svc.GetSettings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*settings.SettingsDTO{"settings": dto})
	}
}

// AdminUpdateSettings applies a partial settings update. Submitting a bot
// token rotates it; absent fields keep their value.
func AdminUpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BotToken             *string `json:"bot_token,omitempty" validate:"omitempty,max=200"`
			ChatID               *string `json:"chat_id,omitempty" validate:"omitempty,max=64"`
			Enabled              *bool   `json:"enabled,omitempty"`
			NotifyOrderSubmitted *bool   `json:"notify_order_submitted,omitempty"`
			NotifyOrderUpdate    *bool   `json:"notify_order_update,omitempty"`
			NotifyContactMessage *bool   `json:"notify_contact_message,omitempty"`
			NotifyLowStock       *bool   `json:"notify_low_stock,omitempty"`
			NotifyDailyReport    *bool   `json:"notify_daily_report,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSettings(r.Context(), settings.UpdateSettingsInput{
			BotToken:             body.BotToken,
			ChatID:               body.ChatID,
			Enabled:              body.Enabled,
			NotifyOrderSubmitted: body.NotifyOrderSubmitted,
			NotifyOrderUpdate:    body.NotifyOrderUpdate,
			NotifyContactMessage: body.NotifyContactMessage,
			NotifyLowStock:       body.NotifyLowStock,
			NotifyDailyReport:    body.NotifyDailyReport,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*settings.SettingsDTO{"settings": dto})
	}
}

// AdminTestTelegram probes the Telegram credentials by fetching the bot
// profile and sending a test message to the configured chat.
func AdminTestTelegram(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BotToken string `json:"bot_token,omitempty" validate:"omitempty,max=200"`
			ChatID   string `json:"chat_id,omitempty" validate:"omitempty,max=64"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.TestConnection(r.Context(), settings.TestConnectionInput{
			BotToken: body.BotToken,
			ChatID:   body.ChatID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
