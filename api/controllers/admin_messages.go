package controllers

import (
	"net/http"
	"strings"

	"github.com/sipeslibya/storefront-backend/api/responses"
	"github.com/sipeslibya/storefront-backend/api/validators"
	"github.com/sipeslibya/storefront-backend/internal/messages"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// AdminListMessages pages through the contact inbox, optionally filtered by
// status.
func AdminListMessages(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := message.ListMessagesInput{Pagination: page}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseMessageStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid message status filter"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListMessages(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminGetMessage returns one contact message.
func AdminGetMessage(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := validators.ParseUUIDParam(r, "messageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetMessage(r.Context(), messageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*message.MessageDTO{"message": dto})
	}
}

// AdminUpdateMessageStatus moves a message between inbox states.
func AdminUpdateMessageStatus(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := validators.ParseUUIDParam(r, "messageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseMessageStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid message status"))
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), messageID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*message.MessageDTO{"message": dto})
	}
}

// AdminReplyMessage records the reply sent to a contact message and marks it
// replied.
func AdminReplyMessage(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := validators.ParseUUIDParam(r, "messageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Reply string `json:"reply" validate:"required,max=5000"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ReplyToMessage(r.Context(), messageID, body.Reply)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*message.MessageDTO{"message": dto})
	}
}

// AdminDeleteMessage removes a contact message permanently.
func AdminDeleteMessage(svc message.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := validators.ParseUUIDParam(r, "messageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMessage(r.Context(), messageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
