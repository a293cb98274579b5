package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

// Service exposes contact-form submission and back-office inbox handling.
type Service interface {
	SubmitMessage(ctx context.Context, input SubmitMessageInput) (*MessageDTO, error)
	GetMessage(ctx context.Context, messageID uuid.UUID) (*MessageDTO, error)
	ListMessages(ctx context.Context, input ListMessagesInput) (*ListResult, error)
	UpdateStatus(ctx context.Context, messageID uuid.UUID, status enums.MessageStatus) (*MessageDTO, error)
	ReplyToMessage(ctx context.Context, messageID uuid.UUID, reply string) (*MessageDTO, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
}

// MessageDTO is the contact message payload returned to clients.
type MessageDTO struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Phone        *string             `json:"phone,omitempty"`
	Email        *string             `json:"email,omitempty"`
	Subject      *string             `json:"subject,omitempty"`
	Body         string              `json:"body"`
	Status       enums.MessageStatus `json:"status"`
	Reply        *string             `json:"reply,omitempty"`
	RepliedAt    *time.Time          `json:"replied_at,omitempty"`
	TelegramSent bool                `json:"telegram_sent"`
	CreatedAt    time.Time           `json:"created_at"`
}

// SubmitMessageInput carries a storefront contact-form submission.
type SubmitMessageInput struct {
	Name    string
	Phone   *string
	Email   *string
	Subject *string
	Body    string
}

// ListMessagesInput captures inbox pagination and filter inputs.
type ListMessagesInput struct {
	Pagination pagination.Params
	Status     *enums.MessageStatus
}

// ListResult is one page of contact messages.
type ListResult struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type messageNotifier interface {
	ContactMessage(ctx context.Context, msg *models.ContactMessage) bool
}

type service struct {
	repo     *Repository
	notifier messageNotifier
}

// NewService constructs a contact message service instance.
func NewService(repo *Repository, notifier messageNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("message notifier required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

// SubmitMessage stores the message and relays it to the staff channel. The
// relay is best effort; the stored row records whether it went out.
func (s *service) SubmitMessage(ctx context.Context, input SubmitMessageInput) (*MessageDTO, error) {
	name := strings.TrimSpace(input.Name)
	body := strings.TrimSpace(input.Body)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	msg := &models.ContactMessage{
		Name:    name,
		Phone:   input.Phone,
		Email:   input.Email,
		Subject: input.Subject,
		Body:    body,
		Status:  enums.MessageStatusNew,
	}
	created, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert contact message")
	}

	if sent := s.notifier.ContactMessage(ctx, created); sent {
		if err := s.repo.SetTelegramFlag(ctx, created.ID, true); err == nil {
			created.TelegramSent = true
		}
	}
	return newMessageDTO(created), nil
}

// GetMessage returns one contact message.
func (s *service) GetMessage(ctx context.Context, messageID uuid.UUID) (*MessageDTO, error) {
	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return newMessageDTO(msg), nil
}

// ListMessages pages through the inbox.
func (s *service) ListMessages(ctx context.Context, input ListMessagesInput) (*ListResult, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid message status filter")
	}
	rows, nextCursor, err := s.repo.ListMessages(ctx, messageListQuery{
		Pagination: input.Pagination,
		Status:     input.Status,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	dtos := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newMessageDTO(&rows[i]))
	}
	return &ListResult{Messages: dtos, NextCursor: nextCursor}, nil
}

// UpdateStatus moves the message between inbox states.
func (s *service) UpdateStatus(ctx context.Context, messageID uuid.UUID, status enums.MessageStatus) (*MessageDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid message status")
	}
	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	msg.Status = status
	if _, err := s.repo.UpdateMessage(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update contact message")
	}
	return newMessageDTO(msg), nil
}

// ReplyToMessage records the staff reply and marks the message replied.
func (s *service) ReplyToMessage(ctx context.Context, messageID uuid.UUID, reply string) (*MessageDTO, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply is required")
	}

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	msg.Reply = &reply
	msg.RepliedAt = &now
	msg.Status = enums.MessageStatusReplied
	if _, err := s.repo.UpdateMessage(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update contact message")
	}
	return newMessageDTO(msg), nil
}

// DeleteMessage removes a contact message.
func (s *service) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	if _, err := s.load(ctx, messageID); err != nil {
		return err
	}
	if err := s.repo.DeleteMessage(ctx, messageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact message")
	}
	return nil
}

func (s *service) load(ctx context.Context, messageID uuid.UUID) (*models.ContactMessage, error) {
	msg, err := s.repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact message")
	}
	return msg, nil
}

func newMessageDTO(msg *models.ContactMessage) *MessageDTO {
	return &MessageDTO{
		ID:           msg.ID,
		Name:         msg.Name,
		Phone:        msg.Phone,
		Email:        msg.Email,
		Subject:      msg.Subject,
		Body:         msg.Body,
		Status:       msg.Status,
		Reply:        msg.Reply,
		RepliedAt:    msg.RepliedAt,
		TelegramSent: msg.TelegramSent,
		CreatedAt:    msg.CreatedAt,
	}
}
