package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/internal/notify"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/telegram"
)

// Service manages the back-office Telegram notification settings.
type Service interface {
	GetSettings(ctx context.Context) (*SettingsDTO, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	TestConnection(ctx context.Context, input TestConnectionInput) (*TestConnectionResult, error)
}

// SettingsDTO is the admin-facing settings payload. The bot token is masked;
// admins submit a new one to rotate it but never read it back.
type SettingsDTO struct {
	BotTokenMasked       string    `json:"bot_token_masked"`
	BotTokenSet          bool      `json:"bot_token_set"`
	ChatID               string    `json:"chat_id"`
	Enabled              bool      `json:"enabled"`
	NotifyOrderSubmitted bool      `json:"notify_order_submitted"`
	NotifyOrderUpdate    bool      `json:"notify_order_update"`
	NotifyContactMessage bool      `json:"notify_contact_message"`
	NotifyLowStock       bool      `json:"notify_low_stock"`
	NotifyDailyReport    bool      `json:"notify_daily_report"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UpdateSettingsInput patches the settings row. Nil fields keep their stored
// values; an empty BotToken string clears the token.
type UpdateSettingsInput struct {
	BotToken             *string
	ChatID               *string
	Enabled              *bool
	NotifyOrderSubmitted *bool
	NotifyOrderUpdate    *bool
	NotifyContactMessage *bool
	NotifyLowStock       *bool
	NotifyDailyReport    *bool
}

// TestConnectionInput optionally carries credentials to probe before saving
// them. Empty fields fall back to the stored settings.
type TestConnectionInput struct {
	BotToken string
	ChatID   string
}

// TestConnectionResult reports the outcome of a connection probe.
type TestConnectionResult struct {
	Bot         *telegram.BotProfile `json:"bot"`
	MessageSent bool                 `json:"message_sent"`
}

type tester interface {
	GetMe(ctx context.Context, botToken string) (*telegram.BotProfile, error)
	SendMessage(ctx context.Context, params telegram.SendParams) (bool, error)
}

type service struct {
	repo      *Repository
	tg        tester
	formatter *notify.Formatter
	seed      config.TelegramConfig
}

// NewService constructs the settings service. The environment configuration
// seeds the row the first time the back office reads it.
func NewService(repo *Repository, tg tester, seed config.TelegramConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tg == nil {
		return nil, fmt.Errorf("telegram client required")
	}
	return &service{repo: repo, tg: tg, formatter: notify.NewFormatter(nil), seed: seed}, nil
}

// GetSettings returns the settings row, creating it from the environment seed
// when it does not exist yet.
func (s *service) GetSettings(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	return newSettingsDTO(row), nil
}

// UpdateSettings applies the patch and persists the row.
func (s *service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	row, err := s.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	if input.BotToken != nil {
		row.BotToken = strings.TrimSpace(*input.BotToken)
	}
	if input.ChatID != nil {
		row.ChatID = strings.TrimSpace(*input.ChatID)
	}
	if input.Enabled != nil {
		row.Enabled = *input.Enabled
	}
	if input.NotifyOrderSubmitted != nil {
		row.NotifyOrderSubmitted = *input.NotifyOrderSubmitted
	}
	if input.NotifyOrderUpdate != nil {
		row.NotifyOrderUpdate = *input.NotifyOrderUpdate
	}
	if input.NotifyContactMessage != nil {
		row.NotifyContactMessage = *input.NotifyContactMessage
	}
	if input.NotifyLowStock != nil {
		row.NotifyLowStock = *input.NotifyLowStock
	}
	if input.NotifyDailyReport != nil {
		row.NotifyDailyReport = *input.NotifyDailyReport
	}

	if row.Enabled && (row.BotToken == "" || row.ChatID == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bot token and chat id are required to enable notifications")
	}

	saved, err := s.repo.Save(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save telegram settings")
	}
	return newSettingsDTO(saved), nil
}

// TestConnection verifies the token against the Bot API and pushes a greeting
// to the chat so admins see the channel working end to end.
func (s *service) TestConnection(ctx context.Context, input TestConnectionInput) (*TestConnectionResult, error) {
	token := strings.TrimSpace(input.BotToken)
	chatID := strings.TrimSpace(input.ChatID)
	if token == "" || chatID == "" {
		row, err := s.loadOrSeed(ctx)
		if err != nil {
			return nil, err
		}
		if token == "" {
			token = row.BotToken
		}
		if chatID == "" {
			chatID = row.ChatID
		}
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bot token is required")
	}
	if chatID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "chat id is required")
	}

	profile, err := s.tg.GetMe(ctx, token)
	if err != nil {
		return nil, err
	}

	sent, err := s.tg.SendMessage(ctx, telegram.SendParams{
		BotToken: token,
		ChatID:   chatID,
		Text:     s.formatter.FormatConnectionTest(),
	})
	if err != nil {
		return nil, err
	}
	return &TestConnectionResult{Bot: profile, MessageSent: sent}, nil
}

func (s *service) loadOrSeed(ctx context.Context) (*models.TelegramSettings, error) {
	row, err := s.repo.Load(ctx)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load telegram settings")
	}

	seeded := &models.TelegramSettings{
		ID:                   models.SettingsRowID,
		BotToken:             s.seed.BotToken,
		ChatID:               s.seed.ChatID,
		Enabled:              s.seed.Enabled,
		NotifyOrderSubmitted: true,
		NotifyOrderUpdate:    true,
		NotifyContactMessage: true,
		NotifyLowStock:       true,
	}
	saved, err := s.repo.Save(ctx, seeded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: seed telegram settings")
	}
	return saved, nil
}

func newSettingsDTO(row *models.TelegramSettings) *SettingsDTO {
	return &SettingsDTO{
		BotTokenMasked:       maskToken(row.BotToken),
		BotTokenSet:          row.BotToken != "",
		ChatID:               row.ChatID,
		Enabled:              row.Enabled,
		NotifyOrderSubmitted: row.NotifyOrderSubmitted,
		NotifyOrderUpdate:    row.NotifyOrderUpdate,
		NotifyContactMessage: row.NotifyContactMessage,
		NotifyLowStock:       row.NotifyLowStock,
		NotifyDailyReport:    row.NotifyDailyReport,
		UpdatedAt:            row.UpdatedAt,
	}
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
