package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
	"github.com/sipeslibya/storefront-backend/pkg/metrics"
	"github.com/sipeslibya/storefront-backend/pkg/telegram"
)

var (
	errSenderRequired         = errors.New("telegram sender is required")
	errSettingsLoaderRequired = errors.New("settings loader is required")
	errNotifyLoggerRequired   = errors.New("logger is required")
)

// settingsLoader fetches the single Telegram settings row.
type settingsLoader interface {
	Load(ctx context.Context) (*models.TelegramSettings, error)
}

// sender is the outbound Bot API surface the notifier needs.
type sender interface {
	SendMessage(ctx context.Context, params telegram.SendParams) (bool, error)
}

// Service broadcasts storefront events to the staff Telegram channel. Every
// delivery is best effort: a failed send is reported to the caller as
// not-sent so the triggering operation can record the flag and move on.
type Service interface {
	OrderSubmitted(ctx context.Context, order *models.Order) bool
	OrderResent(ctx context.Context, order *models.Order) bool
	OrderStatusChanged(ctx context.Context, order *models.Order) bool
	ContactMessage(ctx context.Context, msg *models.ContactMessage) bool
	LowStock(ctx context.Context, products []models.Product) bool
	DailyReport(ctx context.Context, stats ReportStats) bool
}

type service struct {
	sender    sender
	settings  settingsLoader
	formatter *Formatter
	fallback  config.TelegramConfig
	metrics   *metrics.StorefrontMetrics
	logger    *logger.Logger
}

// NewService wires the notifier. Metrics may be nil; settings come from the
// database with the environment configuration as seed fallback.
func NewService(tg sender, settings settingsLoader, fallback config.TelegramConfig, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if tg == nil {
		return nil, errSenderRequired
	}
	if settings == nil {
		return nil, errSettingsLoaderRequired
	}
	if logg == nil {
		return nil, errNotifyLoggerRequired
	}
	return &service{
		sender:    tg,
		settings:  settings,
		formatter: NewFormatter(time.Now),
		fallback:  fallback,
		metrics:   m,
		logger:    logg,
	}, nil
}

func (s *service) OrderSubmitted(ctx context.Context, order *models.Order) bool {
	return s.deliver(ctx, enums.NotificationKindOrderSubmitted, s.formatter.FormatOrder(order))
}

func (s *service) OrderResent(ctx context.Context, order *models.Order) bool {
	return s.deliver(ctx, enums.NotificationKindOrderSubmitted, s.formatter.FormatNewOrder(order))
}

func (s *service) OrderStatusChanged(ctx context.Context, order *models.Order) bool {
	return s.deliver(ctx, enums.NotificationKindOrderUpdate, s.formatter.FormatStatusChange(order))
}

func (s *service) ContactMessage(ctx context.Context, msg *models.ContactMessage) bool {
	return s.deliver(ctx, enums.NotificationKindContactMessage, s.formatter.FormatContactMessage(msg))
}

func (s *service) LowStock(ctx context.Context, products []models.Product) bool {
	if len(products) == 0 {
		return false
	}
	return s.deliver(ctx, enums.NotificationKindLowStock, s.formatter.FormatLowStock(products))
}

func (s *service) DailyReport(ctx context.Context, stats ReportStats) bool {
	return s.deliver(ctx, enums.NotificationKindDailyReport, s.formatter.FormatDailyReport(stats))
}

func (s *service) deliver(ctx context.Context, kind enums.NotificationKind, text string) bool {
	params, enabled := s.resolve(ctx, kind)
	if !enabled {
		s.metrics.IncNotification(kind.String(), "disabled")
		return false
	}
	params.Text = text

	sent, err := s.sender.SendMessage(ctx, params)
	if err != nil {
		s.metrics.IncNotification(kind.String(), "error")
		s.logger.Error(s.logger.WithFields(ctx, map[string]any{
			"kind": kind.String(),
			"code": string(pkgerrors.As(err).Code()),
		}), "telegram delivery failed", err)
		return false
	}
	if !sent {
		s.metrics.IncNotification(kind.String(), "skipped")
		return false
	}
	s.metrics.IncNotification(kind.String(), "sent")
	return true
}

// resolve merges the stored settings row with the environment fallback and
// applies the per-kind toggle.
func (s *service) resolve(ctx context.Context, kind enums.NotificationKind) (telegram.SendParams, bool) {
	row, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "kind", kind.String()), "settings load failed, using environment fallback")
		if !s.fallback.Enabled {
			return telegram.SendParams{}, false
		}
		return telegram.SendParams{BotToken: s.fallback.BotToken, ChatID: s.fallback.ChatID}, true
	}

	if !row.Enabled || !kindEnabled(row, kind) {
		return telegram.SendParams{}, false
	}
	token := strings.TrimSpace(row.BotToken)
	chatID := strings.TrimSpace(row.ChatID)
	if token == "" {
		token = s.fallback.BotToken
	}
	if chatID == "" {
		chatID = s.fallback.ChatID
	}
	return telegram.SendParams{BotToken: token, ChatID: chatID}, true
}

func kindEnabled(row *models.TelegramSettings, kind enums.NotificationKind) bool {
	switch kind {
	case enums.NotificationKindOrderSubmitted:
		return row.NotifyOrderSubmitted
	case enums.NotificationKindOrderUpdate:
		return row.NotifyOrderUpdate
	case enums.NotificationKindContactMessage:
		return row.NotifyContactMessage
	case enums.NotificationKindLowStock:
		return row.NotifyLowStock
	case enums.NotificationKindDailyReport:
		return row.NotifyDailyReport
	default:
		return false
	}
}
