package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"

	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

const parseModeHTML = "HTML"

var errLoggerRequired = errors.New("telegram logger is required")

// SendParams carries one outbound Bot API message. Token and ChatID come from
// runtime settings, not from the client, so admins can rotate them without a
// restart.
type SendParams struct {
	BotToken string
	ChatID   string
	Text     string
}

// BotProfile is the subset of getMe output the back office displays.
type BotProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"first_name"`
}

// Client wraps the Telegram Bot API with bounded timeouts and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient initializes the Bot API wrapper.
func NewClient(cfg config.TelegramConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    baseURL,
		logger:     logg,
	}, nil
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage posts an HTML-formatted message to the configured chat. A
// missing token or chat ID means the channel is simply not set up; that is
// reported as not-sent, never as an error.
func (c *Client) SendMessage(ctx context.Context, params SendParams) (bool, error) {
	if strings.TrimSpace(params.BotToken) == "" || strings.TrimSpace(params.ChatID) == "" {
		c.logger.Warn(ctx, "telegram not configured, skipping message")
		return false, nil
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    params.ChatID,
		Text:      params.Text,
		ParseMode: parseModeHTML,
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode telegram payload")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, params.BotToken)
	resp, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return false, err
	}
	if !resp.OK {
		return false, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("telegram rejected message: %s", resp.Description))
	}
	return true, nil
}

// GetMe verifies a bot token by fetching its profile.
func (c *Client) GetMe(ctx context.Context, botToken string) (*BotProfile, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bot token is required")
	}

	endpoint := fmt.Sprintf("%s/bot%s/getMe", c.baseURL, botToken)
	resp, err := c.post(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("telegram rejected token: %s", resp.Description))
	}

	var profile BotProfile
	if err := json.Unmarshal(resp.Result, &profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode getMe result")
	}
	return &profile, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build telegram request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call telegram api")
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read telegram response")
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode telegram response")
	}
	return &resp, nil
}
