package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upravdom/resident-portal/internal/domain/providers"
	"github.com/upravdom/resident-portal/pkg/config"
)

// TelegramSender pushes messages to residents via the Telegram Bot API
type TelegramSender struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// NewTelegramSender creates a new Telegram sender
func NewTelegramSender(cfg *config.TelegramConfig) (*TelegramSender, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN must be set")
	}

	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramSender{
		token: cfg.BotToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}, nil
}

var _ providers.MessageGateway = (*TelegramSender)(nil)

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers an HTML-formatted text message to a chat
func (t *TelegramSender) Send(ctx context.Context, chatID, text string) error {
	payload := telegramSendRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return t.do(req)
}

// Ping verifies the bot token against the getMe endpoint
func (t *TelegramSender) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/bot%s/getMe", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return t.do(req)
}

func (t *TelegramSender) do(req *http.Request) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Telegram API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(body, &tgResp); err != nil {
		return fmt.Errorf("Telegram API returned status %d: %s", resp.StatusCode, string(body))
	}
	if !tgResp.OK {
		return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, tgResp.Description)
	}

	return nil
}
