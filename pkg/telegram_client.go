package pkg

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Telegram caps message text at 4096 characters.
const telegramMaxMessageChars = 4096

// TelegramClient is a minimal Telegram Bot API client.
type TelegramClient struct {
	apiBase string
	client  *http.Client
}

// NewTelegramClient creates a client for the given bot API base URL
// (e.g. "https://api.telegram.org/bot<token>").
func NewTelegramClient(apiBase string, timeout time.Duration) *TelegramClient {
	return &TelegramClient{
		apiBase: apiBase,
		client:  &http.Client{Timeout: timeout},
	}
}

// telegramResponse is the generic Bot API response wrapper.
type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramClient) post(method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}
	resp, err := c.client.Post(c.apiBase+"/"+method, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	var tgResp telegramResponse
	if err := json.Unmarshal(raw, &tgResp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if !tgResp.OK {
		return fmt.Errorf("telegram %s rejected: %s", method, tgResp.Description)
	}
	return nil
}

// SendMessage sends a plain-text message to the given chat.
func (c *TelegramClient) SendMessage(chatID int64, text string) error {
	return c.post("sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    truncate(text, telegramMaxMessageChars),
	})
}

// SendChatAction signals a presence indicator such as "typing".
func (c *TelegramClient) SendChatAction(chatID int64, action string) error {
	return c.post("sendChatAction", map[string]any{
		"chat_id": chatID,
		"action":  action,
	})
}

// SetWebhook registers url as the delivery target for bot updates.
func (c *TelegramClient) SetWebhook(url string) error {
	return c.post("setWebhook", map[string]any{"url": url})
}
