package pkg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Akra-Ai42/crispy-umbrella/models"
)

// Sampling parameters are fixed for the Soph_IA persona.
const (
	chatTemperature = 0.75
	chatMaxTokens   = 500
	chatTopP        = 0.9

	chatRequestTimeout = 45 * time.Second
)

// ErrMalformedResponse reports a 2xx response whose body does not carry a
// usable completion.
var ErrMalformedResponse = errors.New("malformed chat completion response")

// UpstreamError is a non-success status from the chat-completion API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chat completion request failed with status %d: %s", e.StatusCode, truncate(e.Body, 400))
}

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float32          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
	TopP        float32          `json:"top_p"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient is a client for an OpenAI-compatible chat-completion endpoint.
type ChatClient struct {
	client *http.Client
	url    string
	apiKey string
	model  string
}

// NewChatClient creates a chat client for the given completion URL.
func NewChatClient(url, apiKey, model string) *ChatClient {
	return &ChatClient{
		client: &http.Client{Timeout: chatRequestTimeout},
		url:    url,
		apiKey: apiKey,
		model:  model,
	}
}

// Complete sends one blocking completion request and returns the first
// choice's content. No retries, no caching.
func (c *ChatClient) Complete(messages []models.Message) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedResponse, truncate(string(body), 400))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	return content, nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
