package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// CompleteOptions tunes a single completion request. A nil Temperature
// leaves the provider default in place.
type CompleteOptions struct {
	Temperature *float64
}

// Temperature is a convenience for building CompleteOptions literals.
func Temperature(v float64) *float64 {
	return &v
}

// Client talks to an OpenAI-compatible completion provider. One synchronous
// request per call: no streaming, no retries.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Complete sends the full message sequence and returns the first choice's
// text. Failures come back as *CompletionError classified by kind.
func (c *Client) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage, opts CompleteOptions) (string, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
	}
	if opts.Temperature != nil {
		reqBody["temperature"] = *opts.Temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build completion request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", networkError("completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError("read completion response failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", providerError(resp.StatusCode, raw)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", malformedError("completion response is not valid JSON", err)
	}
	if len(parsed.Choices) == 0 {
		return "", malformedError("completion response has no choices", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

// KeyValidation is the advisory result of a credential probe. Nothing
// downstream requires a probe before a key is saved.
type KeyValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateKey performs a single read-only probe against the provider's
// models listing. HTTP 200 is valid, 401/403 is invalid, anything else
// (including transport failure) is invalid with the cause surfaced.
func (c *Client) ValidateKey(ctx context.Context, cfg ChatConfig) (KeyValidation, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return KeyValidation{}, fmt.Errorf("build validation request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return KeyValidation{Message: "network error: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return KeyValidation{Message: "network error: " + err.Error()}, nil
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return KeyValidation{Valid: true}, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		msg := providerMessage(raw)
		if msg == "" {
			msg = "invalid api key"
		}
		return KeyValidation{Message: msg}, nil
	default:
		msg := providerMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return KeyValidation{Message: fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, msg)}, nil
	}
}
