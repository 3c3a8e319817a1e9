package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendConfig configures the transactional HTTP API transport.
type ResendConfig struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// ResendTransport posts messages to a Resend-compatible `/emails` endpoint.
type ResendTransport struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// NewResend returns a transport or an error when the key is missing.
func NewResend(cfg ResendConfig) (*ResendTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ResendTransport{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, client: client}, nil
}

// Name identifies the provider in API responses.
func (t *ResendTransport) Name() string {
	return "resend"
}

// Send performs one POST; there is no retry.
func (t *ResendTransport) Send(ctx context.Context, msg Message) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return "", NewProviderError(ErrorInternal, t.Name(), "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", NewProviderError(ErrorInternal, t.Name(), "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", wrapContextErr(ctx, t.Name(), NewProviderError(ErrorProviderOutage, t.Name(), "request failed", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", wrapContextErr(ctx, t.Name(), NewProviderError(ErrorProviderOutage, t.Name(), "read response", err))
	}

	var parsed resendResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 300 {
		detail := parsed.Message
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return "", NewProviderError(categoryForStatus(resp.StatusCode), t.Name(),
			fmt.Sprintf("status %d: %s", resp.StatusCode, detail), nil)
	}
	if parsed.ID == "" {
		return "", NewProviderError(ErrorInternal, t.Name(), "response without id", nil)
	}
	return parsed.ID, nil
}
