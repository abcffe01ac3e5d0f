package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WebhookNotifier posts notifications to a Discord-compatible webhook URL as
// a JSON body with a single content field.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookNotifier constructs the webhook channel. An empty URL leaves the
// channel registered but self-skipping.
func NewWebhookNotifier(url string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Name identifies the channel in logs.
func (n *WebhookNotifier) Name() string { return "webhook" }

// Send posts the subject and body as bold-titled webhook content. A 200 or
// 204 response counts as delivered.
func (n *WebhookNotifier) Send(ctx context.Context, subject, body string) error {
	if n.url == "" {
		return fmt.Errorf("%w: webhook url missing", ErrNotConfigured)
	}

	payload, err := json.Marshal(map[string]string{
		"content": fmt.Sprintf("**%s**\n\n%s", subject, body),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook rejected notification: status %d", resp.StatusCode)
	}
	return nil
}
