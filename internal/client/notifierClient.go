package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"securebase-billing/internal/config"
	"securebase-billing/internal/model"
)

type NotifierClient interface {
	Notify(ctx context.Context, msg *model.Notification) error
}

type notifierClientImpl struct {
	httpClient *http.Client
	webhookURL string
}

// NewNotifierClient posts to a Slack compatible incoming webhook. An empty URL
// turns every Notify into a no-op.
func NewNotifierClient(notifyCfg *config.Notify) NotifierClient {
	return &notifierClientImpl{
		httpClient: &http.Client{
			Timeout: notifyCfg.Timeout,
		},
		webhookURL: notifyCfg.WebhookURL,
	}
}

func (c *notifierClientImpl) Notify(ctx context.Context, msg *model.Notification) error {
	if c.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("notification webhook error %d: %s", resp.StatusCode, string(b))
	}

	return nil
}
