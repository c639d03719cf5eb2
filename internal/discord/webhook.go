// Package discord posts messages to Discord channel webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lcy0321/TwitterDiscordBot/internal/message"
)

const requestTimeout = 30 * time.Second

// Client executes webhook posts. The zero value is not usable; call NewClient.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: requestTimeout}}
}

// Post sends one message to the webhook and returns the HTTP status code.
// The error is non-nil only for transport-level failures; a rejection
// (non-2xx) is reported through the status code so the caller can log it
// and move on.
func (c *Client) Post(ctx context.Context, webhookURL string, msg message.Message) (int, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	// Body content is not interesting; drain it so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

// IsSuccess reports whether Discord accepted the post (any 2xx).
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
