// Package slack posts notifications to Slack incoming webhooks.
package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/example/retrobot/internal/ports/secondary"
)

// payload is the incoming-webhook message body.
type payload struct {
	Username  string `json:"username,omitempty"`
	Text      string `json:"text"`
	IconEmoji string `json:"icon_emoji,omitempty"`
	LinkNames int    `json:"link_names,omitempty"`
}

// Notifier implements secondary.Notifier.
type Notifier struct {
	client *resty.Client
}

// NewNotifier creates a Notifier whose requests time out after timeout (30s when zero).
func NewNotifier(timeout time.Duration) *Notifier {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Notifier{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Post sends n to the webhook url and returns the response status line.
func (n *Notifier) Post(ctx context.Context, url string, msg secondary.Notification) (string, error) {
	body := payload{
		Username:  msg.Username,
		Text:      msg.Text,
		IconEmoji: msg.IconEmoji,
	}
	if msg.LinkNames {
		body.LinkNames = 1
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", &secondary.ExternalCallError{Service: "webhook", Op: "post notification", Err: err}
	}
	if resp.IsError() {
		return resp.Status(), &secondary.ExternalCallError{
			Service: "webhook",
			Op:      "post notification",
			Err:     fmt.Errorf("unexpected status %s: %s", resp.Status(), resp.String()),
		}
	}
	return resp.Status(), nil
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
