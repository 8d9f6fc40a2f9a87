package secondary

import "context"

// Notifier defines the secondary port for chat notifications.
type Notifier interface {
	// Post sends the notification to an incoming-webhook URL and returns the response status.
	Post(ctx context.Context, url string, n Notification) (string, error)
}

// Notification is the webhook payload.
type Notification struct {
	Username  string
	Text      string
	IconEmoji string
	LinkNames bool // ask the chat service to link @handles
}
