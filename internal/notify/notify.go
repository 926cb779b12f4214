package notify

import "context"

// Message is a rendered notification: subject plus plain-text and HTML
// bodies. It exists only for the duration of the send.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Notifier delivers a message to the configured recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
