package email

import (
	"context"
	"errors"
	"regexp"
)

// Sender sends transactional emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outbound email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"` // Optional, used for provider-side analytics
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the message has a deliverable recipient and content.
func (m Message) Validate() error {
	if m.To == "" || !emailRegex.MatchString(m.To) {
		return errors.Join(ErrInvalidMessage, errors.New("invalid recipient address"))
	}
	if m.Subject == "" {
		return errors.Join(ErrInvalidMessage, errors.New("subject is required"))
	}
	if m.BodyHTML == "" {
		return errors.Join(ErrInvalidMessage, errors.New("body is required"))
	}
	return nil
}
