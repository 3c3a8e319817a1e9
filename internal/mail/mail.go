// Package mail defines the outbound email collaborator and its
// implementations. The registration service only sees Transport.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"registrar/pkg/email"
)

// Message is one rendered email. From is a formatted header value
// ("Name <addr>"); To and ReplyTo are bare addresses.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a message and returns the provider-assigned identifier.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}

// newMessageID builds an RFC 5322 msg-id body (without angle brackets) in the
// sender's domain.
func newMessageID(from string) string {
	domain := email.Domain(trimAngle(from))
	if domain == "" {
		domain = "localhost"
	}
	return fmt.Sprintf("%s@%s", uuid.NewString(), domain)
}

// trimAngle extracts addr from "Name <addr>"; other input is returned as is.
func trimAngle(s string) string {
	start := strings.LastIndexByte(s, '<')
	end := strings.LastIndexByte(s, '>')
	if start >= 0 && end > start {
		return s[start+1 : end]
	}
	return s
}
