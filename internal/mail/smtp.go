package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig configures an authenticated SMTP relay such as Amazon SES.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Timeout bounds dial and each SMTP command; the per-message context
	// deadline still applies on top of it.
	Timeout time.Duration
}

// SMTPTransport sends through an SMTP relay. Port 465 uses implicit TLS,
// every other port requires STARTTLS.
type SMTPTransport struct {
	cfg  SMTPConfig
	name string
}

// NewSMTP validates cfg and returns a transport. Missing credentials are a
// configuration error, not a send-time error.
func NewSMTP(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp host and credentials are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPTransport{cfg: cfg, name: "ses-smtp"}, nil
}

// Name identifies the provider in API responses.
func (t *SMTPTransport) Name() string {
	return t.name
}

// Send dials, authenticates and delivers one message per call.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	m, messageID, err := t.build(msg)
	if err != nil {
		return "", NewProviderError(ErrorRejected, t.name, "build message", err)
	}

	client, err := gomail.NewClient(t.cfg.Host, t.clientOptions()...)
	if err != nil {
		return "", NewProviderError(ErrorInternal, t.name, "create client", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", wrapContextErr(ctx, t.name, classifySMTP(t.name, err))
	}
	return messageID, nil
}

func (t *SMTPTransport) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(t.cfg.Username),
		gomail.WithPassword(t.cfg.Password),
		gomail.WithTimeout(t.cfg.Timeout),
	}
	if t.cfg.Port == 465 {
		return append(opts, gomail.WithSSL())
	}
	return append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
}

func (t *SMTPTransport) build(msg Message) (*gomail.Msg, string, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, "", fmt.Errorf("from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, "", fmt.Errorf("to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, "", fmt.Errorf("reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()

	messageID := newMessageID(msg.From)
	m.SetGenHeader(gomail.HeaderMessageID, "<"+messageID+">")

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return m, messageID, nil
}

// classifySMTP maps go-mail send errors onto the provider taxonomy.
func classifySMTP(provider string, err error) error {
	var sendErr *gomail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case gomail.ErrSMTPMailFrom, gomail.ErrSMTPRcptTo, gomail.ErrSMTPData, gomail.ErrSMTPDataClose:
			return NewProviderError(ErrorRejected, provider, "relay refused message", err)
		case gomail.ErrConnCheck, gomail.ErrSMTPReset:
			return NewProviderError(ErrorProviderOutage, provider, "relay connection failed", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(ErrorTimeout, provider, "relay timed out", err)
	}
	return NewProviderError(ErrorProviderOutage, provider, "relay unavailable", err)
}
