package mail

import (
	"fmt"
	"log/slog"

	"registrar/internal/platform/config"
	"registrar/pkg/platform/sentinel"
)

// New selects the transport named by cfg.Provider. Absent credentials yield
// an error wrapping sentinel.ErrNotConfigured; the caller keeps running and
// answers registrations with 503.
func New(cfg config.Mail, logger *slog.Logger) (Transport, error) {
	switch cfg.Provider {
	case config.ProviderSMTP, "ses", "ses-smtp":
		t, err := NewSMTP(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			Timeout:  cfg.SendTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("smtp transport: %w: %v", sentinel.ErrNotConfigured, err)
		}
		return t, nil
	case config.ProviderResend:
		t, err := NewResend(ResendConfig{APIKey: cfg.ResendAPIKey, BaseURL: cfg.ResendBaseURL})
		if err != nil {
			return nil, fmt.Errorf("resend transport: %w: %v", sentinel.ErrNotConfigured, err)
		}
		return t, nil
	case config.ProviderLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q: %w", cfg.Provider, sentinel.ErrNotConfigured)
	}
}
