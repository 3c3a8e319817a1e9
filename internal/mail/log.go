package mail

import (
	"context"
	"log/slog"
)

// LogTransport "delivers" by logging. Local development uses it when no relay
// credentials are at hand.
type LogTransport struct {
	logger *slog.Logger
}

// NewLog returns a logging transport.
func NewLog(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Name() string {
	return "log"
}

func (t *LogTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewProviderError(ErrorTimeout, t.Name(), "context done before send", err)
	}
	id := newMessageID(msg.From)
	t.logger.InfoContext(ctx, "mail logged",
		"message_id", id,
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"text_bytes", len(msg.Text),
		"html_bytes", len(msg.HTML),
	)
	return id, nil
}
