// Package ledger appends one row per accepted registration to an external
// tabular store. Writes are best effort: callers log failures and move on.
package ledger

import (
	"context"
	"time"

	"registrar/internal/registration/models"
)

// Columns is the fixed column order of every backend.
var Columns = []string{
	"timestamp",
	"full_name",
	"email",
	"organization",
	"municipality",
	"role",
	"about",
	"notes",
}

// Row is one ordered record; len(Row) == len(Columns).
type Row []string

// Writer appends rows.
type Writer interface {
	Append(ctx context.Context, row Row) error
	Name() string
}

// Disabled is the writer used when no backend is configured. Service code
// checks Enabled and skips the write entirely.
type Disabled struct{}

func (Disabled) Append(context.Context, Row) error { return nil }

func (Disabled) Name() string { return "none" }

// Enabled reports whether w performs real writes.
func Enabled(w Writer) bool {
	if w == nil {
		return false
	}
	_, off := w.(Disabled)
	return !off
}

// BuildRow maps a validated submission onto the fixed column order.
func BuildRow(sub *models.Submission, now time.Time) (Row, error) {
	phrase, err := sub.About.Phrase(sub.AboutOther)
	if err != nil {
		return nil, err
	}
	return Row{
		now.UTC().Format(time.RFC3339),
		sub.FullName,
		sub.Email,
		sub.Organization,
		sub.Municipality,
		sub.Role,
		phrase,
		sub.Notes,
	}, nil
}
