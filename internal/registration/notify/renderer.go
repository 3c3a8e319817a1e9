// Package notify renders the participant confirmation and the admin alert
// for an accepted registration.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"registrar/internal/mail"
	"registrar/internal/platform/config"
	"registrar/internal/registration/models"
	"registrar/pkg/email"
	"registrar/pkg/requestcontext"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Field labels used in the admin message, in display order.
const (
	LabelFullName     = "Vārds"
	LabelEmail        = "E-pasts"
	LabelOrganization = "Organizācija"
	LabelMunicipality = "Pašvaldība"
	LabelRole         = "Amats"
	LabelAbout        = "Kā uzzināja"
	LabelNotes        = "Piezīmes"
	LabelConsent      = "Piekrišana"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// Renderer builds mail.Message values from the embedded templates. It is safe
// for concurrent use.
type Renderer struct {
	event   config.Event
	from    string
	adminTo string

	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the templates once.
func NewRenderer(event config.Event, mailCfg config.Mail) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{
		event:   event,
		from:    email.FormatAddress(mailCfg.FromName, mailCfg.From),
		adminTo: mailCfg.AdminTo,
		html:    html,
		text:    text,
	}, nil
}

// From returns the formatted From header value.
func (r *Renderer) From() string {
	return r.from
}

type participantView struct {
	Name      string
	EventName string
	EventDate string
	Contact   string
	SiteURL   string
}

// Participant renders the confirmation sent to the registrant. Replies go to
// the admin mailbox.
func (r *Renderer) Participant(sub *models.Submission) (mail.Message, error) {
	contact := r.event.Contact
	if contact == "" {
		contact = r.adminTo
	}
	view := participantView{
		Name:      sub.FullName,
		EventName: r.event.Name,
		EventDate: r.event.Date,
		Contact:   contact,
		SiteURL:   r.event.SiteURL,
	}
	html, text, err := r.render("participant", view)
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:    r.from,
		To:      sub.Email,
		ReplyTo: r.adminTo,
		Subject: "Paldies par reģistrāciju — " + r.event.Name,
		Text:    text,
		HTML:    html,
	}, nil
}

type field struct {
	Label string
	Value string
}

type adminView struct {
	Fields     []field
	ReceivedAt string
	Client     string
	ClientIP   string
}

// Admin renders the alert sent to the organizers. Replies go to the
// registrant. The received timestamp and client details come from ctx.
func (r *Renderer) Admin(ctx context.Context, sub *models.Submission) (mail.Message, error) {
	consent := "nē"
	if sub.Consent {
		consent = "jā"
	}
	view := adminView{
		Fields: []field{
			{LabelFullName, sub.FullName},
			{LabelEmail, sub.Email},
			{LabelOrganization, sub.Organization},
			{LabelMunicipality, sub.Municipality},
			{LabelRole, sub.Role},
			{LabelAbout, sub.AboutPhrase()},
			{LabelNotes, sub.Notes},
			{LabelConsent, consent},
		},
		ReceivedAt: requestcontext.Now(ctx).UTC().Format(timestampLayout),
		Client:     DescribeClient(requestcontext.UserAgent(ctx)),
		ClientIP:   requestcontext.ClientIP(ctx),
	}
	html, text, err := r.render("admin", view)
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:    r.from,
		To:      r.adminTo,
		ReplyTo: sub.Email,
		Subject: "Jauna reģistrācija — " + sub.FullName,
		Text:    text,
		HTML:    html,
	}, nil
}

// Test renders the plain message used to check transport credentials.
func (r *Renderer) Test(to string, now time.Time) (mail.Message, error) {
	var buf bytes.Buffer
	err := r.text.ExecuteTemplate(&buf, "test.txt.tmpl", map[string]string{
		"EventName": r.event.Name,
		"SentAt":    now.UTC().Format(timestampLayout),
	})
	if err != nil {
		return mail.Message{}, fmt.Errorf("render test message: %w", err)
	}
	return mail.Message{
		From:    r.from,
		To:      to,
		ReplyTo: r.adminTo,
		Subject: "Testa e-pasts — " + r.event.Name,
		Text:    buf.String(),
	}, nil
}

func (r *Renderer) render(name string, view any) (string, string, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html.tmpl", view); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt.tmpl", view); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return html.String(), text.String(), nil
}
