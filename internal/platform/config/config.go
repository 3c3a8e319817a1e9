package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration. It is built once at startup and
// passed by value or pointer; nothing mutates it afterwards.
type Config struct {
	Server       Server
	Log          Log
	Mail         Mail
	Event        Event
	Registration Registration
	Ledger       Ledger
	Tracing      Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Mail configures the outbound transport and the fixed addresses.
type Mail struct {
	Provider string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	ResendAPIKey  string
	ResendBaseURL string

	From     string
	FromName string
	AdminTo  string

	SendTimeout        time.Duration
	FailOnTotalFailure bool
}

// Event holds the display values interpolated into the templates.
type Event struct {
	Name    string
	Date    string
	Contact string
	SiteURL string
}

// Registration holds validation policy.
type Registration struct {
	// StrictFields makes organization, municipality and role required.
	StrictFields bool
}

// Ledger selects and configures the optional row store.
type Ledger struct {
	Backend string
	Timeout time.Duration

	SheetID            string
	SheetRange         string
	ServiceAccountJSON string

	DatabaseURL string

	RedisURL    string
	RedisStream string
}

// Tracing selects the span exporter.
type Tracing struct {
	Exporter string
}

const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
	ProviderLog    = "log"

	LedgerSheets   = "sheets"
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
	LedgerNone     = "none"
)

// Defaults are applied before environment lookup. Secrets have no default.
var defaults = map[string]any{
	"registrar_addr":             ":8080",
	"shutdown_timeout":           10 * time.Second,
	"log_level":                  "info",
	"log_format":                 "json",
	"mail_provider":              ProviderSMTP,
	"ses_host":                   "email-smtp.us-east-1.amazonaws.com",
	"ses_port":                   587,
	"resend_base_url":            "https://api.resend.com",
	"mail_from":                  "noreply@rudenskonference.lv",
	"mail_from_name":             "Reģistrācija",
	"mail_admin_to":              "info@rudenskonference.lv",
	"mail_send_timeout":          8 * time.Second,
	"mail_fail_on_total_failure": false,
	"event_name":                 "Skola – kopienā rudens konference “Vide. Skola. Kopiena.”",
	"event_date":                 "7. novembrī plkst. 11.00 · tiešraide",
	"event_contact":              "info@rudenskonference.lv",
	"event_site_url":             "https://www.skola-kopiena.lv",
	"registration_strict_fields": true,
	"ledger_backend":             LedgerSheets,
	"ledger_timeout":             10 * time.Second,
	"gsheet_range":               "A:H",
	"ledger_redis_stream":        "registrations",
	"tracing_exporter":           "none",
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return load(v)
}

func load(v *viper.Viper) Config {
	return Config{
		Server: Server{
			Addr:            v.GetString("registrar_addr"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("log_level")),
			Format: strings.ToLower(v.GetString("log_format")),
		},
		Mail: Mail{
			Provider:           strings.ToLower(strings.TrimSpace(v.GetString("mail_provider"))),
			SMTPHost:           v.GetString("ses_host"),
			SMTPPort:           v.GetInt("ses_port"),
			SMTPUser:           v.GetString("ses_user"),
			SMTPPass:           v.GetString("ses_pass"),
			ResendAPIKey:       v.GetString("resend_api_key"),
			ResendBaseURL:      strings.TrimRight(v.GetString("resend_base_url"), "/"),
			From:               v.GetString("mail_from"),
			FromName:           v.GetString("mail_from_name"),
			AdminTo:            v.GetString("mail_admin_to"),
			SendTimeout:        v.GetDuration("mail_send_timeout"),
			FailOnTotalFailure: v.GetBool("mail_fail_on_total_failure"),
		},
		Event: Event{
			Name:    v.GetString("event_name"),
			Date:    v.GetString("event_date"),
			Contact: v.GetString("event_contact"),
			SiteURL: v.GetString("event_site_url"),
		},
		Registration: Registration{
			StrictFields: v.GetBool("registration_strict_fields"),
		},
		Ledger: Ledger{
			Backend:            strings.ToLower(strings.TrimSpace(v.GetString("ledger_backend"))),
			Timeout:            v.GetDuration("ledger_timeout"),
			SheetID:            v.GetString("gsheet_id"),
			SheetRange:         v.GetString("gsheet_range"),
			ServiceAccountJSON: v.GetString("google_service_account_json"),
			DatabaseURL:        v.GetString("ledger_database_url"),
			RedisURL:           v.GetString("ledger_redis_url"),
			RedisStream:        v.GetString("ledger_redis_stream"),
		},
		Tracing: Tracing{
			Exporter: strings.ToLower(v.GetString("tracing_exporter")),
		},
	}
}
