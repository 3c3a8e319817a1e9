package ledger

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sheetsScope          = "https://www.googleapis.com/auth/spreadsheets"
	defaultTokenURL      = "https://oauth2.googleapis.com/token"
	defaultSheetsBaseURL = "https://sheets.googleapis.com"
	jwtBearerGrant       = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	tokenRefreshMargin   = time.Minute
)

// ServiceAccount is the subset of a Google service-account key file we use.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseServiceAccount decodes the key JSON. Keys pasted into environment
// variables usually carry literal `\n` sequences; they are unescaped here.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("decode service account json: %w", err)
	}
	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account json lacks client_email or private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = defaultTokenURL
	}
	return &sa, nil
}

// SheetsConfig configures the Google Sheets writer.
type SheetsConfig struct {
	SpreadsheetID string
	Range         string
	Account       *ServiceAccount
	// BaseURL overrides the Sheets API root; tests point it at httptest.
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

// SheetsWriter appends rows through the Sheets values:append API.
type SheetsWriter struct {
	cfg SheetsConfig
	key *rsa.PrivateKey

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewSheets parses the private key up front so a broken credential is
// reported at startup instead of on the first registration.
func NewSheets(cfg SheetsConfig) (*SheetsWriter, error) {
	if cfg.SpreadsheetID == "" || cfg.Account == nil {
		return nil, fmt.Errorf("spreadsheet id and service account are required")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.Account.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if cfg.Range == "" {
		cfg.Range = "A:H"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSheetsBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SheetsWriter{cfg: cfg, key: key}, nil
}

func (w *SheetsWriter) Name() string {
	return "sheets"
}

// Append writes one row after the last non-empty row of the range.
func (w *SheetsWriter) Append(ctx context.Context, row Row) error {
	token, err := w.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{"values": [][]string{row}})
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		w.cfg.BaseURL, url.PathEscape(w.cfg.SpreadsheetID), url.PathEscape(w.cfg.Range))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.cfg.Client.Do(req)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if resp.StatusCode == http.StatusUnauthorized {
			w.invalidate()
		}
		return fmt.Errorf("append row: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// token returns a cached access token, exchanging a fresh signed assertion
// when the cache is empty or about to expire.
func (w *SheetsWriter) token(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.cfg.Now()
	if w.accessToken != "" && now.Add(tokenRefreshMargin).Before(w.expiresAt) {
		return w.accessToken, nil
	}

	assertion, err := w.signAssertion(now)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Account.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.cfg.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange token: %w", err)
	}
	defer resp.Body.Close()

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if resp.StatusCode >= 300 || tr.AccessToken == "" {
		return "", fmt.Errorf("exchange token: status %d: %s %s", resp.StatusCode, tr.Error, tr.Description)
	}

	w.accessToken = tr.AccessToken
	w.expiresAt = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	return w.accessToken, nil
}

func (w *SheetsWriter) signAssertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   w.cfg.Account.ClientEmail,
		"scope": sheetsScope,
		"aud":   w.cfg.Account.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(w.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}

func (w *SheetsWriter) invalidate() {
	w.mu.Lock()
	w.accessToken = ""
	w.mu.Unlock()
}
