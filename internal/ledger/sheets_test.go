package ledger

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type SheetsSuite struct {
	suite.Suite
	key    *rsa.PrivateKey
	keyPEM string
	server *httptest.Server

	tokenCalls  atomic.Int32
	appendCalls atomic.Int32
	appendCode  atomic.Int32
	lastBody    atomic.Value
	lastAuth    atomic.Value
	lastPath    atomic.Value
}

func TestSheetsSuite(t *testing.T) {
	suite.Run(t, new(SheetsSuite))
}

func (s *SheetsSuite) SetupSuite() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	s.Require().NoError(err)
	s.key = key
	s.keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func (s *SheetsSuite) SetupTest() {
	s.tokenCalls.Store(0)
	s.appendCalls.Store(0)
	s.appendCode.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != jwtBearerGrant {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"unsupported_grant_type"}`)
			return
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(r.PostForm.Get("assertion"), claims, func(*jwt.Token) (any, error) {
			return &s.key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation())
		if err != nil || claims["iss"] != "svc@example.iam.gserviceaccount.com" || claims["scope"] != sheetsScope {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok-1","expires_in":3600,"token_type":"Bearer"}`)
	})
	mux.HandleFunc("/v4/spreadsheets/", func(w http.ResponseWriter, r *http.Request) {
		s.appendCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		s.lastBody.Store(string(body))
		s.lastAuth.Store(r.Header.Get("Authorization"))
		s.lastPath.Store(r.URL.Path + "?" + r.URL.RawQuery)
		w.WriteHeader(int(s.appendCode.Load()))
		_, _ = io.WriteString(w, `{}`)
	})
	s.server = httptest.NewServer(mux)
}

func (s *SheetsSuite) TearDownTest() {
	s.server.Close()
}

func (s *SheetsSuite) accountJSON(escaped bool) string {
	key := s.keyPEM
	if escaped {
		key = strings.ReplaceAll(key, "\n", `\n`)
	}
	raw, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": "svc@example.iam.gserviceaccount.com",
		"private_key":  key,
		"token_uri":    s.server.URL + "/token",
	})
	s.Require().NoError(err)
	return string(raw)
}

func (s *SheetsSuite) newWriter() *SheetsWriter {
	sa, err := ParseServiceAccount(s.accountJSON(true))
	s.Require().NoError(err)
	w, err := NewSheets(SheetsConfig{
		SpreadsheetID: "sheet-1",
		Account:       sa,
		BaseURL:       s.server.URL,
		Client:        s.server.Client(),
	})
	s.Require().NoError(err)
	return w
}

func (s *SheetsSuite) row() Row {
	return Row{"2026-03-14T07:30:00Z", "Anna", "anna@example.com", "Skola", "Rīga", "Skolotāja", "No kolēģiem / draugiem", ""}
}

func (s *SheetsSuite) TestParseServiceAccount() {
	s.Run("unescapes literal newlines", func() {
		sa, err := ParseServiceAccount(s.accountJSON(true))
		s.Require().NoError(err)
		s.Equal(s.keyPEM, sa.PrivateKey)
	})

	s.Run("defaults token uri", func() {
		sa, err := ParseServiceAccount(`{"client_email":"a@b.iam","private_key":"k"}`)
		s.Require().NoError(err)
		s.Equal(defaultTokenURL, sa.TokenURI)
	})

	s.Run("requires email and key", func() {
		_, err := ParseServiceAccount(`{"client_email":"a@b.iam"}`)
		s.Error(err)
	})
}

func (s *SheetsSuite) TestAppendSendsRow() {
	w := s.newWriter()

	s.Require().NoError(w.Append(context.Background(), s.row()))

	s.Equal("Bearer tok-1", s.lastAuth.Load())
	s.Equal("/v4/spreadsheets/sheet-1/values/A:H:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS", s.lastPath.Load())

	var payload struct {
		Values [][]string `json:"values"`
	}
	s.Require().NoError(json.Unmarshal([]byte(s.lastBody.Load().(string)), &payload))
	s.Require().Len(payload.Values, 1)
	s.Equal([]string(s.row()), payload.Values[0])
}

func (s *SheetsSuite) TestTokenIsCached() {
	w := s.newWriter()
	ctx := context.Background()

	s.Require().NoError(w.Append(ctx, s.row()))
	s.Require().NoError(w.Append(ctx, s.row()))

	s.Equal(int32(1), s.tokenCalls.Load())
	s.Equal(int32(2), s.appendCalls.Load())
}

func (s *SheetsSuite) TestTokenRefreshedNearExpiry() {
	w := s.newWriter()
	now := time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)
	w.cfg.Now = func() time.Time { return now }
	ctx := context.Background()

	s.Require().NoError(w.Append(ctx, s.row()))
	now = now.Add(59*time.Minute + 30*time.Second)
	s.Require().NoError(w.Append(ctx, s.row()))

	s.Equal(int32(2), s.tokenCalls.Load())
}

func (s *SheetsSuite) TestUnauthorizedDropsCachedToken() {
	w := s.newWriter()
	ctx := context.Background()

	s.appendCode.Store(http.StatusUnauthorized)
	s.Error(w.Append(ctx, s.row()))

	s.appendCode.Store(http.StatusOK)
	s.Require().NoError(w.Append(ctx, s.row()))

	s.Equal(int32(2), s.tokenCalls.Load())
}

func (s *SheetsSuite) TestServerErrorIsReturned() {
	w := s.newWriter()
	s.appendCode.Store(http.StatusInternalServerError)

	err := w.Append(context.Background(), s.row())
	s.Require().Error(err)
	s.Contains(err.Error(), "500")
}

func (s *SheetsSuite) TestRejectedTokenExchange() {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)
	der, err := x509.MarshalPKCS8PrivateKey(other)
	s.Require().NoError(err)

	w, err := NewSheets(SheetsConfig{
		SpreadsheetID: "sheet-1",
		Account: &ServiceAccount{
			ClientEmail: "svc@example.iam.gserviceaccount.com",
			PrivateKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
			TokenURI:    s.server.URL + "/token",
		},
		BaseURL: s.server.URL,
		Client:  s.server.Client(),
	})
	s.Require().NoError(err)

	err = w.Append(context.Background(), s.row())
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid_grant")
	s.Equal(int32(0), s.appendCalls.Load())
}
