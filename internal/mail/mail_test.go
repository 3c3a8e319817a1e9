package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"registrar/internal/platform/config"
	"registrar/internal/platform/logger"
	"registrar/pkg/platform/sentinel"
)

func testMessage() Message {
	return Message{
		From:    "Reģistrācija <noreply@rudenskonference.lv>",
		To:      "anna@example.com",
		ReplyTo: "info@rudenskonference.lv",
		Subject: "Paldies par reģistrāciju",
		Text:    "Sveiki, Anna!",
		HTML:    "<p>Sveiki, Anna!</p>",
	}
}

// =============================================================================
// Resend transport
// =============================================================================

type ResendSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	received resendRequest
	auth     string
}

func TestResendSuite(t *testing.T) {
	suite.Run(t, new(ResendSuite))
}

func (s *ResendSuite) SetupTest() {
	s.received = resendRequest{}
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_123"}`))
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&s.received)
		s.handler(w, r)
	}))
}

func (s *ResendSuite) TearDownTest() {
	s.server.Close()
}

func (s *ResendSuite) transport() *ResendTransport {
	t, err := NewResend(ResendConfig{APIKey: "key", BaseURL: s.server.URL})
	s.Require().NoError(err)
	return t
}

func (s *ResendSuite) TestSendReturnsProviderID() {
	id, err := s.transport().Send(context.Background(), testMessage())

	s.Require().NoError(err)
	s.Equal("re_123", id)
	s.Equal("Bearer key", s.auth)
	s.Equal([]string{"anna@example.com"}, s.received.To)
	s.Equal("info@rudenskonference.lv", s.received.ReplyTo)
	s.Equal("<p>Sveiki, Anna!</p>", s.received.HTML)
}

func (s *ResendSuite) TestStatusMapsToCategory() {
	cases := map[int]ErrorCategory{
		http.StatusUnauthorized:        ErrorAuthentication,
		http.StatusUnprocessableEntity: ErrorRejected,
		http.StatusTooManyRequests:     ErrorRateLimited,
		http.StatusBadGateway:          ErrorProviderOutage,
	}
	for status, category := range cases {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}
		_, err := s.transport().Send(context.Background(), testMessage())
		s.Require().Error(err)
		s.Equal(category, CategoryOf(err), "status %d", status)
	}
}

func (s *ResendSuite) TestDeadlineIsTimeout() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.transport().Send(ctx, testMessage())
	s.Require().Error(err)
	s.Equal(ErrorTimeout, CategoryOf(err))
	s.True(errors.Is(err, sentinel.ErrTimeout))
}

func (s *ResendSuite) TestMissingIDIsError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}
	_, err := s.transport().Send(context.Background(), testMessage())
	s.Error(err)
}

// =============================================================================
// SMTP message building
// =============================================================================

func TestNewSMTPRequiresCredentials(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	assert.Error(t, err)

	tr, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ses-smtp", tr.Name())
	assert.Equal(t, 587, tr.cfg.Port)
}

func TestSMTPBuildSetsHeaders(t *testing.T) {
	tr, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"})
	require.NoError(t, err)

	m, id, err := tr.build(testMessage())
	require.NoError(t, err)
	assert.Contains(t, id, "@rudenskonference.lv")

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "<"+id+">")
	assert.Contains(t, raw, "Reply-To:")
	assert.Contains(t, raw, "info@rudenskonference.lv")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "text/plain")
}

func TestSMTPBuildRejectsBadRecipient(t *testing.T) {
	tr, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"})
	require.NoError(t, err)

	msg := testMessage()
	msg.To = "not an address"
	_, _, err = tr.build(msg)
	assert.Error(t, err)
}

// =============================================================================
// Log transport, factory, error taxonomy
// =============================================================================

func TestLogTransport(t *testing.T) {
	tr := NewLog(logger.Discard())

	id, err := tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Send(ctx, testMessage())
	assert.Equal(t, ErrorTimeout, CategoryOf(err))
}

func TestFactory(t *testing.T) {
	t.Run("smtp without credentials is not configured", func(t *testing.T) {
		_, err := New(config.Mail{Provider: config.ProviderSMTP, SMTPHost: "h"}, logger.Discard())
		assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
	})

	t.Run("resend without key is not configured", func(t *testing.T) {
		_, err := New(config.Mail{Provider: config.ProviderResend}, logger.Discard())
		assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
	})

	t.Run("unknown provider is not configured", func(t *testing.T) {
		_, err := New(config.Mail{Provider: "pigeon"}, logger.Discard())
		assert.ErrorIs(t, err, sentinel.ErrNotConfigured)
	})

	t.Run("configured smtp", func(t *testing.T) {
		tr, err := New(config.Mail{Provider: config.ProviderSMTP, SMTPHost: "h", SMTPPort: 465, SMTPUser: "u", SMTPPass: "p"}, logger.Discard())
		require.NoError(t, err)
		assert.Equal(t, "ses-smtp", tr.Name())
	})

	t.Run("log provider", func(t *testing.T) {
		tr, err := New(config.Mail{Provider: config.ProviderLog}, logger.Discard())
		require.NoError(t, err)
		assert.Equal(t, "log", tr.Name())
	})
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, ErrorTimeout, CategoryOf(context.DeadlineExceeded))
	assert.Equal(t, ErrorInternal, CategoryOf(errors.New("x")))
	assert.Equal(t, ErrorRejected, CategoryOf(NewProviderError(ErrorRejected, "p", "m", nil)))

	pe := NewProviderError(ErrorProviderOutage, "p", "m", nil)
	assert.ErrorIs(t, pe, sentinel.ErrUnavailable)
	assert.NotErrorIs(t, pe, sentinel.ErrTimeout)
}
