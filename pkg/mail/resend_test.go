package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecell/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSenderSend(t *testing.T) {
	var (
		auth string
		got  map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	s := NewResendSender(config.ResendConfig{APIKey: "re_test", BaseURL: srv.URL, Timeout: 2}, "E-Cell <noreply@ecellsmec.com>")
	err := s.Send(context.Background(), &Message{
		To:      []string{"jane@example.com"},
		Cc:      []string{"club@example.com"},
		ReplyTo: "reply@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "E-Cell <noreply@ecellsmec.com>", got["from"])
	assert.Equal(t, []interface{}{"jane@example.com"}, got["to"])
	assert.Equal(t, []interface{}{"club@example.com"}, got["cc"])
	assert.Equal(t, "reply@example.com", got["reply_to"])
	assert.Equal(t, "Hello", got["subject"])
}

func TestResendSenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	s := NewResendSender(config.ResendConfig{APIKey: "re_test", BaseURL: srv.URL}, "noreply@ecellsmec.com")
	err := s.Send(context.Background(), &Message{To: []string{"jane@example.com"}, Subject: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendRequiresRecipient(t *testing.T) {
	s := NewResendSender(config.ResendConfig{APIKey: "re_test", BaseURL: "http://127.0.0.1:1"}, "noreply@ecellsmec.com")
	assert.ErrorIs(t, s.Send(context.Background(), &Message{Subject: "x"}), ErrNoRecipient)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.MailConfig{Driver: DriverLog})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, s)

	_, err = NewSender(config.MailConfig{Driver: DriverResend})
	assert.Error(t, err)

	_, err = NewSender(config.MailConfig{Driver: DriverSMTP})
	assert.Error(t, err)

	s, err = NewSender(config.MailConfig{Driver: DriverSMTP, SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = NewSender(config.MailConfig{Driver: "pigeon"})
	assert.Error(t, err)
}

func TestSMTPBuild(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, "noreply@ecellsmec.com")
	m := s.build(&Message{
		To:      []string{"a@example.com"},
		Cc:      []string{"c@example.com"},
		ReplyTo: "r@example.com",
		Subject: "Hi",
		HTML:    "<p>x</p>",
	})
	assert.Equal(t, []string{"noreply@ecellsmec.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"c@example.com"}, m.GetHeader("Cc"))
	assert.Equal(t, []string{"r@example.com"}, m.GetHeader("Reply-To"))
}
