package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/email"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	valid := email.Message{To: "a@x.com", Subject: "Hi", BodyHTML: "<p>hi</p>"}
	require.NoError(t, valid.Validate())

	for name, msg := range map[string]email.Message{
		"missing recipient": {Subject: "Hi", BodyHTML: "<p>hi</p>"},
		"bad recipient":     {To: "not-an-email", Subject: "Hi", BodyHTML: "<p>hi</p>"},
		"missing subject":   {To: "a@x.com", BodyHTML: "<p>hi</p>"},
		"missing body":      {To: "a@x.com", Subject: "Hi"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, msg.Validate(), email.ErrInvalidMessage)
		})
	}
}

func TestDevSender_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.Send(context.Background(), email.Message{
		To:       "a@x.com",
		Subject:  "Test Subject",
		BodyHTML: "<p>hello</p>",
		Tag:      "purchase-receipt",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var sawHTML bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".html" {
			sawHTML = true
			body, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Equal(t, "<p>hello</p>", string(body))
		}
	}
	assert.True(t, sawHTML)
}

func TestSendReceipt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := email.SendReceipt(context.Background(), sender, email.Receipt{
		Email:       "buyer@x.com",
		ProductName: "Premium",
		PurchasedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		SupportURL:  "https://example.com/support",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var html string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".html" {
			body, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			html = string(body)
		}
	}
	assert.True(t, strings.Contains(html, "Premium"))
	assert.True(t, strings.Contains(html, "buyer@x.com"))
	assert.True(t, strings.Contains(html, "August 29, 2026"))
}

func TestNewPostmarkSender_ConfigValidation(t *testing.T) {
	t.Parallel()

	base := email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@x.com",
		SupportEmail:         "support@x.com",
	}

	_, err := email.NewPostmarkSender(base)
	require.NoError(t, err)

	t.Run("missing server token", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.PostmarkServerToken = ""
		_, err := email.NewPostmarkSender(cfg)
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("invalid sender email", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.SenderEmail = "nope"
		_, err := email.NewPostmarkSender(cfg)
		require.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
