package service

import (
	"context"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendEmailSenderBuildsRequest(t *testing.T) {
	var captured *resend.SendEmailRequest
	sender := &ResendEmailSender{
		From: "ProfileHub <noreply@example.com>",
		send: func(params *resend.SendEmailRequest) error {
			captured = params
			return nil
		},
	}

	link := "https://app.example.com/verify-email/tok"
	require.NoError(t, sender.SendVerificationEmail(context.Background(), "a@x.com", "<Alice>", link))
	require.NotNil(t, captured)
	assert.Equal(t, []string{"a@x.com"}, captured.To)
	assert.Equal(t, "Verify your email", captured.Subject)
	assert.Contains(t, captured.Html, link)
	assert.Contains(t, captured.Html, "&lt;Alice&gt;")
	assert.Contains(t, captured.Text, "24 hours")

	require.NoError(t, sender.SendPasswordResetEmail(context.Background(), "a@x.com", "", "https://app.example.com/reset-password/tok"))
	assert.Equal(t, "Reset your password", captured.Subject)
	assert.Contains(t, captured.Text, "15 minutes")
}

func TestResendEmailSenderErrors(t *testing.T) {
	unconfigured := NewResendEmailSender("", "")
	assert.Error(t, unconfigured.SendVerificationEmail(context.Background(), "a@x.com", "A", "link"))

	failing := &ResendEmailSender{send: func(*resend.SendEmailRequest) error { return errBoom }}
	err := failing.SendPasswordResetEmail(context.Background(), "a@x.com", "A", "link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	cancelled := &ResendEmailSender{send: func(*resend.SendEmailRequest) error { called = true; return nil }}
	assert.ErrorIs(t, cancelled.SendVerificationEmail(ctx, "a@x.com", "A", "link"), context.Canceled)
	assert.False(t, called)
}

func TestLogEmailSender(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := LogEmailSender{Logger: logger}

	require.NoError(t, sender.SendVerificationEmail(context.Background(), "a@x.com", "A", "https://app/verify-email/t"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "https://app/verify-email/t", entry.Data["link"])
}
