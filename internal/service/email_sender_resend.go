package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

var errSenderNotConfigured = errors.New("email sender not configured")

type ResendEmailSender struct {
	From string
	send func(params *resend.SendEmailRequest) error
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	client := resend.NewClient(apiKey)
	return &ResendEmailSender{
		From: from,
		send: func(params *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(params)
			return err
		},
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, name string, link string) error {
	subject := "Verify your email"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for signing up. Confirm your email address to activate your account:</p>"+
			"<p><a href=\"%s\">Verify Email</a></p><p>This link expires in 24 hours.</p>",
		html.EscapeString(greetingName(name)), link,
	)
	text := fmt.Sprintf("Hi %s, verify your email within 24 hours: %s", greetingName(name), link)
	return s.deliver(ctx, email, subject, body, text)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, name string, link string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received a request to reset your password:</p>"+
			"<p><a href=\"%s\">Reset Password</a></p><p>This link expires in 15 minutes. If you did not ask for it, ignore this email.</p>",
		html.EscapeString(greetingName(name)), link,
	)
	text := fmt.Sprintf("Hi %s, reset your password within 15 minutes: %s", greetingName(name), link)
	return s.deliver(ctx, email, subject, body, text)
}

func (s *ResendEmailSender) deliver(ctx context.Context, to string, subject string, body string, text string) error {
	if s.send == nil {
		return errSenderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    body,
		Text:    text,
	})
	if err != nil {
		return oops.In("mailer").With("to", to, "subject", subject).Wrapf(err, "send email")
	}
	return nil
}

// LogEmailSender writes links to the log instead of sending mail. It is used
// when no mail provider is configured.
type LogEmailSender struct {
	Logger logrus.FieldLogger
}

func (s LogEmailSender) SendVerificationEmail(_ context.Context, email string, _ string, link string) error {
	s.logger().WithFields(logrus.Fields{"to": email, "link": link}).Info("verification email")
	return nil
}

func (s LogEmailSender) SendPasswordResetEmail(_ context.Context, email string, _ string, link string) error {
	s.logger().WithFields(logrus.Fields{"to": email, "link": link}).Info("password reset email")
	return nil
}

func (s LogEmailSender) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func greetingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
