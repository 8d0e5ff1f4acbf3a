// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers transactional email (account confirmation, password reset).

Two implementations satisfy [Mailer]:

  - SMTPMailer: sends through an SMTP relay using go-mail.
  - LogMailer: writes the message to the structured log, for local development.
*/
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/taibuivan/contactly/internal/platform/config"
)

// Message is a single outgoing HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends messages.
type Mailer interface {
	Send(context context.Context, message Message) error
}

// New returns an SMTP mailer when a relay is configured and a log mailer otherwise.
func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	if cfg.Server == "" {
		logger.Warn("mailer_smtp_disabled", slog.String("reason", "MAIL_SERVER is empty"))
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg)
}

// # SMTP

// SMTPMailer implements [Mailer] on top of a go-mail client.
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTPMailer builds a client from the MAIL_* settings.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	options := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSConfig(&tls.Config{
			ServerName:         cfg.Server,
			InsecureSkipVerify: !cfg.ValidateCerts,
			MinVersion:         tls.VersionTLS12,
		}),
	}

	switch {
	case cfg.SSLTLS:
		options = append(options, mail.WithSSL())
	case cfg.StartTLS:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	}

	if cfg.UseCredentials {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Server, options...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send implements [Mailer].
func (mailer *SMTPMailer) Send(context context.Context, message Message) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(mailer.fromName, mailer.from); err != nil {
		return fmt.Errorf("mailer: invalid sender: %w", err)
	}

	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("mailer: invalid recipient: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextHTML, message.HTML)

	if err := mailer.client.DialAndSendWithContext(context, msg); err != nil {
		return fmt.Errorf("mailer: delivery failed: %w", err)
	}

	return nil
}

// # Development

// LogMailer implements [Mailer] by logging messages instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(context context.Context, message Message) error {
	mailer.logger.InfoContext(context, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.HTML),
	)
	return nil
}
