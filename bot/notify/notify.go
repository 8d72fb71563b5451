// Package notify sends the outbound mail the order flow produces: customer
// confirmations, return requests to the returns desk and proof-of-payment
// forwards to the operator. Sends are fire-and-forget: failures are logged,
// never retried.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"time"

	coreconfig "github.com/pasofino/ventabot/core/config"
	"github.com/pasofino/ventabot/core/logger"
)

// Notifier delivers plain and attachment-bearing messages.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
	SendWithAttachment(ctx context.Context, to, subject, body, filename string, data []byte) error
}

// Mailer is the SMTP-backed Notifier.
type Mailer struct {
	cfg  coreconfig.NotifyConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a Notifier from the notify configuration.
func NewMailer(cfg coreconfig.NotifyConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// ReturnsDesk is the configured destination for return requests.
func (m *Mailer) ReturnsDesk() string { return m.cfg.ReturnsDesk }

// Operator is the configured destination for proof-of-payment forwards.
func (m *Mailer) Operator() string { return m.cfg.Operator }

// Send delivers a plain-text message.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	var msg bytes.Buffer
	m.writeHeaders(&msg, to, subject)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)
	return m.deliver(ctx, to, subject, msg.Bytes())
}

// SendWithAttachment delivers a message with one binary attachment as a
// MIME multipart body.
func (m *Mailer) SendWithAttachment(ctx context.Context, to, subject, body, filename string, data []byte) error {
	const boundary = "ventabot-attachment-boundary"

	var msg bytes.Buffer
	m.writeHeaders(&msg, to, subject)
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: application/octet-stream\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 0 {
		n := 76
		if len(enc) < n {
			n = len(enc)
		}
		msg.WriteString(enc[:n])
		msg.WriteString("\r\n")
		enc = enc[n:]
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return m.deliver(ctx, to, subject, msg.Bytes())
}

func (m *Mailer) writeHeaders(buf *bytes.Buffer, to, subject string) {
	fmt.Fprintf(buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(buf, "To: %s\r\n", to)
	fmt.Fprintf(buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
}

func (m *Mailer) deliver(ctx context.Context, to, subject string, msg []byte) error {
	if m.cfg.SMTPHost == "" || to == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	start := time.Now()
	err := m.send(addr, auth, m.cfg.From, []string{to}, msg)
	if err != nil {
		logger.SVCNotify.LogAttrs(ctx, slog.LevelError, "notify.send",
			slog.String("status", "error"),
			slog.String("to", logger.Sanitize(to)),
			slog.String("subject", logger.SanitizeLimit(subject, 96)),
			slog.String("err", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("notify: send to %s: %w", to, err)
	}
	logger.SVCNotify.LogAttrs(ctx, slog.LevelInfo, "notify.send",
		slog.String("status", "ok"),
		slog.String("to", logger.Sanitize(to)),
		slog.String("subject", logger.SanitizeLimit(subject, 96)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
