// Package mailer delivers rendered results to the requester's inbox.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
)

// Subjects used by the fulfillment and resend paths.
const (
	SubjectFresh  = "Restaurant Recommendations"
	SubjectResend = "Your Previous Restaurant Suggestions"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SMTP sends HTML mail through a relay.
type SMTP struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

// NewSMTP configures the sender from the environment. Auth is optional: an
// unauthenticated relay (local dev, mailhog) works with no credentials set.
func NewSMTP() *SMTP {
	addr := getenv("SMTP_ADDR", "localhost:1025")
	from := getenv("SMTP_FROM", "concierge@example.com")
	host := addr
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		host = addr[:i]
	}

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return &SMTP{addr: addr, host: host, from: from, auth: auth}
}

// Send delivers one HTML body to one recipient. The connection is dialed
// under ctx and the ctx deadline applies to the whole conversation, so a
// hung relay cannot stall the caller past its per-call timeout.
func (m *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("mailer: dial %s: %w", m.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mailer: handshake with %s: %w", m.addr, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("mailer: starttls: %w", err)
		}
	}
	if m.auth != nil {
		if err := c.Auth(m.auth); err != nil {
			return fmt.Errorf("mailer: auth: %w", err)
		}
	}

	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("mailer: mail from %s: %w", m.from, err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("mailer: rcpt %s: %w", to, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailer: data: %w", err)
	}
	if _, err := w.Write(message(m.from, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("mailer: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}

	return c.Quit()
}

func message(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
