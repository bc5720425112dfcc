package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// MailConfig mirrors the mail_{server,user,password,sender,recipient}
// configuration keys of spec.md section 6. No SMTP client library appears
// anywhere in the retrieved pack for a server process of this kind, so the
// transport is built on the standard library's net/smtp -- see DESIGN.md.
type MailConfig struct {
	Server    string // host:port
	User      string
	Password  string
	Sender    string
	Recipient string
}

// Configured reports whether enough of MailConfig is present to attempt a
// send. An unconfigured mailer means the sink degrades to logging-only.
func (c MailConfig) Configured() bool {
	return c.Server != "" && c.Sender != "" && c.Recipient != ""
}

// SMTPMailer sends batch notifications over SMTP with PLAIN auth.
type SMTPMailer struct {
	cfg MailConfig
}

// NewSMTPMailer returns nil if cfg is not fully configured, so callers can
// pass the result straight to notify.New and get the logging-only
// degradation for free.
func NewSMTPMailer(cfg MailConfig) Mailer {
	if !cfg.Configured() {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	host, _, err := splitHostPort(m.cfg.Server)
	if err != nil {
		return fmt.Errorf("mail: invalid server address %q: %w", m.cfg.Server, err)
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, host)
	}

	msg := buildMessage(m.cfg.Sender, m.cfg.Recipient, subject, body)

	// net/smtp.SendMail is not context-aware; respect cancellation before
	// dialing at least, so a shutdown in progress doesn't start new sends.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := smtp.SendMail(m.cfg.Server, auth, m.cfg.Sender, []string{m.cfg.Recipient}, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))
}

func splitHostPort(addr string) (host string, port string, err error) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i], addr[i+1:], nil
		}
	}
	return addr, "", nil
}
