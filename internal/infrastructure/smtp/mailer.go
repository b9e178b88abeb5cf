package smtp

import (
	"net"
	"net/smtp"
	"strings"

	"github.com/contacts-api/internal/config"
)

// Mailer delivers outbound mail. The auth flow uses it for verification
// emails; delivery failures there are logged and never surfaced to the
// caller, so implementations should not retry internally.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type smtpMailer struct {
	addr     string
	host     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		addr:     net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		host:     cfg.SMTPHost,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// SendEmail sends a single HTML message. Auth is skipped when no username is
// configured, which is what a local MailHog/Mailpit instance expects.
func (m *smtpMailer) SendEmail(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg.String()))
}
