package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// EmailConfig holds SMTP connection details, read from the environment.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// EmailSender delivers plain SMTP mail. A nil *EmailSender is a valid
// "not configured" sender; the dispatcher treats it as a no-op.
type EmailSender struct {
	cfg EmailConfig
}

// EmailSenderFromEnv builds a sender from SMTP_* environment variables, or
// returns nil when the transport is not configured.
func EmailSenderFromEnv() *EmailSender {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || user == "" || pass == "" {
		return nil
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@fleet.local"
	}
	return &EmailSender{cfg: EmailConfig{
		Host:      host,
		Port:      port,
		Username:  user,
		Password:  pass,
		FromEmail: from,
	}}
}

// AdminEmailsFromEnv parses the comma-separated ADMIN_EMAILS variable.
func AdminEmailsFromEnv() []string {
	var out []string
	for _, s := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Send delivers an HTML email to the given recipients.
func (s *EmailSender) Send(to []string, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         s.cfg.FromEmail,
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var body strings.Builder
	for key, value := range headers {
		body.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	body.WriteString("\r\n")
	body.WriteString(htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, to, []byte(body.String()))
}
