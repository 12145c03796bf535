package mailing

import (
	"fmt"
	"html"
	"strconv"

	"gopkg.in/gomail.v2"

	"Foodgram-Backend/internal/utils"
)

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
		SendWelcomeMail(toEmail string, username string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		config MailConfig
	}

	noopMailer struct{}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns a mailer that silently drops messages when SMTP is not configured.
func NewMailer() Mailer {
	return newMailer(LoadMailConfig())
}

func newMailer(cfg MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return noopMailer{}
	}
	return &smtpMailer{config: cfg}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT %q: %w", m.config.SMTPPort, err)
	}

	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func (m *smtpMailer) SendWelcomeMail(toEmail string, username string) error {
	subject, body := m.config.WelcomeMail(username)
	return m.SendMail(toEmail, subject, body)
}

func (noopMailer) SendMail(string, string, string) error {
	return nil
}

func (noopMailer) SendWelcomeMail(string, string) error {
	return nil
}

func (c MailConfig) WelcomeMail(username string) (string, string) {
	subject := "Welcome to Foodgram"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>your account is ready. Start sharing recipes at <a href=\"%s\">%s</a>.</p>",
		html.EscapeString(username), c.AppURL, c.AppURL,
	)
	return subject, body
}
