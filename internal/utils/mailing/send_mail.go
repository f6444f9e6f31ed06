package mailing

import (
	"Foodgram-Backend/internal/utils"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

// Attachment is an in-memory file sent along with a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Mailer sends a plain-text message with optional attachments.
type Mailer interface {
	Send(toEmail, subject, body string, attachments ...Attachment) error
}

type smtpMailer struct {
	cfg MailConfig
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewSMTPMailer(cfg MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(toEmail, subject, body string, attachments ...Attachment) error {
	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", m.cfg.SMTPPort, err)
	}

	return gomail.NewDialer(m.cfg.SMTPHost, port, m.cfg.SMTPEmail, m.cfg.SMTPPassword).
		DialAndSend(BuildMessage(m.cfg, toEmail, subject, body, attachments...))
}

// BuildMessage assembles the gomail message without sending it.
func BuildMessage(cfg MailConfig, toEmail, subject, body string, attachments ...Attachment) *gomail.Message {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", cfg.SMTPEmail, cfg.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", body)
	for _, a := range attachments {
		content := a.Content
		mailer.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return mailer
}
