package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"staybook-backend/internal/logger"
)

const signature = "\n\nBest regards,\nThe Staybook Team"

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPEmailService(host string, port int, username, password, from string) EmailService {
	return &smtpEmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *smtpEmailService) Send(ctx context.Context, to, toName, subject, body string) error {
	logger.ExternalServiceCall("smtp", "Send", "to", to, "subject", subject)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", to, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\n%s%s", toName, body, signature))

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	err := d.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type sendGridEmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) Send(ctx context.Context, to, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(toName, to),
		fmt.Sprintf("Hello %s,\n\n%s%s", toName, body, signature),
		"",
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	return nil
}

type logEmailService struct{}

// NewLogEmailService only logs outgoing mail. Used in development.
func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) Send(ctx context.Context, to, toName, subject, body string) error {
	logger.Info("Email suppressed", "to", to, "subject", subject, "body", body)
	return nil
}

// EmailSettings selects and configures the outgoing mail provider.
type EmailSettings struct {
	Provider       string // "smtp", "sendgrid" or "log"
	From           string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string
}

// NewEmailService builds the EmailService for the configured provider.
func NewEmailService(s EmailSettings) (EmailService, error) {
	switch s.Provider {
	case "", "smtp":
		return NewSMTPEmailService(s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPassword, s.From), nil
	case "sendgrid":
		if s.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires an api key")
		}
		return NewSendGridEmailService(s.SendGridAPIKey, s.From, s.FromName), nil
	case "log":
		return NewLogEmailService(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", s.Provider)
	}
}
