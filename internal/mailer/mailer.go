// Package mailer provides confirmation-code delivery via SMTP.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Service sends signup confirmation codes. When unconfigured it logs the
// code instead, so local development works without an SMTP server.
type Service struct {
	config Config
	server string
	auth   smtp.Auth
}

// NewService creates a new mailer service
func NewService(config Config) *Service {
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendConfirmationCode delivers the signup confirmation code to the user.
func (s *Service) SendConfirmationCode(to, username, code string) error {
	if !s.IsConfigured() {
		log.Printf("mailer not configured; confirmation code for %s: %s", username, code)
		return nil
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\nYour confirmation code: %s\r\n", username, code)
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: FeedbackBook confirmation code\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		to,
		s.config.From,
		body,
	))

	return smtp.SendMail(s.server, s.auth, s.config.From, []string{to}, msg)
}
