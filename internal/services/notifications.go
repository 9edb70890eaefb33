package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/harentsoaR/waitingroom-api/internal/config"
)

// NotificationService sends "your turn" emails to matched patients. It is
// strictly best-effort: delivery runs in a goroutine and failures are
// only logged, so a flaky mail server can never affect a verify result.
type NotificationService struct {
	cfg config.SMTPConfig
}

func NewNotificationService(cfg config.SMTPConfig) *NotificationService {
	return &NotificationService{cfg: cfg}
}

// Notify queues an email for delivery and returns immediately.
func (s *NotificationService) Notify(to, subject, body string) {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		log.Println("Email not sent: credentials not configured.")
		return
	}
	if to == "" {
		log.Println("Email not sent: registration has no contact address.")
		return
	}

	// Send in a goroutine so it doesn't block the API response
	go s.sendEmail(to, subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Server)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n",
		s.cfg.Username, to, subject, body,
	))

	if err := smtp.SendMail(addr, auth, s.cfg.Username, []string{to}, msg); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return
	}
	log.Printf("Successfully sent email to %s", to)
}
