package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pariskandee/real-estate/internal/config"
)

// Mailer notifies submitters about the state of their listing. All sends
// are best-effort from the caller's point of view.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendSubmissionReceived(toEmail, title, reference string) error {
	return m.send(toEmail,
		"Your listing has been received",
		fmt.Sprintf("Your listing '%s' (%s) has been received and is awaiting moderation.", title, reference))
}

func (m *Mailer) SendListingApproved(toEmail, title, reference string) error {
	return m.send(toEmail,
		"Your listing has been approved",
		fmt.Sprintf("Your listing '%s' (%s) has been approved and is now live.", title, reference))
}

func (m *Mailer) send(toEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Email)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Email, m.cfg.Password)
	return d.DialAndSend(msg)
}
