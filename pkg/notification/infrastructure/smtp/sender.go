package smtp

import (
	"gopkg.in/gomail.v2"

	"github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/model"
)

type sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender builds the SMTP-backed NotificationSender from deployment
// configuration.
func NewSender(host string, port int, username, password, from string) model.NotificationSender {
	return &sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *sender) Send(recipient, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
