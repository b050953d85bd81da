// Package mailer sends transactional mail. Currently only the donor portal
// login codes go out this way.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// SendOTP emails a 6-digit login code. Blocking, no retry; the donor can
// always request a fresh code.
func (m *Mailer) SendOTP(to, name, code string) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your donor portal login code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s,\n\nYour login code is: %s\n\nIt expires in 10 minutes. If you did not request this, you can ignore this email.\n",
		greeting, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send OTP mail to %s: %w", to, err)
	}
	return nil
}
