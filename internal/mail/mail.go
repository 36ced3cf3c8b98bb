// Package mail delivers reservation links to counselors over SMTP.
package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a reservation link to a counselor's inbox.
type Sender interface {
	SendReservationLink(to, link string) error
}

// SMTPSender sends through a plain-auth SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTP builds a sender. From falls back to the auth username when unset.
func NewSMTP(host string, port int, username, password, from string) *SMTPSender {
	if from == "" {
		from = username
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Configured reports whether the relay settings are complete.
func (s *SMTPSender) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// SendReservationLink mails the booking link. Delivery failure is a hard error;
// the caller decides what that means for the already-persisted token.
func (s *SMTPSender) SendReservationLink(to, link string) error {
	if !s.Configured() {
		return errors.New("smtp is not configured: set SMTP_HOST, SMTP_USER and SMTP_PASS")
	}

	subject := "Your counseling reservation link"
	body := fmt.Sprintf(
		"Use the link below to book your counseling session.\r\n\r\n%s\r\n",
		link,
	)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send reservation link: %w", err)
	}
	return nil
}
