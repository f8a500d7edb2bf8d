// Package mailer sends the account-validation email. Delivery is best
// effort and happens off the request path; a lost email only means the
// account stays unvalidated until the user asks again.
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTP sends through a plain-auth SMTP relay.
type SMTP struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewSMTP(host, port, address, password string) *SMTP {
	return &SMTP{
		host: host,
		port: port,
		from: address,
		auth: smtp.PlainAuth("", address, password, host),
	}
}

func (m *SMTP) Send(to, subject, html string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, html,
	)
	return smtp.SendMail(m.host+":"+m.port, m.auth, m.from, []string{to}, []byte(msg))
}

// Discard logs instead of sending. Used in development and tests, and
// whenever no SMTP host is configured.
type Discard struct {
	Log *zap.Logger
}

func (d Discard) Send(to, subject, _ string) error {
	if d.Log != nil {
		d.Log.Info("email discarded", zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}

// ValidationBody renders the validate-account button linking back to the
// service.
func ValidationBody(appURL, token string) string {
	return fmt.Sprintf(`<div style="text-align: center;">
  <a href="%s/users/validate/%s">
    <button style="background-color: #ff1f1f; color: white; border: none; padding: 10px 20px; font-size: 16px; border-radius: 10px;">
      VALIDATE ACCOUNT
    </button>
  </a>
</div>`, appURL, token)
}
