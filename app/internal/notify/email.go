package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"slotwatch/app/internal/database"
)

// SendEmail sends a plain-text message to the default recipient plus any
// extra recipients. Implicit TLS on port 465 (SMTPS), STARTTLS otherwise.
func (m *Manager) SendEmail(subject, body string, extraTo []string) error {
	msg := email.NewEmail()
	msg.From = m.cfg.MailFrom
	msg.To = append([]string{m.cfg.MailTo}, extraTo...)
	msg.Subject = subject
	msg.Text = []byte(body)
	msg.Headers.Set("Date", time.Now().Format(time.RFC1123Z))

	host := m.cfg.SMTPHost
	addr := fmt.Sprintf("%s:%d", host, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, host)
	tlsConfig := &tls.Config{ServerName: host}

	var err error
	if m.cfg.SMTPPort == 465 {
		err = msg.SendWithTLS(addr, auth, tlsConfig)
	} else {
		err = msg.SendWithStartTLS(addr, auth, tlsConfig)
	}

	if err != nil {
		_ = database.InsertLog(database.LogLevelError, database.LogCategoryEmail,
			"Failed to send email", fmt.Sprintf("to=%v, subject=%s, error=%v", msg.To, subject, err))
		return err
	}
	_ = database.InsertLog(database.LogLevelInfo, database.LogCategoryEmail,
		"Email sent", fmt.Sprintf("to=%v, subject=%s", msg.To, subject))
	return nil
}
