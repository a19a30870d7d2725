package report

import (
	"fmt"
	"path/filepath"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends the daily report mail: HTML tables in the body and the xlsx
// workbook attached.
type Mailer struct {
	host       string
	port       int
	sender     string
	authCode   string
	recipients []string
}

// NewMailer creates a mailer. An empty host disables delivery, so local runs
// need no SMTP setup.
func NewMailer(host string, port int, sender, authCode string, recipients []string) *Mailer {
	return &Mailer{
		host:       host,
		port:       port,
		sender:     sender,
		authCode:   authCode,
		recipients: recipients,
	}
}

// Enabled reports whether delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.host != "" && len(m.recipients) > 0
}

// SendDaily sends the report for the given day. attachmentPath may be empty
// when the workbook failed to render; the mail still carries the body.
func (m *Mailer) SendDaily(today models.DayCode, htmlBody, attachmentPath string) error {
	if !m.Enabled() {
		logrus.Info("Mail delivery is not configured, skipping send")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", m.recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("%s_IPO_Info", string(today)))
	msg.SetBody("text/html", htmlBody)
	if attachmentPath != "" {
		msg.Attach(attachmentPath, gomail.Rename(filepath.Base(attachmentPath)))
	}

	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.authCode)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send daily report mail: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"recipients": len(m.recipients),
		"day":        string(today),
	}).Info("Sent daily report mail")
	return nil
}
