// Package mailer renders and delivers the transactional emails.
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

type Sender interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host, port, user, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

var headerReplacer = strings.NewReplacer("\r", "", "\n", "")

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerReplacer.Replace(from) + "\r\n")
	b.WriteString("To: " + headerReplacer.Replace(to) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerReplacer.Replace(subject)) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (s *SMTPSender) Send(ctx context.Context, to string, subject string, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := s.sendMail(addr, auth, s.from, []string{to}, buildMessage(s.from, to, subject, html)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
