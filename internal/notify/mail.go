package notify

import (
	"bytes"
	"context"
	"domainkeeper/logger"
	"fmt"
	"go.uber.org/zap"
	"net/smtp"
	"strings"
	"time"
)

type (
	Message struct {
		From    string
		To      []string
		CC      []string
		Subject string
		Body    string
	}

	Mailer interface {
		Send(ctx context.Context, msg Message) error
	}

	smtpMailer struct {
		addr     string
		username string
		password string
	}

	logMailer struct{}
)

// NewSMTPMailer delivers through a relay at addr (host:port). Credentials are optional.
func NewSMTPMailer(addr, username, password string) Mailer {
	return &smtpMailer{addr: addr, username: username, password: password}
}

// NewLogMailer writes messages to the log instead of sending them
func NewLogMailer() Mailer {
	return logMailer{}
}

func (s *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		host := s.addr
		if i := strings.LastIndex(host, ":"); i > 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.username, s.password, host)
	}

	recipients := append(append([]string{}, msg.To...), msg.CC...)
	if err := smtp.SendMail(s.addr, auth, msg.From, recipients, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (logMailer) Send(ctx context.Context, msg Message) error {
	logger.Info("mail",
		zap.Strings("to", msg.To),
		zap.Strings("cc", msg.CC),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}

// Bytes renders msg as an RFC 5322 message
func (m Message) Bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	if len(m.CC) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.CC, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return b.Bytes()
}
