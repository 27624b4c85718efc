package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"

	"ringkasan/pkg/logger"
	"ringkasan/pkg/metrics"
	"ringkasan/pkg/retry"
	"ringkasan/pkg/sanitize"
)

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers plain-text mail through one SMTP server.
type SMTPSender struct {
	Metrics *metrics.Metrics
	Retry   retry.Config

	host     string
	port     int
	username string
	password string
	from     string
	send     SendFunc
	now      func() time.Time
}

func NewSMTPSender(host string, port int, username, password, from string, m *metrics.Metrics) *SMTPSender {
	return &SMTPSender{
		Metrics:  m,
		Retry:    retry.DefaultConfig(),
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		send:     smtp.SendMail,
		now:      time.Now,
	}
}

// Send mails body to every recipient and returns the generated Message-ID.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) (string, error) {
	messageID := fmt.Sprintf("<%s@%s>", xid.New().String(), domainOf(s.from, s.host))
	msg := s.buildMessage(messageID, to, subject, body)

	addr := s.host + ":" + strconv.Itoa(s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	err := retry.WithBackoff(ctx, s.Retry, func(ctx context.Context) error {
		if err := s.send(addr, auth, s.from, to, msg); err != nil {
			var tpErr *textproto.Error
			if errors.As(err, &tpErr) && tpErr.Code >= 500 {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
	s.Metrics.EmailSent(err)
	if err != nil {
		return "", fmt.Errorf("email: failed to send: %w", err)
	}

	logger.Sugar.Infof("Sent email %s to %d recipients", messageID, len(to))
	return messageID, nil
}

func (s *SMTPSender) buildMessage(messageID string, to []string, subject, body string) []byte {
	var sb strings.Builder
	header := func(k, v string) {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(headerValue(v))
		sb.WriteString("\r\n")
	}

	header("From", s.from)
	header("To", strings.Join(to, ", "))
	header("Subject", subject)
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", messageID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	sb.WriteString("\r\n")

	clean := sanitize.String(body)
	sb.WriteString(strings.ReplaceAll(clean, "\n", "\r\n"))
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// headerValue keeps a value on one header line.
func headerValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func domainOf(addr, fallback string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return strings.Trim(addr[i+1:], "> ")
	}
	return fallback
}
