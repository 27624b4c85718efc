package service

import (
	"context"
	"errors"
	"net/smtp"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkasan/pkg/retry"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newSender(fn func(call int) error) (*SMTPSender, *[]sentMail) {
	var sent []sentMail
	calls := 0
	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "Ringkasan <noreply@example.com>", nil)
	s.Retry = retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond}
	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		if err := fn(calls); err != nil {
			return err
		}
		sent = append(sent, sentMail{addr, a, from, to, string(msg)})
		return nil
	}
	return s, &sent
}

func TestSendBuildsMessage(t *testing.T) {
	s, sent := newSender(func(int) error { return nil })

	id, err := s.Send(context.Background(), []string{"a@example.com", "b@example.com"},
		"Weekly\r\nBcc: evil@example.com", "Line one\nLine <script>x</script>two")
	require.NoError(t, err)
	assert.Regexp(t, `^<[0-9a-v]{20}@example\.com>$`, id)

	require.Len(t, *sent, 1)
	m := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.NotNil(t, m.auth)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, m.to)

	assert.Contains(t, m.msg, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, m.msg, "Subject: Weekly Bcc: evil@example.com\r\n")
	assert.Contains(t, m.msg, "Message-ID: "+id+"\r\n")
	assert.Contains(t, m.msg, "Date: Fri, 16 Oct 2026 09:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(m.msg, "\r\n\r\nLine one\r\nLine two\r\n"))
	assert.NotContains(t, m.msg, "\nBcc:")
}

func TestSendRetriesTransientFailures(t *testing.T) {
	s, sent := newSender(func(call int) error {
		if call == 1 {
			return errors.New("connection reset")
		}
		return nil
	})

	_, err := s.Send(context.Background(), []string{"a@example.com"}, "s", "body")
	require.NoError(t, err)
	assert.Len(t, *sent, 1)
}

func TestSendStopsOnPermanentSMTPError(t *testing.T) {
	calls := 0
	s, _ := newSender(func(int) error {
		calls++
		return &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
	})

	_, err := s.Send(context.Background(), []string{"a@example.com"}, "s", "body")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "mailbox unavailable")
}

func TestSendWithoutAuth(t *testing.T) {
	s, sent := newSender(func(int) error { return nil })
	s.username = ""

	_, err := s.Send(context.Background(), []string{"a@example.com"}, "s", "body")
	require.NoError(t, err)
	assert.Nil(t, (*sent)[0].auth)
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", domainOf("Name <me@example.com>", "fallback"))
	assert.Equal(t, "fallback", domainOf("nobody", "fallback"))
}
