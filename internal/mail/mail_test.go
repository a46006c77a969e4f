package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

type sent struct {
	mail *email.Email
	addr string
	auth bool
}

func newTestMailer(t *testing.T, fail func(attempt int) error) (*SMTPMailer, *[]sent) {
	t.Helper()
	var log []sent
	m := NewSMTP(Config{Host: "smtp.example.com", Username: "shop@example.com", Password: "pw"})
	attempt := 0
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		attempt++
		log = append(log, sent{mail: e, addr: addr, auth: auth != nil})
		if fail != nil {
			return fail(attempt)
		}
		return nil
	}
	return m, &log
}

func TestSMTPMailer_BookingConfirmation(t *testing.T) {
	m, log := newTestMailer(t, nil)
	err := m.SendBookingConfirmation(context.Background(), Booking{
		Name: "Ann <script>", Email: "ann@example.com", Phone: "0400", Date: "2026-11-01", Time: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, *log, 1)

	got := (*log)[0]
	require.Equal(t, "smtp.example.com:587", got.addr)
	require.True(t, got.auth)
	require.Equal(t, []string{"ann@example.com"}, got.mail.To)
	require.Equal(t, "Dress2MyDoor <shop@example.com>", got.mail.From)
	body := string(got.mail.HTML)
	require.Contains(t, body, "1 November 2026")
	require.Contains(t, body, "Ann &lt;script&gt;")
}

func TestSMTPMailer_AdminNotificationsGoToAdmin(t *testing.T) {
	m, log := newTestMailer(t, nil)
	ctx := context.Background()
	require.NoError(t, m.NotifyAdminBooking(ctx, Booking{Name: "Ann", Email: "ann@example.com", Date: "soon"}))
	require.NoError(t, m.NotifyAdminContact(ctx, Contact{Name: "Cat", Email: "cat@example.com", Message: "hello"}))

	require.Len(t, *log, 2)
	for _, s := range *log {
		require.Equal(t, []string{"shop@example.com"}, s.mail.To)
	}
	require.Contains(t, string((*log)[0].mail.HTML), "soon")
	require.Contains(t, string((*log)[1].mail.HTML), "Not provided")
}

func TestSMTPMailer_FallsBackWithoutAuth(t *testing.T) {
	m, log := newTestMailer(t, func(attempt int) error {
		if attempt == 1 {
			return errors.New("smtp: server doesn't support AUTH")
		}
		return nil
	})
	require.NoError(t, m.SendContactConfirmation(context.Background(), Contact{Name: "Cat", Email: "cat@example.com", Message: "hi"}))
	require.Len(t, *log, 2)
	require.False(t, (*log)[1].auth)
}

func TestSMTPMailer_SendError(t *testing.T) {
	m, _ := newTestMailer(t, func(int) error { return errors.New("connection refused") })
	err := m.SendContactConfirmation(context.Background(), Contact{Email: "cat@example.com"})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestNew_DisabledReturnsNop(t *testing.T) {
	m := New(Config{})
	_, ok := m.(Nop)
	require.True(t, ok)
	require.NoError(t, m.SendBookingConfirmation(context.Background(), Booking{}))
}
