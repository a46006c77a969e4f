// Package mail sends booking and contact confirmations to customers and
// notifications to the shop.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
)

// Booking is the data mailed for a booking request.
type Booking struct {
	Name    string
	Email   string
	Phone   string
	Date    string
	Time    string
	Message string
}

// Contact is the data mailed for a contact form submission.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Mailer sends the shop's transactional mail.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, b Booking) error
	NotifyAdminBooking(ctx context.Context, b Booking) error
	SendContactConfirmation(ctx context.Context, c Contact) error
	NotifyAdminContact(ctx context.Context, c Contact) error
}

// Config holds SMTP settings.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	AdminEmail string
	FromName   string
}

// Enabled reports whether enough is configured to send mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func defaultSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg  Config
	send sendFunc
}

// NewSMTP creates an SMTP mailer. Admin notifications go to AdminEmail, or
// to Username when no admin address is set.
func NewSMTP(cfg Config) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.FromName == "" {
		cfg.FromName = "Dress2MyDoor"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.Username
	}
	return &SMTPMailer{cfg: cfg, send: defaultSend}
}

// New returns an SMTP mailer when cfg is usable and a Nop mailer otherwise.
func New(cfg Config) Mailer {
	if !cfg.Enabled() {
		logger.Warn("email not configured, confirmations will not be sent")
		return Nop{}
	}
	return NewSMTP(cfg)
}

func (m *SMTPMailer) SendBookingConfirmation(ctx context.Context, b Booking) error {
	body, err := render(bookingConfirmationTmpl, b)
	if err != nil {
		return err
	}
	return m.deliver(ctx, b.Email, "Booking Confirmation - Dress2MyDoor", body)
}

func (m *SMTPMailer) NotifyAdminBooking(ctx context.Context, b Booking) error {
	body, err := render(adminBookingTmpl, b)
	if err != nil {
		return err
	}
	return m.deliver(ctx, m.cfg.AdminEmail, fmt.Sprintf("New Booking Request - %s", b.Name), body)
}

func (m *SMTPMailer) SendContactConfirmation(ctx context.Context, c Contact) error {
	body, err := render(contactConfirmationTmpl, c)
	if err != nil {
		return err
	}
	return m.deliver(ctx, c.Email, "We Received Your Message - Dress2MyDoor", body)
}

func (m *SMTPMailer) NotifyAdminContact(ctx context.Context, c Contact) error {
	body, err := render(adminContactTmpl, c)
	if err != nil {
		return err
	}
	return m.deliver(ctx, m.cfg.AdminEmail, fmt.Sprintf("New Contact Form Submission - %s", c.Name), body)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject string, html []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.Username)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = html

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	err := m.send(e, addr, smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(e, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}

	logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

// Nop discards all mail.
type Nop struct{}

func (Nop) SendBookingConfirmation(context.Context, Booking) error { return nil }
func (Nop) NotifyAdminBooking(context.Context, Booking) error      { return nil }
func (Nop) SendContactConfirmation(context.Context, Contact) error { return nil }
func (Nop) NotifyAdminContact(context.Context, Contact) error      { return nil }
