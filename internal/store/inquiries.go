package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Booking statuses and contact submission statuses assigned on creation.
const (
	BookingPending = "pending"
	ContactUnread  = "unread"
)

// Booking is a fitting appointment request.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactSubmission is a message sent through the contact form.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBooking stores b as a new pending booking. ID, Status and CreatedAt
// are assigned here.
func (s *Store) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	b.ID = uuid.NewString()
	b.Status = BookingPending
	ts := s.timestamp()
	b.CreatedAt = fromTimestamp(ts)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, name, email, phone, date, time, message, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Email, b.Phone, b.Date, b.Time, b.Message, b.Status, ts)
	if err != nil {
		return Booking{}, fmt.Errorf("failed to insert booking: %w", err)
	}
	return b, nil
}

// ListBookings returns every booking, newest first.
func (s *Store) ListBookings(ctx context.Context) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, date, time, message, status, created_at FROM bookings ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookings := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBooking returns one booking.
func (s *Store) GetBooking(ctx context.Context, id string) (Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, date, time, message, status, created_at FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrNotFound
	}
	return b, err
}

// UpdateBookingStatus sets a booking's status and returns the updated row.
func (s *Store) UpdateBookingStatus(ctx context.Context, id, status string) (Booking, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return Booking{}, fmt.Errorf("failed to update booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Booking{}, ErrNotFound
	}
	return s.GetBooking(ctx, id)
}

func scanBooking(row scanner) (Booking, error) {
	var (
		b  Booking
		ts int64
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Date, &b.Time, &b.Message, &b.Status, &ts); err != nil {
		return Booking{}, err
	}
	b.CreatedAt = fromTimestamp(ts)
	return b, nil
}

// CreateContact stores c as a new unread submission.
func (s *Store) CreateContact(ctx context.Context, c ContactSubmission) (ContactSubmission, error) {
	c.ID = uuid.NewString()
	c.Status = ContactUnread
	ts := s.timestamp()
	c.CreatedAt = fromTimestamp(ts)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, phone, message, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Message, c.Status, ts)
	if err != nil {
		return ContactSubmission{}, fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return c, nil
}

// ListContacts returns every submission, newest first.
func (s *Store) ListContacts(ctx context.Context) ([]ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, message, status, created_at FROM contact_submissions ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]ContactSubmission, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetContact returns one submission.
func (s *Store) GetContact(ctx context.Context, id string) (ContactSubmission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, message, status, created_at FROM contact_submissions WHERE id = ?`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ContactSubmission{}, ErrNotFound
	}
	return c, err
}

// UpdateContactStatus sets a submission's status and returns the updated row.
func (s *Store) UpdateContactStatus(ctx context.Context, id, status string) (ContactSubmission, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_submissions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return ContactSubmission{}, fmt.Errorf("failed to update contact submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ContactSubmission{}, ErrNotFound
	}
	return s.GetContact(ctx, id)
}

func scanContact(row scanner) (ContactSubmission, error) {
	var (
		c  ContactSubmission
		ts int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.Status, &ts); err != nil {
		return ContactSubmission{}, err
	}
	c.CreatedAt = fromTimestamp(ts)
	return c, nil
}
