package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/mail"
	"github.com/dress2mydoor/dress2mydoor/internal/store"
)

const missingFields = "Missing required fields"

type bookingRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Date    string `json:"date" validate:"required"`
	Time    string `json:"time" validate:"required"`
	Message string `json:"message"`
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type bookingCreated struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

type contactCreated struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

// bind decodes and checks required fields. It writes the 400 itself and
// reports whether the handler should continue.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, missingFields)
		return false
	}
	return true
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !s.bind(w, r, &req) {
		return
	}

	booking, err := s.repo.CreateBooking(r.Context(), store.Booking{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Date:    req.Date,
		Time:    req.Time,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.bookingsTotal.Inc()

	m := mail.Booking{Name: req.Name, Email: req.Email, Phone: req.Phone, Date: req.Date, Time: req.Time, Message: req.Message}
	s.sendMail(r.Context(), "booking_confirmation", func(ctx context.Context) error { return s.mailer.SendBookingConfirmation(ctx, m) })
	s.sendMail(r.Context(), "booking_admin", func(ctx context.Context) error { return s.mailer.NotifyAdminBooking(ctx, m) })

	writeJSON(w, http.StatusCreated, bookingCreated{
		Message:   "Booking request submitted successfully",
		BookingID: booking.ID,
	})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.repo.ListBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.repo.GetBooking(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.bind(w, r, &req) {
		return
	}
	booking, err := s.repo.UpdateBookingStatus(r.Context(), r.PathValue("id"), req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.bind(w, r, &req) {
		return
	}

	submission, err := s.repo.CreateContact(r.Context(), store.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.contactsTotal.Inc()

	m := mail.Contact{Name: req.Name, Email: req.Email, Phone: req.Phone, Message: req.Message}
	s.sendMail(r.Context(), "contact_confirmation", func(ctx context.Context) error { return s.mailer.SendContactConfirmation(ctx, m) })
	s.sendMail(r.Context(), "contact_admin", func(ctx context.Context) error { return s.mailer.NotifyAdminContact(ctx, m) })

	writeJSON(w, http.StatusCreated, contactCreated{
		Message:      "Message received successfully",
		SubmissionID: submission.ID,
	})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.repo.ListContacts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.bind(w, r, &req) {
		return
	}
	submission, err := s.repo.UpdateContactStatus(r.Context(), r.PathValue("id"), req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, submission)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "Backend is running"})
}

// sendMail runs one send. Failures are logged and counted; the request
// still succeeds.
func (s *Server) sendMail(ctx context.Context, kind string, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		s.metrics.emailFailures.WithLabelValues(kind).Inc()
		logger.Error("email sending error", "kind", kind, "error", err)
	}
}
