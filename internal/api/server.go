// Package api serves the dress catalog, booking requests and contact form
// over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/internal/mail"
	"github.com/dress2mydoor/dress2mydoor/internal/store"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
)

// Repository is the persistence the handlers need.
type Repository interface {
	ListDresses(ctx context.Context, f store.DressFilter) ([]dress.Record, error)
	GetDress(ctx context.Context, id int) (dress.Record, error)
	ReplaceDresses(ctx context.Context, records []dress.Record) error

	CreateBooking(ctx context.Context, b store.Booking) (store.Booking, error)
	ListBookings(ctx context.Context) ([]store.Booking, error)
	GetBooking(ctx context.Context, id string) (store.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) (store.Booking, error)

	CreateContact(ctx context.Context, c store.ContactSubmission) (store.ContactSubmission, error)
	ListContacts(ctx context.Context) ([]store.ContactSubmission, error)
	UpdateContactStatus(ctx context.Context, id, status string) (store.ContactSubmission, error)
}

// Config configures the server.
type Config struct {
	// AdminToken guards the admin routes. When empty those routes answer 403.
	AdminToken string
	// GalleryPage is an HTML file used to seed when a seed request carries
	// no dresses. Optional.
	GalleryPage string
	// AllowedOrigin is sent as Access-Control-Allow-Origin. Defaults to "*".
	AllowedOrigin string
	// SubmitRate and SubmitBurst limit public booking and contact posts.
	SubmitRate  rate.Limit
	SubmitBurst int
}

// Server holds the handler dependencies.
type Server struct {
	cfg      Config
	repo     Repository
	mailer   mail.Mailer
	validate *validator.Validate
	limiter  *rate.Limiter
	metrics  *metrics
	registry *prometheus.Registry
}

// New creates a server.
func New(cfg Config, repo Repository, mailer mail.Mailer) *Server {
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.SubmitRate == 0 {
		cfg.SubmitRate = rate.Every(time.Second)
	}
	if cfg.SubmitBurst == 0 {
		cfg.SubmitBurst = 10
	}
	if mailer == nil {
		mailer = mail.Nop{}
	}

	reg := prometheus.NewRegistry()
	return &Server{
		cfg:      cfg,
		repo:     repo,
		mailer:   mailer,
		validate: validator.New(),
		limiter:  rate.NewLimiter(cfg.SubmitRate, cfg.SubmitBurst),
		metrics:  newMetrics(reg),
		registry: reg,
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLogger(slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
