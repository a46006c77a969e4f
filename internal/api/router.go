package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/dresses", s.handleListDresses)
	mux.HandleFunc("GET /api/dresses/{id}", s.handleGetDress)
	mux.Handle("POST /api/dresses/seed", s.requireAdmin(http.HandlerFunc(s.handleSeedDresses)))

	mux.Handle("POST /api/bookings", s.rateLimit(http.HandlerFunc(s.handleCreateBooking)))
	mux.Handle("GET /api/bookings", s.requireAdmin(http.HandlerFunc(s.handleListBookings)))
	mux.HandleFunc("GET /api/bookings/{id}", s.handleGetBooking)
	mux.Handle("PATCH /api/bookings/{id}", s.requireAdmin(http.HandlerFunc(s.handleUpdateBooking)))

	mux.Handle("POST /api/contact", s.rateLimit(http.HandlerFunc(s.handleCreateContact)))
	mux.Handle("GET /api/contact", s.requireAdmin(http.HandlerFunc(s.handleListContacts)))
	mux.Handle("PATCH /api/contact/{id}", s.requireAdmin(http.HandlerFunc(s.handleUpdateContact)))

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	h = s.instrument(h)
	h = s.cors(h)
	h = logging(h)
	return h
}
