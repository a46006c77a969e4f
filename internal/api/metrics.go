package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	catalogSize     prometheus.Gauge
	bookingsTotal   prometheus.Counter
	contactsTotal   prometheus.Counter
	emailFailures   *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

func newMetrics(reg *prometheus.Registry) *metrics {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &metrics{
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		catalogSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "dress2mydoor_catalog_dresses",
			Help: "Number of dresses stored by the last seed.",
		}),
		bookingsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "dress2mydoor_bookings_total",
			Help: "Booking requests accepted.",
		}),
		contactsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "dress2mydoor_contact_submissions_total",
			Help: "Contact form submissions accepted.",
		}),
		emailFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dress2mydoor_email_failures_total",
			Help: "Emails that could not be sent.",
		}, []string{"kind"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "dress2mydoor_rate_limited_total",
			Help: "Public submissions rejected by the rate limiter.",
		}),
	}
}
