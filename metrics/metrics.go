// Package metrics exposes Prometheus counters for HTTP traffic and
// marketplace activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service layer reports domain events to.
type Recorder interface {
	ListingCreated()
	SessionBooked()
	SessionTransitioned(to string)
	ReviewCreated()
}

// Nop discards every event.
type Nop struct{}

func (Nop) ListingCreated()            {}
func (Nop) SessionBooked()             {}
func (Nop) SessionTransitioned(string) {}
func (Nop) ReviewCreated()             {}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Collector)(nil)
)

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	listings        prometheus.Counter
	bookings        prometheus.Counter
	transitions     *prometheus.CounterVec
	reviews         prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		listings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_listings_created_total",
			Help: "Listings created.",
		}),
		bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_sessions_booked_total",
			Help: "Sessions booked.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_session_transitions_total",
			Help: "Session status transitions by target status.",
		}, []string{"to"}),
		reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_reviews_created_total",
			Help: "Reviews created.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.listings,
		c.bookings,
		c.transitions,
		c.reviews,
	)

	return c
}

// ObserveRequest records one finished HTTP request. route is the matched
// route pattern, never the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) ListingCreated() {
	c.listings.Inc()
}

func (c *Collector) SessionBooked() {
	c.bookings.Inc()
}

func (c *Collector) SessionTransitioned(to string) {
	c.transitions.WithLabelValues(to).Inc()
}

func (c *Collector) ReviewCreated() {
	c.reviews.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
