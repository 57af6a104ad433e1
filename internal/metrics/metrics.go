package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tablebid"

// Metrics agrupa los colectores Prometheus del servicio sobre un registry propio.
// Un *Metrics nil es valido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	otpRequested   prometheus.Counter
	sessionsIssued prometheus.Counter
	tablesCreated  prometheus.Counter
	bidsCreated    prometheus.Counter
	bidDecisions   *prometheus.CounterVec
	bidsCancelled  prometheus.Counter
	membersRemoved prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		otpRequested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_requested_total",
			Help:      "OTP challenges issued.",
		}),
		sessionsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Session tokens issued after a successful OTP verification.",
		}),
		tablesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_created_total",
			Help:      "Tables published by hosts.",
		}),
		bidsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_created_total",
			Help:      "Bids placed.",
		}),
		bidDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bid_decisions_total",
			Help:      "Host decisions over bids by resulting status.",
		}, []string{"status"}),
		bidsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_cancelled_total",
			Help:      "Pending bids withdrawn by their bidder.",
		}),
		membersRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_removed_total",
			Help:      "Approved members removed by a host.",
		}),
	}
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP registra una request terminada. route es el patron, no el path concreto.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncOTPRequested() {
	if m != nil {
		m.otpRequested.Inc()
	}
}

func (m *Metrics) IncSessionIssued() {
	if m != nil {
		m.sessionsIssued.Inc()
	}
}

func (m *Metrics) IncTableCreated() {
	if m != nil {
		m.tablesCreated.Inc()
	}
}

func (m *Metrics) IncBidCreated() {
	if m != nil {
		m.bidsCreated.Inc()
	}
}

func (m *Metrics) IncBidDecision(status string) {
	if m != nil {
		m.bidDecisions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncBidCancelled() {
	if m != nil {
		m.bidsCancelled.Inc()
	}
}

func (m *Metrics) IncMemberRemoved() {
	if m != nil {
		m.membersRemoved.Inc()
	}
}
