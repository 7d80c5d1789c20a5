package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_harvester"

// Metrics holds the Prometheus collectors for the harvesting loop.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FetchOutcomes   *prometheus.CounterVec // labels: feed, outcome={ok,invalid_url,network_error,status_error,parse_error,unknown_error}
	RecordsDecoded  *prometheus.CounterVec // labels: feed
	EventsPublished *prometheus.CounterVec // labels: feed
	PublishErrors   *prometheus.CounterVec // labels: feed
	PollDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_outcomes_total",
			Help:      "Feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		RecordsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      "Earthquake records decoded from feed documents.",
		}, []string{"feed"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events accepted by at least one publisher.",
		}, []string{"feed"}),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Events that failed on at least one publisher.",
		}, []string{"feed"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete pass over all feeds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FetchOutcomes,
			m.RecordsDecoded,
			m.EventsPublished,
			m.PublishErrors,
			m.PollDuration,
		)
	}
	return m
}

func (m *Metrics) ObserveFetch(feed, outcome string) {
	if m == nil {
		return
	}
	m.FetchOutcomes.WithLabelValues(feed, outcome).Inc()
}

func (m *Metrics) AddDecoded(feed string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsDecoded.WithLabelValues(feed).Add(float64(n))
}

func (m *Metrics) IncPublished(feed string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(feed).Inc()
}

func (m *Metrics) IncPublishError(feed string) {
	if m == nil {
		return
	}
	m.PublishErrors.WithLabelValues(feed).Inc()
}

func (m *Metrics) ObservePoll(d time.Duration) {
	if m == nil {
		return
	}
	m.PollDuration.Observe(d.Seconds())
}
