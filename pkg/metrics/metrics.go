// Package metrics exposes Prometheus counters for revisions, exports and the
// external collaborators. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ringkasan"

type Metrics struct {
	registry *prometheus.Registry

	revisionsSaved   *prometheus.CounterVec
	revisionsEvicted prometheus.Counter
	exportsRendered  *prometheus.CounterVec
	summaries        *prometheus.CounterVec
	summarySeconds   prometheus.Histogram
	emailsSent       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		revisionsSaved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "revisions_saved_total",
			Help:      "Revisions appended, by action tag.",
		}, []string{"action"}),
		revisionsEvicted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "revisions_evicted_total",
			Help:      "Revisions dropped by the retention cap or cleanup.",
		}),
		exportsRendered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "rendered_total",
			Help:      "Export payloads produced, by format and outcome.",
		}, []string{"format", "outcome"}),
		summaries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "requests_total",
			Help:      "Summarization attempts, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		summarySeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "duration_seconds",
			Help:      "Time spent producing a summary, fallbacks included.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		emailsSent: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Emails handed to the SMTP server, by outcome.",
		}, []string{"outcome"}),
		httpRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) RevisionSaved(action string, evicted int) {
	if m == nil {
		return
	}
	m.revisionsSaved.WithLabelValues(action).Inc()
	m.revisionsEvicted.Add(float64(evicted))
}

func (m *Metrics) RevisionsEvicted(n int) {
	if m == nil {
		return
	}
	m.revisionsEvicted.Add(float64(n))
}

func (m *Metrics) ExportRendered(format string, err error) {
	if m == nil {
		return
	}
	m.exportsRendered.WithLabelValues(format, outcome(err)).Inc()
}

func (m *Metrics) SummaryAttempt(provider string, err error) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(provider, outcome(err)).Inc()
}

func (m *Metrics) SummaryDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.summarySeconds.Observe(d.Seconds())
}

func (m *Metrics) EmailSent(err error) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) HTTPRequest(method string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, fmt.Sprint(code)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
