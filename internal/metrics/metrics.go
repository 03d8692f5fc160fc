package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const namespace = "trivia"

// Metrics owns the Prometheus registry and the collectors the API reports to.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	draws     *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

var _ trivia.Observer = (*Metrics)(nil)

// New builds a registry with process/runtime collectors plus the API metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_draws_total",
			Help:      "Quiz draws by outcome (served, exhausted).",
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_mutations_total",
			Help:      "Question creates and deletes.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.requests, m.duration, m.draws, m.mutations)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument wraps h with request counting and latency observation under the
// route pattern, keeping label cardinality bounded by the route table.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	labels := prometheus.Labels{"route": route}
	counter := m.requests.MustCurryWith(labels)
	duration := m.duration.MustCurryWith(labels)
	return promhttp.InstrumentHandlerDuration(duration,
		promhttp.InstrumentHandlerCounter(counter, h))
}

func (m *Metrics) QuizDraw(outcome string) {
	m.draws.WithLabelValues(outcome).Inc()
}

func (m *Metrics) QuestionMutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}
