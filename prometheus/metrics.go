// Package prometheus instruments docrag services with Prometheus metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/docrag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docrag"

// Metrics holds the docrag collectors.
type Metrics struct {
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       prometheus.Histogram
	EmbeddingsTotal     *prometheus.CounterVec
	EmbedDuration       prometheus.Histogram
	CompletionsTotal    *prometheus.CounterVec
	CompletionDuration  prometheus.Histogram
	QuestionsTotal      *prometheus.CounterVec
	AnswerDuration      prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	slow := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Page fetches by result (ok, error).",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch latency in seconds.",
			Buckets:   slow,
		}),
		EmbeddingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embeddings_total",
			Help:      "Embedding calls by result (ok, error).",
		}, []string{"result"}),
		EmbedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embed_duration_seconds",
			Help:      "Embedding latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		CompletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Language model completions by result (ok, error).",
		}, []string{"result"}),
		CompletionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Language model latency in seconds.",
			Buckets:   slow,
		}),
		QuestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Questions answered by result (ok or the error code).",
		}, []string{"result"}),
		AnswerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "End to end answer latency in seconds.",
			Buckets:   slow,
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   slow,
		}, []string{"method", "route"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.EmbeddingsTotal,
		m.EmbedDuration,
		m.CompletionsTotal,
		m.CompletionDuration,
		m.QuestionsTotal,
		m.AnswerDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler returns the scrape handler for the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. route names the handler
// so that label cardinality stays bounded.
func (m *Metrics) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(begin).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// questionResult labels an answer by its error code.
func questionResult(err error) string {
	if err == nil {
		return "ok"
	}
	return docrag.ErrorCode(err)
}
