// Package metrics provides Prometheus metrics for the polls service.
// Labels never carry question or choice ids.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VotesTotal counts vote attempts by outcome.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premios_votes_total",
		Help: "Total number of vote attempts, by outcome (accepted, no_choice, not_found, error).",
	}, []string{"outcome"})

	// QuestionsCreatedTotal counts questions created through the admin API or CLI.
	QuestionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "premios_questions_created_total",
		Help: "Total number of questions created.",
	})

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "premios_http_request_duration_seconds",
		Help:    "HTTP request latency, by method, route pattern and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CacheRequestsTotal counts question cache lookups by result.
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premios_cache_requests_total",
		Help: "Total number of question cache lookups, by result (hit, miss).",
	}, []string{"result"})
)

// Vote outcomes.
const (
	VoteAccepted = "accepted"
	VoteNoChoice = "no_choice"
	VoteNotFound = "not_found"
	VoteError    = "error"
)

func RecordVote(outcome string) {
	VotesTotal.WithLabelValues(outcome).Inc()
}

func RecordQuestionCreated() {
	QuestionsCreatedTotal.Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware observes request latency keyed by the chi route pattern, so
// /polls/{id} is one series regardless of the id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
