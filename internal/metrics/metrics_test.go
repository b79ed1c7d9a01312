package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/premios/internal/metrics"
)

func TestRecordVote(t *testing.T) {
	before := testutil.ToFloat64(metrics.VotesTotal.WithLabelValues(metrics.VoteAccepted))

	metrics.RecordVote(metrics.VoteAccepted)
	metrics.RecordVote(metrics.VoteAccepted)

	after := testutil.ToFloat64(metrics.VotesTotal.WithLabelValues(metrics.VoteAccepted))
	assert.Equal(t, before+2, after)
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(metrics.CacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(metrics.CacheRequestsTotal.WithLabelValues("miss"))

	metrics.RecordCacheLookup(true)
	metrics.RecordCacheLookup(false)
	metrics.RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(metrics.CacheRequestsTotal.WithLabelValues("miss")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/polls/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/polls/"+id, nil))
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `premios_http_request_duration_seconds_count{method="GET",route="/polls/{id}",status="404"} 3`)
	assert.NotContains(t, body, `route="/polls/a"`)
}
