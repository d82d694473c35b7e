package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/board/{boardID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/board/{boardID}", "418"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/board/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/board/def", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/board/{boardID}", "418"))
	assert.Equal(t, 2.0, after-before)
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("list_boards", "ok"))
	ObserveUpstream("list_boards", Outcome(http.StatusOK))
	assert.Equal(t, 1.0, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("list_boards", "ok"))-before)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "unavailable", Outcome(0))
	assert.Equal(t, "ok", Outcome(http.StatusCreated))
	assert.Equal(t, "4xx", Outcome(http.StatusUnauthorized))
	assert.Equal(t, "5xx", Outcome(http.StatusBadGateway))
}
