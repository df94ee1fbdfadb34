package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsLabelsUseRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Distinct product IDs must collapse into one labelled series.
	for _, id := range []string{"p1", "p2", "p3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/products/{id}", "200"))
	assert.Equal(t, float64(3), got)

	// The raw paths must not have minted series of their own.
	assert.Zero(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/products/p1", "200")))
}

func TestMetricsUnmatchedRequestsShareOneBucket(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/nope-1", "/nope-2"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	assert.Equal(t, float64(2), got)
}
