package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/catalog/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/catalog/{kind}", "418"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog/beans", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog/products", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/catalog/{kind}", "418"))
	assert.Equal(t, before+2, after)
}

func TestMiddlewareCollapsesUnmatchedPaths(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.CollectAndCount(httpRequests)
	unmatched := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	for i := 0; i < 100; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/junk/%d", i), nil))
	}

	assert.Equal(t, unmatched+100, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
	assert.LessOrEqual(t, testutil.CollectAndCount(httpRequests), before+1)
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, http.MethodPost, methodLabel(http.MethodPost))
	assert.Equal(t, "other", methodLabel("BREW"))
}

func TestObservePurchase(t *testing.T) {
	before := testutil.ToFloat64(purchases.WithLabelValues(ResultInsufficientStock))
	ObservePurchase(ResultInsufficientStock)
	assert.Equal(t, before+1, testutil.ToFloat64(purchases.WithLabelValues(ResultInsufficientStock)))

	SetExpiringRows(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(expiringRows))
}
