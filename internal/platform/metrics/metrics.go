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

const namespace = "coffee_tracker"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pos",
		Name:      "purchases_total",
		Help:      "Purchase fulfilment attempts by result.",
	}, []string{"result"})

	restocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inventory",
		Name:      "restocks_total",
		Help:      "Restock attempts by result.",
	}, []string{"result"})

	lowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inventory",
		Name:      "low_stock_alerts_total",
		Help:      "Deductions that left a row below the low-stock threshold.",
	})

	expiringRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "inventory",
		Name:      "expiring_rows",
		Help:      "Inventory rows inside the expiry window at the last check.",
	})

	reviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "review",
		Name:      "submissions_total",
		Help:      "Review submissions by result.",
	}, []string{"result"})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events by topic and result.",
	}, []string{"topic", "result"})
)

// Result labels.
const (
	ResultOK                = "ok"
	ResultInsufficientStock = "insufficient_stock"
	ResultNotFound          = "not_found"
	ResultRejected          = "rejected"
	ResultError             = "error"
)

func ObservePurchase(result string) { purchases.WithLabelValues(result).Inc() }

func ObserveRestock(result string) { restocks.WithLabelValues(result).Inc() }

func ObserveLowStock() { lowStockAlerts.Inc() }

func SetExpiringRows(n int) { expiringRows.Set(float64(n)) }

func ObserveReview(result string) { reviews.WithLabelValues(result).Inc() }

func ObserveEvent(topic, result string) { eventsPublished.WithLabelValues(topic, result).Inc() }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	default:
		return "other"
	}
}

// Middleware records request count and latency keyed by the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		method := methodLabel(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}
