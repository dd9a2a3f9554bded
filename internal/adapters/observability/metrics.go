package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ClassifierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "classifier_requests_total", Help: "Sentiment classifier calls."},
		[]string{"backend", "status"},
	)
	ClassifierLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "classifier_request_duration_seconds",
			Help:    "Sentiment classifier call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
	ScrapeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "scrape_urls_total", Help: "Scraped URLs by outcome."},
		[]string{"status"}, // status: ok|skipped|failed
	)
	ReviewsReplaced = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "reviews_replaced_total", Help: "Reviews inserted by full-replace runs."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ClassifierRequests, ClassifierLatency,
		ScrapeOutcomes, ReviewsReplaced, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveClassifier(backend string, status int, dur time.Duration) {
	ClassifierRequests.WithLabelValues(backend, strconv.Itoa(status)).Inc()
	ClassifierLatency.WithLabelValues(backend).Observe(dur.Seconds())
}

func ObserveScrape(status string) {
	ScrapeOutcomes.WithLabelValues(status).Inc()
}

func ObserveReplaced(n int) {
	ReviewsReplaced.Add(float64(n))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
