// Package metrics - Prometheus метрики сервиса
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal - количество HTTP запросов по маршруту и статусу
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration - длительность обработки HTTP запросов
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cme_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderRequestsTotal - вызовы внешних картографических API
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_provider_requests_total",
			Help: "Upstream map provider requests by outcome (success, failure, rejected)",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration - латентность внешних API
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cme_provider_request_duration_seconds",
			Help:    "Upstream map provider latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	// CircuitBreakerState - 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cme_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	// CacheOperationsTotal - попадания/промахи кешей
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_cache_operations_total",
			Help: "Cache lookups by cache name and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	// CacheEvictionsTotal - вытеснения из in-memory кеша статических карт
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_cache_evictions_total",
			Help: "In-memory cache evictions by reason (expired, capacity)",
		},
		[]string{"cache", "reason"},
	)

	// GeocodeFallbacksTotal - какой уровень цепочки ответил
	GeocodeFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_geocode_resolved_total",
			Help: "Geocoding/routing results by resolving source",
		},
		[]string{"operation", "source"},
	)

	// CalculationsTotal - выполненные расчёты
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cme_calculations_total",
			Help: "Completed calculations by kind",
		},
		[]string{"kind"},
	)
)
