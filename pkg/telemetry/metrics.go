package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the compiler.
type Metrics struct {
	config MetricsConfig

	// Compile metrics
	compilesStarted   *prometheus.CounterVec
	compilesCompleted *prometheus.CounterVec
	compileDuration   *prometheus.HistogramVec

	// Declaration metrics (class and defined-type invocations)
	declarationsEvaluated *prometheus.CounterVec
	declarationDuration   *prometheus.HistogramVec

	// Resource metrics
	resourcesInCatalog *prometheus.GaugeVec
	resourceRealized   *prometheus.GaugeVec

	// Function metrics
	functionCalls    *prometheus.CounterVec
	functionDuration *prometheus.HistogramVec
	functionErrors   *prometheus.CounterVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// Finalization metrics
	nonConvergentCompiles *prometheus.CounterVec

	// System metrics
	activeCompiles  prometheus.Gauge
	queuedFinalizes prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Compile metrics
		compilesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_started_total",
				Help:      "Total number of compiles started",
			},
			[]string{"node"},
		),
		compilesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_completed_total",
				Help:      "Total number of compiles completed",
			},
			[]string{"status"},
		),
		compileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Duration of a full compile in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),

		// Declaration metrics
		declarationsEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "declarations_evaluated_total",
				Help:      "Total number of class/defined-type declarations evaluated",
			},
			[]string{"kind", "status"},
		),
		declarationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "declaration_duration_seconds",
				Help:      "Duration of a declaration body evaluation in seconds",
				Buckets:   buckets,
			},
			[]string{"kind", "resource_type"},
		),

		// Resource metrics
		resourcesInCatalog: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resources_in_catalog",
				Help:      "Current number of resources in the catalog",
			},
			[]string{"type", "status"},
		),
		resourceRealized: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resource_realized",
				Help:      "Realization state of a resource (1=realized, 0=still virtual)",
			},
			[]string{"resource_id", "type"},
		),

		// Function metrics
		functionCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "function_calls_total",
				Help:      "Total number of function calls",
			},
			[]string{"function", "resolver"},
		),
		functionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "function_call_duration_seconds",
				Help:      "Duration of function calls in seconds",
				Buckets:   buckets,
			},
			[]string{"function", "resolver"},
		),
		functionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "function_errors_total",
				Help:      "Total number of function call errors",
			},
			[]string{"function", "resolver"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by diagnostics kind",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// Finalization metrics
		nonConvergentCompiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finalize_non_convergent_total",
				Help:      "Total number of compiles that failed to converge during finalization",
			},
			[]string{"node"},
		),

		// System metrics
		activeCompiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_compiles",
				Help:      "Current number of in-flight compiles",
			},
		),
		queuedFinalizes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queued_finalize_items",
				Help:      "Current number of deferred items (collectors, defined types, overrides) awaiting finalization",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.compilesStarted,
		m.compilesCompleted,
		m.compileDuration,
		m.declarationsEvaluated,
		m.declarationDuration,
		m.resourcesInCatalog,
		m.resourceRealized,
		m.functionCalls,
		m.functionDuration,
		m.functionErrors,
		m.errorsByClass,
		m.errorsByCode,
		m.nonConvergentCompiles,
		m.activeCompiles,
		m.queuedFinalizes,
	)

	return m, nil
}

// Compile Metrics

// RecordCompileStarted increments the counter for started compiles.
func (m *Metrics) RecordCompileStarted(node string) {
	if m.compilesStarted == nil {
		return
	}
	m.compilesStarted.WithLabelValues(node).Inc()
	m.activeCompiles.Inc()
}

// RecordCompileCompleted records a completed compile with its status and duration.
func (m *Metrics) RecordCompileCompleted(status string, duration time.Duration) {
	if m.compilesCompleted == nil {
		return
	}
	m.compilesCompleted.WithLabelValues(status).Inc()
	m.compileDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeCompiles.Dec()
}

// Declaration Metrics

// RecordDeclarationEvaluation records the evaluation of a class or
// defined-type declaration.
func (m *Metrics) RecordDeclarationEvaluation(kind, status string, duration time.Duration, resourceType string) {
	if m.declarationsEvaluated == nil {
		return
	}
	m.declarationsEvaluated.WithLabelValues(kind, status).Inc()
	m.declarationDuration.WithLabelValues(kind, resourceType).Observe(duration.Seconds())
}

// Resource Metrics

// SetResourceCount sets the current count of resources in the catalog.
func (m *Metrics) SetResourceCount(resourceType, status string, count float64) {
	if m.resourcesInCatalog == nil {
		return
	}
	m.resourcesInCatalog.WithLabelValues(resourceType, status).Set(count)
}

// SetResourceRealized records whether a specific resource has been
// realized (no longer virtual).
func (m *Metrics) SetResourceRealized(resourceID, resourceType string, realized bool) {
	if m.resourceRealized == nil {
		return
	}
	value := 0.0
	if realized {
		value = 1.0
	}
	m.resourceRealized.WithLabelValues(resourceID, resourceType).Set(value)
}

// Function Metrics

// RecordFunctionCall records a function call with its duration.
func (m *Metrics) RecordFunctionCall(function, resolver string, duration time.Duration) {
	if m.functionCalls == nil {
		return
	}
	m.functionCalls.WithLabelValues(function, resolver).Inc()
	m.functionDuration.WithLabelValues(function, resolver).Observe(duration.Seconds())
}

// RecordFunctionError records a function call error.
func (m *Metrics) RecordFunctionError(function, resolver string) {
	if m.functionErrors == nil {
		return
	}
	m.functionErrors.WithLabelValues(function, resolver).Inc()
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// Finalization Metrics

// RecordNonConvergent records a compile that failed to converge.
func (m *Metrics) RecordNonConvergent(node string) {
	if m.nonConvergentCompiles == nil {
		return
	}
	m.nonConvergentCompiles.WithLabelValues(node).Inc()
}

// System Metrics

// SetActiveCompiles sets the current number of in-flight compiles.
func (m *Metrics) SetActiveCompiles(count float64) {
	if m.activeCompiles == nil {
		return
	}
	m.activeCompiles.Set(count)
}

// SetQueuedFinalizeItems sets the current number of deferred items
// awaiting finalization.
func (m *Metrics) SetQueuedFinalizeItems(count float64) {
	if m.queuedFinalizes == nil {
		return
	}
	m.queuedFinalizes.Set(count)
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
