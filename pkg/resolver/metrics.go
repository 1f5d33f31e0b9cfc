package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures navigation metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "outlet").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures navigation metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "outlet",
		Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Navigation status label values.
const (
	StatusOK          = "ok"
	StatusUnknownURL  = "unknown_url"
	StatusUnknownName = "unknown_name"
	StatusError       = "error"
)

// Metrics records navigation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tableRoutes prometheus.Gauge
	storeErrors prometheus.Counter
}

// NewMetrics registers the navigation metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := resolver.NewMetrics(resolver.WithRegistry(reg))
//	r, err := resolver.New(resolver.Config{Routes: routes, Metrics: m})
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigation attempts by mode and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Time spent matching and applying a navigation",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"mode"}),

		tableRoutes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_routes",
			Help:        "Number of leaf routes in the active route table",
			ConstLabels: config.ConstLabels,
		}),

		storeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storage_errors_total",
			Help:        "Total number of failed route persistence reads and writes",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordNavigation(mode, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(mode, status).Inc()
	m.duration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) setTableRoutes(n int) {
	if m == nil {
		return
	}
	m.tableRoutes.Set(float64(n))
}

func (m *Metrics) recordStoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}
