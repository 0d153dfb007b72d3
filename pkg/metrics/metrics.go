// Package metrics exports render engine activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	styles "github.com/goliatone/go-styles"
)

// Result labels for the renders counter.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Config configures the collector.
type Config struct {
	Namespace string
	Buckets   []float64
	// Registerer receives the collectors. Nil uses a private registry.
	Registerer prometheus.Registerer
}

// Collector records render events. It implements styles.RenderLogger so it
// can be passed to styles.WithRenderLogger.
type Collector struct {
	renders  *prometheus.CounterVec
	flushes  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	entries  *prometheus.GaugeVec

	registry *prometheus.Registry
}

var _ styles.RenderLogger = (*Collector)(nil)

// New creates and registers the render metrics.
func New(cfg Config) (*Collector, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "styles"
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05}
	}

	c := &Collector{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of render calls by result",
			},
			[]string{"engine", "result"},
		),
		flushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_flushes_total",
				Help:      "Total number of render cache flushes",
			},
			[]string{"engine"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of render calls in seconds",
				Buckets:   buckets,
			},
			[]string{"engine", "result"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Current number of render cache entries",
			},
			[]string{"engine"},
		),
	}

	registerer := cfg.Registerer
	if registerer == nil {
		c.registry = prometheus.NewRegistry()
		registerer = c.registry
	}
	for _, collector := range []prometheus.Collector{c.renders, c.flushes, c.duration, c.entries} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry returns the private registry, or nil when a Registerer was given.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// LogRender implements styles.RenderLogger.
func (c *Collector) LogRender(event styles.RenderLogEvent) {
	if c == nil {
		return
	}
	result := ResultMiss
	switch {
	case event.Err != nil:
		result = ResultError
	case event.Hit:
		result = ResultHit
	}
	c.renders.WithLabelValues(event.Engine, result).Inc()
	c.duration.WithLabelValues(event.Engine, result).Observe(event.Duration.Seconds())
	c.entries.WithLabelValues(event.Engine).Set(float64(event.Entries))
	if event.Flushed {
		c.flushes.WithLabelValues(event.Engine).Inc()
	}
}
