// Package metrics provides Prometheus metrics collection for
// decisionbridge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for decisionbridge.
type Collector struct {
	// Decision metrics
	DecisionsTotal    *prometheus.CounterVec
	DecisionDuration  *prometheus.HistogramVec
	DecisionsInFlight prometheus.Gauge

	// Bridge metrics
	EscapesDecoded prometheus.Counter
	EscapesEncoded prometheus.Counter
	ParseFailures  prometheus.Counter

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg (tests use a
// fresh registry to avoid duplicate registration).
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "decisions_total",
				Help:      "Total number of decisions made",
			},
			[]string{"service", "status"},
		),
		DecisionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "decisionbridge",
				Name:      "decision_duration_seconds",
				Help:      "Decision evaluation duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service"},
		),
		DecisionsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "decisionbridge",
				Name:      "decisions_in_flight",
				Help:      "Number of decisions currently being evaluated",
			},
		),

		EscapesDecoded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "escapes_decoded_total",
				Help:      "Escape strings successfully resolved to typed values",
			},
		),
		EscapesEncoded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "escapes_encoded_total",
				Help:      "Typed values escape-encoded for the JSON transport",
			},
		),
		ParseFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "escape_parse_failures_total",
				Help:      "Escape payloads the expression parser rejected",
			},
		),

		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "config_reloads_total",
				Help:      "Successful configuration reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decisionbridge",
				Name:      "config_reload_errors_total",
				Help:      "Failed configuration reloads",
			},
		),
	}
}

// The collector doubles as the bridge's stats sink.

// EscapeDecoded counts one resolved escape string.
func (c *Collector) EscapeDecoded() { c.EscapesDecoded.Inc() }

// EscapeEncoded counts one escape-encoded value.
func (c *Collector) EscapeEncoded() { c.EscapesEncoded.Inc() }

// ParseFailure counts one rejected escape payload.
func (c *Collector) ParseFailure() { c.ParseFailures.Inc() }
