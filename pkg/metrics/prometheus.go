// Package metrics provides Prometheus metrics for the scoreboard.
package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Operation results used as label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Feed event outcomes used as label values.
const (
	FeedApplied   = "applied"
	FeedDuplicate = "duplicate"
	FeedFailed    = "failed"
	FeedRejected  = "rejected"
)

// Manager owns the scoreboard collectors and the registry they live on.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        bool
	constLabels    map[string]string
	registry       *prometheus.Registry

	// Registry state
	teamsRegistered prometheus.Gauge
	matchesByStatus *prometheus.GaugeVec
	operations      *prometheus.CounterVec

	// Scoreboard
	recomputeTotal    prometheus.Counter
	recomputeDuration prometheus.Histogram
	activeMatches     prometheus.Gauge

	// Feed ingestion
	feedEvents    *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	queueCapacity prometheus.Gauge

	errorsByComponent *prometheus.CounterVec
}

var global atomic.Pointer[Manager] //nolint:gochecknoglobals // process-wide metrics manager

func init() { //nolint:gochecknoinits // default manager so recording never hits nil
	global.Store(NewManager())
}

// Configure replaces the process-wide manager with one built from opts on a
// fresh registry. Collectors recorded before the call are discarded.
func Configure(opts ...Option) *Manager {
	m := NewManager(opts...)
	global.Store(m)
	return m
}

// Global returns the process-wide manager.
func Global() *Manager {
	return global.Load()
}

// NewManager creates a manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "scoreboard",
		subsystem:      "",
		latencyBuckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs .. ~262ms
		enabled:        true,
		registry:       prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.teamsRegistered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_registered",
		Help:        "Number of currently registered teams",
		ConstLabels: m.constLabels,
	})

	m.matchesByStatus = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches",
		Help:        "Number of registered matches by lifecycle status",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.operations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "operations_total",
		Help:        "Registry operations by component, operation and result",
		ConstLabels: m.constLabels,
	}, []string{"component", "operation", "result"})

	m.recomputeTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_recomputations_total",
		Help:        "Number of scoreboard summary recomputations",
		ConstLabels: m.constLabels,
	})

	m.recomputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_recompute_duration_seconds",
		Help:        "Time spent rebuilding the scoreboard summary",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})

	m.activeMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_active_matches",
		Help:        "Number of matches in the last published summary",
		ConstLabels: m.constLabels,
	})

	m.feedEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_events_total",
		Help:        "Feed events by outcome",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_queue_depth",
		Help:        "Feed events waiting to be applied",
		ConstLabels: m.constLabels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_queue_capacity",
		Help:        "Maximum number of queued feed events",
		ConstLabels: m.constLabels,
	})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "type"})
}

// UpdateTeamsRegistered sets the registered teams gauge.
func (m *Manager) UpdateTeamsRegistered(count int) {
	if m.enabled {
		m.teamsRegistered.Set(float64(count))
	}
}

// UpdateMatchesByStatus sets the matches gauge for one status.
func (m *Manager) UpdateMatchesByStatus(status string, count int) {
	if m.enabled {
		m.matchesByStatus.WithLabelValues(status).Set(float64(count))
	}
}

// RecordOperation counts one registry operation; a non-nil err counts as an error result.
func (m *Manager) RecordOperation(component, operation string, err error) {
	if !m.enabled {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(component, operation, result).Inc()
}

// RecordSummaryRecompute records one summary rebuild.
func (m *Manager) RecordSummaryRecompute(d time.Duration, active int) {
	if !m.enabled {
		return
	}
	m.recomputeTotal.Inc()
	m.recomputeDuration.Observe(d.Seconds())
	m.activeMatches.Set(float64(active))
}

// RecordFeedEvent counts one feed event outcome.
func (m *Manager) RecordFeedEvent(result string) {
	if m.enabled {
		m.feedEvents.WithLabelValues(result).Inc()
	}
}

// UpdateQueueDepth sets the queued feed events gauge.
func (m *Manager) UpdateQueueDepth(depth int) {
	if m.enabled {
		m.queueDepth.Set(float64(depth))
	}
}

// UpdateQueueCapacity sets the feed queue capacity gauge.
func (m *Manager) UpdateQueueCapacity(capacity int) {
	if m.enabled {
		m.queueCapacity.Set(float64(capacity))
	}
}

// RecordErrorByComponent counts an error for a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// WriteText writes every gathered family in the Prometheus text format.
func (m *Manager) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGather, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	return nil
}

// Package-level helpers recording on the process-wide manager.

// UpdateTeamsRegistered sets the registered teams gauge.
func UpdateTeamsRegistered(count int) { Global().UpdateTeamsRegistered(count) }

// UpdateMatchesByStatus sets the matches gauge for one status.
func UpdateMatchesByStatus(status string, count int) { Global().UpdateMatchesByStatus(status, count) }

// RecordOperation counts one registry operation.
func RecordOperation(component, operation string, err error) {
	Global().RecordOperation(component, operation, err)
}

// RecordSummaryRecompute records one summary rebuild.
func RecordSummaryRecompute(d time.Duration, active int) { Global().RecordSummaryRecompute(d, active) }

// RecordFeedEvent counts one feed event outcome.
func RecordFeedEvent(result string) { Global().RecordFeedEvent(result) }

// UpdateQueueDepth sets the queued feed events gauge.
func UpdateQueueDepth(depth int) { Global().UpdateQueueDepth(depth) }

// UpdateQueueCapacity sets the feed queue capacity gauge.
func UpdateQueueCapacity(capacity int) { Global().UpdateQueueCapacity(capacity) }

// RecordErrorByComponent counts an error for a component.
func RecordErrorByComponent(component, errorType string) {
	Global().RecordErrorByComponent(component, errorType)
}

// WriteText dumps the process-wide registry in the Prometheus text format.
func WriteText(w io.Writer) error { return Global().WriteText(w) }
