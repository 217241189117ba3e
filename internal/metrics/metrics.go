// Package metrics provides Prometheus metrics for proptree
package metrics

import (
	"bytes"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/stoewer/go-strcase"

	"github.com/nainya/proptree/pkg/property"
)

// Metrics holds all Prometheus metrics for proptree
type Metrics struct {
	// Tree metrics
	EventsTotal    *prometheus.CounterVec
	PropertiesSize prometheus.Gauge

	// Diff metrics
	DiffsTotal       prometheus.Counter
	DiffEntriesTotal *prometheus.CounterVec
	DiffDuration     prometheus.Histogram

	// Codec metrics
	CodecOperationsTotal *prometheus.CounterVec
	CodecDuration        *prometheus.HistogramVec

	// Server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all metrics against a fresh registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith registers all metrics against reg
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		ServerStartTime: time.Now(),
		gatherer:        reg,
	}

	// Tree metrics
	m.EventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptree_events_total",
			Help: "Total number of property events observed",
		},
		[]string{"kind"},
	)

	m.PropertiesSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptree_properties",
			Help: "Number of properties in the served tree",
		},
	)

	// Diff metrics
	m.DiffsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "ptree_diffs_total",
			Help: "Total number of tree comparisons",
		},
	)

	m.DiffEntriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptree_diff_entries_total",
			Help: "Total number of diff entries by change kind",
		},
		[]string{"change"},
	)

	m.DiffDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ptree_diff_duration_seconds",
			Help:    "Duration of tree comparisons in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// Codec metrics
	m.CodecOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptree_codec_operations_total",
			Help: "Total number of encode and decode operations",
		},
		[]string{"codec", "op", "status"},
	)

	m.CodecDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptree_codec_duration_seconds",
			Help:    "Duration of encode and decode operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"codec", "op"},
	)

	// Server metrics
	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptree_http_requests_total",
			Help: "Total number of diagnostic HTTP requests",
		},
		[]string{"route", "code"},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptree_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// Gatherer exposes the registry the metrics were registered with
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
}

// RunUptime updates the uptime gauge every interval until stop is closed
func (m *Metrics) RunUptime(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.UpdateUptime()
		case <-stop:
			return
		}
	}
}

// EventKindLabel turns PropertyValueChanged into value_changed
func EventKindLabel(kind property.EventKind) string {
	return strcase.SnakeCase(strings.TrimPrefix(kind.String(), "Property"))
}

// RecordEvent counts one property event
func (m *Metrics) RecordEvent(ev property.Event) {
	m.EventsTotal.WithLabelValues(EventKindLabel(ev.Kind)).Inc()
}

// EventListener returns a listener that counts every event it receives
func (m *Metrics) EventListener() property.Listener {
	return m.RecordEvent
}

// RecordDiff records one comparison and its entries
func (m *Metrics) RecordDiff(d property.Difference, duration time.Duration) {
	m.DiffsTotal.Inc()
	m.DiffEntriesTotal.WithLabelValues("added").Add(float64(len(d.Added)))
	m.DiffEntriesTotal.WithLabelValues("removed").Add(float64(len(d.Removed)))
	m.DiffEntriesTotal.WithLabelValues("modified").Add(float64(len(d.Modified)))
	m.DiffDuration.Observe(duration.Seconds())
}

// RecordCodec records an encode or decode with its status
func (m *Metrics) RecordCodec(codec, op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CodecOperationsTotal.WithLabelValues(codec, op, status).Inc()
	m.CodecDuration.WithLabelValues(codec, op).Observe(duration.Seconds())
}

// UpdateTreeStats updates the tree size gauge
func (m *Metrics) UpdateTreeStats(tree *property.PropertyTree) {
	m.PropertiesSize.Set(float64(tree.Size()))
}

// Text renders every gathered metric family in the Prometheus text format
func (m *Metrics) Text() ([]byte, error) {
	families, err := m.gatherer.Gather()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
