package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of one export process.
type Metrics struct {
	registry *prometheus.Registry

	// Export metrics
	FilesExported   *prometheus.CounterVec
	ExportDuration  prometheus.Histogram
	BatchesFinished prometheus.Counter

	// Resolution metrics
	ResourcesMissing *prometheus.CounterVec
	GroupsGenerated  prometheus.Counter

	// Package metrics
	PackagesIndexed    prometheus.Gauge
	DescriptorsSkipped prometheus.Counter
	PackagesFlushed    prometheus.Counter

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for log summaries.
type Snapshot struct {
	FilesExported    int64
	FilesFailed      int64
	ResourcesMissing int64
	GroupsGenerated  int64
	PackagesFlushed  int64
}

// NewMetrics creates a collector set on its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		FilesExported: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fguiexport_files_total",
				Help: "Total number of source files processed",
			},
			[]string{"status"},
		),
		ExportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fguiexport_file_duration_seconds",
				Help:    "Time spent transcoding and writing one file",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		BatchesFinished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fguiexport_batches_total",
				Help: "Total number of completed batch exports",
			},
		),
		ResourcesMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fguiexport_resources_missing_total",
				Help: "References no target package provides",
			},
			[]string{"kind"},
		),
		GroupsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fguiexport_groups_generated_total",
				Help: "Groups that received a synthesized id",
			},
		),
		PackagesIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fguiexport_packages_indexed",
				Help: "Number of target packages in the index",
			},
		),
		DescriptorsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fguiexport_descriptors_skipped_total",
				Help: "Package descriptors skipped as malformed",
			},
		),
		PackagesFlushed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fguiexport_packages_flushed_total",
				Help: "Package descriptors rewritten at session end",
			},
		),
	}

	m.registry.MustRegister(
		m.FilesExported,
		m.ExportDuration,
		m.BatchesFinished,
		m.ResourcesMissing,
		m.GroupsGenerated,
		m.PackagesIndexed,
		m.DescriptorsSkipped,
		m.PackagesFlushed,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordFile records one processed file.
func (m *Metrics) RecordFile(status string, duration time.Duration) {
	m.FilesExported.WithLabelValues(status).Inc()
	m.ExportDuration.Observe(duration.Seconds())

	m.mu.Lock()
	if status == StatusSuccess {
		m.snapshot.FilesExported++
	} else {
		m.snapshot.FilesFailed++
	}
	m.mu.Unlock()
}

// ResourceMissing records an unresolved reference of kind.
func (m *Metrics) ResourceMissing(kind string) {
	m.ResourcesMissing.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.snapshot.ResourcesMissing++
	m.mu.Unlock()
}

// GroupGenerated records a synthesized group id.
func (m *Metrics) GroupGenerated() {
	m.GroupsGenerated.Inc()
	m.mu.Lock()
	m.snapshot.GroupsGenerated++
	m.mu.Unlock()
}

// SetPackagesIndexed sets the size of the package index.
func (m *Metrics) SetPackagesIndexed(count int) {
	m.PackagesIndexed.Set(float64(count))
}

// AddDescriptorsSkipped counts malformed descriptors.
func (m *Metrics) AddDescriptorsSkipped(count int) {
	m.DescriptorsSkipped.Add(float64(count))
}

// AddPackagesFlushed counts rewritten descriptors.
func (m *Metrics) AddPackagesFlushed(count int) {
	m.PackagesFlushed.Add(float64(count))
	m.mu.Lock()
	m.snapshot.PackagesFlushed += int64(count)
	m.mu.Unlock()
}

// IncBatches counts a finished batch.
func (m *Metrics) IncBatches() {
	m.BatchesFinished.Inc()
}

// Snapshot returns the current totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// WriteTextfile writes every metric in the text exposition format, for
// pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
