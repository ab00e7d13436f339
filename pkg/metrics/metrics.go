// Package metrics records pipeline run statistics as Prometheus metrics.
//
// Every Collector owns its registry, so independent pipelines (and tests)
// never share counters. The registry can be exposed with promhttp or
// gathered directly.
//
// # Basic Usage
//
//	c := metrics.NewCollector("insurance")
//	c.RecordLoad(rowsRead, duplicates)
//
//	timer := metrics.NewTimer("encode:one-hot")
//	out, err := step.Apply(ctx, t)
//	c.RecordStep("encode:one-hot", timer.Stop(), err)
//
// # Metric Types
//
// Counter: rows loaded, duplicates dropped, step runs and failures
// Gauge: row and column count of the latest table
// Histogram: step duration in seconds
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// Namespace prefixes every metric name.
const Namespace = "tabprep"

// Step status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector records the metrics of one pipeline.
type Collector struct {
	name      string
	registry  *prometheus.Registry
	startTime time.Time

	rowsLoaded   *prometheus.CounterVec
	duplicates   *prometheus.CounterVec
	stepRuns     *prometheus.CounterVec
	stepFailures *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	tableRows    *prometheus.GaugeVec
	tableColumns *prometheus.GaugeVec
}

// NewCollector creates a collector with a fresh registry. The name is used
// as the pipeline label on every metric.
func NewCollector(name string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		name:      name,
		registry:  reg,
		startTime: time.Now(),

		rowsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from the input file, before deduplication",
		}, []string{"pipeline"}),

		duplicates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Duplicate rows removed by the loader",
		}, []string{"pipeline"}),

		stepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "step_runs_total",
			Help:      "Pipeline step executions",
		}, []string{"pipeline", "step", "status"}),

		stepFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "step_failures_total",
			Help:      "Failed pipeline steps by error type",
		}, []string{"pipeline", "step", "error_type"}),

		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "step_duration_seconds",
			Help:      "Pipeline step duration in seconds",
			Buckets: []float64{
				1e-5, // 10μs - tiny tables
				1e-4, // 100μs
				1e-3, // 1ms
				1e-2, // 10ms
				1e-1, // 100ms
				1,    // 1s - large one-hot expansions
				10,
			},
		}, []string{"pipeline", "step"}),

		tableRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "table_rows",
			Help:      "Row count of the most recent table",
		}, []string{"pipeline"}),

		tableColumns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "table_columns",
			Help:      "Column count of the most recent table",
		}, []string{"pipeline"}),
	}
}

// Name returns the pipeline label value.
func (c *Collector) Name() string { return c.name }

// Registry returns the registry holding this collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time { return c.startTime }

// RecordLoad records a completed load.
func (c *Collector) RecordLoad(rowsRead, duplicates int) {
	c.rowsLoaded.WithLabelValues(c.name).Add(float64(rowsRead))
	c.duplicates.WithLabelValues(c.name).Add(float64(duplicates))
}

// RecordTable records the shape of the latest table.
func (c *Collector) RecordTable(rows, columns int) {
	c.tableRows.WithLabelValues(c.name).Set(float64(rows))
	c.tableColumns.WithLabelValues(c.name).Set(float64(columns))
}

// RecordStep records one step execution. A non-nil err counts as a failure
// labelled with its error type.
func (c *Collector) RecordStep(step string, d time.Duration, err error) {
	c.stepDuration.WithLabelValues(c.name, step).Observe(d.Seconds())
	if err != nil {
		c.stepRuns.WithLabelValues(c.name, step, StatusFailure).Inc()
		c.stepFailures.WithLabelValues(c.name, step, string(errors.TypeOf(err))).Inc()
		return
	}
	c.stepRuns.WithLabelValues(c.name, step, StatusSuccess).Inc()
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{start: time.Now(), name: name}
}

// Name returns the timer's name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It may be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
