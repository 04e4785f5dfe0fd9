// Package metrics records per-run generation metrics in a private Prometheus
// registry and writes them in text exposition format for a node_exporter
// textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a registry and the collectors for one process.
type Recorder struct {
	reg        *prometheus.Registry
	rows       *prometheus.CounterVec
	categories *prometheus.GaugeVec
	duration   *prometheus.GaugeVec
	sinkWrites *prometheus.CounterVec
}

// New registers the tuplegen collectors in a fresh registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuplegen_rows_generated_total",
			Help: "Rows generated per dataset kind and table.",
		}, []string{"kind", "table"}),
		categories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuplegen_categories",
			Help: "Distinct categories in the last generated dataset.",
		}, []string{"kind"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tuplegen_generate_duration_seconds",
			Help: "Wall time spent generating the last dataset.",
		}, []string{"kind"}),
		sinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tuplegen_sink_writes_total",
			Help: "Sink writes by sink and result.",
		}, []string{"sink", "result"}),
	}
	r.reg.MustRegister(r.rows, r.categories, r.duration, r.sinkWrites)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveDataset records row counts per table and the category count.
func (r *Recorder) ObserveDataset(kind string, rows map[string]int, categories int, took time.Duration) {
	for table, n := range rows {
		r.rows.WithLabelValues(kind, table).Add(float64(n))
	}
	r.categories.WithLabelValues(kind).Set(float64(categories))
	r.duration.WithLabelValues(kind).Set(took.Seconds())
}

// ObserveSink records the outcome of one sink write.
func (r *Recorder) ObserveSink(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.sinkWrites.WithLabelValues(sink, result).Inc()
}

// WriteTextfile writes every collected metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
