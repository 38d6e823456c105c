package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	loadDuration   *prom.HistogramVec
	exportDuration *prom.HistogramVec
	runDuration    prom.Histogram
	recordsLoaded  *prom.CounterVec
	recordsDropped *prom.CounterVec
	exportResults  *prom.CounterVec
	runOutcome     *prom.CounterVec
	batchSize      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.loadDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docforge",
			Name:      "load_duration_seconds",
			Help:      "Duration of source loading by source kind",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"})
		pr.exportDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docforge",
			Name:      "export_duration_seconds",
			Help:      "Duration of per-record export by output format",
			Buckets:   prom.DefBuckets,
		}, []string{"format"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docforge",
			Name:      "run_duration_seconds",
			Help:      "Total export run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.recordsLoaded = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docforge",
			Name:      "records_loaded_total",
			Help:      "Records successfully loaded by source kind",
		}, []string{"kind"})
		pr.recordsDropped = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docforge",
			Name:      "records_dropped_total",
			Help:      "Records dropped during loading or normalization",
		}, []string{"kind"})
		pr.exportResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docforge",
			Name:      "export_results_total",
			Help:      "Per-record export results by format and outcome",
		}, []string{"format", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docforge",
			Name:      "run_outcomes_total",
			Help:      "Export run outcomes by final status",
		}, []string{"outcome"})
		pr.batchSize = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docforge",
			Name:      "batch_size",
			Help:      "Record count of the last export batch",
		})
		reg.MustRegister(pr.loadDuration, pr.exportDuration, pr.runDuration,
			pr.recordsLoaded, pr.recordsDropped, pr.exportResults, pr.runOutcome, pr.batchSize)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveLoadDuration(kind string, d time.Duration) {
	if p == nil || p.loadDuration == nil {
		return
	}
	p.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveExportDuration(format string, d time.Duration) {
	if p == nil || p.exportDuration == nil {
		return
	}
	p.exportDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRecordsLoaded(kind string, n int) {
	if p == nil || p.recordsLoaded == nil || n <= 0 {
		return
	}
	p.recordsLoaded.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncRecordsDropped(kind string, n int) {
	if p == nil || p.recordsDropped == nil || n <= 0 {
		return
	}
	p.recordsDropped.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncExportResult(format string, result ResultLabel) {
	if p == nil || p.exportResults == nil {
		return
	}
	p.exportResults.WithLabelValues(format, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetBatchSize(n int) {
	if p == nil || p.batchSize == nil {
		return
	}
	p.batchSize.Set(float64(n))
}
