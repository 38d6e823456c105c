package metrics

import "time"

// ResultLabel enumerates record export result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for load and export metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for nil receivers when using the NoopRecorder (allowing
// optional injection).
type Recorder interface {
	ObserveLoadDuration(kind string, d time.Duration)
	ObserveExportDuration(format string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRecordsLoaded(kind string, n int)
	IncRecordsDropped(kind string, n int)
	IncExportResult(format string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|partial|failed
	SetBatchSize(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLoadDuration(string, time.Duration)   {}
func (NoopRecorder) ObserveExportDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) IncRecordsLoaded(string, int)                {}
func (NoopRecorder) IncRecordsDropped(string, int)               {}
func (NoopRecorder) IncExportResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(string)                        {}
func (NoopRecorder) SetBatchSize(int)                            {}
