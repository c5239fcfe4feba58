package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultResolved ResultLabel = "resolved"
	ResultNotFound ResultLabel = "not_found"
	ResultError    ResultLabel = "error"
)

// Recorder defines observability hooks for the content and API reference
// pipelines. Implementations may forward to Prometheus, OpenTelemetry, etc.
// The NoopRecorder allows optional injection.
type Recorder interface {
	ObserveResolveDuration(lang string, d time.Duration)
	IncResolveResult(lang string, result ResultLabel)
	IncResolveStrategyHit(strategy string)
	IncStoreFetch(result ResultLabel)
	ObserveRenderDuration(d time.Duration)
	ObserveIndexBuildDuration(d time.Duration)
	IncAPISearch()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(string, time.Duration) {}
func (NoopRecorder) IncResolveResult(string, ResultLabel)         {}
func (NoopRecorder) IncResolveStrategyHit(string)                 {}
func (NoopRecorder) IncStoreFetch(ResultLabel)                    {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)          {}
func (NoopRecorder) ObserveIndexBuildDuration(time.Duration)      {}
func (NoopRecorder) IncAPISearch()                                {}
