package metrics

import (
	"time"

	"github.com/kilianp07/drivecycle/core/model"
)

// MetricsSink records simulation steps for observability purposes.
type MetricsSink interface {
	RecordStep(ev model.StepEvent) error
}

// RunEvent summarises a completed scenario run.
type RunEvent struct {
	RunID    string
	Scenario string
	Steps    int
	Distance float64 // m
	FuelKg   float64
	Elapsed  time.Duration // wall clock
	Err      error
}

// RunRecorder records completed runs.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordStep(model.StepEvent) error { return nil }
func (NopSink) RecordRun(RunEvent) error         { return nil }
