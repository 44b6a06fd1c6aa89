// Package metrics defines the sinks that observe a simulation run. Sinks
// receive one StepEvent per committed step and, when they implement
// RunRecorder, a RunEvent once a scenario completes. Sinks are created from
// configuration through a registry and combined with NewMultiSink when more
// than one is configured. Implementations live in infra/metrics.
package metrics
