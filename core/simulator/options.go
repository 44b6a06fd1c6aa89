package simulator

import (
	"github.com/kilianp07/drivecycle/core/logger"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/internal/eventbus"
)

// Option customises a Simulator at construction.
type Option func(*Simulator)

// WithTimeStep sets the fixed step duration in seconds.
func WithTimeStep(dt float64) Option {
	return func(s *Simulator) { s.dt = dt }
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEventBus publishes a StepEvent on bus after every committed step.
func WithEventBus(bus *eventbus.TypedBus[model.StepEvent]) Option {
	return func(s *Simulator) { s.bus = bus }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Simulator) {
		if id != "" {
			s.runID = id
		}
	}
}
