package metrics

import (
	coremetrics "github.com/kilianp07/drivecycle/core/metrics"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/infra/logger"
)

// LogSink writes a structured trace line per step.
type LogSink struct {
	log   logger.Logger
	every int
}

// NewLogSink logs every n-th step through log. Values of n below 1 log
// every step.
func NewLogSink(log logger.Logger, n int) *LogSink {
	if n < 1 {
		n = 1
	}
	return &LogSink{log: log, every: n}
}

// RecordStep logs the state and force breakdown of the step.
func (s *LogSink) RecordStep(ev model.StepEvent) error {
	if ev.Step%s.every != 0 {
		return nil
	}
	s.log.Debugw("step", map[string]any{
		"run_id":      ev.RunID,
		"step":        ev.Step,
		"time_s":      ev.Time,
		"action":      ev.Action.String(),
		"speed_mps":   ev.State.Velocity,
		"speed_kmh":   ev.State.Velocity * 3.6,
		"position_m":  ev.State.Position,
		"accel_mps2":  ev.State.Acceleration,
		"power_w":     ev.State.Power,
		"fuel_kg":     ev.State.Fuel,
		"f_wheel_n":   ev.Forces.Wheel,
		"f_aero_n":    ev.Forces.Aero,
		"f_rolling_n": ev.Forces.Rolling,
		"f_grade_n":   ev.Forces.Grade,
		"f_net_n":     ev.Forces.Net,
		"rpm":         ev.RPM,
		"torque_nm":   ev.Torque,
	})
	return nil
}

// RecordRun logs the outcome of a run.
func (s *LogSink) RecordRun(ev coremetrics.RunEvent) error {
	if ev.Err != nil {
		s.log.Errorf("run %s (%s) failed after %d steps: %v", ev.RunID, ev.Scenario, ev.Steps, ev.Err)
		return nil
	}
	s.log.Infof("run %s (%s) completed: %d steps, %.0f m, %.3f kg fuel in %s",
		ev.RunID, ev.Scenario, ev.Steps, ev.Distance, ev.FuelKg, ev.Elapsed)
	return nil
}
