package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/drivecycle/core/metrics"
	"github.com/kilianp07/drivecycle/core/model"
)

// PromSink exposes the live state of simulation runs as Prometheus metrics.
type PromSink struct {
	speed    *prometheus.GaugeVec
	position *prometheus.GaugeVec
	power    *prometheus.GaugeVec
	fuel     *prometheus.GaugeVec
	steps    *prometheus.CounterVec
	rpm      *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewPromSink registers simulation metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	run := []string{"run_id"}
	s := &PromSink{
		speed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vehicle_speed_meters_per_second",
			Help: "Signed vehicle speed at the end of the last step",
		}, run),
		position: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vehicle_position_meters",
			Help: "Vehicle position at the end of the last step",
		}, run),
		power: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vehicle_engine_power_watts",
			Help: "Mechanical engine power during the last step",
		}, run),
		fuel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vehicle_fuel_consumed_kilograms",
			Help: "Cumulative fuel mass burnt during the run",
		}, run),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_steps_total",
			Help: "Total number of simulation steps by driver action",
		}, []string{"run_id", "action"}),
		rpm: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vehicle_engine_rpm",
			Help:    "Engine speed distribution over the run",
			Buckets: prometheus.LinearBuckets(500, 500, 14),
		}, run),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Completed scenario runs by outcome",
		}, []string{"scenario", "status"}),
	}
	var err error
	if s.speed, err = register(reg, s.speed); err != nil {
		return nil, err
	}
	if s.position, err = register(reg, s.position); err != nil {
		return nil, err
	}
	if s.power, err = register(reg, s.power); err != nil {
		return nil, err
	}
	if s.fuel, err = register(reg, s.fuel); err != nil {
		return nil, err
	}
	if s.steps, err = register(reg, s.steps); err != nil {
		return nil, err
	}
	if s.rpm, err = register(reg, s.rpm); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the collector already registered under the same
// descriptor, if any, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStep updates the gauges of the run and counts the step.
func (s *PromSink) RecordStep(ev model.StepEvent) error {
	s.speed.WithLabelValues(ev.RunID).Set(ev.State.Velocity)
	s.position.WithLabelValues(ev.RunID).Set(ev.State.Position)
	s.power.WithLabelValues(ev.RunID).Set(ev.State.Power)
	s.fuel.WithLabelValues(ev.RunID).Set(ev.State.Fuel)
	s.steps.WithLabelValues(ev.RunID, ev.Action.String()).Inc()
	if ev.Action == model.ActionDrive {
		s.rpm.WithLabelValues(ev.RunID).Observe(ev.RPM)
	}
	return nil
}

// RecordRun counts a completed run.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	status := "ok"
	if ev.Err != nil {
		status = "error"
	}
	s.runs.WithLabelValues(ev.Scenario, status).Inc()
	return nil
}
