package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/drivecycle/config"
	coremetrics "github.com/kilianp07/drivecycle/core/metrics"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/core/report"
	"github.com/kilianp07/drivecycle/core/scenario"
	"github.com/kilianp07/drivecycle/core/simulator"
	"github.com/kilianp07/drivecycle/infra/logger"
	"github.com/kilianp07/drivecycle/infra/metrics"
	"github.com/kilianp07/drivecycle/internal/eventbus"
)

// Service runs driving-cycle scenarios against the configured vehicle and
// forwards every step to the configured metrics sinks.
type Service struct {
	cfg  *config.Config
	sink coremetrics.MetricsSink
	log  logger.Logger
}

// Result is the outcome of one scenario run.
type Result struct {
	RunID    string
	Scenario string
	Vehicle  model.VehicleConfig
	TimeStep float64
	Summary  report.Summary
	History  []model.SimulationState
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return &Service{cfg: cfg, sink: sink, log: logger.New("service")}, nil
}

// Vehicle returns the configured vehicle.
func (s *Service) Vehicle() model.VehicleConfig { return s.cfg.Vehicle.Clone() }

// Scenarios resolves the scenarios named in the configuration.
func (s *Service) Scenarios() ([]scenario.Scenario, error) {
	out := make([]scenario.Scenario, 0, len(s.cfg.Simulation.Scenarios))
	for _, ref := range s.cfg.Simulation.Scenarios {
		sc, err := scenario.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Run simulates sc on a fresh simulator. The partial result is returned
// alongside the error when the run stops early.
func (s *Service) Run(ctx context.Context, sc scenario.Scenario) (Result, error) {
	actions, err := sc.Actions()
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	runID := uuid.NewString()
	// one slot per step so the collector never misses an event
	bus := eventbus.NewTypedWithBuffer[model.StepEvent](len(actions))
	sim, err := simulator.New(s.cfg.Vehicle,
		simulator.WithTimeStep(s.cfg.Simulation.TimeStepSeconds),
		simulator.WithLogger(s.log),
		simulator.WithEventBus(bus),
		simulator.WithRunID(runID),
	)
	if err != nil {
		return Result{}, err
	}
	done := metrics.StartStepCollector(ctx, bus, s.sink, s.log)

	start := time.Now()
	runErr := scenario.Run(ctx, sim, actions)
	bus.Close()
	<-done

	hist := sim.History()
	res := Result{
		RunID:    runID,
		Scenario: sc.Name,
		Vehicle:  sim.Config(),
		TimeStep: sim.TimeStep(),
		Summary:  report.Summarize(hist, sim.TimeStep()),
		History:  hist,
	}
	if rec, ok := s.sink.(coremetrics.RunRecorder); ok {
		ev := coremetrics.RunEvent{
			RunID:    runID,
			Scenario: sc.Name,
			Steps:    res.Summary.Steps,
			Distance: res.Summary.Distance,
			FuelKg:   res.Summary.FuelKg,
			Elapsed:  time.Since(start),
			Err:      runErr,
		}
		if err := rec.RecordRun(ev); err != nil {
			s.log.Warnf("record run %s: %v", runID, err)
		}
	}
	if runErr != nil {
		return res, fmt.Errorf("run %s: %w", sc.Name, runErr)
	}
	return res, nil
}

// RunBatch runs every scenario concurrently, each on its own simulator.
// Results keep the order of scenarios. The first failure cancels the others.
func (s *Service) RunBatch(ctx context.Context, scenarios []scenario.Scenario) ([]Result, error) {
	results := make([]Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			res, err := s.Run(ctx, sc)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

// ServeMetrics exposes the Prometheus endpoint until ctx is canceled. It is
// a no-op when no address is configured.
func (s *Service) ServeMetrics(ctx context.Context) error {
	addr := s.cfg.Metrics.PrometheusAddr
	if addr == "" {
		return nil
	}
	return metrics.StartPromServer(ctx, addr, s.log)
}
