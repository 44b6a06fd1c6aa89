package simulator

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/kilianp07/drivecycle/core/logger"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/core/physics"
	"github.com/kilianp07/drivecycle/internal/eventbus"
)

const (
	// DefaultTimeStep is the step duration in seconds used unless WithTimeStep is given.
	DefaultTimeStep = 1.0

	// brakeDeceleration is the maximum braking deceleration as a fraction of g.
	brakeDeceleration = 0.8
)

// Simulator integrates the longitudinal dynamics of one vehicle.
type Simulator struct {
	cfg   model.VehicleConfig
	curve *physics.TorqueCurve
	dt    float64
	runID string
	log   logger.Logger
	bus   *eventbus.TypedBus[model.StepEvent]

	state   model.SimulationState
	history []model.SimulationState
}

// New validates cfg and returns a Simulator at rest with an empty history.
// The configuration is copied; later changes to cfg have no effect.
func New(cfg model.VehicleConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		var fe *model.FieldError
		if errors.As(err, &fe) {
			return nil, &ConfigurationError{Field: fe.Field, Reason: fe.Reason}
		}
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	s := &Simulator{
		cfg: cfg.Clone(),
		dt:  DefaultTimeStep,
		log: logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dt <= 0 || math.IsNaN(s.dt) || math.IsInf(s.dt, 0) {
		return nil, &ConfigurationError{Field: "time_step", Reason: "must be a positive finite duration"}
	}
	curve, err := physics.NewTorqueCurve(s.cfg.TorqueMap)
	if err != nil {
		return nil, &ConfigurationError{Field: "torque_map", Reason: err.Error()}
	}
	s.curve = curve
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.log.Debugw("simulator created", map[string]any{
		"run_id":    s.runID,
		"mass":      s.cfg.Mass,
		"max_power": s.cfg.MaxPower,
		"max_speed": s.cfg.MaxSpeed,
		"time_step": s.dt,
	})
	return s, nil
}

// Step applies one driver action and returns the new state, which is also
// appended to the history. An invalid action returns an *InvalidActionError
// and leaves the simulator unchanged.
func (s *Simulator) Step(action model.Action) (model.SimulationState, error) {
	if !action.Valid() {
		return s.state, &InvalidActionError{Action: action}
	}
	cfg := &s.cfg
	v := s.state.Velocity
	dir := physics.Sign(v)

	// Resistances are evaluated at the pre-step velocity.
	aero := physics.AeroDrag(cfg.AirDensity, cfg.DragCoefficient, cfg.FrontalArea, v)
	roll := physics.RollingResistance(cfg.RollCoefficient, cfg.Mass, physics.Gravity)
	grade := physics.GradeForce(cfg.Mass, physics.Gravity, cfg.RoadAngle)

	omega := physics.EngineAngularSpeed(v, cfg.WheelRadius, cfg.TransmissionRatio)
	rpm := physics.RPM(omega)
	torque := s.curve.Torque(rpm)

	var wheel, power float64
	switch action {
	case model.ActionDrive:
		// The power ceiling is undefined at zero engine speed.
		if omega > 0 {
			torque = math.Min(torque, cfg.MaxPower/omega)
		}
		wheel = torque * cfg.TransmissionRatio / cfg.WheelRadius
		power = physics.MechanicalPower(torque, omega)
	case model.ActionBrake:
		torque = 0
		if dir != 0 {
			maxBrake := physics.BrakeForce(brakeDeceleration, cfg.Mass, physics.Gravity)
			wheel = -dir * maxBrake * math.Abs(v) / cfg.MaxSpeed
		}
	}

	f := model.Forces{Wheel: wheel, Grade: -grade}
	if dir != 0 {
		f.Aero = -dir * aero
		f.Rolling = -dir * roll
	} else {
		// Static rolling resistance only balances the other forces at rest.
		f.Rolling = -physics.Clamp(f.Wheel+f.Grade, roll)
	}
	f.Net = physics.SumForces(f.Wheel, f.Aero, f.Rolling, f.Grade)
	a := physics.Acceleration(cfg.Mass, f.Net)

	next := physics.Clamp(physics.IntegrateVelocity(v, a, s.dt), cfg.MaxSpeed)
	if action == model.ActionBrake && v*next < 0 {
		next = 0
	}

	fuel := s.state.Fuel
	if action == model.ActionDrive && power > 0 {
		fuel += physics.FuelMass(physics.FuelRate(power, cfg.BSFC), s.dt)
	}

	s.state = model.SimulationState{
		Velocity:     next,
		Position:     physics.IntegratePosition(s.state.Position, next, s.dt),
		Acceleration: a,
		Power:        power,
		Fuel:         fuel,
	}
	s.history = append(s.history, s.state)

	if s.bus != nil {
		dropped := s.bus.Publish(model.StepEvent{
			RunID:  s.runID,
			Step:   len(s.history) - 1,
			Time:   float64(len(s.history)) * s.dt,
			Action: action,
			State:  s.state,
			Forces: f,
			RPM:    rpm,
			Torque: torque,
		})
		if dropped > 0 {
			s.log.Warnf("run %s: step %d missed by %d subscriber(s)", s.runID, len(s.history)-1, dropped)
		}
	}
	return s.state, nil
}

// Reset discards the history and returns the vehicle to rest at the origin.
func (s *Simulator) Reset() {
	s.state = model.SimulationState{}
	s.history = nil
	s.log.Debugw("simulator reset", map[string]any{"run_id": s.runID})
}

// CurrentState returns the latest state, or the zero state before any step.
func (s *Simulator) CurrentState() model.SimulationState { return s.state }

// History returns a copy of all recorded states in step order.
func (s *Simulator) History() []model.SimulationState {
	out := make([]model.SimulationState, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of completed steps.
func (s *Simulator) Len() int { return len(s.history) }

// Config returns a copy of the vehicle configuration.
func (s *Simulator) Config() model.VehicleConfig { return s.cfg.Clone() }

// TimeStep returns the step duration in seconds.
func (s *Simulator) TimeStep() float64 { return s.dt }

// RunID identifies this simulator in logs and metrics.
func (s *Simulator) RunID() string { return s.runID }
