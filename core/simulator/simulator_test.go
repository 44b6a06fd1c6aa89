package simulator

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/drivecycle/core/logger"
	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/core/physics"
	"github.com/kilianp07/drivecycle/internal/eventbus"
)

func newTestSim(t *testing.T, mutate func(*model.VehicleConfig), opts ...Option) *Simulator {
	t.Helper()
	cfg := model.DefaultVehicle()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func repeat(a model.Action, n int) []model.Action {
	out := make([]model.Action, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	cases := map[string]func(*model.VehicleConfig){
		"mass":         func(c *model.VehicleConfig) { c.Mass = 0 },
		"wheel_radius": func(c *model.VehicleConfig) { c.WheelRadius = 0 },
		"max_speed":    func(c *model.VehicleConfig) { c.MaxSpeed = -1 },
		"max_power":    func(c *model.VehicleConfig) { c.MaxPower = 0 },
		"torque_map":   func(c *model.VehicleConfig) { c.TorqueMap = nil },
	}
	for field, mutate := range cases {
		cfg := model.DefaultVehicle()
		mutate(&cfg)
		s, err := New(cfg)
		assert.Nil(t, s)
		require.Error(t, err, field)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration), field)
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce), field)
		assert.Equal(t, field, ce.Field)
	}
}

func TestNewRejectsInvalidTimeStep(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := New(model.DefaultVehicle(), WithTimeStep(dt))
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce), "dt=%v", dt)
		assert.Equal(t, "time_step", ce.Field)
	}
}

func TestNewInitialState(t *testing.T) {
	s := newTestSim(t, nil)
	assert.Equal(t, model.SimulationState{}, s.CurrentState())
	assert.Empty(t, s.History())
	assert.Equal(t, DefaultTimeStep, s.TimeStep())
	assert.NotEmpty(t, s.RunID())
}

func TestConfigIsCopied(t *testing.T) {
	cfg := model.DefaultVehicle()
	s, err := New(cfg)
	require.NoError(t, err)
	first := cfg.TorqueMap[0].Torque
	cfg.TorqueMap[0].Torque = 1
	assert.Equal(t, first, s.Config().TorqueMap[0].Torque)

	got := s.Config()
	got.TorqueMap[0].Torque = 2
	assert.Equal(t, first, s.Config().TorqueMap[0].Torque)
}

func TestStepInvalidActionLeavesStateUntouched(t *testing.T) {
	s := newTestSim(t, nil)
	_, err := s.Step(model.ActionDrive)
	require.NoError(t, err)
	before := s.CurrentState()

	for _, a := range []model.Action{model.ActionUnknown, model.Action(7), model.Action(-1)} {
		st, err := s.Step(a)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidAction))
		var ae *InvalidActionError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, a, ae.Action)
		assert.Equal(t, before, st)
	}
	assert.Equal(t, before, s.CurrentState())
	assert.Equal(t, 1, s.Len())

	_, err = s.Step(model.Action(7))
	assert.EqualError(t, err, "invalid action: 7 (unknown)")
}

func TestSingleDriveStepFromRest(t *testing.T) {
	s := newTestSim(t, func(c *model.VehicleConfig) {
		c.Mass = 1843
		c.MaxPower = 331000
		c.MaxSpeed = 66.66
	})
	st, err := s.Step(model.ActionDrive)
	require.NoError(t, err)

	cfg := s.Config()
	wheel := cfg.TorqueMap[0].Torque * cfg.TransmissionRatio / cfg.WheelRadius
	roll := physics.RollingResistance(cfg.RollCoefficient, cfg.Mass, physics.Gravity)
	wantA := (wheel - roll) / cfg.Mass

	assert.Greater(t, st.Velocity, 0.0)
	assert.Greater(t, st.Position, 0.0)
	assert.InDelta(t, wantA, st.Acceleration, 1e-9)
	assert.InDelta(t, wantA, st.Velocity, 1e-9)
	assert.InDelta(t, wantA, st.Position, 1e-9)
	// zero engine speed means zero power, so nothing is burnt yet
	assert.Equal(t, 0.0, st.Power)
	assert.Equal(t, 0.0, st.Fuel)
	assert.Len(t, s.History(), 1)
	assert.Equal(t, st, s.CurrentState())
}

func TestSpeedClampUnderRepeatedDrive(t *testing.T) {
	configs := map[string]func(*model.VehicleConfig){
		"reference": nil,
		"light no drag": func(c *model.VehicleConfig) {
			c.Mass = 200
			c.DragCoefficient = 0
			c.MaxSpeed = 20
		},
		"downhill": func(c *model.VehicleConfig) {
			c.RoadAngle = -0.3
			c.MaxSpeed = 30
		},
	}
	for name, mutate := range configs {
		t.Run(name, func(t *testing.T) {
			s := newTestSim(t, mutate)
			vmax := s.Config().MaxSpeed
			reached := false
			for i := 0; i < 400; i++ {
				st, err := s.Step(model.ActionDrive)
				require.NoError(t, err)
				require.LessOrEqual(t, math.Abs(st.Velocity), vmax, "step %d", i)
				if st.Velocity == vmax {
					reached = true
				}
			}
			if name != "reference" {
				assert.True(t, reached, "expected the clamp to engage")
			}
		})
	}
}

func TestDrivePowerCapped(t *testing.T) {
	s := newTestSim(t, func(c *model.VehicleConfig) { c.MaxPower = 40000 })
	capped := false
	for i := 0; i < 60; i++ {
		st, err := s.Step(model.ActionDrive)
		require.NoError(t, err)
		assert.LessOrEqual(t, st.Power, 40000*(1+1e-12))
		assert.GreaterOrEqual(t, st.Power, 0.0)
		if math.Abs(st.Power-40000) < 1e-6 {
			capped = true
		}
	}
	assert.True(t, capped, "expected the power ceiling to engage")
}

func TestBrakingDecaysToZeroWithoutOvershoot(t *testing.T) {
	s := newTestSim(t, nil)
	for _, a := range repeat(model.ActionDrive, 20) {
		_, err := s.Step(a)
		require.NoError(t, err)
	}
	prev := s.CurrentState()
	require.Greater(t, prev.Velocity, 0.0)

	stopped := false
	for i := 0; i < 300; i++ {
		st, err := s.Step(model.ActionBrake)
		require.NoError(t, err)
		require.LessOrEqual(t, st.Velocity, prev.Velocity, "step %d", i)
		require.GreaterOrEqual(t, st.Velocity, 0.0, "step %d", i)
		require.GreaterOrEqual(t, st.Position, prev.Position, "step %d", i)
		assert.Equal(t, 0.0, st.Power)
		assert.Equal(t, prev.Fuel, st.Fuel)
		if stopped {
			require.Equal(t, 0.0, st.Velocity, "moved again at step %d", i)
		}
		if st.Velocity == 0 {
			stopped = true
		}
		prev = st
	}
	assert.True(t, stopped, "vehicle never came to rest")
}

func TestBrakeAtRestStaysAtRest(t *testing.T) {
	s := newTestSim(t, nil)
	for i := 0; i < 5; i++ {
		st, err := s.Step(model.ActionBrake)
		require.NoError(t, err)
		assert.Equal(t, 0.0, st.Velocity)
		assert.Equal(t, 0.0, st.Position)
		assert.Equal(t, 0.0, st.Acceleration)
	}
}

func TestBrakeAtRestOnGentleGradeHolds(t *testing.T) {
	// grade force stays below static rolling resistance
	s := newTestSim(t, func(c *model.VehicleConfig) { c.RoadAngle = 0.005 })
	st, err := s.Step(model.ActionBrake)
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.Velocity)
}

func TestSteepGradeRollsBack(t *testing.T) {
	s := newTestSim(t, func(c *model.VehicleConfig) { c.RoadAngle = 0.2 })
	for i := 0; i < 50; i++ {
		st, err := s.Step(model.ActionBrake)
		require.NoError(t, err)
		assert.Less(t, st.Velocity, 0.0)
		assert.LessOrEqual(t, math.Abs(st.Velocity), s.Config().MaxSpeed)
	}
	assert.Less(t, s.CurrentState().Position, 0.0)
}

func TestBrakeFromReverseStopsAtZero(t *testing.T) {
	s := newTestSim(t, nil)
	s.state.Velocity = -10

	prev := s.CurrentState().Velocity
	stopped := -1
	for i := 0; i < 200; i++ {
		st, err := s.Step(model.ActionBrake)
		require.NoError(t, err)
		require.GreaterOrEqual(t, st.Velocity, prev, "step %d", i)
		require.LessOrEqual(t, st.Velocity, 0.0, "step %d", i)
		if stopped >= 0 {
			require.Equal(t, 0.0, st.Velocity, "step %d", i)
		} else if st.Velocity == 0 {
			stopped = i
		}
		prev = st.Velocity
	}
	require.GreaterOrEqual(t, stopped, 0, "reverse motion never stopped")
	assert.Less(t, stopped, 190)
}

func TestFuelMonotonicity(t *testing.T) {
	s := newTestSim(t, nil)
	actions := append(repeat(model.ActionDrive, 15), repeat(model.ActionBrake, 10)...)
	actions = append(actions, repeat(model.ActionDrive, 8)...)
	actions = append(actions, repeat(model.ActionBrake, 20)...)

	prev := s.CurrentState()
	for i, a := range actions {
		st, err := s.Step(a)
		require.NoError(t, err)
		require.GreaterOrEqual(t, st.Fuel, prev.Fuel, "step %d", i)
		if a == model.ActionDrive && st.Power > 0 {
			assert.Greater(t, st.Fuel, prev.Fuel, "step %d", i)
			want := prev.Fuel + physics.FuelRate(st.Power, s.Config().BSFC)*s.TimeStep()/3600
			assert.InDelta(t, want, st.Fuel, 1e-12, "step %d", i)
		} else {
			assert.Equal(t, prev.Fuel, st.Fuel, "step %d", i)
		}
		prev = st
	}
	assert.Greater(t, prev.Fuel, 0.0)
}

func TestTimeStepScalesIntegration(t *testing.T) {
	full := newTestSim(t, nil)
	half := newTestSim(t, nil, WithTimeStep(0.5))
	a, err := full.Step(model.ActionDrive)
	require.NoError(t, err)
	b, err := half.Step(model.ActionDrive)
	require.NoError(t, err)
	assert.InDelta(t, a.Acceleration, b.Acceleration, 1e-12)
	assert.InDelta(t, a.Velocity/2, b.Velocity, 1e-12)
	assert.InDelta(t, a.Position/4, b.Position, 1e-12)
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestSim(t, nil)
	for _, a := range append(repeat(model.ActionDrive, 10), repeat(model.ActionBrake, 3)...) {
		_, err := s.Step(a)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		s.Reset()
		assert.Equal(t, model.SimulationState{}, s.CurrentState())
		assert.Empty(t, s.History())
		assert.Equal(t, 0, s.Len())
	}

	// the next run starts from rest again
	st, err := s.Step(model.ActionDrive)
	require.NoError(t, err)
	fresh := newTestSim(t, nil)
	want, err := fresh.Step(model.ActionDrive)
	require.NoError(t, err)
	assert.Equal(t, want, st)
}

func TestHistoryIsACopy(t *testing.T) {
	s := newTestSim(t, nil)
	for i := 0; i < 3; i++ {
		_, err := s.Step(model.ActionDrive)
		require.NoError(t, err)
	}
	h := s.History()
	require.Len(t, h, 3)
	assert.Equal(t, s.CurrentState(), h[2])
	h[0].Velocity = 1000
	assert.NotEqual(t, 1000.0, s.History()[0].Velocity)
}

func TestStepEventsPublished(t *testing.T) {
	bus := eventbus.NewTypedWithBuffer[model.StepEvent](16)
	events := bus.Subscribe()
	s := newTestSim(t, nil, WithEventBus(bus), WithRunID("run-1"))

	actions := []model.Action{model.ActionDrive, model.ActionDrive, model.ActionBrake}
	for _, a := range actions {
		_, err := s.Step(a)
		require.NoError(t, err)
	}
	_, err := s.Step(model.ActionUnknown)
	require.Error(t, err)
	bus.Close()

	var got []model.StepEvent
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	hist := s.History()
	for i, ev := range got {
		assert.Equal(t, "run-1", ev.RunID)
		assert.Equal(t, i, ev.Step)
		assert.Equal(t, float64(i+1), ev.Time)
		assert.Equal(t, actions[i], ev.Action)
		assert.Equal(t, hist[i], ev.State)
		assert.InDelta(t, ev.Forces.Net, ev.Forces.Wheel+ev.Forces.Aero+ev.Forces.Rolling+ev.Forces.Grade, 1e-9)
	}
	assert.Equal(t, s.Config().TorqueMap[0].Torque, got[0].Torque)
	assert.Equal(t, 0.0, got[0].RPM)
	assert.Greater(t, got[1].RPM, 0.0)
	assert.Equal(t, 0.0, got[2].Torque)
	assert.Less(t, got[2].Forces.Wheel, 0.0)
}

type warnLogger struct {
	logger.NopLogger
	warns []string
}

func (l *warnLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func TestDroppedStepEventsAreLogged(t *testing.T) {
	bus := eventbus.NewTypedWithBuffer[model.StepEvent](1)
	_ = bus.Subscribe()
	log := &warnLogger{}
	s := newTestSim(t, nil, WithEventBus(bus), WithRunID("slow"), WithLogger(log))

	for i := 0; i < 3; i++ {
		_, err := s.Step(model.ActionDrive)
		require.NoError(t, err)
	}
	require.Len(t, log.warns, 2)
	assert.Equal(t, "run slow: step 1 missed by 1 subscriber(s)", log.warns[0])
	assert.Equal(t, 3, s.Len(), "a slow subscriber never blocks stepping")
}
