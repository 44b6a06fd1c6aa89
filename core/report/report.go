// Package report derives driving-cycle figures from a simulator history:
// distance, fuel economy, unit-converted time series and engine operating
// points. It only reads recorded states and never drives a simulation.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/drivecycle/core/model"
	"github.com/kilianp07/drivecycle/core/physics"
)

const (
	// instantCapLPer100km bounds the instantaneous consumption figure, which
	// diverges at low speed.
	instantCapLPer100km = 60
	// minInstantSpeed is the speed in m/s below which no instantaneous
	// consumption is reported.
	minInstantSpeed = 1.0
	// activeRPM is the engine speed below which an operating point is idle.
	activeRPM = 500
)

// Summary aggregates a completed run.
type Summary struct {
	Steps          int     `json:"steps"`
	Duration       float64 `json:"duration_s"`
	Distance       float64 `json:"distance_m"`
	FinalSpeed     float64 `json:"final_speed_mps"`
	PeakSpeed      float64 `json:"peak_speed_mps"`
	MeanSpeed      float64 `json:"mean_speed_mps"`
	FuelKg         float64 `json:"fuel_kg"`
	FuelLiters     float64 `json:"fuel_l"`
	LitersPer100km float64 `json:"l_per_100km"`
}

// Summarize computes the summary of history recorded with step dt seconds.
// An empty history yields the zero Summary.
func Summarize(history []model.SimulationState, dt float64) Summary {
	if len(history) == 0 {
		return Summary{}
	}
	speeds := make([]float64, len(history))
	for i, st := range history {
		speeds[i] = math.Abs(st.Velocity)
	}
	last := history[len(history)-1]
	s := Summary{
		Steps:      len(history),
		Duration:   float64(len(history)) * dt,
		Distance:   last.Position,
		FinalSpeed: last.Velocity,
		PeakSpeed:  floats.Max(speeds),
		MeanSpeed:  stat.Mean(speeds, nil),
		FuelKg:     last.Fuel,
		FuelLiters: last.Fuel / physics.FuelDensity,
	}
	if s.Distance > 0 {
		s.LitersPer100km = s.FuelLiters / (s.Distance / 100000)
	}
	return s
}

// Sample is one history entry converted to display units.
type Sample struct {
	// Time is the start of the step, one dt earlier than the matching
	// StepEvent.Time, which marks its end.
	Time         float64 `json:"time_s"`
	SpeedKmh     float64 `json:"speed_kmh"`
	PositionKm   float64 `json:"position_km"`
	Acceleration float64 `json:"acceleration_mps2"`
	PowerKW      float64 `json:"power_kw"`
	FuelLiters   float64 `json:"fuel_l"`
}

// TimeSeries converts history into display units. Entry i is stamped at the
// start of step i, so the first sample is at t = 0.
func TimeSeries(history []model.SimulationState, dt float64) []Sample {
	out := make([]Sample, len(history))
	for i, st := range history {
		out[i] = Sample{
			Time:         float64(i) * dt,
			SpeedKmh:     st.Velocity * 3.6,
			PositionKm:   st.Position / 1000,
			Acceleration: st.Acceleration,
			PowerKW:      st.Power / 1000,
			FuelLiters:   st.Fuel / physics.FuelDensity,
		}
	}
	return out
}

// OperatingPoint locates one step on the engine map.
type OperatingPoint struct {
	Time             float64 `json:"time_s"`
	RPM              float64 `json:"rpm"`
	Torque           float64 `json:"torque_nm"`
	InstantLPer100km float64 `json:"instant_l_per_100km"`
}

// OperatingPoints recovers engine speed and delivered torque for every
// history entry. Torque is derived from power and is zero whenever the engine
// delivers no power.
func OperatingPoints(history []model.SimulationState, cfg model.VehicleConfig, dt float64) []OperatingPoint {
	out := make([]OperatingPoint, len(history))
	for i, st := range history {
		omega := physics.EngineAngularSpeed(st.Velocity, cfg.WheelRadius, cfg.TransmissionRatio)
		p := OperatingPoint{Time: float64(i) * dt, RPM: physics.RPM(omega)}
		if omega > 0 && st.Power > 0 {
			p.Torque = st.Power / omega
		}
		p.InstantLPer100km = InstantConsumption(st.Velocity, st.Power, cfg.BSFC)
		out[i] = p
	}
	return out
}

// ActiveOperatingPoints keeps the points where the engine turns above idle
// and delivers torque.
func ActiveOperatingPoints(points []OperatingPoint) []OperatingPoint {
	var out []OperatingPoint
	for _, p := range points {
		if p.RPM > activeRPM && p.Torque > 0 {
			out = append(out, p)
		}
	}
	return out
}

// InstantConsumption returns the instantaneous fuel economy in L/100km at
// speed v (m/s) and power (W). It is zero below walking pace or without
// power and capped for readability.
func InstantConsumption(v, power, bsfc float64) float64 {
	speed := math.Abs(v)
	if speed <= minInstantSpeed || power <= 0 {
		return 0
	}
	litersPerSecond := physics.FuelRate(power, bsfc) / 3600 / physics.FuelDensity
	kmPerSecond := speed / 1000
	return math.Min(litersPerSecond/kmPerSecond*100, instantCapLPer100km)
}
