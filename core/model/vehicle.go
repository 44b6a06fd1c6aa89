package model

import (
	"fmt"
	"math"
)

// TorquePoint is one sample of the engine full-load curve.
type TorquePoint struct {
	RPM    float64 `json:"rpm"`
	Torque float64 `json:"torque"` // Nm
}

// VehicleConfig holds the immutable parameters of a simulated road vehicle.
type VehicleConfig struct {
	DragCoefficient   float64 `json:"drag_coefficient"`
	AirDensity        float64 `json:"air_density"`  // kg/m³
	FrontalArea       float64 `json:"frontal_area"` // m²
	RollCoefficient   float64 `json:"roll_coefficient"`
	Mass              float64 `json:"mass"`       // kg
	RoadAngle         float64 `json:"road_angle"` // rad, positive uphill
	TransmissionRatio float64 `json:"transmission_ratio"`
	WheelRadius       float64 `json:"wheel_radius"` // m
	MaxPower          float64 `json:"max_power"`    // W
	MaxSpeed          float64 `json:"max_speed"`    // m/s
	BSFC              float64 `json:"bsfc"`         // kg/kWh

	// TorqueMap is the full-load torque curve, strictly increasing in RPM.
	TorqueMap []TorquePoint `json:"torque_map"`
}

// DefaultTorqueMap returns the full-load curve of the reference sedan engine.
func DefaultTorqueMap() []TorquePoint {
	return []TorquePoint{
		{RPM: 800, Torque: 350},
		{RPM: 1500, Torque: 520},
		{RPM: 2500, Torque: 650},
		{RPM: 3500, Torque: 700},
		{RPM: 4500, Torque: 700},
		{RPM: 5500, Torque: 620},
		{RPM: 6500, Torque: 520},
	}
}

// DefaultVehicle returns the reference sedan used by the urban cycle.
func DefaultVehicle() VehicleConfig {
	return VehicleConfig{
		DragCoefficient:   0.38,
		AirDensity:        1.225,
		FrontalArea:       2.29,
		RollCoefficient:   0.012,
		Mass:              1843,
		RoadAngle:         0,
		TransmissionRatio: 3.5,
		WheelRadius:       0.345,
		MaxPower:          331000,
		MaxSpeed:          66.66,
		BSFC:              0.280,
		TorqueMap:         DefaultTorqueMap(),
	}
}

// Clone returns a deep copy so the torque map is never shared between owners.
func (c VehicleConfig) Clone() VehicleConfig {
	out := c
	out.TorqueMap = append([]TorquePoint(nil), c.TorqueMap...)
	return out
}

// FieldError reports the first configuration field outside its domain.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every parameter against its physical domain.
func (c VehicleConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"drag_coefficient", c.DragCoefficient},
		{"air_density", c.AirDensity},
		{"frontal_area", c.FrontalArea},
		{"roll_coefficient", c.RollCoefficient},
	}
	for _, p := range nonNegative {
		if !finite(p.v) || p.v < 0 {
			return fieldErr(p.name, "must be a non-negative number, got %v", p.v)
		}
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"mass", c.Mass},
		{"transmission_ratio", c.TransmissionRatio},
		{"wheel_radius", c.WheelRadius},
		{"max_power", c.MaxPower},
		{"max_speed", c.MaxSpeed},
		{"bsfc", c.BSFC},
	}
	for _, p := range positive {
		if !finite(p.v) || p.v <= 0 {
			return fieldErr(p.name, "must be positive, got %v", p.v)
		}
	}
	if !finite(c.RoadAngle) {
		return fieldErr("road_angle", "must be finite, got %v", c.RoadAngle)
	}
	if len(c.TorqueMap) < 2 {
		return fieldErr("torque_map", "needs at least 2 samples, got %d", len(c.TorqueMap))
	}
	for i, p := range c.TorqueMap {
		if !finite(p.RPM) || !finite(p.Torque) {
			return fieldErr("torque_map", "sample %d is not finite", i)
		}
		if i > 0 && p.RPM <= c.TorqueMap[i-1].RPM {
			return fieldErr("torque_map", "rpm not strictly increasing at sample %d (%v after %v)", i, p.RPM, c.TorqueMap[i-1].RPM)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
