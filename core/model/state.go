package model

// SimulationState is the vehicle state at the end of a step.
type SimulationState struct {
	Velocity     float64 `json:"velocity"`     // m/s, signed
	Position     float64 `json:"position"`     // m
	Acceleration float64 `json:"acceleration"` // m/s²
	Power        float64 `json:"power"`        // W, zero when braking
	Fuel         float64 `json:"fuel"`         // kg, cumulative
}

// Forces breaks down the longitudinal forces of a step. Resistive
// components are signed as applied to the vehicle.
type Forces struct {
	Wheel   float64 // traction or brake force at the wheel
	Aero    float64
	Rolling float64
	Grade   float64
	Net     float64
}

// StepEvent describes one committed step. It is published for observers
// such as trace loggers and metrics sinks.
type StepEvent struct {
	RunID  string
	Step   int     // zero-based index into the history
	Time   float64 // s, end of the step
	Action Action
	State  SimulationState
	Forces Forces
	RPM    float64
	Torque float64 // Nm delivered by the engine, zero when braking
}
