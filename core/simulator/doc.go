// Package simulator advances a single vehicle through discrete time steps.
//
// A Simulator owns an immutable VehicleConfig and the evolving state. Each
// call to Step applies one driver action: resistive forces are evaluated at
// the pre-step velocity, traction is limited by the torque map and the power
// ceiling, velocity is integrated with forward Euler and clamped to the
// configured maximum, and braking never reverses the direction of travel.
// Every committed state is appended to an in-memory history.
//
// A Simulator is not safe for concurrent use. Evaluate scenarios in parallel
// with one Simulator per goroutine.
package simulator
