package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Gravity is the standard gravitational acceleration in m/s².
const Gravity = 9.81

// AeroDrag returns the aerodynamic drag magnitude 0.5·ρ·A·Cd·v².
func AeroDrag(density, dragCoeff, area, v float64) float64 {
	return 0.5 * density * area * dragCoeff * v * v
}

// RollingResistance returns the constant rolling resistance magnitude c·m·g.
func RollingResistance(coeff, mass, g float64) float64 {
	return coeff * mass * g
}

// GradeForce returns the along-slope component of gravity. It is positive
// on an uphill grade.
func GradeForce(mass, g, angle float64) float64 {
	return mass * g * math.Sin(angle)
}

// BrakeForce returns the maximum braking force for a deceleration
// expressed as a fraction of g.
func BrakeForce(fraction, mass, g float64) float64 {
	return fraction * mass * g
}

// SumForces returns the algebraic sum of signed force components.
func SumForces(forces ...float64) float64 {
	return floats.Sum(forces)
}

// Acceleration returns netForce / mass.
func Acceleration(mass, netForce float64) float64 {
	return netForce / mass
}
