package physics

// IntegrateVelocity advances v by one explicit Euler step.
func IntegrateVelocity(v, a, dt float64) float64 {
	return v + a*dt
}

// IntegratePosition advances x by one explicit Euler step.
func IntegratePosition(x, v, dt float64) float64 {
	return x + v*dt
}

// Clamp limits v to [-limit, limit].
func Clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
