package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAeroDrag(t *testing.T) {
	rho, area, cd := 1.225, 2.0, 0.3
	for _, v := range []float64{30, 15, 0, -20} {
		want := 0.5 * rho * area * cd * v * v
		assert.InDelta(t, want, AeroDrag(rho, cd, area, v), 1e-9, "v=%v", v)
	}
}

func TestAeroDragZeroSpeed(t *testing.T) {
	assert.Equal(t, 0.0, AeroDrag(1.225, 0.38, 2.29, 0))
}

func TestAeroDragSignInsensitive(t *testing.T) {
	for _, v := range []float64{0.1, 1, 13.9, 42, 66.66} {
		assert.Equal(t, AeroDrag(1.225, 0.38, 2.29, v), AeroDrag(1.225, 0.38, 2.29, -v))
	}
}

func TestRollingResistance(t *testing.T) {
	assert.InDelta(t, 0.012*1843*Gravity, RollingResistance(0.012, 1843, Gravity), 1e-9)
}

func TestGradeForce(t *testing.T) {
	assert.Equal(t, 0.0, GradeForce(1843, Gravity, 0))
	assert.Equal(t, 0.0, GradeForce(1, 1, 0))
	assert.InDelta(t, 1000*Gravity*math.Sin(0.1), GradeForce(1000, Gravity, 0.1), 1e-9)
	assert.Less(t, GradeForce(1000, Gravity, -0.1), 0.0)
}

func TestBrakeForce(t *testing.T) {
	assert.InDelta(t, 0.8*1843*Gravity, BrakeForce(0.8, 1843, Gravity), 1e-9)
}

func TestSumForcesAndAcceleration(t *testing.T) {
	net := SumForces(2536, -100, -216.96, 0)
	assert.InDelta(t, 2219.04, net, 1e-9)
	assert.Equal(t, 0.0, SumForces())
	assert.InDelta(t, 2.0, Acceleration(1000, 2000), 1e-12)
	assert.InDelta(t, -0.5, Acceleration(1000, -500), 1e-12)
}
