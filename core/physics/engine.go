package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/kilianp07/drivecycle/core/model"
)

// EngineAngularSpeed returns the engine speed in rad/s for a vehicle speed.
// The magnitude of speed is used so reversing never yields a negative speed.
func EngineAngularSpeed(speed, wheelRadius, transmissionRatio float64) float64 {
	return math.Abs(speed) / wheelRadius * transmissionRatio
}

// RPM converts an angular speed in rad/s to revolutions per minute.
func RPM(omega float64) float64 {
	return omega * 60 / (2 * math.Pi)
}

// AngularSpeed converts revolutions per minute to rad/s.
func AngularSpeed(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}

// MechanicalPower returns torque·omega in W.
func MechanicalPower(torque, omega float64) float64 {
	return torque * omega
}

// TorqueCurve interpolates a full-load torque map. Queries outside the
// sampled range return the torque of the nearest end sample.
type TorqueCurve struct {
	minRPM, maxRPM       float64
	minTorque, maxTorque float64
	pl                   interp.PiecewiseLinear
}

// NewTorqueCurve fits a piecewise-linear curve through points, which must
// hold at least two samples in strictly increasing RPM order.
func NewTorqueCurve(points []model.TorquePoint) (*TorqueCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("torque curve needs at least 2 samples, got %d", len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if i > 0 && p.RPM <= points[i-1].RPM {
			return nil, fmt.Errorf("torque curve rpm not strictly increasing at sample %d", i)
		}
		xs[i] = p.RPM
		ys[i] = p.Torque
	}
	c := &TorqueCurve{
		minRPM:    xs[0],
		maxRPM:    xs[len(xs)-1],
		minTorque: ys[0],
		maxTorque: ys[len(ys)-1],
	}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fit torque curve: %w", err)
	}
	return c, nil
}

// Torque returns the available torque at rpm.
func (c *TorqueCurve) Torque(rpm float64) float64 {
	if rpm <= c.minRPM {
		return c.minTorque
	}
	if rpm >= c.maxRPM {
		return c.maxTorque
	}
	return c.pl.Predict(rpm)
}

// InterpolatedTorque is the one-shot form of TorqueCurve.Torque.
func InterpolatedTorque(points []model.TorquePoint, rpm float64) (float64, error) {
	c, err := NewTorqueCurve(points)
	if err != nil {
		return 0, err
	}
	return c.Torque(rpm), nil
}
