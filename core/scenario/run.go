package scenario

import (
	"context"
	"fmt"

	"github.com/kilianp07/drivecycle/core/model"
)

// Stepper is the part of the simulator a scenario drives.
type Stepper interface {
	Step(action model.Action) (model.SimulationState, error)
}

// Run applies actions in order and stops at the first error. The context is
// checked between steps.
func Run(ctx context.Context, sim Stepper, actions []model.Action) error {
	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := sim.Step(a); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}
