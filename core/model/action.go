package model

import (
	"fmt"
	"strings"
)

// Action is the driver input applied during one simulation step.
type Action int

const (
	// ActionUnknown is the zero value and is never a valid input.
	ActionUnknown Action = iota
	ActionDrive
	ActionBrake
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case ActionDrive:
		return "drive"
	case ActionBrake:
		return "brake"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the two driver actions.
func (a Action) Valid() bool {
	return a == ActionDrive || a == ActionBrake
}

// ParseAction converts a script token into an Action. The legacy
// integer flags "1" (accelerate) and "0" (brake) are accepted.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drive", "accelerate", "1":
		return ActionDrive, nil
	case "brake", "0":
		return ActionBrake, nil
	default:
		return ActionUnknown, fmt.Errorf("unknown action %q", s)
	}
}
