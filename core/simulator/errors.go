package simulator

import (
	"errors"
	"fmt"

	"github.com/kilianp07/drivecycle/core/model"
)

var (
	// ErrInvalidConfiguration is matched by every *ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid vehicle configuration")

	// ErrInvalidAction is matched by every *InvalidActionError.
	ErrInvalidAction = errors.New("invalid action")
)

// ConfigurationError is returned by New when a parameter is outside its
// domain. The simulator is unusable until the configuration is fixed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// InvalidActionError is returned by Step for an action other than drive or
// brake. The simulator state is left untouched.
type InvalidActionError struct {
	Action model.Action
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("%v: %d (%s)", ErrInvalidAction, int(e.Action), e.Action)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }
