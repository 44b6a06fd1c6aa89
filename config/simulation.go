package config

import "fmt"

// DefaultTimeStepSeconds is the integration step used when none is configured.
const DefaultTimeStepSeconds = 1.0

// SimulationConfig defines how scenarios are run.
type SimulationConfig struct {
	// TimeStepSeconds is the fixed integration step.
	TimeStepSeconds float64 `json:"time_step_seconds"`
	// Scenarios lists builtin scenario names or YAML script paths.
	Scenarios []string `json:"scenarios"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.TimeStepSeconds == 0 {
		c.TimeStepSeconds = DefaultTimeStepSeconds
	}
	if len(c.Scenarios) == 0 {
		c.Scenarios = []string{"urban"}
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.TimeStepSeconds <= 0 {
		return fmt.Errorf("time_step_seconds must be positive, got %v", c.TimeStepSeconds)
	}
	return nil
}
