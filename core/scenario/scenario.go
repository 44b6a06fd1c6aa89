// Package scenario scripts the driver actions fed to a simulator. A scenario
// is a list of segments, each repeating one action for a number of steps.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/drivecycle/core/model"
)

// Segment repeats one action for Steps consecutive steps.
type Segment struct {
	Label  string `yaml:"label,omitempty"`
	Action string `yaml:"action"`
	Steps  int    `yaml:"steps"`
}

// Scenario is a named driving cycle.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Segments    []Segment `yaml:"segments"`
}

// Load reads a scenario from a YAML file and validates it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks that every segment names a known action and a positive
// number of steps.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Segments) == 0 {
		return errors.New("at least one segment is required")
	}
	for i, seg := range s.Segments {
		if _, err := model.ParseAction(seg.Action); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if seg.Steps <= 0 {
			return fmt.Errorf("segment %d: steps must be positive, got %d", i, seg.Steps)
		}
	}
	return nil
}

// Actions expands the segments into one action per step.
func (s Scenario) Actions() ([]model.Action, error) {
	var out []model.Action
	for i, seg := range s.Segments {
		a, err := model.ParseAction(seg.Action)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		for n := 0; n < seg.Steps; n++ {
			out = append(out, a)
		}
	}
	return out, nil
}

// Steps returns the total number of steps of the scenario.
func (s Scenario) Steps() int {
	n := 0
	for _, seg := range s.Segments {
		n += seg.Steps
	}
	return n
}
