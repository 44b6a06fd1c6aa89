package scenario

import (
	"fmt"
	"os"
	"sort"
)

var builtins = map[string]func() Scenario{
	"urban": Urban,
}

// Urban is a 112 s city cycle with two traffic-light stops and a final stop.
func Urban() Scenario {
	return Scenario{
		Name:        "urban",
		Description: "city cycle: launch, cruise, red light, restart, stop, final stop",
		Segments: []Segment{
			{Label: "launch", Action: "drive", Steps: 15},
			{Label: "cruise 30 km/h", Action: "drive", Steps: 10},
			{Label: "red light", Action: "brake", Steps: 15},
			{Label: "restart", Action: "drive", Steps: 5},
			{Label: "cruise", Action: "drive", Steps: 12},
			{Label: "stop", Action: "brake", Steps: 15},
			{Label: "accelerate", Action: "drive", Steps: 10},
			{Label: "cruise", Action: "drive", Steps: 5},
			{Label: "final stop", Action: "brake", Steps: 25},
		},
	}
}

// Builtin returns the built-in scenario registered under name.
func Builtin(name string) (Scenario, bool) {
	f, ok := builtins[name]
	if !ok {
		return Scenario{}, false
	}
	return f(), true
}

// BuiltinNames lists the built-in scenarios in lexical order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the built-in scenario called ref or, failing that, loads
// ref as a YAML file.
func Resolve(ref string) (Scenario, error) {
	if sc, ok := Builtin(ref); ok {
		return sc, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return Scenario{}, fmt.Errorf("scenario %q is neither a builtin %v nor a readable file: %w", ref, BuiltinNames(), err)
	}
	sc, err := Load(ref)
	if err != nil {
		return Scenario{}, err
	}
	return *sc, nil
}
