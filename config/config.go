package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/drivecycle/core/metrics"
	"github.com/kilianp07/drivecycle/core/model"
)

// EnvPrefix marks environment variables overriding file settings.
// Nested keys are separated by a double underscore, e.g. DC_VEHICLE__MASS.
const EnvPrefix = "DC_"

type Config struct {
	Vehicle    model.VehicleConfig `json:"vehicle"`
	Simulation SimulationConfig    `json:"simulation"`
	Metrics    metrics.Config      `json:"metrics"`
	Logging    LoggingConfig       `json:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Vehicle: model.DefaultVehicle()}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	if len(c.Vehicle.TorqueMap) == 0 {
		c.Vehicle.TorqueMap = model.DefaultTorqueMap()
	}
	c.Simulation.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Load reads a yaml or json file, applies DC_ environment overrides and
// validates the result. Vehicle fields absent from the file keep the values
// of the reference vehicle.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

// FromEnv builds a configuration from the defaults and DC_ environment
// overrides only.
func FromEnv() (*Config, error) {
	k := koanf.New(".")
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	cfg := Config{Vehicle: model.DefaultVehicle()}
	// the torque map is replaced as a whole rather than merged sample by sample
	cfg.Vehicle.TorqueMap = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
