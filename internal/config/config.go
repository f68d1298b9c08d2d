package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ljmd/internal/dynamo"
)

const (
	DefaultSteps           = 10
	DefaultDt              = 1.0
	DefaultT0              = 300.0
	DefaultGamma           = 0.01
	DefaultThermostatEvery = 0
	DefaultLogEvery        = 10
	DefaultBoxLength       = 30.0
	DefaultRCut            = 10.0
	DefaultImages          = 27
	DefaultTolerance       = 1.0e-7
	DefaultSeed            = 42
)

const (
	ModeBare     = "bare"
	ModePeriodic = "periodic"
)

// Config is a run description as read from a YAML or INI file. The INI form
// keeps every variable under a single [run] section.
type Config struct {
	Input           string  `yaml:"input" gcfg:"input"`
	Local           int     `yaml:"local" gcfg:"local"`
	Mode            string  `yaml:"mode" gcfg:"mode"`
	Steps           int     `yaml:"steps" gcfg:"steps"`
	Dt              float64 `yaml:"dt" gcfg:"dt"`
	T0              float64 `yaml:"t0" gcfg:"t0"`
	Gamma           float64 `yaml:"gamma" gcfg:"gamma"`
	ThermostatEvery int     `yaml:"thermostat_every" gcfg:"thermostat-every"`
	LogEvery        int     `yaml:"log_every" gcfg:"log-every"`
	BoxLength       float64 `yaml:"box_length" gcfg:"box-length"`
	RCut            float64 `yaml:"r_cut" gcfg:"r-cut"`
	Images          int     `yaml:"images" gcfg:"images"`
	Tolerance       float64 `yaml:"tolerance" gcfg:"tolerance"`
	Seed            int64   `yaml:"seed" gcfg:"seed"`
	Trajectory      string  `yaml:"trajectory" gcfg:"trajectory"`
	ValidateState   bool    `yaml:"validate" gcfg:"validate"`
}

type iniFile struct {
	Run Config
}

func DefaultConfig() *Config {
	return &Config{
		Mode:            ModePeriodic,
		Steps:           DefaultSteps,
		Dt:              DefaultDt,
		T0:              DefaultT0,
		Gamma:           DefaultGamma,
		ThermostatEvery: DefaultThermostatEvery,
		LogEvery:        DefaultLogEvery,
		BoxLength:       DefaultBoxLength,
		RCut:            DefaultRCut,
		Images:          DefaultImages,
		Tolerance:       DefaultTolerance,
		Seed:            DefaultSeed,
		ValidateState:   true,
	}
}

// Load reads a configuration over the defaults. Files ending in .ini or
// .gcfg are parsed as INI, anything else as YAML.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a configuration file on top of base, typically a preset.
// Keys missing from the file keep the base values; base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	cfg := new(Config)
	*cfg = *base

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		f := iniFile{Run: *cfg}
		if err := gcfg.ReadFileInto(&f, path); err != nil {
			return nil, err
		}
		*cfg = f.Run
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Periodic() bool { return c.Mode == ModePeriodic }

// Validate checks the fields that do not depend on the particle count.
func (c *Config) Validate() error {
	if c.Mode != ModeBare && c.Mode != ModePeriodic {
		return fmt.Errorf("%w: unknown mode %q", dynamo.ErrParameterBounds, c.Mode)
	}
	if c.Local < 0 {
		return fmt.Errorf("%w: local count must not be negative, got %d", dynamo.ErrParameterBounds, c.Local)
	}
	return c.Params(2).Validate()
}

// Params builds the immutable run parameters for n particles.
func (c *Config) Params(n int) dynamo.Params {
	return dynamo.Params{
		N:               n,
		DOF:             dynamo.DegreesOfFreedom(n),
		BoxLength:       c.BoxLength,
		RCut:            c.RCut,
		Dt:              c.Dt,
		T0:              c.T0,
		Gamma:           c.Gamma,
		Steps:           c.Steps,
		ThermostatEvery: c.ThermostatEvery,
		LogEvery:        c.LogEvery,
		Images:          c.Images,
		Periodic:        c.Periodic(),
		Tolerance:       c.Tolerance,
		Seed:            c.Seed,
		ValidateState:   c.ValidateState,
		Constants:       dynamo.DefaultConstants(),
	}
}
