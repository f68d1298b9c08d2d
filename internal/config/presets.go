package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"bare": {
		Mode: ModeBare, Steps: 10, Dt: DefaultDt, T0: DefaultT0, Gamma: DefaultGamma,
		LogEvery: DefaultLogEvery, BoxLength: DefaultBoxLength, RCut: DefaultRCut,
		Images: DefaultImages, Tolerance: DefaultTolerance, Seed: DefaultSeed, ValidateState: true,
	},
	"short": {
		Mode: ModePeriodic, Steps: 3, Dt: DefaultDt, T0: DefaultT0, Gamma: DefaultGamma,
		LogEvery: 1, BoxLength: DefaultBoxLength, RCut: DefaultRCut,
		Images: DefaultImages, Tolerance: DefaultTolerance, Seed: DefaultSeed, ValidateState: true,
	},
	"long": {
		Mode: ModePeriodic, Steps: 1000, Dt: DefaultDt, T0: DefaultT0, Gamma: DefaultGamma,
		LogEvery: 100, BoxLength: DefaultBoxLength, RCut: DefaultRCut,
		Images: DefaultImages, Tolerance: DefaultTolerance, Seed: DefaultSeed, ValidateState: true,
	},
	"thermostat": {
		Mode: ModePeriodic, Steps: 100, Dt: DefaultDt, T0: DefaultT0, Gamma: DefaultGamma,
		ThermostatEvery: 10, LogEvery: 10, BoxLength: DefaultBoxLength, RCut: DefaultRCut,
		Images: DefaultImages, Tolerance: DefaultTolerance, Seed: DefaultSeed, ValidateState: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
