package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ljmd/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModePeriodic {
		t.Errorf("expected periodic mode, got %s", cfg.Mode)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Images != 27 {
		t.Errorf("expected 27 images, got %d", cfg.Images)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Params(500)

	if p.N != 500 || p.DOF != 1497 {
		t.Errorf("expected N=500 DOF=1497, got N=%d DOF=%d", p.N, p.DOF)
	}
	if !p.Periodic || p.RCut != 10 || p.BoxLength != 30 {
		t.Errorf("periodic settings not carried over: %+v", p)
	}
	if p.Constants != dynamo.DefaultConstants() {
		t.Error("expected default constants")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("params invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "classical" }},
		{"negative local", func(c *Config) { c.Local = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"too many images", func(c *Config) { c.Images = 28 }},
		{"negative steps", func(c *Config) { c.Steps = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("mode: bare\nsteps: 25\nthermostat_every: 5\ninput: particles.xyz\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Mode != ModeBare || cfg.Steps != 25 || cfg.ThermostatEvery != 5 {
		t.Errorf("fields not read: %+v", cfg)
	}
	if cfg.Input != "particles.xyz" {
		t.Errorf("expected input particles.xyz, got %s", cfg.Input)
	}
	if cfg.T0 != DefaultT0 {
		t.Errorf("expected default T0 to survive, got %f", cfg.T0)
	}
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	data := []byte("[run]\nmode = periodic\nsteps = 40\nr-cut = 8.5\nlog-every = 4\nlocal = 100\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Steps != 40 || cfg.RCut != 8.5 || cfg.LogEvery != 4 || cfg.Local != 100 {
		t.Errorf("fields not read: %+v", cfg)
	}
	if cfg.BoxLength != DefaultBoxLength {
		t.Errorf("expected default box length to survive, got %f", cfg.BoxLength)
	}
}

func TestLoadOverPreset(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(yamlPath, []byte("steps: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	iniPath := filepath.Join(dir, "run.ini")
	if err := os.WriteFile(iniPath, []byte("[run]\nsteps = 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		steps int
	}{
		{"yaml", yamlPath, 7},
		{"ini", iniPath, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := GetPreset("thermostat")
			cfg, err := LoadOver(tt.path, base)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if cfg.Steps != tt.steps {
				t.Errorf("expected steps %d from file, got %d", tt.steps, cfg.Steps)
			}
			if cfg.ThermostatEvery != base.ThermostatEvery || cfg.LogEvery != base.LogEvery {
				t.Errorf("preset values lost: %+v", cfg)
			}
			if base.Steps == tt.steps {
				t.Error("base config was modified")
			}
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("mode: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("thermostat")
	cfg.Input = "water.xyz"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bare")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Periodic() {
		t.Error("bare preset should not be periodic")
	}

	cfg.Steps = 9999
	if GetPreset("bare").Steps == 9999 {
		t.Error("GetPreset should return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"bare", "default", "long", "short", "thermostat"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
			break
		}
	}
}
