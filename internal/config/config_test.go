package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded yaml = %+v, expected Default() %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoker.yaml")
	doc := []byte("engine:\n  tick_ms: 250\nshifts:\n  - id: drill\n    title: Drill\n    duration: 30\n    difficulty: 1\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Engine.TickMillis != 250 {
		t.Errorf("TickMillis = %d, expected 250", cfg.Engine.TickMillis)
	}
	if got := cfg.ShiftIDs(); !reflect.DeepEqual(got, []string{"drill"}) {
		t.Errorf("ShiftIDs() = %v, expected [drill]", got)
	}
	// Untouched sections keep their defaults.
	if cfg.Controls != Default().Controls {
		t.Errorf("Controls = %+v, expected defaults", cfg.Controls)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) = nil error, expected error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("engine: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) = nil error, expected error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("engine:\n  tick_ms: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("Load(tick_ms 0) = nil error, expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick", func(c *Config) { c.Engine.TickMillis = 0 }},
		{"no shifts", func(c *Config) { c.Shifts = nil }},
		{"empty id", func(c *Config) { c.Shifts[0].ID = "" }},
		{"duplicate id", func(c *Config) { c.Shifts[1].ID = c.Shifts[0].ID }},
		{"zero duration", func(c *Config) { c.Shifts[0].Duration = 0 }},
		{"easy difficulty", func(c *Config) { c.Shifts[0].Difficulty = 0.5 }},
		{"inverted band", func(c *Config) { c.Controls.Coolant.Min, c.Controls.Coolant.Max = 60, 40 }},
		{"band out of range", func(c *Config) { c.Controls.Vent.Max = 120 }},
		{"zero step", func(c *Config) { c.Controls.Step = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestShiftLookup(t *testing.T) {
	cfg := Default()

	s, err := cfg.Shift("standard")
	if err != nil {
		t.Fatalf("Shift(standard) failed: %v", err)
	}
	if s.Duration != 300 || s.Difficulty != 1.5 {
		t.Errorf("standard = %+v, expected 300s x1.5", s)
	}

	if _, err := cfg.Shift("abyss"); !errors.Is(err, ErrUnknownShift) {
		t.Errorf("Shift(abyss) error = %v, expected ErrUnknownShift", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("round trip = %+v, expected Default()", cfg)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema() failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	defs, ok := doc["definitions"].(map[string]any)
	if !ok {
		defs, ok = doc["$defs"].(map[string]any)
	}
	if !ok {
		t.Fatalf("schema has no definitions: %s", data)
	}
	for _, name := range []string{"Config", "ShiftPreset", "ControlsConfig"} {
		if _, ok := defs[name]; !ok {
			t.Errorf("schema missing definition %s", name)
		}
	}
}
