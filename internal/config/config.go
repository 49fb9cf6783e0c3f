// Package config provides YAML-based configuration loading for the reactor
// console: tick cadence, shift presets, control bands, storage and servers.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/deep-stoker/internal/core"
)

// Config is the full stoker.yaml document.
type Config struct {
	Engine   EngineConfig   `yaml:"engine" json:"engine"`
	Shifts   []ShiftPreset  `yaml:"shifts" json:"shifts"`
	Controls ControlsConfig `yaml:"controls" json:"controls"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Server   ServerConfig   `yaml:"server" json:"server"`
}

// EngineConfig tunes the simulation driver.
type EngineConfig struct {
	TickMillis int   `yaml:"tick_ms" json:"tick_ms" jsonschema:"minimum=1"`
	Seed       int64 `yaml:"seed" json:"seed"` // 0 = time-based
}

// TickInterval returns the driver cadence.
func (e EngineConfig) TickInterval() time.Duration {
	return time.Duration(e.TickMillis) * time.Millisecond
}

// ShiftPreset is a named shift length with its reward multiplier.
type ShiftPreset struct {
	ID         string  `yaml:"id" json:"id"`
	Title      string  `yaml:"title" json:"title"`
	Duration   float64 `yaml:"duration" json:"duration" jsonschema:"description=Shift length in seconds"`
	Difficulty float64 `yaml:"difficulty" json:"difficulty" jsonschema:"minimum=1"`
}

// ControlsConfig holds the optimal band of each slider.
type ControlsConfig struct {
	Vent      core.Band `yaml:"vent" json:"vent"`
	Coolant   core.Band `yaml:"coolant" json:"coolant"`
	Magnetics core.Band `yaml:"magnetics" json:"magnetics"`
	Step      float64   `yaml:"step" json:"step"` // slider movement per key press
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ServerConfig holds listener settings for `stoker serve`.
type ServerConfig struct {
	SSHAddr     string `yaml:"ssh_addr" json:"ssh_addr"`
	HTTPAddr    string `yaml:"http_addr" json:"http_addr"`
	HostKeyPath string `yaml:"host_key_path" json:"host_key_path"`
	IdleMinutes int    `yaml:"idle_minutes" json:"idle_minutes"`
}

// ErrUnknownShift is returned by Shift for an unknown preset ID.
var ErrUnknownShift = errors.New("unknown shift preset")

// Shift returns the preset with the given ID.
func (c Config) Shift(id string) (ShiftPreset, error) {
	for _, s := range c.Shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return ShiftPreset{}, fmt.Errorf("config: %w: %q", ErrUnknownShift, id)
}

// ShiftIDs returns the preset IDs in file order.
func (c Config) ShiftIDs() []string {
	ids := make([]string, len(c.Shifts))
	for i, s := range c.Shifts {
		ids[i] = s.ID
	}
	return ids
}

// Validate reports the first problem that would stop a shift from running.
func (c Config) Validate() error {
	if c.Engine.TickMillis <= 0 {
		return fmt.Errorf("config: engine.tick_ms must be positive, got %d", c.Engine.TickMillis)
	}
	if len(c.Shifts) == 0 {
		return errors.New("config: at least one shift preset is required")
	}
	seen := make(map[string]bool, len(c.Shifts))
	for _, s := range c.Shifts {
		if s.ID == "" {
			return errors.New("config: shift preset with empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("config: duplicate shift preset %q", s.ID)
		}
		seen[s.ID] = true
		if s.Duration <= 0 {
			return fmt.Errorf("config: shift %q: duration must be positive", s.ID)
		}
		if s.Difficulty < 1 {
			return fmt.Errorf("config: shift %q: difficulty must be >= 1", s.ID)
		}
	}
	for name, b := range map[string]core.Band{
		"vent":      c.Controls.Vent,
		"coolant":   c.Controls.Coolant,
		"magnetics": c.Controls.Magnetics,
	} {
		if !b.Valid() {
			return fmt.Errorf("config: controls.%s band [%g,%g] is invalid", name, b.Min, b.Max)
		}
	}
	if c.Controls.Step <= 0 {
		return errors.New("config: controls.step must be positive")
	}
	return nil
}
