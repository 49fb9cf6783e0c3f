package config

import (
	_ "embed"

	"github.com/vovakirdan/deep-stoker/internal/core"
)

//go:embed defaults/stoker.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/stoker.yaml.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			TickMillis: 500,
		},
		Shifts: []ShiftPreset{
			{ID: "quick", Title: "Quick Shift", Duration: 180, Difficulty: 1.0},
			{ID: "standard", Title: "Standard Shift", Duration: 300, Difficulty: 1.5},
			{ID: "deep", Title: "Deep Shift", Duration: 600, Difficulty: 3.0},
		},
		Controls: ControlsConfig{
			Vent:      core.Band{Min: 30, Max: 50},
			Coolant:   core.Band{Min: 40, Max: 60},
			Magnetics: core.Band{Min: 35, Max: 55},
			Step:      5,
		},
		Storage: StorageConfig{
			Path: "~/.stoker/stoker.db",
		},
		Server: ServerConfig{
			SSHAddr:     ":2323",
			HTTPAddr:    ":8080",
			HostKeyPath: ".ssh/stoker_ed25519",
			IdleMinutes: 15,
		},
	}
}

// DefaultYAML returns the embedded default document.
func DefaultYAML() []byte {
	return defaultYAML
}
