package core

import "time"

// RuntimeConfig contains settings passed to a front end at start-up.
type RuntimeConfig struct {
	ScreenW      int           // Screen width in characters
	ScreenH      int           // Screen height in characters
	TickInterval time.Duration // Engine driver cadence
	Seed         int64         // RNG seed; 0 means use current time
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickInterval: 500 * time.Millisecond,
		Seed:         0, // 0 means use current time in platform layer
	}
}
