// Package core provides platform types shared by the terminal, SSH and
// headless front ends: semantic actions, runtime settings and slider bands.
// It has no Bubble Tea dependency.
package core

// Band is an inclusive slider range, in percent.
type Band struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Valid reports whether the band is non-empty and inside [0, 100].
func (b Band) Valid() bool {
	return b.Min >= 0 && b.Max <= 100 && b.Min <= b.Max
}

// Mid returns the centre of the band.
func (b Band) Mid() float64 {
	return (b.Min + b.Max) / 2
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
