package core

import "testing"

func TestBandContains(t *testing.T) {
	b := Band{Min: 40, Max: 60}
	tests := []struct {
		name     string
		value    float64
		expected bool
	}{
		{"below", 39.9, false},
		{"lower edge", 40, true},
		{"middle", 50, true},
		{"upper edge", 60, true},
		{"above", 60.1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.value); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestBandValid(t *testing.T) {
	tests := []struct {
		band     Band
		expected bool
	}{
		{Band{30, 50}, true},
		{Band{50, 50}, true},
		{Band{0, 100}, true},
		{Band{60, 40}, false},
		{Band{-1, 20}, false},
		{Band{20, 101}, false},
	}

	for _, tc := range tests {
		if got := tc.band.Valid(); got != tc.expected {
			t.Errorf("%+v.Valid() = %v, expected %v", tc.band, got, tc.expected)
		}
	}

	if mid := (Band{Min: 35, Max: 55}).Mid(); mid != 45 {
		t.Errorf("Mid() = %v, expected 45", mid)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}

	if got := ClampF(112.5, 0, 100); got != 100 {
		t.Errorf("ClampF(112.5, 0, 100) = %v, expected 100", got)
	}
	if got := ClampF(-0.5, 0, 100); got != 0 {
		t.Errorf("ClampF(-0.5, 0, 100) = %v, expected 0", got)
	}
}
