package astro

import (
	"math"
	"testing"
)

func TestWrapTwoPi(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"zero", 0, 0},
		{"identity", 1.5, 1.5},
		{"exact full turn", 2 * math.Pi, 0},
		{"exact negative turn", -2 * math.Pi, 0},
		{"negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"multiple turns", 5 * math.Pi, math.Pi},
		{"negative multiple", -5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapTwoPi(tt.input)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("WrapTwoPi(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("WrapTwoPi(%v) = %v out of [0, 2π)", tt.input, got)
			}
		})
	}
}

func TestWrapPlusMinusPi(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"zero", 0, 0},
		{"pi stays pi", math.Pi, math.Pi},
		{"minus pi maps to pi", -math.Pi, math.Pi},
		{"just over pi", math.Pi + 0.25, -math.Pi + 0.25},
		{"just under minus pi", -math.Pi - 0.25, math.Pi - 0.25},
		{"three pi", 3 * math.Pi, math.Pi},
		{"small negative", -0.5, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapPlusMinusPi(tt.input)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("WrapPlusMinusPi(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			if got <= -math.Pi || got > math.Pi {
				t.Errorf("WrapPlusMinusPi(%v) = %v out of (−π, π]", tt.input, got)
			}
		})
	}
}

func TestFoldHalfTurn(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{math.Pi / 3, math.Pi / 3},
		{-math.Pi / 3, math.Pi / 3},
		{3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
	}

	for _, tt := range tests {
		got := FoldHalfTurn(tt.input)
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("FoldHalfTurn(%v) = %v, want %v", tt.input, got, tt.expected)
		}
		// The fold must preserve the cosine
		if math.Abs(math.Cos(got)-math.Cos(tt.input)) > 1e-12 {
			t.Errorf("FoldHalfTurn(%v) does not preserve cos", tt.input)
		}
	}
}

func TestWrapNoDriftAcrossRepeatedCalls(t *testing.T) {
	x := 1.2345
	for i := 0; i < 1000; i++ {
		x = WrapPlusMinusPi(x)
	}
	if x != 1.2345 {
		t.Errorf("repeated WrapPlusMinusPi drifted: got %v, want 1.2345", x)
	}

	y := WrapTwoPi(4.5)
	for i := 0; i < 1000; i++ {
		y = WrapTwoPi(y)
	}
	if y != WrapTwoPi(4.5) {
		t.Errorf("repeated WrapTwoPi drifted: got %v", y)
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},
		{1, 1},
		{-1, -1},
		{1 + 1e-15, 1},
		{-1 - 1e-15, -1},
		{3, 1},
		{-3, -1},
	}

	for _, tt := range tests {
		if got := ClampUnit(tt.input); got != tt.expected {
			t.Errorf("ClampUnit(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestAltitude(t *testing.T) {
	tests := []struct {
		name     string
		phi      float64
		delta    float64
		H        float64
		expected float64
		tol      float64
	}{
		{
			name:     "zenith: delta equals phi on meridian",
			phi:      0.6,
			delta:    0.6,
			H:        0,
			expected: math.Pi / 2,
			tol:      1e-12,
		},
		{
			name:     "upper transit altitude is 90 - |phi - delta|",
			phi:      0.8,
			delta:    0.2,
			H:        0,
			expected: math.Pi/2 - 0.6,
			tol:      1e-12,
		},
		{
			name:     "equatorial body on horizon at H=90",
			phi:      0.7,
			delta:    0,
			H:        math.Pi / 2,
			expected: 0,
			tol:      1e-12,
		},
		{
			name:     "lower transit altitude is -(90 - |phi + delta|)",
			phi:      0.5,
			delta:    0.3,
			H:        math.Pi,
			expected: -(math.Pi/2 - 0.8),
			tol:      1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Altitude(tt.phi, tt.delta, tt.H)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("Altitude(%v, %v, %v) = %v, want %v",
					tt.phi, tt.delta, tt.H, got, tt.expected)
			}
		})
	}
}

func TestAngleKind(t *testing.T) {
	if !UpperCulm.IsMeridian() || !LowerCulm.IsMeridian() {
		t.Error("culmination kinds must be meridian angles")
	}
	if Rise.IsMeridian() || Set.IsMeridian() {
		t.Error("horizon kinds must not be meridian angles")
	}
	if UpperCulm.MeridianHourAngle() != 0 {
		t.Errorf("MC hour angle = %v, want 0", UpperCulm.MeridianHourAngle())
	}
	if LowerCulm.MeridianHourAngle() != math.Pi {
		t.Errorf("IC hour angle = %v, want π", LowerCulm.MeridianHourAngle())
	}
	if Rise.HorizonSign() != -1 || Set.HorizonSign() != 1 {
		t.Error("horizon signs must be −1 for rise, +1 for set")
	}

	for _, k := range []AngleKind{Rise, Set, UpperCulm, LowerCulm} {
		if ParseAngleKind(k.String()) != k {
			t.Errorf("ParseAngleKind(%q) does not round-trip", k.String())
		}
	}
}
