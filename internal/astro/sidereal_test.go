package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "Known date 2024-01-01 00:00 UTC",
			time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2460310.5,
			tol:      0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestGreenwichSiderealTime(t *testing.T) {
	// At J2000 epoch GMST is approximately 280.46°.
	t2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	gst := GreenwichSiderealTime(t2000)

	if math.Abs(RadToDeg(gst)-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v°, want ~280.46°", RadToDeg(gst))
	}

	if gst < 0 || gst >= 2*math.Pi {
		t.Errorf("GMST out of [0, 2π): %v", gst)
	}

	// One sidereal day later GMST should come back to nearly the same value.
	sidereal := time.Duration(86164.0905 * float64(time.Second))
	gst2 := GreenwichSiderealTime(t2000.Add(sidereal))
	if math.Abs(WrapPlusMinusPi(gst2-gst)) > DegToRad(0.01) {
		t.Errorf("GMST after one sidereal day moved by %v°", RadToDeg(WrapPlusMinusPi(gst2-gst)))
	}
}

func TestMeanObliquity(t *testing.T) {
	// Obliquity stays near 23.4° across centuries.
	for _, year := range []int{1950, 2000, 2024, 2050} {
		ts := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
		eps := RadToDeg(MeanObliquity(ts))
		if eps < 23.3 || eps > 23.5 {
			t.Errorf("obliquity in %d = %v°, out of plausible range", year, eps)
		}
	}
}

func TestNutationInLongitude(t *testing.T) {
	// Nutation in longitude is bounded by about ±19 arcseconds.
	for m := 1; m <= 12; m++ {
		ts := time.Date(2024, time.Month(m), 15, 0, 0, 0, 0, time.UTC)
		dpsi := RadToDeg(NutationInLongitude(ts)) * 3600
		if math.Abs(dpsi) > 19 {
			t.Errorf("nutation at month %d = %v″, exceeds bound", m, dpsi)
		}
	}
}

func TestApparentSiderealTime(t *testing.T) {
	ts := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	gmst := GreenwichSiderealTime(ts)
	gast := ApparentSiderealTime(ts)

	// Equation of the equinoxes is tiny (< 1.2″ ≈ 6e-6 rad)
	diff := math.Abs(WrapPlusMinusPi(gast - gmst))
	if diff > 1e-4 {
		t.Errorf("GAST - GMST = %v rad, implausibly large", diff)
	}
	if gast < 0 || gast >= 2*math.Pi {
		t.Errorf("GAST out of [0, 2π): %v", gast)
	}
}
