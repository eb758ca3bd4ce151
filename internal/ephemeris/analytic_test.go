package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/astromap/internal/astro"
)

func TestAnalyticSnapshotValidates(t *testing.T) {
	p := NewAnalyticProvider()
	b, err := p.Snapshot(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("snapshot failed validation: %v", err)
	}
	if len(b.Bodies()) != 10 {
		t.Errorf("expected 10 bodies, got %d", len(b.Bodies()))
	}
}

func TestSolarLongitudeAtEquinoxes(t *testing.T) {
	p := NewAnalyticProvider()

	tests := []struct {
		name     string
		time     time.Time
		expected float64 // degrees
	}{
		// Equinox/solstice instants for 2024 (UTC), good to a few minutes
		{"March equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0},
		{"June solstice", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), 90},
		{"September equinox", time.Date(2024, 9, 22, 12, 44, 0, 0, time.UTC), 180},
		{"December solstice", time.Date(2024, 12, 21, 9, 20, 0, 0, time.UTC), 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := p.Snapshot(tt.time)
			if err != nil {
				t.Fatalf("Snapshot() error: %v", err)
			}
			sun, _ := b.Position(Sun)
			got := astro.RadToDeg(sun.Lambda)
			diff := math.Abs(astro.RadToDeg(astro.WrapPlusMinusPi(sun.Lambda - astro.DegToRad(tt.expected))))
			if diff > 0.1 {
				t.Errorf("solar longitude = %v°, want ~%v°", got, tt.expected)
			}
		})
	}
}

func TestSunDeclinationBounds(t *testing.T) {
	p := &AnalyticProvider{Bodies: []BodyID{Sun}}

	// The Sun's declination never leaves ±obliquity.
	for m := 1; m <= 12; m++ {
		ts := time.Date(2024, time.Month(m), 10, 0, 0, 0, 0, time.UTC)
		b, err := p.Snapshot(ts)
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		sun, _ := b.Position(Sun)
		if math.Abs(sun.Delta) > astro.DegToRad(23.5) {
			t.Errorf("month %d: solar declination %v° out of bounds",
				m, astro.RadToDeg(sun.Delta))
		}
	}
}

func TestMoonLatitudeBounds(t *testing.T) {
	p := &AnalyticProvider{Bodies: []BodyID{Moon}}

	// Lunar ecliptic latitude stays within about ±5.3°.
	for d := 0; d < 30; d++ {
		ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
		b, err := p.Snapshot(ts)
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		moon, _ := b.Position(Moon)
		if math.Abs(moon.Beta) > astro.DegToRad(5.4) {
			t.Errorf("day %d: lunar latitude %v° out of bounds", d, astro.RadToDeg(moon.Beta))
		}
	}
}

func TestSolveKepler(t *testing.T) {
	tests := []struct {
		name string
		M    float64
		e    float64
	}{
		{"circular", 1.3, 0},
		{"low eccentricity", 0.75, 0.0167},
		{"mars-like", 2.5, 0.0934},
		{"pluto-like", -1.2, 0.2488},
		{"high eccentricity", 3.0, 0.95},
		{"high eccentricity negative", -2.8, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			E := solveKepler(tt.M, tt.e)
			// Substitute back into Kepler's equation
			if resid := math.Abs(E - tt.e*math.Sin(E) - tt.M); resid > 1e-10 {
				t.Errorf("solveKepler(%v, %v): residual %v", tt.M, tt.e, resid)
			}
		})
	}
}

func TestPlanetLongitudePlausible(t *testing.T) {
	p := NewAnalyticProvider()
	b, err := p.Snapshot(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}

	// Planets stay close to the ecliptic; Pluto is the outlier at ~17°.
	for _, id := range []BodyID{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune} {
		pos, ok := b.Position(id)
		if !ok {
			t.Fatalf("missing %s", id)
		}
		if math.Abs(pos.Beta) > astro.DegToRad(9) {
			t.Errorf("%s: ecliptic latitude %v° implausible", id, astro.RadToDeg(pos.Beta))
		}
	}
}
