package paran

import (
	"context"
	"math"
	"testing"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

func TestEnumerateQueries(t *testing.T) {
	// Per unordered body pair: 8 meridian-horizon orderings, 4
	// horizon-horizon, 4 both-meridian.
	two := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 1, Delta: 0.1, Lambda: 1},
		ephemeris.BodyPosition{ID: ephemeris.Moon, Alpha: 2, Delta: 0.2, Lambda: 2},
	)
	if got := len(EnumerateQueries(two)); got != 16 {
		t.Errorf("2 bodies: %d queries, want 16", got)
	}

	three := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 1, Delta: 0.1, Lambda: 1},
		ephemeris.BodyPosition{ID: ephemeris.Moon, Alpha: 2, Delta: 0.2, Lambda: 2},
		ephemeris.BodyPosition{ID: ephemeris.Mars, Alpha: 3, Delta: -0.1, Lambda: 3},
	)
	if got := len(EnumerateQueries(three)); got != 48 {
		t.Errorf("3 bodies: %d queries, want 48", got)
	}
}

func TestEvaluateDegenerateSuppression(t *testing.T) {
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 1.0, Delta: 0.1, Lambda: 1},
		ephemeris.BodyPosition{ID: ephemeris.Moon, Alpha: 2.2, Delta: 0.2, Lambda: 2},
	)

	results, err := Evaluate(context.Background(), b, DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if len(results) != 16 {
		t.Fatalf("got %d results, want 16", len(results))
	}

	for _, r := range results {
		if r.Query.AngleA.IsMeridian() && r.Query.AngleB.IsMeridian() {
			if r.Result.Branch == BranchHorizonHorizon {
				t.Errorf("both-meridian pair %v reached the numeric solver", r.Query)
			}
			if r.Result.OK {
				t.Errorf("misaligned both-meridian pair %v should be degenerate", r.Query)
			}
			if r.Result.Reason != ReasonDegenerate {
				t.Errorf("both-meridian pair %v: reason %v, want degenerate", r.Query, r.Result.Reason)
			}
		}
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 2.123, Delta: 0.182, Lambda: 2.0},
		ephemeris.BodyPosition{ID: ephemeris.Mars, Alpha: 5.678, Delta: -0.321, Lambda: 5.6},
	)
	opts := DefaultOptions()
	opts.Workers = 4

	first, err := Evaluate(context.Background(), b, opts)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	second, err := Evaluate(context.Background(), b, opts)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEvaluateInvalidBatch(t *testing.T) {
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: math.NaN(), Delta: 0.1, Lambda: 1},
	)
	if _, err := Evaluate(context.Background(), b, DefaultOptions()); err == nil {
		t.Error("Evaluate must reject a batch that fails validation")
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 1.0, Delta: 0.1, Lambda: 1},
		ephemeris.BodyPosition{ID: ephemeris.Moon, Alpha: 2.2, Delta: 0.2, Lambda: 2},
		ephemeris.BodyPosition{ID: ephemeris.Mars, Alpha: 3.1, Delta: -0.2, Lambda: 3},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Evaluate(ctx, b, DefaultOptions())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	// A cancelled run returns whatever completed: a valid partial batch.
	if len(results) > 48 {
		t.Errorf("partial batch larger than the full enumeration: %d", len(results))
	}
}

func TestVisibilityMeridianOnly(t *testing.T) {
	// The IC altitude −(π/2 − |φ + δ|) is deeply negative at mid
	// latitudes, so meridian_visible_only must reject IC parans there
	// while keeping the solved latitude in the result.
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 2.123, Delta: 0.182, Lambda: 2.0},
		ephemeris.BodyPosition{ID: ephemeris.Mars, Alpha: 5.678, Delta: -0.321, Lambda: 5.6},
	)
	opts := DefaultOptions()
	opts.Visibility = VisibilityMeridianOnly

	results, err := Evaluate(context.Background(), b, opts)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	sawFiltered := false
	for _, r := range results {
		if !r.Result.OK {
			continue
		}
		meridianKind := astro.AngleKind(-1)
		var meridianBody ephemeris.BodyID
		switch {
		case r.Query.AngleA.IsMeridian():
			meridianKind, meridianBody = r.Query.AngleA, r.Query.BodyA
		case r.Query.AngleB.IsMeridian():
			meridianKind, meridianBody = r.Query.AngleB, r.Query.BodyB
		default:
			if r.Result.Filtered {
				t.Errorf("horizon-horizon pair %v filtered by meridian-only mode", r.Query)
			}
			continue
		}

		pos, _ := b.Position(meridianBody)
		h := meridianAltitude(meridianKind, r.Result.Latitude, pos.Delta)
		wantFiltered := h <= HorizonThreshold
		if r.Result.Filtered != wantFiltered {
			t.Errorf("%v: filtered = %v, want %v (h = %v)", r.Query, r.Result.Filtered, wantFiltered, h)
		}
		if r.Result.Filtered {
			sawFiltered = true
			if math.IsNaN(r.Result.Latitude) {
				t.Errorf("%v: filtering must keep the solved latitude", r.Query)
			}
		}
	}
	if !sawFiltered {
		t.Error("expected at least one IC paran to be filtered")
	}
}

func TestVisibilityZenithCase(t *testing.T) {
	// δ = φ puts the MC body at the zenith: h_MC = π/2. The filter must
	// accept it and must not move the solved latitude.
	b := batchFor(
		ephemeris.BodyPosition{ID: ephemeris.Sun, Alpha: 2.123, Delta: 0.182, Lambda: 2.0},
		ephemeris.BodyPosition{ID: ephemeris.Mars, Alpha: 5.678, Delta: -0.321, Lambda: 5.6},
	)
	q := Query{
		BodyA: ephemeris.Sun, AngleA: astro.UpperCulm,
		BodyB: ephemeris.Mars, AngleB: astro.Set,
	}
	cfg := DefaultConfig()

	unfiltered := Solve(b, q, cfg)
	if !unfiltered.OK {
		t.Fatalf("scenario should solve: %v", unfiltered.Reason)
	}

	if h := meridianAltitude(astro.UpperCulm, 0.182, 0.182); math.Abs(h-math.Pi/2) > 1e-12 {
		t.Errorf("zenith altitude = %v, want π/2", h)
	}

	filtered := applyVisibility(b, q, unfiltered, VisibilityMeridianOnly)
	if filtered.Latitude != unfiltered.Latitude {
		t.Error("visibility filtering changed the solved latitude")
	}
}

func TestParseVisibilityMode(t *testing.T) {
	tests := []struct {
		in   string
		want VisibilityMode
	}{
		{"all", VisibilityAll},
		{"both_visible", VisibilityBoth},
		{"meridian_visible_only", VisibilityMeridianOnly},
		{"nonsense", VisibilityAll},
	}
	for _, tt := range tests {
		if got := ParseVisibilityMode(tt.in); got != tt.want {
			t.Errorf("ParseVisibilityMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
