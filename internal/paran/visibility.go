package paran

import (
	"math"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// VisibilityMode selects which bodies must be above the horizon for a
// solved paran to be accepted. Filtering never changes the solved
// latitude; it only accepts or rejects it.
type VisibilityMode int

const (
	// VisibilityAll applies no filter.
	VisibilityAll VisibilityMode = iota
	// VisibilityBoth requires both bodies above the horizon threshold at
	// the solved latitude.
	VisibilityBoth
	// VisibilityMeridianOnly requires only the meridian body (if any)
	// above the threshold.
	VisibilityMeridianOnly
)

// String returns the mode name used in flags and exports.
func (m VisibilityMode) String() string {
	switch m {
	case VisibilityAll:
		return "all"
	case VisibilityBoth:
		return "both_visible"
	case VisibilityMeridianOnly:
		return "meridian_visible_only"
	default:
		return "unknown"
	}
}

// ParseVisibilityMode parses a mode name. Unknown strings default to
// VisibilityAll.
func ParseVisibilityMode(s string) VisibilityMode {
	switch s {
	case "both_visible", "both":
		return VisibilityBoth
	case "meridian_visible_only", "meridian":
		return VisibilityMeridianOnly
	default:
		return VisibilityAll
	}
}

// HorizonThreshold is the altitude a body must exceed to count as visible:
// a constant refraction offset of −34 arcminutes, the standard horizon
// dip used for rise/set phenomena.
const HorizonThreshold = -0.00989019909463453 // −34′ in radians

// meridianAltitude returns the altitude of a body culminating at the given
// latitude: h_MC = π/2 − |φ − δ|, h_IC = −(π/2 − |φ + δ|).
func meridianAltitude(kind astro.AngleKind, phi, delta float64) float64 {
	if kind == astro.UpperCulm {
		return math.Pi/2 - math.Abs(phi-delta)
	}
	return -(math.Pi/2 - math.Abs(phi+delta))
}

// applyVisibility marks a solved result as filtered when the configured
// visibility constraint fails at the solved latitude.
func applyVisibility(b *ephemeris.Batch, q Query, res Result, mode VisibilityMode) Result {
	if mode == VisibilityAll || !res.OK || res.AllLatitudes {
		return res
	}

	phi := res.Latitude
	visible := func(body ephemeris.BodyID, kind astro.AngleKind) bool {
		pos, _ := b.Position(body)
		if kind.IsMeridian() {
			return meridianAltitude(kind, phi, pos.Delta) > HorizonThreshold
		}
		// A horizon body sits at h = 0 at its own event, which clears the
		// refraction threshold by construction; evaluate the identity
		// anyway so a future threshold above zero behaves consistently.
		g := astro.ClampUnit(-math.Tan(phi) * math.Tan(pos.Delta))
		h := kind.HorizonSign() * math.Acos(g)
		return astro.Altitude(phi, pos.Delta, h) > HorizonThreshold
	}

	switch mode {
	case VisibilityBoth:
		if !visible(q.BodyA, q.AngleA) || !visible(q.BodyB, q.AngleB) {
			res.Filtered = true
		}
	case VisibilityMeridianOnly:
		if q.AngleA.IsMeridian() && !visible(q.BodyA, q.AngleA) {
			res.Filtered = true
		}
		if q.AngleB.IsMeridian() && !visible(q.BodyB, q.AngleB) {
			res.Filtered = true
		}
	}
	return res
}
