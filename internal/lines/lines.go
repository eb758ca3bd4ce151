// Package lines generates astrocartography line loci: the geographic
// curves where a body occupies a local angle, and the aspect variants
// where a body's ecliptic longitude is offset from a local angle's by a
// fixed aspect.
package lines

import (
	"math"

	"github.com/litescript/astromap/internal/astro"
)

// LocusKind describes the geometric shape of a locus.
type LocusKind int

const (
	// KindMeridian is a single constant longitude, valid at every
	// latitude.
	KindMeridian LocusKind = iota
	// KindCurve is a sampled (longitude, latitude) curve, possibly split
	// into segments where the crossing does not exist.
	KindCurve
)

// Point is a geographic position in radians, longitude east-positive in
// (−π, π].
type Point struct {
	Lon float64
	Lat float64
}

// Segment is a contiguous run of curve samples.
type Segment []Point

// Locus is one generated line.
type Locus struct {
	Kind      LocusKind
	Longitude float64   // KindMeridian only
	Segments  []Segment // KindCurve only
}

// GridConfig bounds curve sampling and contour extraction. Resolution and
// refinement tolerance are explicit parameters: the accuracy/performance
// trade-off belongs to the caller, not to hard-coded constants.
type GridConfig struct {
	LonStep    float64 // longitude sample step, radians
	LatStep    float64 // contour grid latitude step, radians
	PolarGuard float64 // maximum |latitude|, radians
	RefineTol  float64 // bisection refinement tolerance, radians
	Orb        float64 // aspect orb tolerance Δ, radians
}

// DefaultGridConfig returns a 0.5° grid refined to sub-arcminute
// precision with a 1° orb.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		LonStep:    astro.DegToRad(0.5),
		LatStep:    astro.DegToRad(0.5),
		PolarGuard: astro.DegToRad(89.999),
		RefineTol:  astro.DegToRad(1.0 / 120), // 0.5 arcminute
		Orb:        astro.DegToRad(1),
	}
}

// Aspect angles, radians.
var (
	AspectConjunction = 0.0
	AspectSextile     = math.Pi / 3
	AspectSquare      = math.Pi / 2
	AspectTrine       = 2 * math.Pi / 3
	AspectOpposition  = math.Pi
)

// AspectName returns the traditional name for an aspect angle, matching
// on the absolute value.
func AspectName(theta float64) string {
	switch math.Abs(theta) {
	case AspectConjunction:
		return "conjunction"
	case AspectSextile:
		return "sextile"
	case AspectSquare:
		return "square"
	case AspectTrine:
		return "trine"
	case AspectOpposition:
		return "opposition"
	default:
		return "aspect"
	}
}
