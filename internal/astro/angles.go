// Package astro provides the angle algebra and sidereal-time math that the
// locus solvers are built on.
package astro

import "math"

// WrapTwoPi normalizes an angle to [0, 2π).
//
// A single Mod plus one boundary correction keeps the result exact at the
// boundary: WrapTwoPi(2π) is 0, not 2π−ulp, and repeated application does
// not drift. Callers must not pass NaN; the wrap functions are total over
// the reals and perform no input checking.
func WrapTwoPi(x float64) float64 {
	m := math.Mod(x, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}

// WrapPlusMinusPi normalizes an angle to (−π, π].
func WrapPlusMinusPi(x float64) float64 {
	m := math.Mod(x, 2*math.Pi)
	if m > math.Pi {
		m -= 2 * math.Pi
	} else if m <= -math.Pi {
		m += 2 * math.Pi
	}
	return m
}

// FoldHalfTurn folds an angle into [0, π] by reflection.
// cos(FoldHalfTurn(x)) == cos(x), which is the identity the hour-angle
// magnitude H₀ relies on.
func FoldHalfTurn(x float64) float64 {
	m := WrapTwoPi(x)
	if m > math.Pi {
		m = 2*math.Pi - m
	}
	return m
}

// ClampUnit bounds a value to [−1, 1]. Every inverse-trig argument in this
// module goes through ClampUnit first, so that round-off a few ulps outside
// the unit interval cannot produce NaN. Values far outside [−1, 1] indicate
// a domain violation upstream and must be screened by the caller before the
// clamp can hide them.
func ClampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Altitude returns the altitude h of a body with declination delta, seen
// from latitude phi at local hour angle H, via
//
//	sin h = sin φ sin δ + cos φ cos δ cos H
//
// All arguments and the result are in radians. Altitude is used for
// visibility checks only; the solvers never invert it.
func Altitude(phi, delta, H float64) float64 {
	sinH := math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Cos(H)
	return math.Asin(ClampUnit(sinH))
}

// AngleKind identifies one of the four local angles.
type AngleKind int

const (
	Rise       AngleKind = iota // ascendant: body crossing the horizon eastward
	Set                         // descendant: body crossing the horizon westward
	UpperCulm                   // MC: upper meridian transit, H = 0
	LowerCulm                   // IC: lower meridian transit, H = π
)

// String returns the conventional angle abbreviation.
func (k AngleKind) String() string {
	switch k {
	case Rise:
		return "ASC"
	case Set:
		return "DSC"
	case UpperCulm:
		return "MC"
	case LowerCulm:
		return "IC"
	default:
		return "?"
	}
}

// IsMeridian reports whether the angle fixes the hour angle to a constant.
func (k AngleKind) IsMeridian() bool {
	return k == UpperCulm || k == LowerCulm
}

// MeridianHourAngle returns the fixed hour angle for a meridian angle:
// 0 for upper culmination, π for lower. It is meaningless for horizon
// angles and returns 0 for them.
func (k AngleKind) MeridianHourAngle() float64 {
	if k == LowerCulm {
		return math.Pi
	}
	return 0
}

// HorizonSign returns the sign s of the horizon hour angle H = s·H₀:
// −1 for rising (east of meridian), +1 for setting. Zero for meridian
// angles.
func (k AngleKind) HorizonSign() float64 {
	switch k {
	case Rise:
		return -1
	case Set:
		return +1
	default:
		return 0
	}
}

// ParseAngleKind parses an angle abbreviation. Unknown strings default to
// Rise.
func ParseAngleKind(s string) AngleKind {
	switch s {
	case "ASC", "asc", "rise":
		return Rise
	case "DSC", "dsc", "set":
		return Set
	case "MC", "mc":
		return UpperCulm
	case "IC", "ic":
		return LowerCulm
	default:
		return Rise
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
