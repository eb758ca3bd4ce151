package astro

import (
	"math"
	"time"
)

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January/February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// GreenwichSiderealTime returns the Greenwich mean sidereal time in radians,
// normalized to [0, 2π). Uses the IAU 1982 polynomial in Julian centuries
// from J2000.0.
func GreenwichSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmstDeg := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return WrapTwoPi(DegToRad(gmstDeg))
}

// MeanObliquity returns the mean obliquity of the ecliptic in radians for
// the given time (IAU 1980 polynomial).
func MeanObliquity(t time.Time) float64 {
	T := (JulianDate(t) - 2451545.0) / 36525.0
	epsDeg := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	return DegToRad(epsDeg)
}

// NutationInLongitude returns an approximation of the nutation in ecliptic
// longitude Δψ in radians, keeping the two dominant IAU 1980 terms (lunar
// node and solar). Good to ~0.5″, which is well inside the line widths this
// module draws.
func NutationInLongitude(t time.Time) float64 {
	T := (JulianDate(t) - 2451545.0) / 36525.0

	// Longitude of the Moon's ascending node
	omega := DegToRad(125.04452 - 1934.136261*T)
	// Mean longitude of the Sun
	ls := DegToRad(280.4665 + 36000.7698*T)

	dpsiArcsec := -17.20*math.Sin(omega) - 1.32*math.Sin(2*ls)
	return DegToRad(dpsiArcsec / 3600)
}

// ApparentSiderealTime returns the Greenwich apparent sidereal time in
// radians: GMST corrected by the equation of the equinoxes.
func ApparentSiderealTime(t time.Time) float64 {
	eps := MeanObliquity(t)
	return WrapTwoPi(GreenwichSiderealTime(t) + NutationInLongitude(t)*math.Cos(eps))
}
