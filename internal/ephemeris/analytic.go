package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/astromap/internal/astro"
)

// AnalyticProvider computes body positions from built-in low-precision
// series: the Sun from a simplified solar ephemeris, the Moon from a
// truncated lunar longitude/latitude series, and the planets from J2000
// mean Keplerian elements propagated with Newton-Raphson Kepler solving.
// Accuracy is on the order of an arcminute, which is far below the width
// of any plotted line. Real charts should come from an external provider
// implementing the same interface.
type AnalyticProvider struct {
	// Bodies limits the snapshot to a subset; empty means all supported.
	Bodies []BodyID
}

// NewAnalyticProvider returns a provider covering all supported bodies.
func NewAnalyticProvider() *AnalyticProvider {
	return &AnalyticProvider{}
}

// Name returns the provider name for display/logging.
func (p *AnalyticProvider) Name() string { return "analytic" }

// Available returns true for every built-in body.
func (p *AnalyticProvider) Available(id BodyID) bool {
	_, ok := bodyNames[id]
	return ok
}

// Snapshot computes a validated batch for the instant.
func (p *AnalyticProvider) Snapshot(t time.Time) (*Batch, error) {
	inst := InstantAt(t)
	T := (astro.JulianDate(t) - 2451545.0) / 36525.0

	ids := p.Bodies
	if len(ids) == 0 {
		ids = []BodyID{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
	}

	bodies := make([]BodyPosition, 0, len(ids))
	for _, id := range ids {
		lam, beta, err := eclipticOfDate(id, T, inst.NutationLon)
		if err != nil {
			return nil, err
		}
		alpha, delta := eclipticToEquatorial(lam, beta, inst.Obliquity)
		bodies = append(bodies, BodyPosition{
			ID:     id,
			Alpha:  alpha,
			Delta:  delta,
			Lambda: lam,
			Beta:   beta,
		})
	}

	b := NewBatch(inst, bodies)
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("analytic snapshot: %w", err)
	}
	return b, nil
}

// eclipticToEquatorial converts of-date ecliptic longitude/latitude to
// right ascension and declination.
func eclipticToEquatorial(lam, beta, eps float64) (alpha, delta float64) {
	sinLam, cosLam := math.Sincos(lam)
	sinEps, cosEps := math.Sincos(eps)

	alpha = astro.WrapTwoPi(math.Atan2(sinLam*cosEps-math.Tan(beta)*sinEps, cosLam))
	delta = math.Asin(astro.ClampUnit(math.Sin(beta)*cosEps + math.Cos(beta)*sinEps*sinLam))
	return alpha, delta
}

// eclipticOfDate returns the geocentric apparent ecliptic longitude and
// latitude of a body, in radians, for Julian centuries T from J2000.
// nut is the nutation in longitude for the instant.
func eclipticOfDate(id BodyID, T, nut float64) (lam, beta float64, err error) {
	switch id {
	case Sun:
		// The solar series already yields the apparent longitude.
		lam = solarLongitude(T)
		return lam, 0, nil
	case Moon:
		lam, beta = lunarPosition(T)
		return astro.WrapTwoPi(lam + nut), beta, nil
	default:
		el, ok := planetElements[id]
		if !ok {
			return 0, 0, fmt.Errorf("analytic: unsupported body %s", id)
		}
		lam, beta = planetEcliptic(el, T)
		return astro.WrapTwoPi(lam + nut), beta, nil
	}
}

// solarLongitude returns the Sun's apparent ecliptic longitude in radians.
// Simplified series based on the Astronomical Almanac, including the
// aberration and nutation correction.
func solarLongitude(T float64) float64 {
	// Mean longitude and mean anomaly of the Sun (degrees)
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mrad := astro.DegToRad(M)

	// Equation of center (degrees)
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	// Apparent longitude: aberration plus the nutation term in omega
	omega := astro.DegToRad(125.04 - 1934.136*T)
	lonApp := L0 + C - 0.00569 - 0.00478*math.Sin(omega)

	return astro.WrapTwoPi(astro.DegToRad(lonApp))
}

// lunarPosition returns the Moon's ecliptic longitude and latitude in
// radians from the leading periodic terms of the lunar theory.
func lunarPosition(T float64) (lam, beta float64) {
	// Fundamental arguments (degrees)
	Lp := 218.3164477 + 481267.88123421*T // mean longitude
	D := 297.8501921 + 445267.1114034*T   // mean elongation
	M := 357.5291092 + 35999.0502909*T    // solar mean anomaly
	Mp := 134.9633964 + 477198.8675055*T  // lunar mean anomaly
	F := 93.2720950 + 483202.0175233*T    // argument of latitude

	d := astro.DegToRad(D)
	m := astro.DegToRad(M)
	mp := astro.DegToRad(Mp)
	f := astro.DegToRad(F)

	lonDeg := Lp +
		6.288774*math.Sin(mp) +
		1.274027*math.Sin(2*d-mp) +
		0.658314*math.Sin(2*d) +
		0.213618*math.Sin(2*mp) -
		0.185116*math.Sin(m) -
		0.114332*math.Sin(2*f)

	latDeg := 5.128122*math.Sin(f) +
		0.280602*math.Sin(mp+f) +
		0.277693*math.Sin(mp-f)

	return astro.WrapTwoPi(astro.DegToRad(lonDeg)), astro.DegToRad(latDeg)
}

// elements holds J2000 mean Keplerian elements and their per-century rates
// (Standish, valid 1800-2050): semi-major axis (AU), eccentricity,
// inclination, mean longitude, longitude of perihelion, longitude of the
// ascending node (degrees).
type elements struct {
	a, aDot      float64
	e, eDot      float64
	i, iDot      float64
	L, LDot      float64
	varpi, wDot  float64
	Omega, OmDot float64
}

var planetElements = map[BodyID]elements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// Earth-Moon barycenter elements, used to translate heliocentric positions
// to geocentric.
var earthElements = elements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// planetEcliptic returns the geocentric ecliptic longitude and latitude of
// a planet, referred to the mean equinox of date (precession applied;
// nutation is added by the caller).
func planetEcliptic(el elements, T float64) (lam, beta float64) {
	px, py, pz := heliocentric(el, T)
	ex, ey, ez := heliocentric(earthElements, T)

	gx, gy, gz := px-ex, py-ey, pz-ez

	lam = math.Atan2(gy, gx)
	beta = math.Atan2(gz, math.Hypot(gx, gy))

	// J2000 ecliptic to mean equinox of date: general precession in
	// longitude.
	lam = astro.WrapTwoPi(lam + astro.DegToRad(1.3969713*T))
	return lam, beta
}

// heliocentric returns the J2000 ecliptic heliocentric coordinates of a
// body (AU) from its mean elements at T centuries past J2000.
func heliocentric(el elements, T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	inc := astro.DegToRad(el.i + el.iDot*T)
	L := astro.DegToRad(el.L + el.LDot*T)
	varpi := astro.DegToRad(el.varpi + el.wDot*T)
	Omega := astro.DegToRad(el.Omega + el.OmDot*T)

	w := varpi - Omega                    // argument of perihelion
	M := astro.WrapPlusMinusPi(L - varpi) // mean anomaly

	E := solveKepler(M, e)

	// Position in the orbital plane
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(Omega), math.Sin(Omega)
	ci, si := math.Cos(inc), math.Sin(inc)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = (sw * si) * xp + (cw * si) * yp
	return x, y, z
}

// solveKepler solves Kepler's equation M = E − e sin E for the eccentric
// anomaly using Newton-Raphson iteration with a high-eccentricity initial
// guess.
func solveKepler(M, e float64) float64 {
	if e == 0 {
		return M
	}

	E := M
	if e >= 0.8 {
		if M >= 0 {
			E = M + e/2
		} else {
			E = M - e/2
		}
	}

	for i := 0; i < 50; i++ {
		f := E - e*math.Sin(E) - M
		fp := 1 - e*math.Cos(E)
		delta := f / fp
		E -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return E
}
