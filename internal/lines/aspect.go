package lines

import (
	"context"
	"math"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// meridianEclipticLongitude is the ecliptic longitude of the point where
// the local meridian crosses the ecliptic, for local sidereal time theta.
// The crossing has right ascension theta, so tan λ = tan θ / cos ε.
func meridianEclipticLongitude(theta, eps float64) float64 {
	return math.Atan2(math.Sin(theta), math.Cos(theta)*math.Cos(eps))
}

// siderealTimeForMC inverts meridianEclipticLongitude: the local sidereal
// time at which the meridian-ecliptic crossing has longitude lambda.
func siderealTimeForMC(lambda, eps float64) float64 {
	return math.Atan2(math.Sin(lambda)*math.Cos(eps), math.Cos(lambda))
}

// ascendantLongitude is the ecliptic longitude of the rising
// ecliptic-horizon intersection at latitude phi and local sidereal time
// theta. The descending intersection sits opposite.
func ascendantLongitude(phi, theta, eps float64) float64 {
	return math.Atan2(math.Cos(theta), -(math.Sin(theta)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)))
}

// Aspect generates the locus where a body's ecliptic longitude stands at
// a fixed aspect angle theta from a local angle's ecliptic longitude.
//
// MC and IC loci come out in closed form: the local sidereal time at
// which the meridian crossing reaches the target longitude fixes a
// single geographic meridian. ASC and DSC loci are zero contours of the
// wrapped longitude difference over the latitude/longitude grid. ok is
// false when the body is not in the batch.
func Aspect(ctx context.Context, b *ephemeris.Batch, body ephemeris.BodyID, kind astro.AngleKind, theta float64, cfg GridConfig) (Locus, bool) {
	pos, found := b.Position(body)
	if !found {
		return Locus{}, false
	}

	eps := b.Instant.Obliquity
	thetaG := b.Instant.ThetaG
	target := astro.WrapTwoPi(pos.Lambda + theta)

	switch kind {
	case astro.UpperCulm, astro.LowerCulm:
		// The IC crossing is the MC crossing plus half a turn, so its
		// target maps back to an MC target offset by π.
		mcTarget := target
		if kind == astro.LowerCulm {
			mcTarget = astro.WrapTwoPi(target - math.Pi)
		}
		lst := siderealTimeForMC(mcTarget, eps)
		return Locus{
			Kind:      KindMeridian,
			Longitude: astro.WrapPlusMinusPi(lst - thetaG),
		}, true

	case astro.Rise, astro.Set:
		offset := 0.0
		if kind == astro.Set {
			offset = math.Pi
		}
		f := func(lat, lon float64) float64 {
			asc := ascendantLongitude(lat, thetaG+lon, eps) + offset
			return astro.WrapPlusMinusPi(asc - target)
		}
		points := ExtractZeroContour(ctx, f, cfg)
		return Locus{
			Kind:     KindCurve,
			Segments: chainSegments(points, cfg),
		}, true
	}

	return Locus{}, false
}

// chainSegments groups sorted contour points into polyline segments,
// splitting where consecutive points are further apart than a few grid
// cells.
func chainSegments(points []Point, cfg GridConfig) []Segment {
	if len(points) == 0 {
		return nil
	}

	lonGap := 3 * cfg.LonStep
	if lonGap <= 0 {
		lonGap = 3 * DefaultGridConfig().LonStep
	}
	latGap := 3 * cfg.LatStep
	if latGap <= 0 {
		latGap = 3 * DefaultGridConfig().LatStep
	}

	var segments []Segment
	current := Segment{points[0]}
	for _, p := range points[1:] {
		last := current[len(current)-1]
		if math.Abs(p.Lon-last.Lon) > lonGap || math.Abs(p.Lat-last.Lat) > latGap {
			if len(current) > 1 {
				segments = append(segments, current)
			}
			current = Segment{p}
			continue
		}
		current = append(current, p)
	}
	if len(current) > 1 {
		segments = append(segments, current)
	}
	return segments
}
