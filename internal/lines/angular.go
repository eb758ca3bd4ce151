package lines

import (
	"math"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// equatorialEps is the |tan δ| below which a horizon curve collapses to a
// meridian: the crossing latitude formula divides by tan δ, and for an
// equatorial body the crossing happens at the fixed hour angles ±π/2 at
// every latitude.
const equatorialEps = 1e-9

// Angular generates the locus where a body occupies a local angle at the
// batch instant. MC/IC loci are meridians; ASC/DSC loci are curves over
// the half of the longitude circle where the crossing has the requested
// direction. ok is false when the body is not in the batch.
func Angular(b *ephemeris.Batch, body ephemeris.BodyID, kind astro.AngleKind, cfg GridConfig) (Locus, bool) {
	pos, found := b.Position(body)
	if !found {
		return Locus{}, false
	}

	thetaG := b.Instant.ThetaG

	if kind.IsMeridian() {
		lon := astro.WrapPlusMinusPi(pos.Alpha - thetaG + kind.MeridianHourAngle())
		return Locus{Kind: KindMeridian, Longitude: lon}, true
	}

	// Equatorial degeneracy: the horizon crossing sits at H = ∓π/2 for
	// every latitude, a meridian. Switching branches explicitly avoids
	// dividing by a near-zero tangent.
	tanDelta := b.TanDelta(body)
	if math.Abs(tanDelta) < equatorialEps {
		lon := astro.WrapPlusMinusPi(pos.Alpha + kind.HorizonSign()*math.Pi/2 - thetaG)
		return Locus{Kind: KindMeridian, Longitude: lon}, true
	}

	step := cfg.LonStep
	if step <= 0 {
		step = DefaultGridConfig().LonStep
	}
	guard := cfg.PolarGuard
	if guard <= 0 {
		guard = DefaultGridConfig().PolarGuard
	}

	var segments []Segment
	var current Segment
	flush := func() {
		if len(current) > 1 {
			segments = append(segments, current)
		}
		current = nil
	}

	for lon := -math.Pi; lon < math.Pi; lon += step {
		H := astro.WrapPlusMinusPi(thetaG + lon - pos.Alpha)

		// Branch assignment: the crossing at this longitude is a rising
		// when the body is east of the meridian (sin H < 0), a setting
		// when west. The opposite branch owns the other half-circle.
		sinH := math.Sin(H)
		if sinH*kind.HorizonSign() <= 0 {
			flush()
			continue
		}

		phi := math.Atan2(-math.Cos(H), tanDelta)
		if phi > math.Pi/2 {
			phi -= math.Pi
		} else if phi < -math.Pi/2 {
			phi += math.Pi
		}

		// Circumpolar clip: no crossing exists at this longitude.
		if math.Abs(phi) > guard {
			flush()
			continue
		}

		current = append(current, Point{Lon: lon, Lat: phi})
	}
	flush()

	return Locus{Kind: KindCurve, Segments: segments}, true
}
