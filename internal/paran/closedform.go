package paran

import (
	"math"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// solveMeridianHorizon solves the paran latitude when exactly one of the
// two constraints is a meridian angle. The case has a closed form: with Y
// on the meridian at hour angle H_const and X on the horizon, the shared
// local sidereal time pins X's hour angle to
//
//	H_e = Δα + H_const,  Δα = α_Y − α_X
//
// and the horizon condition cos H_e = −tan φ · tan δ_X inverts to
//
//	φ = atan2(−cos H₀ · cos δ_X, sin δ_X),  H₀ = |H_e| folded to [0, π]
//
// The atan2 form stays stable as δ_X → 0, where a raw tangent ratio would
// divide by zero.
func solveMeridianHorizon(b *ephemeris.Batch, q Query, cfg Config) Result {
	meridianBody, meridianKind := q.BodyA, q.AngleA
	horizonBody, horizonKind := q.BodyB, q.AngleB
	branch := BranchMeridianHorizon
	if !q.AngleA.IsMeridian() {
		meridianBody, meridianKind = q.BodyB, q.AngleB
		horizonBody, horizonKind = q.BodyA, q.AngleA
		branch = BranchHorizonMeridian
	}

	posY, okY := b.Position(meridianBody)
	posX, okX := b.Position(horizonBody)
	if !okY || !okX {
		return Result{Reason: ReasonOutOfDomain, Branch: branch}
	}

	dAlpha := astro.WrapPlusMinusPi(posY.Alpha - posX.Alpha)
	hEvent := astro.WrapPlusMinusPi(dAlpha + meridianKind.MeridianHourAngle())

	// The fold to [0, π] erases the hour-angle sign, so the solved φ is
	// the same for both horizon branches; sin(H_e) decides which of the
	// two events actually coincides with the culmination. A mismatched
	// branch has no solution. sin(H_e) = 0 is the tie-break: the event
	// degenerates toward a pole and both branches accept the limit value.
	sinEvent := math.Sin(hEvent)
	if sinEvent*horizonKind.HorizonSign() < 0 {
		return Result{Reason: ReasonOutOfDomain, Branch: branch}
	}

	h0 := astro.FoldHalfTurn(hEvent)

	cosDeltaX := b.CosDelta(horizonBody)
	sinDeltaX := b.SinDelta(horizonBody)

	phi := math.Atan2(-math.Cos(h0)*cosDeltaX, sinDeltaX)
	// atan2 lands in (−π, π]; fold by the tangent's π period into the
	// latitude range.
	if phi > math.Pi/2 {
		phi -= math.Pi
	} else if phi < -math.Pi/2 {
		phi += math.Pi
	}

	res := Result{Branch: branch, OK: true}
	if math.Abs(phi) >= cfg.PolarGuard {
		phi = math.Copysign(cfg.PolarGuard, phi)
		res.PoleLimited = true
	}
	res.Latitude = phi
	res.Residual = meridianHorizonResidual(b, meridianBody, meridianKind, horizonBody, horizonKind, phi)
	return res
}

// meridianHorizonResidual substitutes a solved latitude back into the
// simultaneity condition and returns the wrapped sidereal-time mismatch.
func meridianHorizonResidual(b *ephemeris.Batch, bodyY ephemeris.BodyID, kindY astro.AngleKind,
	bodyX ephemeris.BodyID, kindX astro.AngleKind, phi float64) float64 {

	posY, _ := b.Position(bodyY)
	posX, _ := b.Position(bodyX)

	g := -math.Tan(phi) * b.TanDelta(bodyX)
	h0 := math.Acos(astro.ClampUnit(g))
	hX := kindX.HorizonSign() * h0

	thetaY := posY.Alpha + kindY.MeridianHourAngle()
	thetaX := posX.Alpha + hX
	mismatch := astro.WrapPlusMinusPi(thetaY - thetaX)
	// A rise/set pair of the same geometry differs by the H sign only;
	// the folded solution satisfies whichever sign the query asked for.
	return math.Abs(mismatch)
}
