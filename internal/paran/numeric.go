package paran

import (
	"math"
	"sort"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// solveHorizonHorizon solves the paran latitude when both constraints are
// horizon angles. There is no closed form; the residual
//
//	F(φ) = s_A·arccos(g_A(φ)) − s_B·arccos(g_B(φ)) − Δα,  g = −tan φ · tan δ
//
// is root-found on the sub-intervals where both g values stay inside
// [−1, 1]. Outside those sub-intervals a body is circumpolar and F is
// undefined; such latitudes are excluded outright — clamping g here would
// silently corrupt the geometry, unlike the round-off clamp inside the
// primitives.
func solveHorizonHorizon(b *ephemeris.Batch, q Query, cfg Config) Result {
	posA, okA := b.Position(q.BodyA)
	posB, okB := b.Position(q.BodyB)
	if !okA || !okB {
		return Result{Reason: ReasonOutOfDomain, Branch: BranchHorizonHorizon}
	}

	sA := q.AngleA.HorizonSign()
	sB := q.AngleB.HorizonSign()
	tanA := b.TanDelta(q.BodyA)
	tanB := b.TanDelta(q.BodyB)
	dAlpha := astro.WrapPlusMinusPi(posB.Alpha - posA.Alpha)

	// D(φ) = s_A·arccos(g_A) − s_B·arccos(g_B); F = D − Δα (mod 2π).
	D := func(phi float64) float64 {
		gA := astro.ClampUnit(-math.Tan(phi) * tanA)
		gB := astro.ClampUnit(-math.Tan(phi) * tanB)
		return sA*math.Acos(gA) - sB*math.Acos(gB)
	}

	intervals := horizonIntervals(posA.Delta, posB.Delta, cfg)
	if len(intervals) == 0 {
		return Result{Reason: ReasonCircumpolar, Branch: BranchHorizonHorizon}
	}

	// D has range [−2π, 2π], so the simultaneity condition can be met at
	// Δα or either 2π-congruent offset. Solving against explicit offsets
	// keeps F continuous on each sub-interval instead of wrapping inside
	// the root finder.
	targets := []float64{dAlpha, dAlpha - 2*math.Pi, dAlpha + 2*math.Pi}

	sawNonConvergence := false
	for _, iv := range intervals {
		// Every congruent target is tried before a sub-interval is
		// decided; the southernmost root wins regardless of target order.
		bestPhi := math.NaN()
		bestTarget := 0.0
		for _, target := range targets {
			root, status := bracketAndRefine(D, iv, target, cfg)
			switch status {
			case rootFound:
				if math.IsNaN(bestPhi) || root < bestPhi {
					bestPhi, bestTarget = root, target
				}
			case rootGaveUp:
				sawNonConvergence = true
			}
		}
		if math.IsNaN(bestPhi) {
			continue
		}

		res := Result{
			Latitude: bestPhi,
			OK:       true,
			Branch:   BranchHorizonHorizon,
			Residual: math.Abs(astro.WrapPlusMinusPi(D(bestPhi) - dAlpha)),
		}
		// One Newton polish using
		// dF/dφ = sec²φ·(s_A·tanδ_A/√(1−g_A²) − s_B·tanδ_B/√(1−g_B²))
		if polished, ok := newtonPolish(D, bestPhi, bestTarget, tanA, tanB, sA, sB, iv); ok {
			polishedResid := math.Abs(astro.WrapPlusMinusPi(D(polished) - dAlpha))
			if polishedResid < res.Residual {
				res.Latitude = polished
				res.Residual = polishedResid
			}
		}
		return res
	}

	if sawNonConvergence {
		return Result{Reason: ReasonNonConvergence, Branch: BranchHorizonHorizon}
	}
	// Horizon/horizon parans frequently do not exist for a given pair;
	// this is an outcome, not an error.
	return Result{Reason: ReasonOutOfDomain, Branch: BranchHorizonHorizon}
}

// interval is a latitude range where F is fully defined.
type interval struct {
	lo, hi float64
}

// horizonIntervals partitions the search range [−89.9°, 89.9°] at the
// circumpolar limits |φ| = π/2 − |δ| of both bodies and returns the
// maximal sub-intervals on which both horizon events exist.
func horizonIntervals(deltaA, deltaB float64, cfg Config) []interval {
	limit := func(delta float64) float64 { return math.Pi/2 - math.Abs(delta) }
	limA := limit(deltaA)
	limB := limit(deltaB)

	edge := math.Min(searchLimit, cfg.PolarGuard)

	cuts := []float64{-edge, edge}
	for _, l := range []float64{limA, limB} {
		if l < edge {
			cuts = append(cuts, -l, l)
		}
	}
	sort.Float64s(cuts)

	var out []interval
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		if hi-lo < 1e-12 {
			continue
		}
		mid := (lo + hi) / 2
		if math.Abs(math.Tan(mid)*math.Tan(deltaA)) <= 1 &&
			math.Abs(math.Tan(mid)*math.Tan(deltaB)) <= 1 {
			out = append(out, interval{lo, hi})
		}
	}
	return out
}

type rootStatus int

const (
	rootNone rootStatus = iota
	rootFound
	rootGaveUp
)

// bracketAndRefine scans an interval for sign changes of D − target and
// refines the first bracket (scanning from south) with Brent's method.
func bracketAndRefine(D func(float64) float64, iv interval, target float64, cfg Config) (float64, rootStatus) {
	f := func(phi float64) float64 { return D(phi) - target }

	step := cfg.ScanStep
	if step <= 0 {
		step = astro.DegToRad(0.25)
	}

	prevPhi := iv.lo
	prevF := f(prevPhi)
	status := rootNone

	for phi := iv.lo + step; ; phi += step {
		if phi > iv.hi {
			phi = iv.hi
		}
		cur := f(phi)

		if prevF == 0 {
			return prevPhi, rootFound
		}
		if prevF*cur <= 0 {
			root, ok := brentq(f, prevPhi, phi, prevF, cur, cfg.Tol, cfg.MaxIter)
			if ok {
				return root, rootFound
			}
			status = rootGaveUp
		}

		if phi >= iv.hi {
			break
		}
		prevPhi, prevF = phi, cur
	}
	return 0, status
}

// newtonPolish applies a single Newton step to the refined root, staying
// inside the interval. Reports false when the derivative is unusable.
func newtonPolish(D func(float64) float64, phi, target, tanA, tanB, sA, sB float64, iv interval) (float64, bool) {
	gA := -math.Tan(phi) * tanA
	gB := -math.Tan(phi) * tanB
	oneA := 1 - gA*gA
	oneB := 1 - gB*gB
	if oneA <= 1e-12 || oneB <= 1e-12 {
		return 0, false
	}

	cos := math.Cos(phi)
	sec2 := 1 / (cos * cos)
	dF := sec2 * (sA*tanA/math.Sqrt(oneA) - sB*tanB/math.Sqrt(oneB))
	if dF == 0 || math.IsNaN(dF) || math.IsInf(dF, 0) {
		return 0, false
	}

	next := phi - (D(phi)-target)/dF
	if next <= iv.lo || next >= iv.hi {
		return 0, false
	}
	return next, true
}
