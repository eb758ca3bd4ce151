// Package paran solves paran latitudes: geographic latitudes where two
// bodies simultaneously occupy specified local angles at a fixed instant.
package paran

import (
	"math"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/ephemeris"
)

// Reason explains why a query produced no solution.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonDegenerate marks configurations with no point solution by
	// construction (both-meridian pairs away from Δα ∈ {0, π}).
	ReasonDegenerate
	// ReasonCircumpolar marks configurations where a horizon event cannot
	// occur at any latitude in the search domain.
	ReasonCircumpolar
	// ReasonOutOfDomain marks geometrically consistent queries for which
	// no latitude satisfies the simultaneity condition.
	ReasonOutOfDomain
	// ReasonNonConvergence marks queries where the numeric solver
	// exhausted its iteration budget. Distinct from ReasonOutOfDomain so
	// callers can tell "provably none" from "solver gave up".
	ReasonNonConvergence
)

// String returns the reason code used in exports.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonDegenerate:
		return "degenerate"
	case ReasonCircumpolar:
		return "circumpolar"
	case ReasonOutOfDomain:
		return "out_of_domain"
	case ReasonNonConvergence:
		return "non_convergence"
	default:
		return "unknown"
	}
}

// Branch records which solver path produced a result.
type Branch int

const (
	BranchNone Branch = iota
	// BranchMeridianHorizon: closed-form path, first body on the meridian.
	BranchMeridianHorizon
	// BranchHorizonMeridian: closed-form path, second body on the meridian.
	BranchHorizonMeridian
	// BranchHorizonHorizon: numeric root-finding path.
	BranchHorizonHorizon
)

// String names the branch for diagnostics.
func (b Branch) String() string {
	switch b {
	case BranchMeridianHorizon:
		return "meridian-horizon"
	case BranchHorizonMeridian:
		return "horizon-meridian"
	case BranchHorizonHorizon:
		return "horizon-horizon"
	default:
		return "none"
	}
}

// Query is an ordered pair of (body, angle) constraints.
type Query struct {
	BodyA  ephemeris.BodyID
	AngleA astro.AngleKind
	BodyB  ephemeris.BodyID
	AngleB astro.AngleKind
}

// Result is the outcome of solving one query. When OK is false, Reason
// explains why; when AllLatitudes is true the condition holds at every
// latitude (exactly aligned both-meridian pairs) and Latitude is
// meaningless.
type Result struct {
	Latitude     float64 // radians, valid when OK
	OK           bool
	AllLatitudes bool
	Reason       Reason
	Branch       Branch
	Residual     float64 // simultaneity residual at Latitude, radians
	PoleLimited  bool    // Latitude was clamped to the polar guard
	Filtered     bool    // rejected by the visibility filter (φ retained)
}

// Config bounds the solvers.
type Config struct {
	// PolarGuard is the maximum |latitude| reported, radians.
	PolarGuard float64
	// Tol is the root tolerance in radians.
	Tol float64
	// MaxIter bounds Brent iterations per bracket.
	MaxIter int
	// ScanStep is the coarse bracketing step for the numeric solver,
	// radians.
	ScanStep float64
}

// DefaultConfig returns the solver bounds used throughout.
func DefaultConfig() Config {
	return Config{
		PolarGuard: astro.DegToRad(89.999),
		Tol:        1e-8,
		MaxIter:    100,
		ScanStep:   astro.DegToRad(0.25),
	}
}

// searchLimit is the hard edge of the numeric search interval (±89.9°).
var searchLimit = astro.DegToRad(89.9)

// Solve dispatches a query to the closed-form or numeric solver.
// Both-meridian pairs are handled here and never reach the numeric path.
func Solve(b *ephemeris.Batch, q Query, cfg Config) Result {
	aMeridian := q.AngleA.IsMeridian()
	bMeridian := q.AngleB.IsMeridian()

	switch {
	case aMeridian && bMeridian:
		return solveBothMeridian(b, q, cfg)
	case aMeridian != bMeridian:
		return solveMeridianHorizon(b, q, cfg)
	default:
		return solveHorizonHorizon(b, q, cfg)
	}
}

// solveBothMeridian handles the degenerate pair: both bodies fix the local
// sidereal time, so a solution exists only when the two constraints name
// the same θ_L — and then it holds at every latitude.
func solveBothMeridian(b *ephemeris.Batch, q Query, cfg Config) Result {
	posA, _ := b.Position(q.BodyA)
	posB, _ := b.Position(q.BodyB)

	mismatch := astro.WrapPlusMinusPi(
		(posA.Alpha + q.AngleA.MeridianHourAngle()) -
			(posB.Alpha + q.AngleB.MeridianHourAngle()))

	if math.Abs(mismatch) <= cfg.Tol {
		return Result{
			OK:           true,
			AllLatitudes: true,
			Latitude:     math.NaN(),
			Branch:       BranchNone,
		}
	}
	return Result{Reason: ReasonDegenerate}
}
