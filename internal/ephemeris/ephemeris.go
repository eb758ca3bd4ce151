// Package ephemeris defines the body-position data model consumed by the
// locus solvers, and the provider interface that supplies it.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/astromap/internal/astro"
)

// BodyID identifies a celestial body.
type BodyID int

const (
	Sun BodyID = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var bodyNames = map[BodyID]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
	Pluto:   "Pluto",
}

// String returns the body name.
func (b BodyID) String() string {
	if n, ok := bodyNames[b]; ok {
		return n
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// ParseBody parses a body name. Returns false for unknown names.
func ParseBody(s string) (BodyID, bool) {
	for id, n := range bodyNames {
		if n == s {
			return id, true
		}
	}
	return 0, false
}

// BodyPosition is an immutable geocentric apparent position snapshot for one
// body at one instant: equatorial right ascension and declination plus
// ecliptic longitude and latitude, all of-date, in radians.
type BodyPosition struct {
	ID     BodyID
	Alpha  float64 // right ascension, [0, 2π)
	Delta  float64 // declination, [−π/2, π/2]
	Lambda float64 // ecliptic longitude, [0, 2π)
	Beta   float64 // ecliptic latitude, near 0 for planets
}

// Instant carries the instant-level quantities shared by every body in a
// snapshot.
type Instant struct {
	Time        time.Time
	ThetaG      float64 // Greenwich apparent sidereal time, radians
	Obliquity   float64 // true obliquity of the ecliptic, radians
	NutationLon float64 // nutation in longitude, radians
}

// bodyTrig holds the per-body trig values the solvers use repeatedly.
// Computed once per batch and passed by reference; never cached globally.
type bodyTrig struct {
	sinDelta float64
	cosDelta float64
	tanDelta float64
}

// Batch is an immutable arena of body positions for a single instant,
// indexed by BodyID, with declination trig precomputed per body.
type Batch struct {
	Instant Instant

	positions map[BodyID]BodyPosition
	trig      map[BodyID]bodyTrig
}

// NewBatch builds a batch from an instant and a set of body positions.
func NewBatch(inst Instant, bodies []BodyPosition) *Batch {
	b := &Batch{
		Instant:   inst,
		positions: make(map[BodyID]BodyPosition, len(bodies)),
		trig:      make(map[BodyID]bodyTrig, len(bodies)),
	}
	for _, p := range bodies {
		b.positions[p.ID] = p
		b.trig[p.ID] = bodyTrig{
			sinDelta: math.Sin(p.Delta),
			cosDelta: math.Cos(p.Delta),
			tanDelta: math.Tan(p.Delta),
		}
	}
	return b
}

// Position returns the snapshot for a body. ok is false when the body is
// not part of the batch.
func (b *Batch) Position(id BodyID) (BodyPosition, bool) {
	p, ok := b.positions[id]
	return p, ok
}

// SinDelta returns the precomputed sin δ for a body.
func (b *Batch) SinDelta(id BodyID) float64 { return b.trig[id].sinDelta }

// CosDelta returns the precomputed cos δ for a body.
func (b *Batch) CosDelta(id BodyID) float64 { return b.trig[id].cosDelta }

// TanDelta returns the precomputed tan δ for a body.
func (b *Batch) TanDelta(id BodyID) float64 { return b.trig[id].tanDelta }

// Bodies returns the ids present in the batch, in ascending order.
func (b *Batch) Bodies() []BodyID {
	ids := make([]BodyID, 0, len(b.positions))
	for id := BodyID(0); int(id) <= int(Pluto); id++ {
		if _, ok := b.positions[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Errors for input contract violations. Bad positions must fail loudly:
// propagating them silently produces wrong map placements.
var (
	ErrNonFinite     = errors.New("ephemeris: non-finite value in body position")
	ErrDeclRange     = errors.New("ephemeris: declination outside [-π/2, π/2]")
	ErrUnnormalized  = errors.New("ephemeris: angle outside its canonical range")
	ErrEmptySnapshot = errors.New("ephemeris: snapshot contains no bodies")
)

// Validate enforces the input contract for the whole batch: finite values,
// declinations inside ±π/2, right ascension and ecliptic longitude already
// normalized to [0, 2π). A violation fails the batch before any solver
// runs.
func (b *Batch) Validate() error {
	if len(b.positions) == 0 {
		return ErrEmptySnapshot
	}
	if !isFinite(b.Instant.ThetaG) || !isFinite(b.Instant.Obliquity) || !isFinite(b.Instant.NutationLon) {
		return fmt.Errorf("%w: instant", ErrNonFinite)
	}
	for id, p := range b.positions {
		for _, v := range []float64{p.Alpha, p.Delta, p.Lambda, p.Beta} {
			if !isFinite(v) {
				return fmt.Errorf("%w: %s", ErrNonFinite, id)
			}
		}
		if p.Delta < -math.Pi/2 || p.Delta > math.Pi/2 {
			return fmt.Errorf("%w: %s δ=%v", ErrDeclRange, id, p.Delta)
		}
		if p.Alpha < 0 || p.Alpha >= 2*math.Pi {
			return fmt.Errorf("%w: %s α=%v", ErrUnnormalized, id, p.Alpha)
		}
		if p.Lambda < 0 || p.Lambda >= 2*math.Pi {
			return fmt.Errorf("%w: %s λ=%v", ErrUnnormalized, id, p.Lambda)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InstantAt builds the instant-level quantities for a time from the sidereal
// and obliquity series.
func InstantAt(t time.Time) Instant {
	return Instant{
		Time:        t,
		ThetaG:      astro.ApparentSiderealTime(t),
		Obliquity:   astro.MeanObliquity(t),
		NutationLon: astro.NutationInLongitude(t),
	}
}
