// Package state provides thread-safe session state for the application:
// the current chart instant, compute options, and the latest computed
// chart.
package state

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/litescript/astromap/internal/astro"
	"github.com/litescript/astromap/internal/chart"
	"github.com/litescript/astromap/internal/ephemeris"
	"github.com/litescript/astromap/internal/lines"
	"github.com/litescript/astromap/internal/paran"
)

// Options selects what a recompute produces.
type Options struct {
	// Bodies to include; empty means every body the provider offers.
	Bodies []ephemeris.BodyID
	// Solver bounds the paran solvers.
	Solver paran.Config
	// Grid bounds curve sampling and contour extraction.
	Grid lines.GridConfig
	// Visibility filters paran results.
	Visibility paran.VisibilityMode
	// Aspects adds aspect lines at these angles (radians) for every body
	// and angle. Empty means angular lines only.
	Aspects []float64
	// Workers bounds the paran evaluation pool; 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard compute policy: the classic seven
// bodies, default solver and grid bounds, no filtering, no aspect lines.
func DefaultOptions() Options {
	return Options{
		Bodies: []ephemeris.BodyID{
			ephemeris.Sun, ephemeris.Moon, ephemeris.Mercury,
			ephemeris.Venus, ephemeris.Mars, ephemeris.Jupiter,
			ephemeris.Saturn,
		},
		Solver:     paran.DefaultConfig(),
		Grid:       lines.DefaultGridConfig(),
		Visibility: paran.VisibilityAll,
	}
}

// Snapshot is an immutable view of the latest computed chart.
type Snapshot struct {
	Batch           *ephemeris.Batch
	Parans          []paran.PairResult
	Lines           []chart.Line
	ComputedAt      time.Time
	ComputeDuration time.Duration
	LastError       error
}

// Manager owns the session state with thread-safe access. Recompute is
// the only entry point that touches the provider; everything else reads
// or adjusts settings.
type Manager struct {
	mu sync.RWMutex

	provider ephemeris.Provider
	instant  time.Time
	opts     Options

	snap   Snapshot
	logger *log.Logger
}

// NewManager creates a session manager around a provider. A nil logger
// discards diagnostics.
func NewManager(provider ephemeris.Provider, instant time.Time, opts Options, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(opts.Bodies) == 0 {
		opts.Bodies = DefaultOptions().Bodies
	}
	return &Manager{
		provider: provider,
		instant:  instant.UTC(),
		opts:     opts,
		logger:   logger,
	}
}

// Time returns the current chart instant.
func (m *Manager) Time() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instant
}

// SetTime replaces the chart instant. The change takes effect at the
// next Recompute.
func (m *Manager) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instant = t.UTC()
}

// StepTime shifts the chart instant by d.
func (m *Manager) StepTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instant = m.instant.Add(d)
}

// Options returns the current compute options.
func (m *Manager) Options() Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// SetVisibility switches the paran visibility mode.
func (m *Manager) SetVisibility(mode paran.VisibilityMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Visibility = mode
}

// ToggleBody adds or removes a body from the compute set.
func (m *Manager) ToggleBody(id ephemeris.BodyID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.opts.Bodies {
		if b == id {
			m.opts.Bodies = append(m.opts.Bodies[:i], m.opts.Bodies[i+1:]...)
			return
		}
	}
	m.opts.Bodies = append(m.opts.Bodies, id)
}

// Recompute snapshots the provider at the current instant, evaluates the
// paran batch and regenerates line loci, and installs the result as the
// current snapshot. A provider or validation failure is recorded in the
// snapshot and returned; the previous chart data is kept.
func (m *Manager) Recompute(ctx context.Context) (Snapshot, error) {
	m.mu.RLock()
	instant := m.instant
	opts := m.opts
	provider := m.provider
	m.mu.RUnlock()

	start := time.Now()
	m.logger.Debug("recomputing chart", "time", instant, "bodies", len(opts.Bodies))

	batch, err := provider.Snapshot(instant)
	if err == nil {
		batch = filterBatch(batch, opts.Bodies)
		err = batch.Validate()
	}
	if err != nil {
		m.logger.Error("chart recompute failed", "error", err)
		m.mu.Lock()
		m.snap.LastError = err
		snap := m.snap
		m.mu.Unlock()
		return snap, err
	}

	parOpts := paran.Options{
		Config:     opts.Solver,
		Visibility: opts.Visibility,
		Workers:    opts.Workers,
	}
	parans, err := paran.Evaluate(ctx, batch, parOpts)
	if err != nil && err != context.Canceled {
		m.logger.Error("paran evaluation failed", "error", err)
	}

	chartLines := generateLines(ctx, batch, opts)

	snap := Snapshot{
		Batch:           batch,
		Parans:          parans,
		Lines:           chartLines,
		ComputedAt:      time.Now(),
		ComputeDuration: time.Since(start),
		LastError:       err,
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()

	m.logger.Debug("chart ready",
		"parans", len(parans), "lines", len(chartLines), "took", snap.ComputeDuration)
	return snap, err
}

// generateLines produces the angular lines for every body, plus aspect
// lines for each configured aspect angle.
func generateLines(ctx context.Context, b *ephemeris.Batch, opts Options) []chart.Line {
	kinds := []astro.AngleKind{astro.UpperCulm, astro.LowerCulm, astro.Rise, astro.Set}

	var out []chart.Line
	for _, id := range b.Bodies() {
		for _, kind := range kinds {
			locus, ok := lines.Angular(b, id, kind, opts.Grid)
			if !ok {
				continue
			}
			out = append(out, chart.Line{Body: id, Kind: kind, Locus: locus})
		}
		for _, theta := range opts.Aspects {
			for _, kind := range kinds {
				locus, ok := lines.Aspect(ctx, b, id, kind, theta, opts.Grid)
				if !ok {
					continue
				}
				out = append(out, chart.Line{
					Body: id, Kind: kind,
					Aspect: theta, HasAspect: true,
					Locus: locus,
				})
			}
		}
	}
	return out
}

// filterBatch narrows a provider snapshot to the requested bodies.
func filterBatch(b *ephemeris.Batch, ids []ephemeris.BodyID) *ephemeris.Batch {
	want := make(map[ephemeris.BodyID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var kept []ephemeris.BodyPosition
	for _, id := range b.Bodies() {
		if !want[id] {
			continue
		}
		pos, _ := b.Position(id)
		kept = append(kept, pos)
	}
	return ephemeris.NewBatch(b.Instant, kept)
}

// Snapshot returns the latest computed chart.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// HasData reports whether at least one recompute succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Batch != nil
}
