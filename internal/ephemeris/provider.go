package ephemeris

import "time"

// Provider defines the interface for ephemeris data sources. The solver
// core never fetches data itself; it consumes whatever batch a provider
// returns.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Snapshot returns a validated batch of body positions for an instant.
	Snapshot(t time.Time) (*Batch, error)

	// Available returns true if this provider can supply the body.
	Available(id BodyID) bool
}
