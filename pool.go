package lyskom

import (
	"context"
	"time"
)

// Resource wraps one pooled *Session with the bookkeeping a Pool needs
// to size itself and expire idle sessions, the way a connection pool
// tracks age and idle time per connection without asking the OS.
type Resource interface {
	// Value returns the pooled Session.
	Value() *Session

	// Release returns the Session to the pool for reuse.
	Release()

	// ReleaseUnused returns the Session to the pool without counting it
	// as having been used — for a caller that acquired but never made
	// a Call, so health-check cadence isn't skewed.
	ReleaseUnused()

	// Destroy removes the Session from the pool permanently and closes
	// it, for use after a Call returns a fatal error.
	Destroy()

	// CreationTime reports when the underlying Session was created.
	CreationTime() time.Time

	// IdleDuration reports how long the Resource has sat idle in the
	// pool since its last Release.
	IdleDuration() time.Duration
}

// Pool manages a set of Sessions to one server address. Two
// implementations are provided: a channel-based pool with no
// dependency beyond the standard library, and a puddle/v2-backed pool
// for applications that want puddle's richer acquire-queue semantics.
type Pool interface {
	// Acquire returns an idle Resource, or creates one if the pool has
	// room, or blocks until one is released, bounded by ctx.
	Acquire(ctx context.Context) (Resource, error)

	// AcquireAllIdle returns every currently idle Resource without
	// blocking, removing each from the idle set — used by the pool's
	// periodic health-check sweep.
	AcquireAllIdle() []Resource

	// Close closes every Session the pool holds, idle or acquired.
	Close()

	// Stats returns a snapshot of the pool's counters.
	Stats() PoolStats
}

// Factory creates one new Session for a Pool to add to its set.
type Factory func(ctx context.Context) (*Session, error)
