package lyskom

import (
	"context"
	"sync"
	"time"

	"github.com/petli/node-lyskom-client/internal/coarsetime"
)

// channelResource is the channel pool's Resource implementation: a
// Session plus the timestamps Pool callers need, read through
// coarsetime rather than a time.Now() syscall per operation.
type channelResource struct {
	pool    *channelPool
	session *Session
	created time.Time
	idleAt  time.Time
}

func (r *channelResource) Value() *Session { return r.session }

func (r *channelResource) Release() {
	r.idleAt = coarsetime.Now()
	r.pool.put(r)
}

func (r *channelResource) ReleaseUnused() {
	r.pool.put(r)
}

func (r *channelResource) Destroy() {
	r.pool.removeResource(r)
}

func (r *channelResource) CreationTime() time.Time { return r.created }

func (r *channelResource) IdleDuration() time.Duration {
	return coarsetime.Now().Sub(r.idleAt)
}

// channelPool is a fixed-capacity Pool backed by a buffered channel of
// idle resources: Acquire takes the fast path from the channel, falls
// back to creating a new Session while under maxSize, and otherwise
// blocks for a release.
type channelPool struct {
	factory Factory
	maxSize int

	mu      sync.Mutex
	size    int
	idle    chan *channelResource
	closed  bool

	stats struct {
		acquireCount    int64
		acquireNanos    int64
		createdSessions int64
		destroyed       int64
	}
}

// NewChannelPool returns a Pool that creates Sessions with factory, on
// demand, up to maxSize concurrently-live Sessions. It satisfies
// PoolFactory so it can be assigned to SessionPoolConfig.Pool directly;
// it never itself returns a non-nil error.
func NewChannelPool(factory Factory, maxSize int) (Pool, error) {
	return &channelPool{
		factory: factory,
		maxSize: maxSize,
		idle:    make(chan *channelResource, maxSize),
	}, nil
}

func (p *channelPool) Acquire(ctx context.Context) (Resource, error) {
	start := coarsetime.Now()
	defer func() {
		p.mu.Lock()
		p.stats.acquireCount++
		p.stats.acquireNanos += int64(coarsetime.Now().Sub(start))
		p.mu.Unlock()
	}()

	select {
	case r := <-p.idle:
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.size < p.maxSize || p.maxSize <= 0 {
		p.size++
		p.mu.Unlock()
		sess, err := p.factory(ctx)
		if err != nil {
			p.mu.Lock()
			p.size--
			p.mu.Unlock()
			return nil, err
		}
		p.mu.Lock()
		p.stats.createdSessions++
		p.mu.Unlock()
		now := coarsetime.Now()
		return &channelResource{pool: p, session: sess, created: now, idleAt: now}, nil
	}
	p.mu.Unlock()

	select {
	case r := <-p.idle:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *channelPool) put(r *channelResource) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.removeResource(r)
		return
	}
	p.mu.Unlock()

	select {
	case p.idle <- r:
	default:
		// Pool is saturated with idle resources beyond its own
		// bookkeeping — shouldn't happen since size never exceeds
		// maxSize, but destroy rather than leak a goroutine blocking
		// on a full channel.
		p.removeResource(r)
	}
}

func (p *channelPool) removeResource(r *channelResource) {
	r.session.Close()
	p.mu.Lock()
	p.size--
	p.stats.destroyed++
	p.mu.Unlock()
}

func (p *channelPool) AcquireAllIdle() []Resource {
	var out []Resource
	for {
		select {
		case r := <-p.idle:
			out = append(out, r)
		default:
			return out
		}
	}
}

func (p *channelPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for _, r := range p.AcquireAllIdle() {
		r.Value().Close()
	}
}

func (p *channelPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	idle := len(p.idle)
	return PoolStats{
		TotalSessions:     int32(p.size),
		IdleSessions:      int32(idle),
		ActiveSessions:    int32(p.size - idle),
		AcquireCount:      p.stats.acquireCount,
		AcquireDuration:   p.stats.acquireNanos,
		CreatedSessions:   p.stats.createdSessions,
		DestroyedSessions: p.stats.destroyed,
	}
}
