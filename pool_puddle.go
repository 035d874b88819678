package lyskom

import (
	"context"
	"time"

	"github.com/jackc/puddle/v2"
)

// puddleResource adapts a *puddle.Resource[*Session] to this package's
// Resource interface.
type puddleResource struct {
	res *puddle.Resource[*Session]
}

func (r *puddleResource) Value() *Session          { return r.res.Value() }
func (r *puddleResource) Release()                 { r.res.Release() }
func (r *puddleResource) ReleaseUnused()            { r.res.ReleaseUnused() }
func (r *puddleResource) Destroy()                 { r.res.Destroy() }
func (r *puddleResource) CreationTime() time.Time  { return r.res.CreationTime() }
func (r *puddleResource) IdleDuration() time.Duration { return r.res.IdleDuration() }

type puddlePool struct {
	inner *puddle.Pool[*Session]
}

// NewPuddlePool returns a Pool backed by github.com/jackc/puddle/v2,
// for applications that want puddle's own acquire-queue and destructor
// semantics instead of the channel pool's simpler fast path. It
// satisfies PoolFactory so it can be assigned to
// SessionPoolConfig.Pool directly.
func NewPuddlePool(factory Factory, maxSize int) (Pool, error) {
	inner, err := puddle.NewPool(&puddle.Config[*Session]{
		Constructor: func(ctx context.Context) (*Session, error) {
			return factory(ctx)
		},
		Destructor: func(sess *Session) {
			sess.Close()
		},
		MaxSize: int32(maxSize),
	})
	if err != nil {
		return nil, err
	}
	return &puddlePool{inner: inner}, nil
}

func (p *puddlePool) Acquire(ctx context.Context) (Resource, error) {
	res, err := p.inner.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &puddleResource{res: res}, nil
}

func (p *puddlePool) AcquireAllIdle() []Resource {
	idle := p.inner.AcquireAllIdle()
	out := make([]Resource, len(idle))
	for i, r := range idle {
		out[i] = &puddleResource{res: r}
	}
	return out
}

func (p *puddlePool) Close() {
	p.inner.Close()
}

func (p *puddlePool) Stats() PoolStats {
	s := p.inner.Stat()
	return PoolStats{
		TotalSessions:     s.TotalResources(),
		IdleSessions:      s.IdleResources(),
		ActiveSessions:    s.AcquiredResources(),
		AcquireCount:      s.AcquireCount(),
		AcquireDuration:   int64(s.AcquireDuration()),
		CreatedSessions:   s.AcquireCount(),
		DestroyedSessions: s.CanceledAcquireCount(),
	}
}
