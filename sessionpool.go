package lyskom

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// PoolFactory builds a Pool over factory, capped at maxSize live
// Sessions. NewChannelPool and NewPuddlePool both satisfy it, so either
// can be assigned to SessionPoolConfig.Pool.
type PoolFactory func(factory Factory, maxSize int) (Pool, error)

// SessionPoolConfig configures NewSessionPool.
type SessionPoolConfig struct {
	// MaxSessionsPerServer bounds each server's Pool. Defaults to 4.
	MaxSessionsPerServer int

	// Pool selects the Pool implementation. Defaults to NewChannelPool;
	// set to NewPuddlePool for puddle/v2's acquire-queue semantics.
	Pool PoolFactory

	// UseCircuitBreaker wraps every Call through a per-server
	// gobreaker.CircuitBreaker using CircuitBreaker's policy.
	UseCircuitBreaker bool
	CircuitBreaker    CircuitBreakerConfig

	// HealthCheckInterval is how often idle sessions are probed with
	// get-time. Defaults to 30s. A failed probe destroys the session
	// instead of releasing it back to the pool.
	HealthCheckInterval time.Duration

	// ConnectOptions are passed to every Connect a Pool's factory makes.
	ConnectOptions []Option
}

// SessionPool manages one Pool per configured server address, the way a
// connection-pooled cache client manages one pool per shard — selection
// is by SelectSession, not by any relationship between servers.
type SessionPool struct {
	servers  Servers
	config   SessionPoolConfig
	pools    []Pool
	breakers []*gobreaker.CircuitBreaker[any]

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewSessionPool creates one Pool per server in servers, each backed by
// a Factory that calls Connect with config.ConnectOptions. It starts a
// background health-check loop that periodically probes idle sessions.
func NewSessionPool(servers Servers, config SessionPoolConfig) (*SessionPool, error) {
	if len(servers) == 0 {
		return nil, &ClientError{Message: "no servers configured"}
	}
	if config.MaxSessionsPerServer <= 0 {
		config.MaxSessionsPerServer = 4
	}
	if config.HealthCheckInterval <= 0 {
		config.HealthCheckInterval = 30 * time.Second
	}
	if config.Pool == nil {
		config.Pool = NewChannelPool
	}

	sp := &SessionPool{
		servers: servers,
		config:  config,
		pools:   make([]Pool, len(servers)),
		stopCh:  make(chan struct{}),
	}
	if config.UseCircuitBreaker {
		sp.breakers = make([]*gobreaker.CircuitBreaker[any], len(servers))
	}

	for i, addr := range servers {
		addr := addr
		factory := func(ctx context.Context) (*Session, error) {
			return Connect(ctx, addr, config.ConnectOptions...)
		}
		pool, err := config.Pool(factory, config.MaxSessionsPerServer)
		if err != nil {
			for _, p := range sp.pools[:i] {
				if p != nil {
					p.Close()
				}
			}
			return nil, err
		}
		sp.pools[i] = pool
		if config.UseCircuitBreaker {
			sp.breakers[i] = NewCircuitBreaker(addr, config.CircuitBreaker)
		}
	}

	go sp.healthCheckLoop()
	return sp, nil
}

// Call acquires a session for key (via SelectSession) from the
// appropriate server's pool, runs name through it, and releases the
// session — destroying it instead, if the error is connection-fatal.
func (sp *SessionPool) Call(ctx context.Context, key, name string, params any) (any, error) {
	idx := SelectSession(key, len(sp.servers))
	pool := sp.pools[idx]

	res, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	var value any
	if sp.breakers != nil {
		value, err = callThroughBreaker(ctx, sp.breakers[idx], res.Value(), name, params)
	} else {
		value, err = res.Value().Call(ctx, name, params)
	}

	if ShouldCloseConnection(err) {
		res.Destroy()
	} else {
		res.Release()
	}
	return value, err
}

func (sp *SessionPool) healthCheckLoop() {
	ticker := time.NewTicker(sp.config.HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sp.checkAllPools()
		case <-sp.stopCh:
			return
		}
	}
}

func (sp *SessionPool) checkAllPools() {
	for _, pool := range sp.pools {
		for _, res := range pool.AcquireAllIdle() {
			if err := sp.healthCheck(res.Value()); err != nil {
				res.Destroy()
				continue
			}
			res.ReleaseUnused()
		}
	}
}

func (sp *SessionPool) healthCheck(sess *Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := sess.Call(ctx, "get-time", nil)
	return err
}

// Stats returns one PoolStats per configured server, in server order.
func (sp *SessionPool) Stats() []ServerPoolStats {
	out := make([]ServerPoolStats, len(sp.servers))
	for i, addr := range sp.servers {
		out[i] = ServerPoolStats{Addr: addr, Pool: sp.pools[i].Stats()}
	}
	return out
}

// Close stops the health-check loop and closes every server's pool.
func (sp *SessionPool) Close() {
	sp.stopOnce.Do(func() { close(sp.stopCh) })
	for _, pool := range sp.pools {
		pool.Close()
	}
}
