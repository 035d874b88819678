package lyskom

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig configures the per-server breaker a SessionPool
// wraps Call execution in. Its shape mirrors the ambient stack's own
// failure-ratio breaker: trip once a minimum request volume is seen and
// the failure ratio crosses a threshold, then probe again after a
// cooldown.
type CircuitBreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureRatio     float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns reasonable defaults: trip at a 50%
// failure ratio once at least 10 requests have been seen in the rolling
// interval, then allow a single probe request after 5 seconds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxRequests:  1,
		Interval:     30 * time.Second,
		Timeout:      5 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  10,
	}
}

// NewCircuitBreaker builds a gobreaker.CircuitBreaker[any] for a single
// server address using cfg's failure-ratio policy. IsSuccessful is what
// keeps a RequestError — the server correctly rejecting one bad
// request — from tripping the breaker, while a ProtocolError or a
// transport error, both connection-fatal, still count against it.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !ShouldCloseConnection(err)
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

// callThroughBreaker executes a Call through cb. The breaker's own
// ErrOpenState/ErrTooManyRequests are reported as a ClientError; every
// other error Call can return (RequestError included) passes through
// unchanged.
func callThroughBreaker(ctx context.Context, cb *gobreaker.CircuitBreaker[any], sess *Session, name string, params any) (any, error) {
	result, err := cb.Execute(func() (any, error) {
		return sess.Call(ctx, name, params)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, &ClientError{Message: "circuit breaker: " + err.Error()}
	}
	return result, err
}
