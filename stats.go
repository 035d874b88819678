package lyskom

import "sync/atomic"

// ClientStats is a snapshot of one Session's counters. It is deliberately
// shaped so a Prometheus collector could read it directly, though no
// metrics pipeline is implemented here.
type ClientStats struct {
	Calls         uint64
	CallErrors    uint64
	AsyncEvents   uint64
	ProtocolErrors uint64
	Reconnects    uint64
}

// sessionStatsCollector holds the live counters a Session updates as it
// runs; Stats() reads a consistent snapshot via atomic loads. Each
// counter lives on its own cache line, the way a high-throughput client
// avoids false sharing between counters that are written from the same
// single-threaded dispatcher but read concurrently from Stats().
type sessionStatsCollector struct {
	calls          atomic.Uint64
	_              [7]uint64
	callErrors     atomic.Uint64
	_              [7]uint64
	asyncEvents    atomic.Uint64
	_              [7]uint64
	protocolErrors atomic.Uint64
	_              [7]uint64
	reconnects     atomic.Uint64
}

func newSessionStatsCollector() *sessionStatsCollector {
	return &sessionStatsCollector{}
}

// recordCall accounts one completed Call; err is the request-level
// error the reply carried, if any (a RequestError, never nil-checked
// against other kinds since only reply/error-reply dispatch calls this).
func (c *sessionStatsCollector) recordCall(err error) {
	c.calls.Add(1)
	if err != nil {
		c.callErrors.Add(1)
	}
}

func (c *sessionStatsCollector) recordAsync() {
	c.asyncEvents.Add(1)
}

func (c *sessionStatsCollector) recordProtocolError() {
	c.protocolErrors.Add(1)
}

func (c *sessionStatsCollector) recordReconnect() {
	c.reconnects.Add(1)
}

func (c *sessionStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Calls:          c.calls.Load(),
		CallErrors:     c.callErrors.Load(),
		AsyncEvents:    c.asyncEvents.Load(),
		ProtocolErrors: c.protocolErrors.Load(),
		Reconnects:     c.reconnects.Load(),
	}
}

// PoolStats is a snapshot of a Pool's counters, mirroring
// github.com/jackc/puddle/v2's puddle.Stat shape so both Pool
// implementations report the same fields regardless of backend.
type PoolStats struct {
	TotalSessions    int32
	IdleSessions     int32
	ActiveSessions   int32
	AcquireCount     int64
	AcquireDuration  int64 // nanoseconds, total time spent waiting in Acquire
	CreatedSessions  int64
	DestroyedSessions int64
}

// ServerPoolStats pairs one server address with its pool's stats, the
// shape (*SessionPool).Stats returns for every configured server.
type ServerPoolStats struct {
	Addr string
	Pool PoolStats
}
