package lyskom

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/petli/node-lyskom-client/catalogue"
	"github.com/petli/node-lyskom-client/internal"
	"github.com/petli/node-lyskom-client/schema"
	"github.com/petli/node-lyskom-client/wire"
)

// State is the session's lifecycle state, per spec.md §5:
// Connecting -> Open -> Closed. Closed is terminal.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateOpen:
		return "Open"
	case StateClosed:
		return "Closed"
	default:
		return "unknown"
	}
}

type callRequest struct {
	name     string
	params   any
	resultCh chan callResult
}

type callResult struct {
	value any
	err   error
}

type inflightEntry struct {
	refNo  uint32
	name   string
	rpc    catalogue.RPC
	result chan callResult
}

type ioEvent struct {
	buf *bytes.Buffer
	err error
}

// Session is one LysKOM Protocol A connection. It owns the socket, the
// tokenizer, the in-flight table, and the dispatch state exclusively
// from a single goroutine started by Connect; Call and Close talk to
// that goroutine over channels, while handler registration, State and
// Stats use a mutex or atomics of their own. See spec.md §5.
type Session struct {
	conn net.Conn
	log  *slog.Logger

	ioCh    chan ioEvent
	callCh  chan *callRequest
	closeCh chan chan error
	doneCh  chan struct{}
	bufPool *internal.BufferPool

	state       atomic.Int32
	maxInFlight int

	handlersMu sync.Mutex
	asyncHdls  map[string][]func(any)
	lifecycle  map[string][]func(error)

	stats *sessionStatsCollector

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Session at Connect time.
type Option func(*Config)

// Connect dials addr, performs the Protocol A handshake, and starts the
// session's dispatcher goroutine. It returns once the server handshake
// "LysKOM\n" has been seen and the client handshake has been written,
// i.e. once the session has reached StateOpen.
func Connect(ctx context.Context, addr string, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("lyskom: dial %s: %w", addr, err)
	}

	return newSession(ctx, conn, cfg)
}

// newSession wraps an already-connected net.Conn in a Session and runs
// the handshake; factored out of Connect so tests can drive a Session
// over an in-memory net.Conn instead of a real socket.
func newSession(ctx context.Context, conn net.Conn, cfg Config) (*Session, error) {
	s := &Session{
		conn:        conn,
		log:         cfg.Logger,
		ioCh:        make(chan ioEvent, 4),
		callCh:      make(chan *callRequest),
		closeCh:     make(chan chan error),
		doneCh:      make(chan struct{}),
		bufPool:     internal.NewBufferPool(4096),
		maxInFlight: cfg.MaxInFlight,
		asyncHdls:   make(map[string][]func(any)),
		lifecycle:   make(map[string][]func(error)),
		stats:       newSessionStatsCollector(),
	}
	s.state.Store(int32(StateConnecting))

	handshake := []byte("A")
	userHost, err := schema.EncodeLatin1(cfg.User + "%" + cfg.Host)
	if err != nil {
		conn.Close()
		return nil, &ClientError{Message: "client handshake: " + err.Error()}
	}
	handshake = appendHandshake(handshake, userHost)
	if _, err := conn.Write(handshake); err != nil {
		conn.Close()
		return nil, fmt.Errorf("lyskom: write client handshake: %w", err)
	}

	openedCh := make(chan error, 1)
	go s.readLoop()
	go s.run(openedCh)

	select {
	case err := <-openedCh:
		if err != nil {
			return nil, err
		}
		return s, nil
	case <-ctx.Done():
		s.Close()
		return nil, ctx.Err()
	}
}

func appendHandshake(prefix, userHost []byte) []byte {
	prefix = append(prefix, strconv.Itoa(len(userHost))...)
	prefix = append(prefix, 'H')
	prefix = append(prefix, userHost...)
	prefix = append(prefix, '\n')
	return prefix
}

func (s *Session) readLoop() {
	raw := make([]byte, 4096)
	for {
		n, err := s.conn.Read(raw)
		if n > 0 {
			buf := s.bufPool.Get()
			buf.Write(raw[:n])
			s.ioCh <- ioEvent{buf: buf}
		}
		if err != nil {
			s.ioCh <- ioEvent{err: err}
			return
		}
	}
}

// run is the session's single logical executor: the only goroutine that
// ever touches the tokenizer, the in-flight table, or the dispatch
// sub-state. openedCh receives exactly one value, the moment the
// handshake completes or dial-time setup irrecoverably fails.
func (s *Session) run(openedCh chan error) {
	d := newDispatcher(wire.New(true))
	inflight := make(map[uint32]*inflightEntry)
	var nextRef uint32
	opened := false

	defer func() {
		close(s.doneCh)
		s.conn.Close()
	}()

	fail := func(err error) {
		s.state.Store(int32(StateClosed))
		if _, ok := err.(*ProtocolError); ok {
			s.log.Error("protocol error", "err", err)
			s.stats.recordProtocolError()
		}
		for _, entry := range inflight {
			entry.result <- callResult{err: err}
		}
		inflight = map[uint32]*inflightEntry{}
		s.emitLifecycle("error", err)
		s.emitLifecycle("close", err)
		if !opened {
			opened = true
			openedCh <- err
		}
	}

	for {
		select {
		case ev := <-s.ioCh:
			if ev.err != nil {
				fail(&ProtocolError{Message: "connection closed", cause: ev.err})
				return
			}
			toks, handshake, serverErrs, err := d.tok.Feed(ev.buf.Bytes())
			s.bufPool.Put(ev.buf)
			if err != nil {
				fail(&ProtocolError{Message: "tokenizer", cause: err})
				return
			}
			if handshake {
				s.state.Store(int32(StateOpen))
				s.emitLifecycle("connect", nil)
				if !opened {
					opened = true
					openedCh <- nil
				}
			}
			for _, text := range serverErrs {
				se := &ServerError{Text: text}
				s.log.Warn("server error", "text", text)
				s.emitLifecycle("error", se)
			}
			for _, tok := range toks {
				evt, err := d.push(tok, func(refNo uint32) (catalogue.RPC, bool) {
					entry, ok := inflight[refNo]
					if !ok {
						return catalogue.RPC{}, false
					}
					return entry.rpc, true
				})
				if err != nil {
					fail(&ProtocolError{Message: "dispatch", cause: err})
					return
				}
				if evt == nil {
					continue
				}
				switch evt.kind {
				case dispatchReply:
					entry, ok := inflight[evt.refNo]
					if !ok {
						fail(&ProtocolError{Message: fmt.Sprintf("reply to unknown refNo %d", evt.refNo)})
						return
					}
					delete(inflight, evt.refNo)
					entry.result <- callResult{value: evt.value}
					s.stats.recordCall(nil)
				case dispatchError:
					entry, ok := inflight[evt.refNo]
					if !ok {
						fail(&ProtocolError{Message: fmt.Sprintf("error reply to unknown refNo %d", evt.refNo)})
						return
					}
					delete(inflight, evt.refNo)
					reqErr := &RequestError{ErrorCode: evt.errorCode, ErrorName: catalogue.ErrorName(evt.errorCode), ErrorStatus: evt.errorStatus}
					entry.result <- callResult{err: reqErr}
					s.stats.recordCall(reqErr)
				case dispatchAsync:
					s.stats.recordAsync()
					s.emitAsync(evt.asyncName, evt.value)
				}
			}

		case req := <-s.callCh:
			if State(s.state.Load()) != StateOpen {
				req.resultCh <- callResult{err: ErrClosed}
				continue
			}
			rpc, ok := catalogue.RPCs[req.name]
			if !ok {
				req.resultCh <- callResult{err: ErrUnknownRPC}
				continue
			}
			if s.maxInFlight > 0 && len(inflight) >= s.maxInFlight {
				req.resultCh <- callResult{err: ErrTooManyInFlight}
				continue
			}

			refNo := nextRef
			for {
				if _, inUse := inflight[refNo]; !inUse {
					break
				}
				refNo++
			}
			nextRef = refNo + 1

			sink, err := formatRequest(refNo, rpc, req.params)
			if err != nil {
				req.resultCh <- callResult{err: err}
				continue
			}
			_, werr := s.conn.Write(sink.Bytes())
			sink.Release()
			if werr != nil {
				req.resultCh <- callResult{err: werr}
				fail(&ProtocolError{Message: "write", cause: werr})
				return
			}

			inflight[refNo] = &inflightEntry{refNo: refNo, name: req.name, rpc: rpc, result: req.resultCh}

		case respCh := <-s.closeCh:
			fail(ErrClosed)
			respCh <- nil
			return
		}
	}
}

// Call sends an RPC by catalogue name and blocks until the matching
// reply, error reply, ctx cancellation, or session close. The returned
// value is whatever the RPC's response schema parsed to — a *schema.Record
// for every Structure response, or the schema's own scalar/array type for
// the handful of RPCs (get-text) whose response isn't a structure.
func (s *Session) Call(ctx context.Context, name string, params any) (any, error) {
	resultCh := make(chan callResult, 1)
	req := &callRequest{name: name, params: params, resultCh: resultCh}

	select {
	case s.callCh <- req:
	case <-s.doneCh:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-resultCh:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// On subscribes handler to a named async event (e.g. "send-message").
func (s *Session) On(event string, handler func(value any)) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.asyncHdls[event] = append(s.asyncHdls[event], handler)
}

// OnLifecycle subscribes handler to a connection lifecycle event:
// "connect", "error", or "close". err is nil for "connect".
func (s *Session) OnLifecycle(event string, handler func(err error)) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.lifecycle[event] = append(s.lifecycle[event], handler)
}

func (s *Session) emitAsync(name string, value any) {
	s.handlersMu.Lock()
	handlers := append([]func(any){}, s.asyncHdls[name]...)
	s.handlersMu.Unlock()
	for _, h := range handlers {
		h(value)
	}
}

func (s *Session) emitLifecycle(event string, err error) {
	s.handlersMu.Lock()
	handlers := append([]func(error){}, s.lifecycle[event]...)
	s.handlersMu.Unlock()
	for _, h := range handlers {
		h(err)
	}
}

// Close idempotently tears the session down: every still-pending Call
// fails with ErrClosed, the socket closes, and State becomes Closed.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		respCh := make(chan error, 1)
		select {
		case s.closeCh <- respCh:
			<-respCh
		case <-s.doneCh:
		}
		s.closeErr = ErrClosed
	})
	return nil
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of this session's counters.
func (s *Session) Stats() ClientStats {
	return s.stats.snapshot()
}
