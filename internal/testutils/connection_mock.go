package testutils

import (
	"bytes"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ConnectionMock is a mock net.Conn for driving a Session without a real
// socket. Reads come from an io.Pipe a test feeds with Feed, so a test
// can script a multi-round-trip exchange (write the handshake, wait for
// the client's request, write the reply) instead of only a canned
// one-shot response.
type ConnectionMock struct {
	readR *io.PipeReader
	readW *io.PipeWriter

	writeMu  sync.Mutex
	writeBuf *bytes.Buffer

	closed atomic.Bool
}

// NewConnectionMock creates a mock connection. If responseData is given,
// it is fed to the read side immediately, in order, as a convenience
// for tests that only need one scripted response.
func NewConnectionMock(responseData ...string) *ConnectionMock {
	r, w := io.Pipe()
	m := &ConnectionMock{readR: r, readW: w, writeBuf: &bytes.Buffer{}}
	if len(responseData) > 0 {
		go m.Feed(strings.Join(responseData, ""))
	}
	return m
}

// Feed writes s to the read side, unblocking whatever Read call is
// waiting on it. It blocks until the reader has consumed it, like a
// real socket write would.
func (m *ConnectionMock) Feed(s string) (int, error) {
	return m.readW.Write([]byte(s))
}

// FeedClose ends the read side with err (io.EOF for a clean close).
func (m *ConnectionMock) FeedClose(err error) error {
	return m.readW.CloseWithError(err)
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	return m.readR.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed.Store(true)
	return m.readW.CloseWithError(io.EOF)
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4894}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// GetWrittenRequest returns the raw bytes written to the mock connection
// so far.
func (m *ConnectionMock) GetWrittenRequest() string {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.writeBuf.String()
}
