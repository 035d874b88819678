package schema

import (
	"strconv"
	"sync"
)

// Sink accumulates the serialised form of a request. Every field is
// written with exactly one leading space, matching the wire grammar's
// "<refNo> <rpcNum>[ <field>]*" shape; Prefix is the one exception, used
// by the request formatter to write refNo itself and the terminating
// newline.
type Sink struct {
	buf []byte
}

var sinkPool = sync.Pool{
	New: func() any { return &Sink{buf: make([]byte, 0, 128)} },
}

// AcquireSink returns a Sink from the pool, reset and ready to use.
func AcquireSink() *Sink {
	s := sinkPool.Get().(*Sink)
	s.buf = s.buf[:0]
	return s
}

// Release returns the Sink to the pool. The Sink must not be used again
// afterwards.
func (s *Sink) Release() {
	sinkPool.Put(s)
}

// Bytes returns the bytes accumulated so far. The slice aliases the
// Sink's internal buffer and is only valid until Release.
func (s *Sink) Bytes() []byte {
	return s.buf
}

// Prefix appends b with no leading space.
func (s *Sink) Prefix(b []byte) {
	s.buf = append(s.buf, b...)
}

func (s *Sink) space() {
	s.buf = append(s.buf, ' ')
}

// Int writes a space then v in decimal.
func (s *Sink) Int(v int64) {
	s.space()
	s.buf = strconv.AppendInt(s.buf, v, 10)
}

// Raw writes a space then b verbatim — used for bit-strings, whose
// digits are already in wire form.
func (s *Sink) Raw(b []byte) {
	s.space()
	s.buf = append(s.buf, b...)
}

// HollerithString writes a space then b as "<len>H<bytes>".
func (s *Sink) HollerithString(b []byte) {
	s.space()
	s.buf = strconv.AppendInt(s.buf, int64(len(b)), 10)
	s.buf = append(s.buf, 'H')
	s.buf = append(s.buf, b...)
}

// Token writes a space then a single structural byte (one of
// '{' '}' '*' '=' '%' ':').
func (s *Sink) Token(tok byte) {
	s.space()
	s.buf = append(s.buf, tok)
}
