// Package schema implements declarative, composable parsers and
// formatters for Protocol A message structure: scalars, Hollerith
// strings, bit-strings, fixed structures, and homogeneous arrays. It
// knows nothing about sockets, reference numbers, or RPC names — that is
// the root package's job. Schemas are values, composed by nesting, not
// by inheritance.
package schema

import (
	"fmt"

	"github.com/petli/node-lyskom-client/wire"
)

// Schema declares how to parse and format one protocol element.
type Schema interface {
	// NewParser starts a fresh, stateful parse of one value of this
	// schema. Call Done on the result before pushing any token — a
	// zero-token schema (Empty, or a Structure made entirely of them)
	// may already be complete.
	NewParser() Parser

	// Format writes value's wire representation to sink. A type
	// mismatch or missing field is a client-side error. Fields written
	// before the failing one may already be in sink when the error is
	// returned; the request formatter then releases the sink unsent, so
	// no bytes reach the wire.
	Format(sink *Sink, value any) error
}

// Parser is one resumable parse in progress. It is not safe for
// concurrent use; the session drives each active parser from a single
// goroutine, per the dispatcher's single-active-parser invariant.
type Parser interface {
	// Done reports whether the value is complete. Call it after every
	// Push, and once before the first, since some schemas need no
	// tokens at all.
	Done() (ok bool, value any)

	// Push offers the next token toward completing the value. It
	// returns an error the moment the token cannot possibly belong to
	// this schema — the caller should treat that as fatal.
	Push(tok wire.Token) error
}

// ParseError reports a schema-level type mismatch: a token of the wrong
// kind, a missing field, or a declared array length the element stream
// didn't honour. Raised while parsing, it sits at the same layer as
// wire.ProtocolError and is equally fatal to the session that
// encountered it; raised by Format, the request formatter reports it to
// the caller as a ClientError and the session stays open.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "lyskom: schema parse error: " + e.Message
}

func mismatch(want string, tok wire.Token) error {
	return &ParseError{Message: fmt.Sprintf("expected %s, got %s", want, tok.Kind)}
}

// Record is the parsed result of a Structure schema: an ordered
// name-to-value map. Callers use Get/Has rather than positional access
// so catalogue entries can grow fields without breaking existing code.
type Record struct {
	order  []string
	fields map[string]any
}

// NewRecord returns an empty Record, ready to have fields Set on it
// before being formatted against a Structure schema.
func NewRecord() *Record {
	return &Record{fields: make(map[string]any)}
}

// Set assigns name's value, appending name to the field order the first
// time it is seen.
func (r *Record) Set(name string, value any) *Record {
	if _, exists := r.fields[name]; !exists {
		r.order = append(r.order, name)
	}
	r.fields[name] = value
	return r
}

// Get returns name's value and whether it was present.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Has reports whether name was set.
func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Names returns the fields in the order they were first set.
func (r *Record) Names() []string {
	return r.order
}

// ArrayValue is the parsed result of an Array schema. LengthOnly arrays
// (the wire's "<n> *" form) carry no Elems.
type ArrayValue struct {
	Len        int
	Elems      []any
	LengthOnly bool
}

// Bits is the parsed result of a Bitstring schema: the declared flag
// names paired with the raw '0'/'1' digit bytes, read left to right.
type Bits struct {
	Names []string
	Raw   []byte
}

// Get reports whether name's flag is set. An unknown name, or one past
// the bit-string's width, is false.
func (b *Bits) Get(name string) bool {
	for i, n := range b.Names {
		if n == name && i < len(b.Raw) {
			return b.Raw[i] == '1'
		}
	}
	return false
}

// NewBits constructs a Bits value with the given flags set, for use as
// Format input. Names not mentioned in set default to false.
func NewBits(names []string, set ...string) *Bits {
	raw := make([]byte, len(names))
	for i := range raw {
		raw[i] = '0'
	}
	for _, name := range set {
		for i, n := range names {
			if n == name {
				raw[i] = '1'
			}
		}
	}
	return &Bits{Names: names, Raw: raw}
}
