package lyskom

import "fmt"

// ClientError reports a caller-supplied parameter a formatter rejected:
// a missing field, a wrong-typed value, or a non-encodable string. It
// is always synchronous — returned from Call before anything is written
// to the socket — and never affects the connection.
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string {
	return "lyskom: client error: " + e.Message
}

func (e *ClientError) shouldCloseConnection() bool { return false }

// RequestError is a server "%" reply correlated to a specific in-flight
// request: it completes that request's future with failure and leaves
// every other in-flight request untouched.
type RequestError struct {
	ErrorCode   int32
	ErrorName   string
	ErrorStatus int32
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("lyskom: request error: %s (code %d, status %d)", e.ErrorName, e.ErrorCode, e.ErrorStatus)
}

func (e *RequestError) shouldCloseConnection() bool { return false }

// ServerError is a server "%%" out-of-band message. A frame arriving
// during the handshake never reaches this type — the tokenizer itself
// raises a fatal ProtocolError at that point, since "%" is not a valid
// prefix of the handshake literal. Every ServerError the session emits
// is therefore the non-fatal, connection-survives case.
type ServerError struct {
	Text string
}

func (e *ServerError) Error() string {
	return "lyskom: server error: " + e.Text
}

func (e *ServerError) shouldCloseConnection() bool { return false }

// ProtocolError is a tokenizer or schema-parser failure: unparseable or
// type-wrong input. It is always fatal — every in-flight request fails,
// the session emits "error", then "close", and transitions to Closed.
type ProtocolError struct {
	Message string
	cause   error
}

func (e *ProtocolError) Error() string {
	if e.cause != nil {
		return "lyskom: protocol error: " + e.Message + ": " + e.cause.Error()
	}
	return "lyskom: protocol error: " + e.Message
}

func (e *ProtocolError) Unwrap() error { return e.cause }

func (e *ProtocolError) shouldCloseConnection() bool { return true }

// closer is satisfied by every error kind the dispatcher raises; it
// decides whether the connection must be torn down.
type closer interface {
	shouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err, if returned from Call or
// observed via the "error" event, indicates the connection is no longer
// usable. Errors the library didn't originate are treated as fatal.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}
	if err == ErrClosed {
		return true
	}
	if c, ok := err.(closer); ok {
		return c.shouldCloseConnection()
	}
	return true
}

// ErrTooManyInFlight is returned by Call when the in-flight table has
// reached Config.MaxInFlight.
var ErrTooManyInFlight = &ClientError{Message: "too many requests in flight"}

// ErrClosed is returned by Call, and used to fail every still-pending
// request, once the session has reached the Closed state.
var ErrClosed = &ClientError{Message: "session closed"}

// ErrUnknownRPC is returned by Call when name is not in the catalogue.
var ErrUnknownRPC = &ClientError{Message: "unknown RPC"}
