package wire

// ProtocolError reports a byte sequence that does not match the Protocol A
// grammar: an unmatched character, a malformed handshake, or a Hollerith
// payload that never completes before the stream ends. It is always fatal
// to the tokenizer that raised it — once returned, that Tokenizer must not
// be fed further input.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "lyskom: protocol error: " + e.Message
}
