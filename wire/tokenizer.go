package wire

import (
	"bytes"
	"strconv"
)

const handshakeLiteral = "LysKOM\n"

// Tokenizer is a resumable bytes-to-tokens state machine. Feed it chunks of
// arbitrary size, in order, as they arrive from the byte-stream adapter; it
// buffers whatever is not yet a complete token and picks up exactly where it
// left off on the next call. This property — identical token output
// regardless of how the underlying bytes were chunked — is the whole point
// of the type; see the package tests for the chunking invariant.
//
// A Tokenizer is single-use: once it returns an error, every subsequent
// call returns the same error.
type Tokenizer struct {
	expectHandshake bool
	handshakeDone   bool
	hsMatched       int

	buf []byte
	err error
}

// New creates a Tokenizer. If expectHandshake is true, the first bytes fed
// must be the literal server handshake "LysKOM\n" before any token is
// produced.
func New(expectHandshake bool) *Tokenizer {
	return &Tokenizer{expectHandshake: expectHandshake}
}

// Feed appends chunk to the internal buffer and extracts every token that
// is now complete. handshake is true on the one call during which the
// handshake preface completes. serverErrors carries the text of any "%%"
// out-of-band frames found while scanning.
func (t *Tokenizer) Feed(chunk []byte) (tokens []Token, handshake bool, serverErrors []string, err error) {
	if t.err != nil {
		return nil, false, nil, t.err
	}

	t.buf = append(t.buf, chunk...)

	if t.expectHandshake && !t.handshakeDone {
		consumed, matched := t.scanHandshake()
		if !matched {
			return nil, false, nil, t.fail("malformed handshake preface")
		}
		t.buf = t.buf[consumed:]
		if !t.handshakeDone {
			return nil, false, nil, nil
		}
		handshake = true
	}

	tokens, serverErrors, err = t.scan(false)
	if err != nil {
		t.err = err
	}
	return tokens, handshake, serverErrors, err
}

// End signals that the byte stream has closed. Any integer or float still
// awaiting a terminating whitespace byte is flushed by appending a single
// synthetic space; anything left unparsed after that is a fatal
// ProtocolError, per the wire grammar's end-of-stream rule.
func (t *Tokenizer) End() (tokens []Token, err error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.expectHandshake && !t.handshakeDone {
		return nil, t.fail("stream ended during handshake")
	}

	t.buf = append(t.buf, ' ')
	tokens, _, err = t.scan(true)
	if err != nil {
		t.err = err
		return tokens, err
	}
	if len(t.buf) > 0 {
		return tokens, t.fail("trailing unparsed bytes at end of stream")
	}
	return tokens, nil
}

func (t *Tokenizer) fail(msg string) error {
	err := &ProtocolError{Message: msg}
	t.err = err
	return err
}

// scanHandshake advances hsMatched against handshakeLiteral using whatever
// prefix of t.buf is available, returning how many bytes it consumed.
// matched is false the moment a byte mismatches the literal.
func (t *Tokenizer) scanHandshake() (consumed int, matched bool) {
	i := 0
	for i < len(t.buf) && t.hsMatched < len(handshakeLiteral) {
		if t.buf[i] != handshakeLiteral[t.hsMatched] {
			return 0, false
		}
		t.hsMatched++
		i++
	}
	if t.hsMatched == len(handshakeLiteral) {
		t.handshakeDone = true
	}
	return i, true
}

// scan runs the normal-mode lexer over t.buf until it is exhausted or a
// token cannot yet be completed, consuming t.buf as it goes. final is true
// only from End, after the synthetic flush byte has been appended; it only
// affects the single-byte '%' lookahead below — everywhere else, an
// incomplete token simply suspends and End's caller-level leftover-bytes
// check turns that into the end-of-stream ProtocolError.
func (t *Tokenizer) scan(final bool) (tokens []Token, serverErrors []string, err error) {
	for {
		i := 0
		for i < len(t.buf) && isSpace(t.buf[i]) {
			i++
		}
		t.buf = t.buf[i:]
		if len(t.buf) == 0 {
			return tokens, serverErrors, nil
		}

		c := t.buf[0]
		switch {
		case c == '%':
			if len(t.buf) < 2 {
				if final {
					tokens = append(tokens, Token{Kind: Percent})
					t.buf = t.buf[1:]
					continue
				}
				return tokens, serverErrors, nil
			}
			if t.buf[1] == '%' {
				nl := bytes.IndexByte(t.buf[2:], '\n')
				if nl < 0 {
					return tokens, serverErrors, nil
				}
				serverErrors = append(serverErrors, string(t.buf[2:2+nl]))
				t.buf = t.buf[2+nl+1:]
				continue
			}
			tokens = append(tokens, Token{Kind: Percent})
			t.buf = t.buf[1:]

		case c == '{':
			tokens = append(tokens, Token{Kind: OpenBrace})
			t.buf = t.buf[1:]
		case c == '}':
			tokens = append(tokens, Token{Kind: CloseBrace})
			t.buf = t.buf[1:]
		case c == '*':
			tokens = append(tokens, Token{Kind: Star})
			t.buf = t.buf[1:]
		case c == '=':
			tokens = append(tokens, Token{Kind: Equals})
			t.buf = t.buf[1:]
		case c == ':':
			tokens = append(tokens, Token{Kind: Colon})
			t.buf = t.buf[1:]

		case isDigit(c):
			tok, consumed, suspend, serr := t.scanNumber()
			if serr != nil {
				return tokens, serverErrors, serr
			}
			if suspend {
				return tokens, serverErrors, nil
			}
			tokens = append(tokens, tok)
			t.buf = t.buf[consumed:]

		default:
			return tokens, serverErrors, &ProtocolError{
				Message: "unexpected byte " + strconv.QuoteRune(rune(c)),
			}
		}
	}
}

// scanNumber lexes a digit run at the front of t.buf and classifies it as
// an Int, a Float, or a Hollerith string header, without consuming
// anything from t.buf itself — the caller reslices once told how much to
// take.
func (t *Tokenizer) scanNumber() (tok Token, consumed int, suspend bool, err error) {
	buf := t.buf
	n := len(buf)

	i := 0
	for i < n && isDigit(buf[i]) {
		i++
	}
	if i == n {
		return Token{}, 0, true, nil
	}

	switch buf[i] {
	case 'H':
		length, perr := strconv.Atoi(string(buf[:i]))
		if perr != nil {
			return Token{}, 0, false, &ProtocolError{Message: "malformed Hollerith length: " + perr.Error()}
		}
		payloadStart := i + 1
		payloadEnd := payloadStart + length
		if payloadEnd > n {
			return Token{}, 0, true, nil
		}
		payload := append([]byte(nil), buf[payloadStart:payloadEnd]...)
		return Token{Kind: String, Str: payload}, payloadEnd, false, nil

	case '.':
		j := i + 1
		for j < n && isDigit(buf[j]) {
			j++
		}
		if j == n {
			return Token{}, 0, true, nil
		}
		if j == i+1 {
			return Token{}, 0, false, &ProtocolError{Message: "malformed float: no fractional digits"}
		}
		if !isSpace(buf[j]) {
			return Token{}, 0, false, &ProtocolError{Message: "malformed float: unexpected terminator"}
		}
		val, perr := strconv.ParseFloat(string(buf[:j]), 64)
		if perr != nil {
			return Token{}, 0, false, &ProtocolError{Message: "malformed float: " + perr.Error()}
		}
		return Token{Kind: Float, Float: val}, j, false, nil

	default:
		if !isSpace(buf[i]) {
			return Token{}, 0, false, &ProtocolError{Message: "malformed token: digits followed by " + strconv.QuoteRune(rune(buf[i]))}
		}
		raw := append([]byte(nil), buf[:i]...)
		val, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr != nil {
			return Token{}, 0, false, &ProtocolError{Message: "malformed integer: " + perr.Error()}
		}
		return Token{Kind: Int, Int: val, Raw: raw}, i, false, nil
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
