// Package wire turns a byte stream into the token sequence Protocol A is
// built from: integers, floats, Hollerith strings, and a handful of
// structural single-character tokens. It knows nothing about what the
// tokens mean — that is schema's job.
package wire

// Kind identifies the variant of a Token.
type Kind int

const (
	Int Kind = iota
	Float
	String
	OpenBrace
	CloseBrace
	Star
	Equals
	Percent
	Colon
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case OpenBrace:
		return "{"
	case CloseBrace:
		return "}"
	case Star:
		return "*"
	case Equals:
		return "="
	case Percent:
		return "%"
	case Colon:
		return ":"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a Protocol A message.
//
// Raw holds the literal digit bytes of an Int token (leading zeros and
// all), so a Bitstring schema can reinterpret it without the tokenizer
// having to guess ahead of time that a given integer will be read as a
// bit-string.
type Token struct {
	Kind  Kind
	Int   int64
	Raw   []byte
	Float float64
	Str   []byte
}

func (t Token) String() string {
	switch t.Kind {
	case Int:
		return string(t.Raw)
	case Float:
		return "<float>"
	case String:
		return string(t.Str)
	default:
		return t.Kind.String()
	}
}
