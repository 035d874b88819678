package schema

import "github.com/petli/node-lyskom-client/wire"

// HollerithString is a length-prefixed byte string. Parsed payload
// bytes are never transcoded or copied beyond what the tokenizer
// already holds; character encoding is the caller's concern.
type HollerithString struct{}

func (HollerithString) NewParser() Parser { return &stringParser{} }

func (HollerithString) Format(sink *Sink, value any) error {
	switch v := value.(type) {
	case []byte:
		sink.HollerithString(v)
		return nil
	case string:
		b, err := EncodeLatin1(v)
		if err != nil {
			return &ParseError{Message: "HollerithString: " + err.Error()}
		}
		sink.HollerithString(b)
		return nil
	default:
		return &ParseError{Message: "HollerithString: value is not []byte or string"}
	}
}

type stringParser struct {
	done bool
	val  []byte
}

func (p *stringParser) Done() (bool, any) { return p.done, p.val }

func (p *stringParser) Push(tok wire.Token) error {
	if tok.Kind != wire.String {
		return mismatch("HollerithString", tok)
	}
	p.val = tok.Str
	p.done = true
	return nil
}
