package schema

import "github.com/petli/node-lyskom-client/wire"

// Bitstring declares a fixed-width digit token whose positions are
// named left to right; positions past the last declared name are
// reserved and always zero.
type Bitstring struct {
	Names []string
	Width int
}

func (b Bitstring) NewParser() Parser { return &bitstringParser{schema: b} }

func (b Bitstring) Format(sink *Sink, value any) error {
	bits, ok := value.(*Bits)
	if !ok {
		return &ParseError{Message: "Bitstring: value is not *Bits"}
	}
	raw := make([]byte, b.Width)
	for i := range raw {
		raw[i] = '0'
	}
	for i, name := range b.Names {
		if i >= b.Width {
			break
		}
		if bits.Get(name) {
			raw[i] = '1'
		}
	}
	sink.Raw(raw)
	return nil
}

type bitstringParser struct {
	schema Bitstring
	done   bool
	val    *Bits
}

func (p *bitstringParser) Done() (bool, any) { return p.done, p.val }

func (p *bitstringParser) Push(tok wire.Token) error {
	if tok.Kind != wire.Int {
		return mismatch("Bitstring", tok)
	}
	raw := tok.Raw
	if len(raw) > p.schema.Width {
		return &ParseError{Message: "Bitstring: token wider than declared width"}
	}
	for _, c := range raw {
		if c != '0' && c != '1' {
			return &ParseError{Message: "Bitstring: non-binary digit in token"}
		}
	}
	padded := make([]byte, p.schema.Width)
	copy(padded, raw)
	for i := len(raw); i < p.schema.Width; i++ {
		padded[i] = '0'
	}
	p.val = &Bits{Names: p.schema.Names, Raw: padded}
	p.done = true
	return nil
}
