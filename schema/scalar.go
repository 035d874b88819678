package schema

import "github.com/petli/node-lyskom-client/wire"

// Empty is the schema for a message with no fields, such as logout's
// request or a reply that carries no payload.
type Empty struct{}

func (Empty) NewParser() Parser { return &emptyParser{} }

func (Empty) Format(sink *Sink, value any) error { return nil }

type emptyParser struct{}

func (p *emptyParser) Done() (bool, any) { return true, nil }

func (p *emptyParser) Push(tok wire.Token) error {
	return &ParseError{Message: "Empty schema does not accept tokens"}
}

// Int32 is a scalar 32-bit integer field.
type Int32 struct{}

func (Int32) NewParser() Parser { return &int32Parser{} }

func (Int32) Format(sink *Sink, value any) error {
	v, ok := toInt32(value)
	if !ok {
		return &ParseError{Message: "Int32: value is not an integer"}
	}
	sink.Int(int64(v))
	return nil
}

type int32Parser struct {
	done bool
	val  int32
}

func (p *int32Parser) Done() (bool, any) { return p.done, p.val }

func (p *int32Parser) Push(tok wire.Token) error {
	if tok.Kind != wire.Int {
		return mismatch("Int32", tok)
	}
	p.val = int32(tok.Int)
	p.done = true
	return nil
}

func toInt32(value any) (int32, bool) {
	switch v := value.(type) {
	case int32:
		return v, true
	case int:
		return int32(v), true
	case int64:
		return int32(v), true
	default:
		return 0, false
	}
}

// Bool is a scalar flag field; any non-zero integer on the wire is true.
type Bool struct{}

func (Bool) NewParser() Parser { return &boolParser{} }

func (Bool) Format(sink *Sink, value any) error {
	v, ok := value.(bool)
	if !ok {
		return &ParseError{Message: "Bool: value is not a bool"}
	}
	if v {
		sink.Int(1)
	} else {
		sink.Int(0)
	}
	return nil
}

type boolParser struct {
	done bool
	val  bool
}

func (p *boolParser) Done() (bool, any) { return p.done, p.val }

func (p *boolParser) Push(tok wire.Token) error {
	if tok.Kind != wire.Int {
		return mismatch("Bool", tok)
	}
	p.val = tok.Int != 0
	p.done = true
	return nil
}
