package schema

import "github.com/petli/node-lyskom-client/wire"

// Array is a homogeneous, length-prefixed sequence. On the wire it is
// either "<n> { e1 ... en }" or, for the length-only form, "<n> *".
type Array struct {
	Elem Schema
}

func (a Array) NewParser() Parser { return &arrayParser{schema: a} }

func (a Array) Format(sink *Sink, value any) error {
	av, ok := value.(*ArrayValue)
	if !ok {
		return &ParseError{Message: "Array: value is not *ArrayValue"}
	}
	sink.Int(int64(av.Len))
	if av.LengthOnly {
		sink.Token('*')
		return nil
	}
	if len(av.Elems) != av.Len {
		return &ParseError{Message: "Array: Elems length does not match Len"}
	}
	sink.Token('{')
	for _, e := range av.Elems {
		if err := a.Elem.Format(sink, e); err != nil {
			return err
		}
	}
	sink.Token('}')
	return nil
}

type arrayPhase int

const (
	arrayAwaitLength arrayPhase = iota
	arrayAwaitBraceOrStar
	arrayElements
	arrayAwaitClose
	arrayDone
)

type arrayParser struct {
	schema     Array
	phase      arrayPhase
	length     int
	lengthOnly bool
	elems      []any
	cur        Parser
}

func (p *arrayParser) Done() (bool, any) {
	if p.phase != arrayDone {
		return false, nil
	}
	return true, &ArrayValue{Len: p.length, Elems: p.elems, LengthOnly: p.lengthOnly}
}

func (p *arrayParser) Push(tok wire.Token) error {
	switch p.phase {

	case arrayAwaitLength:
		if tok.Kind != wire.Int {
			return mismatch("Array length", tok)
		}
		p.length = int(tok.Int)
		p.phase = arrayAwaitBraceOrStar
		return nil

	case arrayAwaitBraceOrStar:
		switch tok.Kind {
		case wire.Star:
			p.lengthOnly = true
			p.phase = arrayDone
			return nil
		case wire.OpenBrace:
			if p.length == 0 {
				p.phase = arrayAwaitClose
				return nil
			}
			p.elems = make([]any, 0, p.length)
			p.startElement()
			return nil
		default:
			return mismatch("Array '*' or '{'", tok)
		}

	case arrayElements:
		if err := p.cur.Push(tok); err != nil {
			return err
		}
		return p.collectElement()

	case arrayAwaitClose:
		if tok.Kind != wire.CloseBrace {
			return mismatch("Array '}'", tok)
		}
		if len(p.elems) != p.length {
			return &ParseError{Message: "Array: declared length does not match element count"}
		}
		p.phase = arrayDone
		return nil

	default:
		return &ParseError{Message: "Array: no input expected"}
	}
}

// startElement begins a new element parse and immediately collects it
// if it turns out to need no tokens at all (an Array of Empty, or of a
// Structure made entirely of Empty fields).
func (p *arrayParser) startElement() {
	p.cur = p.schema.Elem.NewParser()
	if done, val := p.cur.Done(); done {
		p.elems = append(p.elems, val)
		p.cur = nil
		if len(p.elems) == p.length {
			p.phase = arrayAwaitClose
			return
		}
		p.startElement()
		return
	}
	p.phase = arrayElements
}

func (p *arrayParser) collectElement() error {
	done, val := p.cur.Done()
	if !done {
		return nil
	}
	p.elems = append(p.elems, val)
	p.cur = nil
	if len(p.elems) > p.length {
		return &ParseError{Message: "Array: more elements than declared length"}
	}
	if len(p.elems) == p.length {
		p.phase = arrayAwaitClose
		return nil
	}
	p.startElement()
	return nil
}
