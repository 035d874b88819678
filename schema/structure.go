package schema

import "github.com/petli/node-lyskom-client/wire"

// Field is one named, typed member of a Structure.
type Field struct {
	Name   string
	Schema Schema
}

// Structure is an ordered list of named fields. Parsing produces a
// *Record; formatting requires every declared field to be present.
type Structure struct {
	Fields []Field
}

func (s Structure) NewParser() Parser {
	p := &structureParser{schema: s, record: NewRecord()}
	p.advance()
	return p
}

func (s Structure) Format(sink *Sink, value any) error {
	rec, ok := value.(*Record)
	if !ok {
		return &ParseError{Message: "Structure: value is not *Record"}
	}
	for _, f := range s.Fields {
		v, present := rec.Get(f.Name)
		if !present {
			return &ParseError{Message: "Structure: missing field " + f.Name}
		}
		if err := f.Schema.Format(sink, v); err != nil {
			return err
		}
	}
	return nil
}

type structureParser struct {
	schema Structure
	index  int
	cur    Parser
	record *Record
	done   bool
}

// advance skips past any field whose parser is already complete without
// needing a token (an Empty field, or a Structure made entirely of
// them), and leaves cur pointing at the next field genuinely awaiting
// input — or marks the whole structure done.
func (p *structureParser) advance() {
	for p.index < len(p.schema.Fields) {
		f := p.schema.Fields[p.index]
		if p.cur == nil {
			p.cur = f.Schema.NewParser()
		}
		if done, val := p.cur.Done(); done {
			p.record.Set(f.Name, val)
			p.index++
			p.cur = nil
			continue
		}
		return
	}
	p.done = true
}

func (p *structureParser) Done() (bool, any) {
	if p.done {
		return true, p.record
	}
	return false, nil
}

func (p *structureParser) Push(tok wire.Token) error {
	if p.done || p.cur == nil {
		return &ParseError{Message: "Structure: no field awaiting input"}
	}
	if err := p.cur.Push(tok); err != nil {
		return err
	}
	p.advance()
	return nil
}
