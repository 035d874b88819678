package lyskom

import (
	"fmt"

	"github.com/petli/node-lyskom-client/catalogue"
	"github.com/petli/node-lyskom-client/schema"
	"github.com/petli/node-lyskom-client/wire"
)

// errorReplySchema is the fixed structure behind every "%<refNo>
// <errorCode> <errorStatus>" error reply.
var errorReplySchema = schema.Structure{Fields: []schema.Field{
	{Name: "errorCode", Schema: schema.Int32{}},
	{Name: "errorStatus", Schema: schema.Int32{}},
}}

type dispatchKind int

const (
	dispatchReply dispatchKind = iota
	dispatchError
	dispatchAsync
)

// dispatchEvent is what push returns once a reply, error reply, or
// async message has fully arrived. push returns (nil, nil) for every
// token that only advances state without completing one.
type dispatchEvent struct {
	kind        dispatchKind
	refNo       uint32
	value       any
	errorCode   int32
	errorStatus int32
	asyncName   string
}

type inboundPhase int

const (
	phaseIdle inboundPhase = iota
	phaseAwaitReplyRef
	phaseAwaitErrorRef
	phaseAwaitAsyncK
	phaseAwaitAsyncM
	phaseParsingReply
	phaseParsingError
	phaseParsingAsync
	phaseSkippingAsync
)

// dispatcher drives the inbound token sub-state-machine of spec.md §4.4:
//
//	Idle --[=]--> AwaitReplyRef --[Int n]--> Parsing(reply, schema-for(n))
//	Idle --[%]--> AwaitErrorRef --[Int n]--> Parsing(error)
//	Idle --[:]--> AwaitAsyncK --[Int k]--> AwaitAsyncM --[Int m]--> Parsing(async) or skip k
//
// It never touches the in-flight table itself — the caller supplies a
// lookup for "what response schema does refNo correlate to", since only
// the session owns that table.
type dispatcher struct {
	tok   *wire.Tokenizer
	phase inboundPhase

	pendingAsyncK int32
	skipRemaining int32

	activeRefNo     uint32
	activeAsyncName string
	activeParser    schema.Parser
}

func newDispatcher(tok *wire.Tokenizer) *dispatcher {
	return &dispatcher{tok: tok}
}

// push offers one token to the sub-state-machine. rpcFor resolves a
// refNo seen after "=" to the RPC whose response schema governs the
// reply that follows; an unknown refNo is fatal, per spec.md §7.
func (d *dispatcher) push(tok wire.Token, rpcFor func(refNo uint32) (catalogue.RPC, bool)) (*dispatchEvent, error) {
	switch d.phase {
	case phaseIdle:
		switch tok.Kind {
		case wire.Equals:
			d.phase = phaseAwaitReplyRef
		case wire.Percent:
			d.phase = phaseAwaitErrorRef
		case wire.Colon:
			d.phase = phaseAwaitAsyncK
		default:
			return nil, fmt.Errorf("expected '=', '%%', or ':' at top level, got %s", tok.Kind)
		}
		return nil, nil

	case phaseAwaitReplyRef:
		if tok.Kind != wire.Int {
			return nil, fmt.Errorf("expected refNo after '=', got %s", tok.Kind)
		}
		refNo := uint32(tok.Int)
		rpc, ok := rpcFor(refNo)
		if !ok {
			return nil, fmt.Errorf("reply to unknown refNo %d", refNo)
		}
		d.activeRefNo = refNo
		d.activeParser = rpc.Response.NewParser()
		if done, val := d.activeParser.Done(); done {
			d.activeParser = nil
			d.phase = phaseIdle
			return &dispatchEvent{kind: dispatchReply, refNo: refNo, value: val}, nil
		}
		d.phase = phaseParsingReply
		return nil, nil

	case phaseAwaitErrorRef:
		if tok.Kind != wire.Int {
			return nil, fmt.Errorf("expected refNo after '%%', got %s", tok.Kind)
		}
		d.activeRefNo = uint32(tok.Int)
		d.activeParser = errorReplySchema.NewParser()
		d.phase = phaseParsingError
		return nil, nil

	case phaseParsingReply:
		if err := d.activeParser.Push(tok); err != nil {
			return nil, err
		}
		if done, val := d.activeParser.Done(); done {
			refNo := d.activeRefNo
			d.activeParser = nil
			d.phase = phaseIdle
			return &dispatchEvent{kind: dispatchReply, refNo: refNo, value: val}, nil
		}
		return nil, nil

	case phaseParsingError:
		if err := d.activeParser.Push(tok); err != nil {
			return nil, err
		}
		if done, val := d.activeParser.Done(); done {
			rec := val.(*schema.Record)
			codeVal, _ := rec.Get("errorCode")
			statusVal, _ := rec.Get("errorStatus")
			refNo := d.activeRefNo
			d.activeParser = nil
			d.phase = phaseIdle
			return &dispatchEvent{
				kind:        dispatchError,
				refNo:       refNo,
				errorCode:   codeVal.(int32),
				errorStatus: statusVal.(int32),
			}, nil
		}
		return nil, nil

	case phaseAwaitAsyncK:
		if tok.Kind != wire.Int {
			return nil, fmt.Errorf("expected numParams after ':', got %s", tok.Kind)
		}
		d.pendingAsyncK = int32(tok.Int)
		d.phase = phaseAwaitAsyncM
		return nil, nil

	case phaseAwaitAsyncM:
		if tok.Kind != wire.Int {
			return nil, fmt.Errorf("expected msgNum after numParams, got %s", tok.Kind)
		}
		m := int32(tok.Int)
		if async, ok := catalogue.AsyncByNumber[m]; ok {
			d.activeAsyncName = async.Name
			d.activeParser = async.Schema.NewParser()
			if done, val := d.activeParser.Done(); done {
				name := d.activeAsyncName
				d.activeParser = nil
				d.phase = phaseIdle
				return &dispatchEvent{kind: dispatchAsync, asyncName: name, value: val}, nil
			}
			d.phase = phaseParsingAsync
			return nil, nil
		}
		// Unknown async message: skip exactly k tokens uninterpreted
		// and resume, per the forward-compatibility requirement.
		if d.pendingAsyncK <= 0 {
			d.phase = phaseIdle
			return nil, nil
		}
		d.skipRemaining = d.pendingAsyncK
		d.phase = phaseSkippingAsync
		return nil, nil

	case phaseParsingAsync:
		if err := d.activeParser.Push(tok); err != nil {
			return nil, err
		}
		if done, val := d.activeParser.Done(); done {
			name := d.activeAsyncName
			d.activeParser = nil
			d.phase = phaseIdle
			return &dispatchEvent{kind: dispatchAsync, asyncName: name, value: val}, nil
		}
		return nil, nil

	case phaseSkippingAsync:
		d.skipRemaining--
		if d.skipRemaining <= 0 {
			d.phase = phaseIdle
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("dispatcher: unreachable phase %d", d.phase)
	}
}
