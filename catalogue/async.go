package catalogue

import "github.com/petli/node-lyskom-client/schema"

// Async describes one unsolicited server event: its wire number, the
// name it is emitted under, and the schema of its payload.
type Async struct {
	Name   string
	Number int32
	Schema schema.Schema
}

// AsyncByNumber is the process-wide, read-only table of known async
// messages, keyed by wire number — the key the dispatcher actually sees
// on a ":k m" header. An unknown number is not an error: the dispatcher
// skips exactly k tokens and continues, per the forward-compatibility
// requirement.
var AsyncByNumber = map[int32]Async{}

func registerAsync(a Async) {
	AsyncByNumber[a.Number] = a
}

func init() {
	registerAsync(Async{
		Name:   "send-message",
		Number: 12,
		Schema: schema.Structure{Fields: []schema.Field{
			{Name: "recipient", Schema: schema.Int32{}},
			{Name: "sender", Schema: schema.Int32{}},
			{Name: "message", Schema: schema.HollerithString{}},
		}},
	})

	registerAsync(Async{
		Name:   "i-am-on",
		Number: 13,
		Schema: schema.Structure{Fields: []schema.Field{
			{Name: "info", Schema: schema.Structure{Fields: []schema.Field{
				{Name: "person", Schema: schema.Int32{}},
				{Name: "workingConf", Schema: schema.Int32{}},
				{Name: "session", Schema: schema.Int32{}},
				{Name: "whatAmIDoing", Schema: schema.HollerithString{}},
				{Name: "username", Schema: schema.HollerithString{}},
			}}},
		}},
	})

	registerAsync(Async{
		Name:   "sync-db",
		Number: 14,
		Schema: schema.Empty{},
	})

	registerAsync(Async{
		Name:   "new-name",
		Number: 15,
		Schema: schema.Structure{Fields: []schema.Field{
			{Name: "confNo", Schema: schema.Int32{}},
			{Name: "newName", Schema: schema.HollerithString{}},
		}},
	})

	registerAsync(Async{
		Name:   "leave-conf",
		Number: 16,
		Schema: schema.Structure{Fields: []schema.Field{
			{Name: "confNo", Schema: schema.Int32{}},
		}},
	})
}
