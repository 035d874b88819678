// Package catalogue holds the data-only tables that give meaning to RPC
// numbers, async message numbers, error codes, and aux-item tags: a
// symbolic name plus a schema, nothing more. Adding an RPC here is a
// literal declaration, not a code change anywhere else — the dispatcher
// looks calls up by name and drives whatever schema is on file.
package catalogue

import "github.com/petli/node-lyskom-client/schema"

// RPC describes one callable request: its wire number, its request
// schema, and the schema of the reply that follows a "=refNo".
type RPC struct {
	Name     string
	Number   int32
	Request  schema.Schema
	Response schema.Schema
}

// RPCs is the process-wide, read-only table of known calls, keyed by
// name. It is populated once at package init and never mutated
// afterwards.
var RPCs = map[string]RPC{}

func registerRPC(r RPC) {
	RPCs[r.Name] = r
}

func init() {
	registerRPC(RPC{
		Name:     "logout",
		Number:   1,
		Request:  schema.Empty{},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:   "login-old",
		Number: 0,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "person", Schema: schema.Int32{}},
			{Name: "passwd", Schema: schema.HollerithString{}},
		}},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:   "login",
		Number: 62,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "person", Schema: schema.Int32{}},
			{Name: "passwd", Schema: schema.HollerithString{}},
			{Name: "invisible", Schema: schema.Bool{}},
		}},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:     "get-time",
		Number:   35,
		Request:  schema.Empty{},
		Response: timeSchema,
	})

	registerRPC(RPC{
		Name:   "get-conf-stat",
		Number: 2,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "confNo", Schema: schema.Int32{}},
		}},
		Response: confStatSchema,
	})

	registerRPC(RPC{
		Name:   "get-person-stat",
		Number: 49,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "person", Schema: schema.Int32{}},
		}},
		Response: personStatSchema,
	})

	registerRPC(RPC{
		Name:   "send-message",
		Number: 53,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "recipient", Schema: schema.Int32{}},
			{Name: "message", Schema: schema.HollerithString{}},
		}},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:   "accept-async",
		Number: 80,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "requestList", Schema: schema.Array{Elem: schema.Int32{}}},
		}},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:   "get-text",
		Number: 25,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "text", Schema: schema.Int32{}},
			{Name: "startChar", Schema: schema.Int32{}},
			{Name: "endChar", Schema: schema.Int32{}},
		}},
		Response: schema.HollerithString{},
	})

	registerRPC(RPC{
		Name:   "create-text",
		Number: 86,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "text", Schema: schema.HollerithString{}},
			{Name: "miscInfo", Schema: schema.Array{Elem: miscInfoSchema}},
			{Name: "auxItems", Schema: schema.Array{Elem: AuxItemSchema}},
		}},
		Response: schema.Structure{Fields: []schema.Field{
			{Name: "textNo", Schema: schema.Int32{}},
		}},
	})

	registerRPC(RPC{
		Name:   "create-person",
		Number: 89,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "name", Schema: schema.HollerithString{}},
			{Name: "passwd", Schema: schema.HollerithString{}},
			{Name: "flags", Schema: PersonalFlagsSchema},
			{Name: "auxItems", Schema: schema.Array{Elem: AuxItemSchema}},
		}},
		Response: schema.Structure{Fields: []schema.Field{
			{Name: "person", Schema: schema.Int32{}},
		}},
	})

	registerRPC(RPC{
		Name:   "add-member",
		Number: 100,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "conf", Schema: schema.Int32{}},
			{Name: "person", Schema: schema.Int32{}},
			{Name: "priority", Schema: schema.Int32{}},
			{Name: "where", Schema: schema.Int32{}},
			{Name: "type", Schema: MembershipTypeSchema},
		}},
		Response: schema.Empty{},
	})

	registerRPC(RPC{
		Name:   "lookup-z-name",
		Number: 76,
		Request: schema.Structure{Fields: []schema.Field{
			{Name: "name", Schema: schema.HollerithString{}},
			{Name: "wantPers", Schema: schema.Bool{}},
			{Name: "wantConfs", Schema: schema.Bool{}},
		}},
		Response: schema.Array{Elem: confZInfoSchema},
	})
}

var timeSchema = schema.Structure{Fields: []schema.Field{
	{Name: "seconds", Schema: schema.Int32{}},
	{Name: "minutes", Schema: schema.Int32{}},
	{Name: "hours", Schema: schema.Int32{}},
	{Name: "dayOfMonth", Schema: schema.Int32{}},
	{Name: "month", Schema: schema.Int32{}},
	{Name: "year", Schema: schema.Int32{}},
	{Name: "dayOfWeek", Schema: schema.Int32{}},
	{Name: "dayOfYear", Schema: schema.Int32{}},
	{Name: "isDST", Schema: schema.Bool{}},
}}

var confZInfoSchema = schema.Structure{Fields: []schema.Field{
	{Name: "name", Schema: schema.HollerithString{}},
	{Name: "type", Schema: ConfTypeSchema},
	{Name: "confNo", Schema: schema.Int32{}},
}}

var confStatSchema = schema.Structure{Fields: []schema.Field{
	{Name: "name", Schema: schema.HollerithString{}},
	{Name: "type", Schema: ConfTypeSchema},
	{Name: "creationTime", Schema: timeSchema},
	{Name: "lastWritten", Schema: timeSchema},
	{Name: "creator", Schema: schema.Int32{}},
	{Name: "presentationText", Schema: schema.Int32{}},
	{Name: "supervisor", Schema: schema.Int32{}},
	{Name: "permittedSubmitters", Schema: schema.Int32{}},
	{Name: "superConf", Schema: schema.Int32{}},
	{Name: "msgOfDay", Schema: schema.Int32{}},
	{Name: "noOfMembers", Schema: schema.Int32{}},
	{Name: "firstLocalNo", Schema: schema.Int32{}},
	{Name: "noOfTexts", Schema: schema.Int32{}},
}}

var personStatSchema = schema.Structure{Fields: []schema.Field{
	{Name: "username", Schema: schema.HollerithString{}},
	{Name: "privileges", Schema: schema.Int32{}},
	{Name: "flags", Schema: PersonalFlagsSchema},
	{Name: "lastLogin", Schema: timeSchema},
	{Name: "userArea", Schema: schema.Int32{}},
	{Name: "totalTimePresent", Schema: schema.Int32{}},
	{Name: "sessions", Schema: schema.Int32{}},
	{Name: "createdLines", Schema: schema.Int32{}},
	{Name: "createdBytes", Schema: schema.Int32{}},
	{Name: "createdTexts", Schema: schema.Int32{}},
	{Name: "readTexts", Schema: schema.Int32{}},
	{Name: "noOfTextFetches", Schema: schema.Int32{}},
}}

var miscInfoSchema = schema.Structure{Fields: []schema.Field{
	{Name: "type", Schema: schema.Int32{}},
	{Name: "data", Schema: schema.Int32{}},
}}
