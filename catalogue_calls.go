package lyskom

import (
	"context"

	"github.com/petli/node-lyskom-client/schema"
)

// This file is the one typed Go method per catalogue entry that spec.md
// §6 calls for, alongside the generic Call. Each simply builds the
// request's *schema.Record (or passes nil, where the RPC takes none) and
// unwraps the response the same way.

// Logout ends the session's login without closing the connection.
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.Call(ctx, "logout", nil)
	return err
}

// Login authenticates as person with passwd, "login" (RPC 62), the
// current protocol's login call.
func (s *Session) Login(ctx context.Context, person int32, passwd string, invisible bool) error {
	params := schema.NewRecord().
		Set("person", person).
		Set("passwd", passwd).
		Set("invisible", invisible)
	_, err := s.Call(ctx, "login", params)
	return err
}

// LoginOld authenticates with the older, invisible-less login call
// ("login-old", RPC 0), kept for servers or recordings that predate RPC 62.
func (s *Session) LoginOld(ctx context.Context, person int32, passwd string) error {
	params := schema.NewRecord().
		Set("person", person).
		Set("passwd", passwd)
	_, err := s.Call(ctx, "login-old", params)
	return err
}

// GetTime returns the server's current time structure.
func (s *Session) GetTime(ctx context.Context) (*schema.Record, error) {
	val, err := s.Call(ctx, "get-time", nil)
	if err != nil {
		return nil, err
	}
	return val.(*schema.Record), nil
}

// GetConfStat returns confNo's conference statistics.
func (s *Session) GetConfStat(ctx context.Context, confNo int32) (*schema.Record, error) {
	params := schema.NewRecord().Set("confNo", confNo)
	val, err := s.Call(ctx, "get-conf-stat", params)
	if err != nil {
		return nil, err
	}
	return val.(*schema.Record), nil
}

// GetPersonStat returns person's person statistics.
func (s *Session) GetPersonStat(ctx context.Context, person int32) (*schema.Record, error) {
	params := schema.NewRecord().Set("person", person)
	val, err := s.Call(ctx, "get-person-stat", params)
	if err != nil {
		return nil, err
	}
	return val.(*schema.Record), nil
}

// SendMessage sends an unsolicited text message to recipient (0 for
// everyone currently logged in).
func (s *Session) SendMessage(ctx context.Context, recipient int32, message string) error {
	params := schema.NewRecord().
		Set("recipient", recipient).
		Set("message", message)
	_, err := s.Call(ctx, "send-message", params)
	return err
}

// AcceptAsync subscribes to the given async message numbers; subsequent
// matching events reach handlers registered with On.
func (s *Session) AcceptAsync(ctx context.Context, requestList []int32) error {
	elems := make([]any, len(requestList))
	for i, n := range requestList {
		elems[i] = n
	}
	params := schema.NewRecord().Set("requestList", &schema.ArrayValue{Len: len(elems), Elems: elems})
	_, err := s.Call(ctx, "accept-async", params)
	return err
}

// GetText returns the bytes of text between startChar and endChar
// (exclusive), still Latin-1 encoded.
func (s *Session) GetText(ctx context.Context, text, startChar, endChar int32) ([]byte, error) {
	params := schema.NewRecord().
		Set("text", text).
		Set("startChar", startChar).
		Set("endChar", endChar)
	val, err := s.Call(ctx, "get-text", params)
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// CreateText creates a new text and returns its text number.
func (s *Session) CreateText(ctx context.Context, text string, miscInfo []*schema.Record, auxItems []*schema.Record) (int32, error) {
	misc := make([]any, len(miscInfo))
	for i, m := range miscInfo {
		misc[i] = m
	}
	aux := make([]any, len(auxItems))
	for i, a := range auxItems {
		aux[i] = a
	}
	params := schema.NewRecord().
		Set("text", text).
		Set("miscInfo", &schema.ArrayValue{Len: len(misc), Elems: misc}).
		Set("auxItems", &schema.ArrayValue{Len: len(aux), Elems: aux})
	val, err := s.Call(ctx, "create-text", params)
	if err != nil {
		return 0, err
	}
	textNo, _ := val.(*schema.Record).Get("textNo")
	return textNo.(int32), nil
}

// CreatePerson creates a new person and returns their person number.
func (s *Session) CreatePerson(ctx context.Context, name, passwd string, flags *schema.Bits, auxItems []*schema.Record) (int32, error) {
	aux := make([]any, len(auxItems))
	for i, a := range auxItems {
		aux[i] = a
	}
	params := schema.NewRecord().
		Set("name", name).
		Set("passwd", passwd).
		Set("flags", flags).
		Set("auxItems", &schema.ArrayValue{Len: len(aux), Elems: aux})
	val, err := s.Call(ctx, "create-person", params)
	if err != nil {
		return 0, err
	}
	person, _ := val.(*schema.Record).Get("person")
	return person.(int32), nil
}

// AddMember adds person to conf with the given priority, position
// ("where"), and membership type.
func (s *Session) AddMember(ctx context.Context, conf, person, priority, where int32, membershipType *schema.Bits) error {
	params := schema.NewRecord().
		Set("conf", conf).
		Set("person", person).
		Set("priority", priority).
		Set("where", where).
		Set("type", membershipType)
	_, err := s.Call(ctx, "add-member", params)
	return err
}

// LookupZName looks up persons and/or conferences by (partial) name.
func (s *Session) LookupZName(ctx context.Context, name string, wantPers, wantConfs bool) (*schema.ArrayValue, error) {
	params := schema.NewRecord().
		Set("name", name).
		Set("wantPers", wantPers).
		Set("wantConfs", wantConfs)
	val, err := s.Call(ctx, "lookup-z-name", params)
	if err != nil {
		return nil, err
	}
	return val.(*schema.ArrayValue), nil
}
