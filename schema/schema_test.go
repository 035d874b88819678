package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petli/node-lyskom-client/schema"
	"github.com/petli/node-lyskom-client/wire"
)

// parseTokens drives a fresh parser with tok one at a time, as the
// dispatcher would, and returns the final value.
func parseTokens(t *testing.T, s schema.Schema, toks []wire.Token) any {
	t.Helper()
	p := s.NewParser()
	if done, val := p.Done(); done {
		require.Empty(t, toks, "schema completed before consuming all tokens")
		return val
	}
	for i, tok := range toks {
		require.NoError(t, p.Push(tok))
		done, val := p.Done()
		if done {
			require.Equal(t, len(toks)-1, i, "schema completed before the last token")
			return val
		}
	}
	t.Fatalf("schema never completed")
	return nil
}

func intTok(v int64) wire.Token {
	return wire.Token{Kind: wire.Int, Int: v, Raw: []byte(itoa(v))}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf []byte
	for v > 0 {
		buf = append([]byte{byte('0' + v%10)}, buf...)
		v /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func strTok(s string) wire.Token {
	return wire.Token{Kind: wire.String, Str: []byte(s)}
}

func structTok(k wire.Kind) wire.Token { return wire.Token{Kind: k} }

func TestInt32RoundTrip(t *testing.T) {
	val := parseTokens(t, schema.Int32{}, []wire.Token{intTok(4711)})
	assert.EqualValues(t, 4711, val)

	sink := schema.AcquireSink()
	defer sink.Release()
	require.NoError(t, schema.Int32{}.Format(sink, int32(4711)))
	assert.Equal(t, " 4711", string(sink.Bytes()))
}

func TestBoolFormat(t *testing.T) {
	sink := schema.AcquireSink()
	defer sink.Release()
	require.NoError(t, schema.Bool{}.Format(sink, true))
	assert.Equal(t, " 1", string(sink.Bytes()))
}

func TestHollerithStringRoundTrip(t *testing.T) {
	val := parseTokens(t, schema.HollerithString{}, []wire.Token{strTok("hello")})
	assert.Equal(t, []byte("hello"), val)

	sink := schema.AcquireSink()
	defer sink.Release()
	require.NoError(t, schema.HollerithString{}.Format(sink, []byte("hello")))
	assert.Equal(t, " 5Hhello", string(sink.Bytes()))
}

func TestBitstringFormatAndParse(t *testing.T) {
	names := []string{"deleted", "inherit", "secret", "hideCreator", "dontGarb"}
	bs := schema.Bitstring{Names: names, Width: 8}

	sink := schema.AcquireSink()
	defer sink.Release()
	bits := schema.NewBits(names, "inherit", "dontGarb")
	require.NoError(t, bs.Format(sink, bits))
	assert.Equal(t, " 01001000", string(sink.Bytes()))

	val := parseTokens(t, bs, []wire.Token{
		{Kind: wire.Int, Int: 1001000, Raw: []byte("01001000")},
	})
	parsed := val.(*schema.Bits)
	assert.True(t, parsed.Get("inherit"))
	assert.True(t, parsed.Get("dontGarb"))
	assert.False(t, parsed.Get("secret"))
}

func TestArrayOfInt32(t *testing.T) {
	sch := schema.Array{Elem: schema.Int32{}}

	av := &schema.ArrayValue{Len: 3, Elems: []any{int32(12), int32(8), int32(4)}}
	sink := schema.AcquireSink()
	defer sink.Release()
	require.NoError(t, sch.Format(sink, av))
	assert.Equal(t, " 3 { 12 8 4 }", string(sink.Bytes()))

	val := parseTokens(t, sch, []wire.Token{
		intTok(3), structTok(wire.OpenBrace),
		intTok(12), intTok(8), intTok(4),
		structTok(wire.CloseBrace),
	})
	out := val.(*schema.ArrayValue)
	assert.Equal(t, []any{int32(12), int32(8), int32(4)}, out.Elems)
}

func TestArrayLengthOnly(t *testing.T) {
	sch := schema.Array{Elem: schema.Int32{}}
	val := parseTokens(t, sch, []wire.Token{intTok(0), structTok(wire.Star)})
	out := val.(*schema.ArrayValue)
	assert.True(t, out.LengthOnly)
	assert.Equal(t, 0, out.Len)
}

// confZInfo mirrors the 3-field structure used in the array-length
// mismatch scenario: a name, a bit-string, and a conference number.
func confZInfo() schema.Schema {
	return schema.Structure{Fields: []schema.Field{
		{Name: "name", Schema: schema.HollerithString{}},
		{Name: "type", Schema: schema.Bitstring{Names: []string{"rdProt", "original", "secret", "letterbox"}, Width: 4}},
		{Name: "confNo", Schema: schema.Int32{}},
	}}
}

func TestArrayLengthMismatchIsFatal(t *testing.T) {
	sch := schema.Array{Elem: confZInfo()}
	p := sch.NewParser()

	toks := []wire.Token{
		intTok(2), structTok(wire.OpenBrace),
		strTok("foo"),
		{Kind: wire.Int, Int: 1001, Raw: []byte("1001")},
		intTok(4711),
		structTok(wire.CloseBrace),
	}

	var sawErr bool
	for _, tok := range toks {
		if err := p.Push(tok); err != nil {
			sawErr = true
			break
		}
		if done, _ := p.Done(); done {
			t.Fatalf("array completed without raising the declared-length mismatch")
		}
	}
	assert.True(t, sawErr, "expected a ParseError for the length-2 array with one element's worth of content")
}

func TestStructureRoundTrip(t *testing.T) {
	sch := schema.Structure{Fields: []schema.Field{
		{Name: "errorCode", Schema: schema.Int32{}},
		{Name: "errorStatus", Schema: schema.Int32{}},
	}}

	val := parseTokens(t, sch, []wire.Token{intTok(4), intTok(4711)})
	rec := val.(*schema.Record)
	code, _ := rec.Get("errorCode")
	status, _ := rec.Get("errorStatus")
	assert.EqualValues(t, 4, code)
	assert.EqualValues(t, 4711, status)
}

func TestEmptySchemaCompletesWithoutTokens(t *testing.T) {
	p := schema.Empty{}.NewParser()
	done, val := p.Done()
	assert.True(t, done)
	assert.Nil(t, val)
}

func TestLatin1RoundTrip(t *testing.T) {
	b, err := schema.EncodeLatin1("hämligt")
	require.NoError(t, err)
	assert.Len(t, b, 7)
	assert.Equal(t, "hämligt", schema.DecodeLatin1(b))
}
