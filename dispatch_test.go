package lyskom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petli/node-lyskom-client/catalogue"
	"github.com/petli/node-lyskom-client/schema"
	"github.com/petli/node-lyskom-client/wire"
)

func intTok(v int64) wire.Token      { return wire.Token{Kind: wire.Int, Int: v} }
func strTok(s string) wire.Token     { return wire.Token{Kind: wire.String, Str: []byte(s)} }
func kindTok(k wire.Kind) wire.Token { return wire.Token{Kind: k} }

func noRPCs(refNo uint32) (catalogue.RPC, bool) { return catalogue.RPC{}, false }

func rpcLookup(table map[uint32]catalogue.RPC) func(uint32) (catalogue.RPC, bool) {
	return func(refNo uint32) (catalogue.RPC, bool) {
		rpc, ok := table[refNo]
		return rpc, ok
	}
}

func TestDispatcherParsesEmptyReply(t *testing.T) {
	d := newDispatcher(wire.New(false))
	lookup := rpcLookup(map[uint32]catalogue.RPC{0: catalogue.RPCs["logout"]})

	evt, err := d.push(kindTok(wire.Equals), lookup)
	require.NoError(t, err)
	assert.Nil(t, evt)

	evt, err = d.push(intTok(0), lookup)
	require.NoError(t, err)
	require.NotNil(t, evt)
	assert.Equal(t, dispatchReply, evt.kind)
	assert.Equal(t, uint32(0), evt.refNo)
}

func TestDispatcherParsesStructuredReply(t *testing.T) {
	d := newDispatcher(wire.New(false))
	lookup := rpcLookup(map[uint32]catalogue.RPC{7: catalogue.RPCs["get-time"]})

	_, err := d.push(kindTok(wire.Equals), lookup)
	require.NoError(t, err)
	_, err = d.push(intTok(7), lookup)
	require.NoError(t, err)

	fields := []int64{30, 15, 9, 6, 8, 2024, 2, 219, 0}
	var evt *dispatchEvent
	for _, f := range fields {
		evt, err = d.push(intTok(f), lookup)
		require.NoError(t, err)
	}
	require.NotNil(t, evt)
	assert.Equal(t, dispatchReply, evt.kind)
	rec := evt.value.(*schema.Record)
	hours, _ := rec.Get("hours")
	assert.Equal(t, int32(9), hours)
}

func TestDispatcherUnknownReplyRefNoIsError(t *testing.T) {
	d := newDispatcher(wire.New(false))

	_, err := d.push(kindTok(wire.Equals), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(42), noRPCs)
	require.Error(t, err)
}

func TestDispatcherParsesErrorReply(t *testing.T) {
	d := newDispatcher(wire.New(false))

	_, err := d.push(kindTok(wire.Percent), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(3), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(4), noRPCs)
	require.NoError(t, err)
	evt, err := d.push(intTok(0), noRPCs)
	require.NoError(t, err)
	require.NotNil(t, evt)
	assert.Equal(t, dispatchError, evt.kind)
	assert.Equal(t, uint32(3), evt.refNo)
	assert.Equal(t, int32(4), evt.errorCode)
	assert.Equal(t, int32(0), evt.errorStatus)
}

func TestDispatcherParsesKnownAsync(t *testing.T) {
	d := newDispatcher(wire.New(false))

	_, err := d.push(kindTok(wire.Colon), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(3), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(12), noRPCs)
	require.NoError(t, err)

	_, err = d.push(intTok(0), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(42), noRPCs)
	require.NoError(t, err)
	evt, err := d.push(strTok("hello"), noRPCs)
	require.NoError(t, err)
	require.NotNil(t, evt)
	assert.Equal(t, dispatchAsync, evt.kind)
	assert.Equal(t, "send-message", evt.asyncName)
}

func TestDispatcherSkipsUnknownAsync(t *testing.T) {
	d := newDispatcher(wire.New(false))

	_, err := d.push(kindTok(wire.Colon), noRPCs)
	require.NoError(t, err)
	_, err = d.push(intTok(2), noRPCs)
	require.NoError(t, err)
	evt, err := d.push(intTok(9999), noRPCs)
	require.NoError(t, err)
	assert.Nil(t, evt)

	evt, err = d.push(intTok(7), noRPCs)
	require.NoError(t, err)
	assert.Nil(t, evt)

	evt, err = d.push(strTok("foo"), noRPCs)
	require.NoError(t, err)
	assert.Nil(t, evt)

	evt, err = d.push(kindTok(wire.Equals), rpcLookup(map[uint32]catalogue.RPC{0: catalogue.RPCs["logout"]}))
	require.NoError(t, err)
	assert.Nil(t, evt)
}

func TestDispatcherRejectsUnexpectedTopLevelToken(t *testing.T) {
	d := newDispatcher(wire.New(false))
	_, err := d.push(intTok(5), noRPCs)
	require.Error(t, err)
}
