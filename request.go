package lyskom

import (
	"strconv"

	"github.com/petli/node-lyskom-client/catalogue"
	"github.com/petli/node-lyskom-client/schema"
)

// formatRequest writes "<refNo> <rpcNum>[ <field>]*\n" to a pooled Sink
// and returns it; the caller must Release it once the bytes have been
// written to the socket. Strings must already be valid Latin-1 bytes, or
// plain Go strings the schema will Latin-1-encode itself.
func formatRequest(refNo uint32, rpc catalogue.RPC, params any) (*schema.Sink, error) {
	sink := schema.AcquireSink()
	sink.Prefix(strconv.AppendUint(nil, uint64(refNo), 10))
	sink.Int(int64(rpc.Number))

	if err := rpc.Request.Format(sink, params); err != nil {
		sink.Release()
		return nil, &ClientError{Message: err.Error()}
	}

	sink.Prefix([]byte("\n"))
	return sink, nil
}
