package lyskom

import (
	"github.com/zeebo/xxh3"

	"github.com/petli/node-lyskom-client/internal"
)

// Servers is the address list a SessionPool distributes sessions
// across: one or more LysKOM servers, each reachable at "host:port".
type Servers []string

// SelectSession picks a server index for key (typically a conference or
// person number formatted as a decimal string) out of serverCount
// candidates, using Jump Consistent Hash over an xxh3 digest of key —
// the same sharding technique the ambient stack uses for cache keys,
// repurposed here for LysKOM entity numbers. A single-server pool always
// selects index 0 without hashing.
func SelectSession(key string, serverCount int) int {
	if serverCount <= 1 {
		return 0
	}
	return internal.JumpHash(xxh3.HashString(key), serverCount)
}
