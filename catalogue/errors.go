package catalogue

import "strconv"

// ErrorNames maps a Protocol A numeric error code (0-61 inclusive) to
// its symbolic name. A code outside this table is not itself an error —
// callers fall back to a synthesized "error-<code>" name, since the
// server is always authoritative about the numeric code and a client
// built against an older catalogue should not choke on a new one.
var ErrorNames = map[int32]string{
	0:  "no-error",
	1:  "not-implemented",
	2:  "obsolete-call",
	3:  "string-too-long",
	4:  "invalid-password",
	5:  "login-first",
	6:  "login-disallowed",
	7:  "conference-zero",
	8:  "undefined-conference",
	9:  "undefined-person",
	10: "access-denied",
	11: "permission-denied",
	12: "not-member",
	13: "no-such-text",
	14: "text-zero",
	15: "no-such-local-text",
	16: "local-text-zero",
	17: "bad-name",
	18: "index-out-of-range",
	19: "conference-exists",
	20: "person-exists",
	21: "secret-public",
	22: "letterbox",
	23: "ldb-error",
	24: "illegal-misc",
	25: "illegal-info-type",
	26: "already-recipient",
	27: "already-comment",
	28: "already-footnote",
	29: "not-recipient",
	30: "not-comment",
	31: "not-footnote",
	32: "recipient-limit",
	33: "comment-limit",
	34: "footnote-limit",
	35: "mark-limit",
	36: "not-author",
	37: "no-connect",
	38: "out-of-memory",
	39: "server-is-crazy",
	40: "client-is-crazy",
	41: "undefined-session",
	42: "regexp-error",
	43: "not-marked",
	44: "temporary-failure",
	45: "long-array",
	46: "anonymous-rejected",
	47: "illegal-aux-item",
	48: "aux-item-permission",
	49: "unknown-async",
	50: "internal-error",
	51: "feature-disabled",
	52: "message-not-sent",
	53: "invalid-membership-type",
	54: "invalid-range",
	55: "invalid-range-list",
	56: "undefined-measurement",
	57: "priority-denied",
	58: "weight-denied",
	59: "weight-zero",
	60: "bad-bool",
	61: "ascii-string-required",
}

// ErrorName returns the symbolic name for code, or "error-<code>" if
// code isn't in the table.
func ErrorName(code int32) string {
	if name, ok := ErrorNames[code]; ok {
		return name
	}
	return "error-" + strconv.FormatInt(int64(code), 10)
}
