package catalogue

import "github.com/petli/node-lyskom-client/schema"

// PersonalFlagNames names the bits of a PersonalFlags bit-string, left
// to right, per LysKOM Protocol A.
var PersonalFlagNames = []string{"unreadIsSecret"}

// PersonalFlagsSchema is the 8-bit PersonalFlags bit-string attached to
// create-person and get-person-stat.
var PersonalFlagsSchema = schema.Bitstring{Names: PersonalFlagNames, Width: 8}

// ConfTypeNames names the bits of a ConfType bit-string.
var ConfTypeNames = []string{"rdProt", "original", "secret", "letterbox"}

// ConfTypeSchema is the 4-bit ConfType bit-string attached to
// conference statistics and Z-lookups.
var ConfTypeSchema = schema.Bitstring{Names: ConfTypeNames, Width: 4}

// AuxItemFlagNames names the bits of an AuxItemFlags bit-string.
var AuxItemFlagNames = []string{"deleted", "inherit", "secret", "hideCreator", "dontGarb"}

// AuxItemFlagsSchema is the 8-bit AuxItemFlags bit-string attached to
// every aux item.
var AuxItemFlagsSchema = schema.Bitstring{Names: AuxItemFlagNames, Width: 8}

// AuxItemSchema is the structure attached to auxItems arrays throughout
// the catalogue: a tag, its flags, an inherit-depth limit, and opaque
// tag-specific data.
var AuxItemSchema = schema.Structure{Fields: []schema.Field{
	{Name: "tag", Schema: schema.Int32{}},
	{Name: "flags", Schema: AuxItemFlagsSchema},
	{Name: "inheritLimit", Schema: schema.Int32{}},
	{Name: "data", Schema: schema.HollerithString{}},
}}

// MembershipTypeNames names the bits of a MembershipType bit-string.
var MembershipTypeNames = []string{"invitation", "passive", "secret"}

// MembershipTypeSchema is the 4-bit MembershipType bit-string attached
// to add-member.
var MembershipTypeSchema = schema.Bitstring{Names: MembershipTypeNames, Width: 4}

// AuxItem tag constants for the tags exercised by the catalogue's
// create-person example and a representative handful more, per the
// LysKOM Protocol A aux-item tag registry.
const (
	TagContentType  int32 = 1
	TagCreatingSW   int32 = 4
	TagFastReply    int32 = 17
	TagCrossRef     int32 = 18
	TagNoComments   int32 = 19
	TagPersonalComment int32 = 20
	TagMXAuthor     int32 = 25
	TagMXAllowFilter int32 = 23
)
