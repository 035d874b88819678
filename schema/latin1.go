package schema

import "fmt"

// EncodeLatin1 converts a Go string to its Latin-1 (ISO-8859-1) byte
// form, which is a straight code-point-to-byte mapping for runes 0-255.
// LysKOM traffic is Latin-1 by convention; this is the boundary where a
// textual parameter becomes the bytes a HollerithString schema writes.
func EncodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("schema: rune %q is not representable in Latin-1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// DecodeLatin1 converts Latin-1 bytes, such as a HollerithString
// schema's parsed payload, back to a Go string.
func DecodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
