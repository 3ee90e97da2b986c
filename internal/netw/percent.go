// Package netw implements the transport layer: percent-encoding, HTTP
// header parsing, the request engine, and fault injection for testing.
package netw

const upperhex = "0123456789ABCDEF"

// isUnreserved reports whether b may appear unescaped in a percent-encoded
// string, per the unreserved set {A-Z, a-z, 0-9, '-', '_', '.', '~'}.
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

// PercentEncode encodes every byte of in that is not unreserved as %HH with
// uppercase hexadecimal. It operates on raw bytes, not just valid UTF-8 text,
// and has no failure modes.
func PercentEncode(in []byte) string {
	var out []byte
	for _, b := range in {
		if isUnreserved(b) {
			out = append(out, b)
			continue
		}
		out = append(out, '%', upperhex[b>>4], upperhex[b&0x0f])
	}
	return string(out)
}

// PercentEncodeString is a convenience wrapper over PercentEncode for string
// input.
func PercentEncodeString(s string) string {
	return PercentEncode([]byte(s))
}
