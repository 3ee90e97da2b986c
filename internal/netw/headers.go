package netw

import (
	"bufio"
	"bytes"
	"strings"
)

// Absent is the sentinel value returned by Headers.Get when the requested
// key is not present in the map.
const Absent = ""

// kv is a single header entry, insertion order preserved.
type kv struct {
	key   string
	value string
}

// Headers is a case-insensitive, order-preserving list of HTTP header
// key/value pairs. Lookup is case-insensitive; duplicate keys resolve to
// the first occurrence encountered while parsing, a quirk preserved from
// the reference implementation rather than fixed.
type Headers struct {
	entries []kv
}

// ParseHeaders builds a Headers map from a raw RFC-style, CRLF-terminated
// header block (the lines following the HTTP status line). Each line is
// split at its first colon; leading and trailing whitespace on the value
// is trimmed. Malformed lines (no colon) are skipped.
func ParseHeaders(raw []byte) *Headers {
	h := &Headers{}
	if len(raw) == 0 {
		return h
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := strings.TrimSpace(line[idx+1:])
		h.entries = append(h.entries, kv{key: key, value: value})
	}
	return h
}

// Get performs a case-insensitive lookup, returning the value of the first
// matching entry and true, or Absent and false when key is not present.
func (h *Headers) Get(key string) (string, bool) {
	if h == nil {
		return Absent, false
	}
	for _, e := range h.entries {
		if strings.EqualFold(e.key, key) {
			return e.value, true
		}
	}
	return Absent, false
}

// Len reports the number of entries, in insertion order.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Each iterates entries in insertion order.
func (h *Headers) Each(fn func(key, value string)) {
	if h == nil {
		return
	}
	for _, e := range h.entries {
		fn(e.key, e.value)
	}
}

// RequestHeaders is an ordered list of (key, value) pairs supplied by a
// caller for an outgoing request; serialized into "Key: Value\r\n" lines
// by the Transport.
type RequestHeaders []kv

// AddHeader appends a header to a RequestHeaders list, returning the
// updated list.
func AddHeader(rh RequestHeaders, key, value string) RequestHeaders {
	return append(rh, kv{key: key, value: value})
}

// Apply writes every pair in rh onto an *http.Header-shaped setter. fn is
// typically (*http.Request).Header.Set or .Add.
func (rh RequestHeaders) Apply(fn func(key, value string)) {
	for _, e := range rh {
		fn(e.key, e.value)
	}
}
