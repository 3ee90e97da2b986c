// Package document implements the opaque "raw-doc handle" accessor: a
// read-only, lifetime-bound view over a single parsed JSON value, used to
// expose late-bound fields on Game/Mod/Modfile/User/Rating/Event records
// without forcing every field into the typed struct up front.
package document

import "encoding/json"

// Doc borrows a parsed JSON value. It is valid only as long as the
// enclosing dispatcher call's parse buffer is alive, by convention the
// duration of the continuation that received the record carrying it.
type Doc struct {
	value any
}

// New wraps an already-decoded JSON value (typically map[string]any from
// encoding/json).
func New(value any) *Doc {
	return &Doc{value: value}
}

// Parse decodes a single JSON object/value from raw and wraps it.
func Parse(raw []byte) (*Doc, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return New(v), nil
}

// Bytes re-serializes the wrapped value back to JSON. Used to persist a
// document selected out of a list response (e.g. a single modfile) as a
// standalone sidecar file.
func (d *Doc) Bytes() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.value)
}

func (d *Doc) object() map[string]any {
	if d == nil || d.value == nil {
		return nil
	}
	m, _ := d.value.(map[string]any)
	return m
}

// GetString returns the string at key, or "" if absent or not a string.
func (d *Doc) GetString(key string) string {
	v, ok := d.object()[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetInt returns the signed 64-bit integer at key, or 0 if absent or not a
// number. JSON numbers decode as float64 via encoding/json; GetInt
// truncates toward zero.
func (d *Doc) GetInt(key string) int64 {
	v, ok := d.object()[key]
	if !ok {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int64(f)
}

// GetFloat returns the double-precision float at key, or 0.0 if absent or
// not a number.
func (d *Doc) GetFloat(key string) float64 {
	v, ok := d.object()[key]
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// GetBool returns the boolean at key, or false if absent or not a bool.
func (d *Doc) GetBool(key string) bool {
	v, ok := d.object()[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Array returns the sub-documents of a top-level JSON array field, or nil
// if key is absent or not an array.
func (d *Doc) Array(key string) []*Doc {
	v, ok := d.object()[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]*Doc, len(arr))
	for i, item := range arr {
		out[i] = New(item)
	}
	return out
}

// Object returns the sub-document at key, or nil if absent or not an
// object.
func (d *Doc) Object(key string) *Doc {
	v, ok := d.object()[key]
	if !ok {
		return nil
	}
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	return New(v)
}
