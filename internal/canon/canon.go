// Package canon implements the canonical JSON encoding disclosures are
// built from: no extraneous whitespace, RFC 8259 minimal string escaping
// (in particular no HTML-safe escaping of '<', '>', '&'), numbers preserved
// exactly as supplied by the caller.
package canon

import (
	"bytes"
	"encoding/json"
)

// Marshal renders v as compact, non-HTML-escaped JSON. It is the one
// encoding path disclosures and payload fragments are built through, so
// that digest recomputation from re-marshaled structures (issuance side,
// where no original encoded string exists yet) is stable across runs.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// json.Encoder.Encode always appends a trailing newline; the wire form
	// never has one.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// Unmarshal decodes b into v using json.Number for numeric literals so that
// a value round-tripped through Unmarshal/Marshal preserves its original
// numeric text instead of being renormalized through float64.
func Unmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

// DecodeAny parses b as an arbitrary JSON value (object, array, string,
// json.Number, bool, or nil), the shape disclosures and payload fragments
// are manipulated as once parsed off the wire.
func DecodeAny(b []byte) (any, error) {
	var v any
	if err := Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
