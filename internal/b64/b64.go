// Package b64 provides the base64url encoding used throughout the core:
// no padding on encode, padding tolerated (and stripped) on decode.
package b64

import "encoding/base64"

// Encode returns the unpadded base64url encoding of b.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode accepts both padded and unpadded base64url strings, stripping any
// padding before decoding so callers never have to care which form they
// were handed.
func Decode(s string) ([]byte, error) {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return base64.RawURLEncoding.DecodeString(s)
}
