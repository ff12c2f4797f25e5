// Package disclosure implements the Disclosure codec (spec C2): encoding,
// parsing and digesting the two disclosure shapes -- object-property
// ([salt, name, value]) and array-element ([salt, value]).
//
// Grounded on the cleanest reference in the corpus,
// dc4eu-vc/vendor/github.com/MichaelFraser99/go-sd-jwt/disclosure/disclosure.go
// (NewFromObject/NewFromArrayElement/NewFromDisclosure/Hash), with the
// teacher's own Disclosure accessor shape (sd-jwt.go). Unlike
// dc4eu-vc/pkg/sdjwt/issuerv2.go's makeClaimHash (which builds the JSON
// array via fmt.Sprintf("[%q,%q,%q]", ...) and silently mangles any
// non-string value), encoding here always goes through canon.Marshal.
package disclosure

import (
	"fmt"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/b64"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/canon"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

// Reserved claim names that may never be used as a disclosure's name.
const (
	ReservedSD     = "_sd"
	ReservedSDAlg  = "_sd_alg"
	ReservedDigest = "..."
)

func isReserved(name string) bool {
	return name == ReservedSD || name == ReservedSDAlg || name == ReservedDigest
}

// Disclosure is the authoritative serialization of one selectively
// disclosable fact. Key is nil for array-element disclosures. Encoded is
// the base64url string exactly as produced or as originally received on
// the wire -- digests are always recomputed from Encoded, never by
// re-marshaling Value, so that byte-exact round-tripping holds even when
// Value's in-memory JSON representation would differ from the original.
type Disclosure struct {
	Salt    hashset.Salt
	Key     *string // nil for array-element disclosures
	Value   any
	Encoded string
}

// NewObjectProperty builds an object-property disclosure [salt, name, value].
//
// allowNestedDigests permits value to itself contain "_sd"/"_sd_alg" keys;
// this is the one legitimate case (spec §4.2's recursive selective
// disclosure) where a disclosure value carries further digest structure.
func NewObjectProperty(salt hashset.Salt, name string, value any, allowNestedDigests bool) (*Disclosure, error) {
	if isReserved(name) {
		return nil, &sdjwterr.InvalidDisclosure{Reason: fmt.Sprintf("claim name %q is reserved", name)}
	}
	if !allowNestedDigests {
		if err := rejectNestedDigests(value); err != nil {
			return nil, err
		}
	}
	raw, err := canon.Marshal([]any{string(salt), name, value})
	if err != nil {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "encoding object-property disclosure", Cause: err}
	}
	return &Disclosure{
		Salt:    salt,
		Key:     &name,
		Value:   value,
		Encoded: b64.Encode(raw),
	}, nil
}

// NewArrayElement builds an array-element disclosure [salt, value].
func NewArrayElement(salt hashset.Salt, value any) (*Disclosure, error) {
	if err := rejectNestedDigests(value); err != nil {
		return nil, err
	}
	raw, err := canon.Marshal([]any{string(salt), value})
	if err != nil {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "encoding array-element disclosure", Cause: err}
	}
	return &Disclosure{
		Salt:    salt,
		Value:   value,
		Encoded: b64.Encode(raw),
	}, nil
}

func rejectNestedDigests(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := m[ReservedSD]; ok {
		return &sdjwterr.InvalidDisclosure{Reason: "value directly contains reserved key _sd"}
	}
	if _, ok := m[ReservedSDAlg]; ok {
		return &sdjwterr.InvalidDisclosure{Reason: "value directly contains reserved key _sd_alg"}
	}
	return nil
}

// Parse decodes an encoded disclosure string and validates its shape: a
// base64url JSON array of length 2 or 3, whose first element is a string
// salt, and (length 3) whose second element is a non-reserved string name.
// The original encoded string is retained verbatim on the returned value.
func Parse(encoded string) (*Disclosure, error) {
	raw, err := b64.Decode(encoded)
	if err != nil {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "not valid base64url", Cause: err}
	}
	v, err := canon.DecodeAny(raw)
	if err != nil {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "not valid JSON", Cause: err}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "not a JSON array"}
	}
	switch len(arr) {
	case 2:
		salt, ok := arr[0].(string)
		if !ok {
			return nil, &sdjwterr.InvalidDisclosure{Reason: "salt is not a string"}
		}
		return &Disclosure{
			Salt:    hashset.Salt(salt),
			Value:   arr[1],
			Encoded: encoded,
		}, nil
	case 3:
		salt, ok := arr[0].(string)
		if !ok {
			return nil, &sdjwterr.InvalidDisclosure{Reason: "salt is not a string"}
		}
		name, ok := arr[1].(string)
		if !ok {
			return nil, &sdjwterr.InvalidDisclosure{Reason: "claim name is not a string"}
		}
		if isReserved(name) {
			return nil, &sdjwterr.InvalidDisclosure{Reason: fmt.Sprintf("claim name %q is reserved", name)}
		}
		return &Disclosure{
			Salt:    hashset.Salt(salt),
			Key:     &name,
			Value:   arr[2],
			Encoded: encoded,
		}, nil
	default:
		return nil, &sdjwterr.InvalidDisclosure{Reason: fmt.Sprintf("array has %d elements, want 2 or 3", len(arr))}
	}
}

// IsObjectProperty reports whether d discloses an object property (as
// opposed to an array element).
func (d *Disclosure) IsObjectProperty() bool { return d.Key != nil }

// Digest computes d's digest under alg: base64url(H(utf8(d.Encoded))).
func (d *Disclosure) Digest(alg hashset.Algorithm) (string, error) {
	return hashset.Digest(alg, []byte(d.Encoded))
}

// Name returns the disclosed claim name, or "" for array-element disclosures.
func (d *Disclosure) Name() string {
	if d.Key == nil {
		return ""
	}
	return *d.Key
}
