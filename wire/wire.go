// Package wire implements the SD-JWT wire serialization (spec C9, §4.7 and
// §6): the compact tilde-separated form and the JWS-JSON (general and
// flattened) forms, plus KB-JWT appending.
//
// Grounded on the teacher's jwsSdJwt struct and validateJws/validateJwt
// splitting logic (sd-jwt.go) and dc4eu-vc/pkg/sdjwtvc/jwt.go's
// Combine/CombineWithKeyBinding. Unlike dc4eu-vc/pkg/sdjwt/
// presentations.go's PresentationFlat.String (which omits the trailing
// "~" entirely when there are no disclosures), Compact.String always emits
// it, per spec §4.7's explicit rule.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

// Compact is the parsed form of "<jwt>~<d1>~...~<dn>~[<kb-jwt>]".
type Compact struct {
	JWT         string
	Disclosures []string
	KBJWT       string // "" if absent
}

// ParseCompact splits a compact wire string per spec §4.7's parser rules:
// split on '~'; the first segment is the JWT; a final non-empty segment
// not ending in (i.e. not followed by) another '~' is the KB-JWT; empty
// trailing segments are discarded.
func ParseCompact(s string) (*Compact, error) {
	if s == "" {
		return nil, sdjwterr.ErrParsingError
	}
	segments := strings.Split(s, "~")
	if len(segments) < 2 {
		return nil, sdjwterr.ErrParsingError
	}
	jwt := segments[0]
	if jwt == "" {
		return nil, sdjwterr.ErrParsingError
	}
	rest := segments[1:]

	var kb string
	if last := rest[len(rest)-1]; last != "" {
		kb = last
		rest = rest[:len(rest)-1]
	}

	disclosures := make([]string, 0, len(rest))
	for _, d := range rest {
		if d == "" {
			continue
		}
		disclosures = append(disclosures, d)
	}

	return &Compact{JWT: jwt, Disclosures: disclosures, KBJWT: kb}, nil
}

// String renders the compact form. The disclosure list always ends in '~'
// even when there are zero disclosures, followed optionally by the KB-JWT.
func (c *Compact) String() string {
	var b strings.Builder
	b.WriteString(c.JWT)
	b.WriteByte('~')
	for _, d := range c.Disclosures {
		b.WriteString(d)
		b.WriteByte('~')
	}
	b.WriteString(c.KBJWT)
	return b.String()
}

// WithoutKeyBinding returns a copy of the SD-JWT wire string prefix up to
// and including the trailing '~' before an (absent) KB-JWT -- the exact
// bytes a KB-JWT's sd_hash is computed over.
func (c *Compact) WithoutKeyBinding() string {
	cp := *c
	cp.KBJWT = ""
	return cp.String()
}

// flattenedJWS is the JWS-JSON flattened serialization per RFC 7515 §7.2.2,
// extended with the SD-JWT unprotected header carrying disclosures/kb_jwt.
type flattenedJWS struct {
	Payload   string          `json:"payload"`
	Protected string          `json:"protected"`
	Signature string          `json:"signature"`
	Header    jwsUnprotected  `json:"header,omitempty"`
}

type jwsUnprotected struct {
	Disclosures []string `json:"disclosures,omitempty"`
	KBJWT       string   `json:"kb_jwt,omitempty"`
}

type jwsSignatureEntry struct {
	Protected string         `json:"protected"`
	Signature string         `json:"signature"`
	Header    jwsUnprotected `json:"header,omitempty"`
}

type generalJWS struct {
	Payload    string              `json:"payload"`
	Signatures []jwsSignatureEntry `json:"signatures"`
}

// ParseJWSJSON accepts either the flattened or general JWS-JSON form and
// normalises it to Compact by reassembling protected.payload.signature as
// a compact JWT (the JWT bytes themselves are never re-encoded) and
// appending the tilde-joined disclosures and optional KB-JWT.
func ParseJWSJSON(raw []byte) (*Compact, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "not a JWS-JSON object", Cause: err}
	}

	if _, isGeneral := probe["signatures"]; isGeneral {
		var g generalJWS
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("%w", sdjwterr.ErrParsingError)
		}
		if len(g.Signatures) == 0 {
			return nil, sdjwterr.ErrParsingError
		}
		sig := g.Signatures[0]
		jwt := fmt.Sprintf("%s.%s.%s", sig.Protected, g.Payload, sig.Signature)
		return &Compact{JWT: jwt, Disclosures: sig.Header.Disclosures, KBJWT: sig.Header.KBJWT}, nil
	}

	var f flattenedJWS
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w", sdjwterr.ErrParsingError)
	}
	jwt := fmt.Sprintf("%s.%s.%s", f.Protected, f.Payload, f.Signature)
	return &Compact{JWT: jwt, Disclosures: f.Header.Disclosures, KBJWT: f.Header.KBJWT}, nil
}

// MarshalFlattenedJWSJSON renders c as flattened JWS-JSON. jwt must be a
// compact JWS "h.p.s"; it is split and passed through verbatim.
func MarshalFlattenedJWSJSON(c *Compact) ([]byte, error) {
	parts := strings.SplitN(c.JWT, ".", 3)
	if len(parts) != 3 {
		return nil, &sdjwterr.InvalidJwt{Reason: "jwt is not a compact JWS"}
	}
	return json.Marshal(flattenedJWS{
		Protected: parts[0],
		Payload:   parts[1],
		Signature: parts[2],
		Header: jwsUnprotected{
			Disclosures: c.Disclosures,
			KBJWT:       c.KBJWT,
		},
	})
}
