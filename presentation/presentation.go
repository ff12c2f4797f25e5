// Package presentation implements the Presentation operation (spec C8,
// §4.6): issuance SD-JWT + query -> minimal presentation SD-JWT, plus the
// key-binding attachment helper.
//
// Grounded on aries-framework-go/pkg/doc/sdjwt/holder's
// CreatePresentation/holder.Claim{Name,Disclosure} shape and
// dc4eu-vc/pkg/sdjwt/presentations.go's PresentationFlat (its String()
// method omits the trailing "~" on zero disclosures -- fixed here, see
// DESIGN.md bug #4, by delegating to wire.Compact which always emits it).
// Key-binding construction is grounded on
// dc4eu-vc/pkg/sdjwtvc/keybinding.go's CreateKeyBindingJWT/calculateSDHash.
package presentation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/adapter"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/disclosure"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/b64"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/recreate"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/wire"
)

// Issuance is an issuance SD-JWT: the signed JWT bytes plus its complete
// disclosure list.
type Issuance struct {
	JWT         string
	Disclosures []*disclosure.Disclosure
}

// Presentation is a derived SD-JWT whose JWT bytes are carried verbatim
// from the issuance and whose disclosures are a subset of it.
type Presentation struct {
	JWT         string
	Disclosures []*disclosure.Disclosure
	KBJWT       string // "" until AttachKeyBinding is called
}

// Query decides whether a ClaimPath found in the provenance map should
// have its disclosures included in the presentation.
type Query func(claimpath.Path) bool

// AnyOf builds a Query that includes any provenance path contained by one
// of targets (so a wildcard target like address.AllArrayElements matches
// every concrete array index found).
func AnyOf(targets ...claimpath.Path) Query {
	return func(p claimpath.Path) bool {
		for _, t := range targets {
			if t.Contains(p) {
				return true
			}
		}
		return false
	}
}

// Present runs recreation over issuance, filters its provenance map by
// query, and returns the minimal presentation carrying the union of
// disclosures needed to reveal every matched claim. If nothing matches, ok
// is false ("no presentation" per spec §4.6 step 3). Always-visible plain
// claims need no disclosures and are not reflected in the returned set.
func Present(issuance Issuance, query Query, opts ...recreate.Option) (*Presentation, bool, error) {
	payload, err := decodeJWTPayload(issuance.JWT)
	if err != nil {
		return nil, false, err
	}
	res, err := recreate.Recreate(payload, issuance.Disclosures, opts...)
	if err != nil {
		return nil, false, err
	}
	set := res.Provenance.ToDisclosureSet(query)
	if len(set) == 0 {
		return nil, false, nil
	}
	return &Presentation{JWT: issuance.JWT, Disclosures: set}, true, nil
}

func decodeJWTPayload(compactJWT string) (map[string]any, error) {
	parts := strings.SplitN(compactJWT, ".", 3)
	if len(parts) != 3 {
		return nil, &sdjwterr.InvalidJwt{Reason: "not a compact JWS"}
	}
	raw, err := b64.Decode(parts[1])
	if err != nil {
		return nil, &sdjwterr.InvalidJwt{Reason: "payload is not valid base64url", Cause: err}
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &sdjwterr.InvalidJwt{Reason: "payload is not valid JSON", Cause: err}
	}
	return payload, nil
}

// AttachKeyBinding builds and appends a Key Binding JWT to p, binding it to
// nonce/audience with signer, using alg for the sd_hash computation (must
// match the issuance payload's _sd_alg).
func AttachKeyBinding(p *Presentation, nonce, audience string, signer adapter.Signer, alg hashset.Algorithm) (string, error) {
	encoded := make([]string, len(p.Disclosures))
	for i, d := range p.Disclosures {
		encoded[i] = d.Encoded
	}
	compact := &wire.Compact{JWT: p.JWT, Disclosures: encoded}
	withoutKB := compact.WithoutKeyBinding()

	sdHash, err := hashset.Digest(alg, []byte(withoutKB))
	if err != nil {
		return "", err
	}

	claims := map[string]any{
		"nonce":   nonce,
		"aud":     audience,
		"iat":     time.Now().Unix(),
		"sd_hash": sdHash,
	}
	header := map[string]any{
		"typ": "kb+jwt",
		"alg": signer.Algorithm(),
	}
	kbJWT, err := signer.Sign(claims, header)
	if err != nil {
		return "", fmt.Errorf("sdjwt: signing key binding jwt: %w", err)
	}

	p.KBJWT = kbJWT
	compact.KBJWT = kbJWT
	return compact.String(), nil
}

// String renders p as the compact wire form (spec §4.7), always ending the
// disclosure list in "~" even when there are zero disclosures, per the
// rule dc4eu-vc/pkg/sdjwt/presentations.go's PresentationFlat.String gets
// wrong when Disclosures is empty.
func (p *Presentation) String() string {
	encoded := make([]string, len(p.Disclosures))
	for i, d := range p.Disclosures {
		encoded[i] = d.Encoded
	}
	c := &wire.Compact{JWT: p.JWT, Disclosures: encoded, KBJWT: p.KBJWT}
	return c.String()
}
