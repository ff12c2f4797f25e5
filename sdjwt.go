// Package sdjwt provides the top-level entry points for creating,
// recreating, verifying, and presenting SD-JWTs: Issue builds an issuance
// SD-JWT from a disclosable spec tree, Verify checks one end to end, and
// Present derives a minimal holder presentation from an issuance plus a
// query over the reconstructed claim tree.
//
// The underlying algorithms live in the issuer, recreate, verifier,
// presentation, claimpath, wire, and adapter packages; this package only
// wires them together behind the functional-options config.Options and
// attaches the ambient logger.
package sdjwt

import (
	"fmt"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/adapter"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/config"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/disclosure"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/issuer"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/presentation"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/recreate"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/verifier"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/wire"
)

// Issuance is the output of Issue: the signed compact SD-JWT plus its
// disclosure list, ready to hand to a holder or feed straight to Present.
type Issuance struct {
	Compact     string
	Disclosures []*disclosure.Disclosure
	Payload     map[string]any
}

// Issue builds a redacted payload and disclosure set from root, signs the
// payload with signer, and renders the compact wire form.
func Issue(root discloser.Node, signer adapter.Signer, opts ...config.Option) (*Issuance, error) {
	o := config.NewOptions(opts...)

	res, err := issuer.Create(root,
		issuer.WithHashAlgorithm(o.HashAlgorithm),
		issuer.WithSaltProvider(o.SaltProvider),
		issuer.WithDecoyGen(o.DecoyGen),
		issuer.WithDecoyStrategy(o.DecoyStrategy),
		issuer.WithMaxDepth(o.MaxDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: issue: %w", err)
	}

	if _, ok := res.Payload["jti"]; !ok {
		res.Payload["jti"] = adapter.NewJTI()
	}

	header := map[string]any{"typ": "vc+sd-jwt"}
	jwt, err := signer.Sign(res.Payload, header)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: issue: signing payload: %w", err)
	}

	o.Logger.V(1).Info("issued sd-jwt", "disclosures", len(res.Disclosures), "alg", o.HashAlgorithm)
	return &Issuance{Compact: jwt, Disclosures: res.Disclosures, Payload: res.Payload}, nil
}

// String renders an Issuance in compact wire form (always terminated with
// "~" even when Disclosures is empty, per wire.Compact.String).
func (i *Issuance) String() string {
	encoded := make([]string, len(i.Disclosures))
	for idx, d := range i.Disclosures {
		encoded[idx] = d.Encoded
	}
	return (&wire.Compact{JWT: i.Compact, Disclosures: encoded}).String()
}

// VerifyResult is the outcome of a successful Verify call.
type VerifyResult struct {
	Payload      map[string]any
	Disclosures  []*disclosure.Disclosure
	KeyBindingOK bool
}

// Verify checks a compact SD-JWT end to end: JWT signature, disclosure
// uniqueness, digest coverage, and (per keyBindingPolicy) the key-binding
// arm, returning the verified claim payload.
func Verify(compactSDJWT string, sigVerifier verifier.SignatureVerifier, keyBindingPolicy verifier.KeyBindingPolicy, opts ...config.Option) (*VerifyResult, error) {
	o := config.NewOptions(opts...)

	res, err := verifier.Verify(compactSDJWT,
		verifier.WithSignatureVerifier(sigVerifier),
		verifier.WithKeyBindingPolicy(keyBindingPolicy),
		verifier.WithKeyBindingVerifier(adapter.JWTKeyBindingVerifier{}),
	)
	if err != nil {
		o.Logger.V(1).Info("sd-jwt verification failed", "error", err)
		return nil, fmt.Errorf("sdjwt: verify: %w", err)
	}

	o.Logger.V(1).Info("verified sd-jwt", "disclosures", len(res.Disclosures), "key_binding", res.KBClaims != nil)
	return &VerifyResult{
		Payload:      res.Payload,
		Disclosures:  res.Disclosures,
		KeyBindingOK: res.KBClaims != nil,
	}, nil
}

// Recreate reconstructs the full claim tree of a verified SD-JWT, along
// with the provenance of every claim (which disclosures must be revealed
// to see it). Call this after Verify, not instead of it: Recreate does not
// check the JWT signature.
func Recreate(payload map[string]any, disclosures []*disclosure.Disclosure, opts ...config.Option) (*recreate.Result, error) {
	o := config.NewOptions(opts...)
	return recreate.Recreate(payload, disclosures, recreate.WithMaxDepth(o.MaxDepth))
}

// Present runs recreation over an issuance and derives the minimal
// presentation revealing every claim path matched by query. ok is false if
// query matched nothing disclosable.
func Present(issuance Issuance, query presentation.Query, opts ...recreate.Option) (*presentation.Presentation, bool, error) {
	return presentation.Present(presentation.Issuance{JWT: issuance.Compact, Disclosures: issuance.Disclosures}, query, opts...)
}

// ByPaths builds a presentation.Query matching exactly the given claim
// paths (and, for a wildcard target, every concrete index under it).
func ByPaths(paths ...claimpath.Path) presentation.Query {
	return presentation.AnyOf(paths...)
}

// AttachKeyBinding signs and appends a KB-JWT to a presentation, binding it
// to nonce/audience, and returns the full compact wire string.
func AttachKeyBinding(p *presentation.Presentation, nonce, audience string, signer adapter.Signer, alg hashset.Algorithm) (string, error) {
	return presentation.AttachKeyBinding(p, nonce, audience, signer, alg)
}

// NewChallengeNonce generates a fresh holder-binding nonce for a verifier to
// hand to a holder before requesting a key-bound presentation.
func NewChallengeNonce() string { return adapter.NewNonce() }
