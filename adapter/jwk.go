package adapter

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

// ToPublicKey converts a decoded cnf.jwk value (map[string]any, the shape
// json.Unmarshal produces) into a *rsa.PublicKey or *ecdsa.PublicKey.
//
// dc4eu-vc/pkg/sdjwtvc/verification.go's jwkToPublicKey handles only EC
// keys and stubs RSA with "not yet implemented"; both are implemented
// here (see DESIGN.md bug #7).
func ToPublicKey(jwk any) (any, error) {
	m, ok := jwk.(map[string]any)
	if !ok {
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Reason: "cnf.jwk is not a JSON object"}
	}
	kty, _ := m["kty"].(string)
	switch kty {
	case "EC":
		return ecPublicKeyFromJWK(m)
	case "RSA":
		return rsaPublicKeyFromJWK(m)
	default:
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Reason: fmt.Sprintf("unsupported kty %q", kty)}
	}
}

func jwkBigInt(m map[string]any, field string) (*big.Int, error) {
	s, ok := m[field].(string)
	if !ok {
		return nil, fmt.Errorf("sdjwt: jwk missing %q", field)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("sdjwt: jwk %q is not valid base64url: %w", field, err)
	}
	return new(big.Int).SetBytes(b), nil
}

func ecPublicKeyFromJWK(m map[string]any) (*ecdsa.PublicKey, error) {
	crv, _ := m["crv"].(string)
	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Reason: fmt.Sprintf("unsupported EC curve %q", crv)}
	}
	x, err := jwkBigInt(m, "x")
	if err != nil {
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Cause: err}
	}
	y, err := jwkBigInt(m, "y")
	if err != nil {
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Cause: err}
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func rsaPublicKeyFromJWK(m map[string]any) (*rsa.PublicKey, error) {
	n, err := jwkBigInt(m, "n")
	if err != nil {
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Cause: err}
	}
	e, err := jwkBigInt(m, "e")
	if err != nil {
		return nil, &sdjwterr.KeyBindingFailed{SubKind: sdjwterr.KBUnsupportedHolderPublicKey, Cause: err}
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
