// Package adapter provides default, concrete implementations of the C10
// external interfaces (spec §4.9): SdJwtSigner, JwtSignatureVerifier,
// KeyBindingVerifier, plus JWK public-key conversion. The verifier package
// only depends on the narrow interfaces it declares itself; presentation
// and the root facade take this package's Signer. This package is where a
// caller who doesn't want to bring their own crypto plumbing can get a
// working one.
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/jwt.go's Signer interface
// (Sign/Algorithm/KeyID/PublicKey) and keybinding.go's
// CreateKeyBindingJWT/getSigningMethodFromKey, built on
// github.com/golang-jwt/jwt/v5 the way the whole dc4eu-vc pkg/sdjwtvc
// family does.
package adapter

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/verifier"
)

// Signer is the SdJwtSigner adapter contract: sign(payload) -> compact_jwt.
// The policy "no none, no MAC" is enforced here at the boundary, not by
// core packages, per spec §4.9.
type Signer interface {
	Sign(claims map[string]any, header map[string]any) (string, error)
	Algorithm() string
	KeyID() string
}

// JWTSigner signs with golang-jwt/jwt/v5 using an RSA or ECDSA private key.
// Symmetric (HMAC) and "none" algorithms are refused by construction: the
// caller must supply a jwt.SigningMethod of the RSA/ECDSA/EdDSA family.
type JWTSigner struct {
	Method jwt.SigningMethod
	Key    any // *rsa.PrivateKey, *ecdsa.PrivateKey, or ed25519.PrivateKey
	Kid    string
}

// NewJWTSigner validates that method is not a MAC/none algorithm before
// returning a usable Signer.
func NewJWTSigner(method jwt.SigningMethod, key any, kid string) (*JWTSigner, error) {
	// jwt.SigningMethodNone's concrete type is unexported, so it can't be
	// named in a type switch case; compare the interface value directly.
	if _, isHMAC := method.(*jwt.SigningMethodHMAC); isHMAC || method == jwt.SigningMethodNone {
		return nil, fmt.Errorf("sdjwt: %s is not an accepted SD-JWT signing algorithm (no MAC, no none)", method.Alg())
	}
	return &JWTSigner{Method: method, Key: key, Kid: kid}, nil
}

func (s *JWTSigner) Algorithm() string { return s.Method.Alg() }
func (s *JWTSigner) KeyID() string     { return s.Kid }

func (s *JWTSigner) Sign(claims map[string]any, header map[string]any) (string, error) {
	token := jwt.NewWithClaims(s.Method, jwt.MapClaims(claims))
	for k, v := range header {
		token.Header[k] = v
	}
	if s.Kid != "" {
		token.Header["kid"] = s.Kid
	}
	return token.SignedString(s.Key)
}

// JWTSignatureVerifier implements verifier.SignatureVerifier over
// golang-jwt/jwt/v5, restricted to the RSA/ECDSA/EdDSA algorithm families
// (never HMAC, never none) for exactly the reason JWTSigner refuses them.
type JWTSignatureVerifier struct {
	KeyFunc       jwt.Keyfunc
	ValidMethods  []string
}

func (v *JWTSignatureVerifier) Verify(compactJWT string) (verifier.Claims, error) {
	opts := []jwt.ParserOption{}
	if len(v.ValidMethods) > 0 {
		opts = append(opts, jwt.WithValidMethods(v.ValidMethods))
	}
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); isHMAC || t.Method == jwt.SigningMethodNone {
			return nil, fmt.Errorf("sdjwt: %s is not an accepted SD-JWT signing algorithm (no MAC, no none)", t.Method.Alg())
		}
		return v.KeyFunc(t)
	}
	tok, err := jwt.Parse(compactJWT, keyFunc, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("sdjwt: unexpected claims type %T", tok.Claims)
	}
	return verifier.Claims(claims), nil
}

// JWTKeyBindingVerifier implements verifier.KeyBindingVerifier: it resolves
// the verification key from the holder public key handed to it (already
// extracted from cnf.jwk by the core pipeline) rather than from its own
// key store.
type JWTKeyBindingVerifier struct{}

func (JWTKeyBindingVerifier) VerifyWithKey(compactKBJWT string, holderKey any) (verifier.Claims, error) {
	pub, err := ToPublicKey(holderKey)
	if err != nil {
		return nil, err
	}
	tok, err := jwt.Parse(compactKBJWT, func(t *jwt.Token) (any, error) {
		if typ, _ := t.Header["typ"].(string); typ != "kb+jwt" {
			return nil, fmt.Errorf("sdjwt: kb-jwt has unexpected typ %q", typ)
		}
		switch pub.(type) {
		case *rsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("sdjwt: unexpected signing method %v for RSA key", t.Method.Alg())
			}
		case *ecdsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
				return nil, fmt.Errorf("sdjwt: unexpected signing method %v for EC key", t.Method.Alg())
			}
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("sdjwt: unexpected kb-jwt claims type %T", tok.Claims)
	}
	return verifier.Claims(claims), nil
}
