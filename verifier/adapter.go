package verifier

// Claims is the decoded JWT claim set returned by a signature verifier.
type Claims map[string]any

// SignatureVerifier is the C10 external adapter boundary for JWT signature
// verification (spec §4.9's JwtSignatureVerifier): verify(compact_jwt) ->
// Claims | error. Implementations hold issuer/holder keys and signing
// policy; the core never sees key material.
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/jwt.go's Signer counterpart and
// aries-framework-go/pkg/doc/sdjwt's verifier.WithSignatureVerifier option.
type SignatureVerifier interface {
	Verify(compactJWT string) (Claims, error)
}

// HolderKeyLookup resolves the holder's public key material from the
// verified SD-JWT payload claims, defaulting to cnf.jwk per spec §6.
type HolderKeyLookup func(claims Claims) (any, bool)

// DefaultHolderKeyLookup reads cnf.jwk from claims.
func DefaultHolderKeyLookup(claims Claims) (any, bool) {
	cnf, ok := claims["cnf"].(map[string]any)
	if !ok {
		return nil, false
	}
	jwk, ok := cnf["jwk"]
	if !ok {
		return nil, false
	}
	return jwk, true
}

// KeyBindingVerifier verifies a KB-JWT against a holder public key obtained
// via HolderKeyLookup, returning the KB-JWT's claims on success.
type KeyBindingVerifier interface {
	VerifyWithKey(compactKBJWT string, holderKey any) (Claims, error)
}
