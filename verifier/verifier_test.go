package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/issuer"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/verifier"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/wire"
)

type stubSigVerifier struct {
	claims verifier.Claims
	err    error
}

func (s stubSigVerifier) Verify(string) (verifier.Claims, error) { return s.claims, s.err }

type stubKBVerifier struct {
	claims verifier.Claims
	err    error
}

func (s stubKBVerifier) VerifyWithKey(string, any) (verifier.Claims, error) { return s.claims, s.err }

func issuedFixture(t *testing.T) *issuer.Result {
	t.Helper()
	root := discloser.Obj(
		discloser.F("iss", discloser.Plain("https://issuer.example")),
		discloser.F("given_name", discloser.Disclosable("Alice")),
	)
	res, err := issuer.Create(root)
	require.NoError(t, err)
	return res
}

func compactWire(res *issuer.Result, kb string) string {
	encoded := make([]string, len(res.Disclosures))
	for i, d := range res.Disclosures {
		encoded[i] = d.Encoded
	}
	return (&wire.Compact{JWT: "stub.jwt.sig", Disclosures: encoded, KBJWT: kb}).String()
}

func TestVerifySuccess(t *testing.T) {
	res := issuedFixture(t)
	compact := compactWire(res, "")

	out, err := verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(res.Payload)}))
	require.NoError(t, err)
	assert.Equal(t, "https://issuer.example", out.Payload["iss"])
	assert.Len(t, out.Disclosures, 1)
	assert.Nil(t, out.KBClaims)
}

func TestVerifyFailsWhenSignatureVerifierRejects(t *testing.T) {
	res := issuedFixture(t)
	compact := compactWire(res, "")

	_, err := verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{err: assert.AnError}))
	require.Error(t, err)
}

func TestVerifyFailsOnDuplicateDisclosure(t *testing.T) {
	res := issuedFixture(t)
	encoded := res.Disclosures[0].Encoded
	compact := (&wire.Compact{JWT: "stub.jwt.sig", Disclosures: []string{encoded, encoded}}).String()

	_, err := verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(res.Payload)}))
	require.ErrorIs(t, err, sdjwterr.ErrNonUniqueDisclosures)
}

func TestVerifyFailsOnMissingDigest(t *testing.T) {
	res := issuedFixture(t)

	other := discloser.Obj(discloser.F("x", discloser.Disclosable("y")))
	otherRes, err := issuer.Create(other)
	require.NoError(t, err)

	compact := compactWire(otherRes, "")
	_, err = verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(res.Payload)}))
	require.Error(t, err)
	var missing *sdjwterr.MissingDigests
	require.ErrorAs(t, err, &missing)
}

func TestVerifyFailsOnDuplicateDigestNamesSite(t *testing.T) {
	res := issuedFixture(t)
	dg, err := res.Disclosures[0].Digest(hashset.Default)
	require.NoError(t, err)

	payload := map[string]any{
		"iss": "https://issuer.example",
		"_sd": []any{dg, dg},
	}
	compact := compactWire(&issuer.Result{Payload: payload, Disclosures: res.Disclosures}, "")

	_, err = verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(payload)}))
	var dup *sdjwterr.NonUniqueDisclosureDigests
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "payload", dup.Site.Path)
	assert.Equal(t, dg, dup.Site.Digest)
	require.ErrorIs(t, err, sdjwterr.ErrNonUniqueDisclosureDigests)
}

func TestVerifyKeyBindingMustNotBePresentRejectsKBJWT(t *testing.T) {
	res := issuedFixture(t)
	compact := compactWire(res, "some.kb.jwt")

	_, err := verifier.Verify(compact, verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(res.Payload)}))
	var kbErr *sdjwterr.KeyBindingFailed
	require.ErrorAs(t, err, &kbErr)
	assert.Equal(t, sdjwterr.KBUnexpectedKeyBindingJwt, kbErr.SubKind)
}

func TestVerifyKeyBindingMustBePresentAndValid(t *testing.T) {
	payload := map[string]any{
		"iss": "https://issuer.example",
		"cnf": map[string]any{"jwk": map[string]any{"kty": "EC"}},
	}
	compact := (&wire.Compact{JWT: "stub.jwt.sig", KBJWT: "kb.compact.jwt"}).String()

	withoutKB := (&wire.Compact{JWT: "stub.jwt.sig"}).String()
	sdHash, err := hashset.Digest(hashset.Default, []byte(withoutKB))
	require.NoError(t, err)

	out, err := verifier.Verify(compact,
		verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(payload)}),
		verifier.WithKeyBindingPolicy(verifier.MustBePresentAndValid),
		verifier.WithKeyBindingVerifier(stubKBVerifier{claims: verifier.Claims{"sd_hash": sdHash}}),
	)
	require.NoError(t, err)
	require.NotNil(t, out.KBClaims)
}

func TestVerifyKeyBindingMissingWhenRequired(t *testing.T) {
	res := issuedFixture(t)
	compact := compactWire(res, "")

	_, err := verifier.Verify(compact,
		verifier.WithSignatureVerifier(stubSigVerifier{claims: verifier.Claims(res.Payload)}),
		verifier.WithKeyBindingPolicy(verifier.MustBePresentAndValid),
	)
	var kbErr *sdjwterr.KeyBindingFailed
	require.ErrorAs(t, err, &kbErr)
	assert.Equal(t, sdjwterr.KBMissingKeyBindingJwt, kbErr.SubKind)
}
