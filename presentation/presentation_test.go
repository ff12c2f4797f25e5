package presentation_test

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/issuer"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/presentation"
)

func unsignedJWT(t *testing.T, payload map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"vc+sd-jwt"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.%s", header, base64.RawURLEncoding.EncodeToString(body), "sig")
}

func TestPresentFiltersToMatchedDisclosuresOnly(t *testing.T) {
	root := discloser.Obj(
		discloser.F("iss", discloser.Plain("https://issuer.example")),
		discloser.F("given_name", discloser.Disclosable("Alice")),
		discloser.F("family_name", discloser.Disclosable("Smith")),
	)
	res, err := issuer.Create(root)
	require.NoError(t, err)

	issuance := presentation.Issuance{
		JWT:         unsignedJWT(t, res.Payload),
		Disclosures: res.Disclosures,
	}

	query := presentation.AnyOf(claimpath.New(claimpath.Claim("given_name")))
	pres, ok, err := presentation.Present(issuance, query)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, pres.Disclosures, 1)
	assert.Equal(t, "given_name", pres.Disclosures[0].Name())
}

func TestPresentNoMatchReturnsNotOK(t *testing.T) {
	root := discloser.Obj(discloser.F("given_name", discloser.Disclosable("Alice")))
	res, err := issuer.Create(root)
	require.NoError(t, err)

	issuance := presentation.Issuance{JWT: unsignedJWT(t, res.Payload), Disclosures: res.Disclosures}
	query := presentation.AnyOf(claimpath.New(claimpath.Claim("nonexistent")))
	_, ok, err := presentation.Present(issuance, query)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPresentationStringAlwaysEndsInTilde(t *testing.T) {
	p := &presentation.Presentation{JWT: "h.p.s"}
	assert.Equal(t, "h.p.s~", p.String())
}
