package recreate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/issuer"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/recreate"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

func TestRecreateRoundTripsIssuedPayload(t *testing.T) {
	root := discloser.Obj(
		discloser.F("iss", discloser.Plain("https://issuer.example")),
		discloser.F("given_name", discloser.Disclosable("Alice")),
		discloser.F("address", discloser.SdObj(
			discloser.F("country", discloser.Plain("US")),
			discloser.F("street", discloser.Disclosable("123 Main St")),
		)),
		discloser.F("nationalities", discloser.Arr(
			discloser.Plain("DE"),
			discloser.Disclosable("FR"),
		)),
	)
	issued, err := issuer.Create(root)
	require.NoError(t, err)

	res, err := recreate.Recreate(issued.Payload, issued.Disclosures)
	require.NoError(t, err)

	assert.Equal(t, "https://issuer.example", res.Tree["iss"])
	assert.Equal(t, "Alice", res.Tree["given_name"])

	addr, ok := res.Tree["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "US", addr["country"])
	assert.Equal(t, "123 Main St", addr["street"])

	nats, ok := res.Tree["nationalities"].([]any)
	require.True(t, ok)
	require.Len(t, nats, 2)
	assert.Equal(t, "DE", nats[0])
	assert.Equal(t, "FR", nats[1])

	// given_name required one disclosure.
	given, ok := res.Provenance.Get(claimpath.New(claimpath.Claim("given_name")))
	require.True(t, ok)
	assert.Len(t, given, 1)

	// iss is plain: no disclosures needed to see it.
	issProv, ok := res.Provenance.Get(claimpath.New(claimpath.Claim("iss")))
	require.True(t, ok)
	assert.Empty(t, issProv)

	// address.street needs both the address-wrapping disclosure and its own.
	street, ok := res.Provenance.Get(claimpath.New(claimpath.Claim("address"), claimpath.Claim("street")))
	require.True(t, ok)
	assert.Len(t, street, 2)

	// nationalities[1] needs its own disclosure; [0] needs none.
	nat1, ok := res.Provenance.Get(claimpath.New(claimpath.Claim("nationalities"), claimpath.ArrayElementAt(1)))
	require.True(t, ok)
	assert.Len(t, nat1, 1)
}

func TestRecreateDuplicateDisclosureErrors(t *testing.T) {
	root := discloser.Obj(discloser.F("given_name", discloser.Disclosable("Alice")))
	issued, err := issuer.Create(root)
	require.NoError(t, err)

	_, err = recreate.Recreate(issued.Payload, append(issued.Disclosures, issued.Disclosures[0]))
	require.Error(t, err)
}

func TestRecreateUnconsumedDisclosureErrors(t *testing.T) {
	rootA := discloser.Obj(discloser.F("a", discloser.Disclosable("1")))
	issuedA, err := issuer.Create(rootA)
	require.NoError(t, err)

	rootB := discloser.Obj(discloser.F("b", discloser.Plain("2")))
	issuedB, err := issuer.Create(rootB)
	require.NoError(t, err)

	// Disclosures from A don't match any digest in B's payload.
	_, err = recreate.Recreate(issuedB.Payload, issuedA.Disclosures)
	var missing *sdjwterr.MissingDigests
	require.ErrorAs(t, err, &missing)
}
