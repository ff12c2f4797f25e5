package disclosure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/disclosure"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
)

func TestObjectPropertyRoundTrip(t *testing.T) {
	d, err := disclosure.NewObjectProperty("salt123", "given_name", "Alice", false)
	require.NoError(t, err)
	assert.True(t, d.IsObjectProperty())
	assert.Equal(t, "given_name", d.Name())

	parsed, err := disclosure.Parse(d.Encoded)
	require.NoError(t, err)
	assert.Equal(t, "given_name", parsed.Name())
	assert.Equal(t, "Alice", parsed.Value)
	assert.Equal(t, d.Encoded, parsed.Encoded)
}

func TestArrayElementRoundTrip(t *testing.T) {
	d, err := disclosure.NewArrayElement("salt456", "US")
	require.NoError(t, err)
	assert.False(t, d.IsObjectProperty())
	assert.Equal(t, "", d.Name())

	parsed, err := disclosure.Parse(d.Encoded)
	require.NoError(t, err)
	assert.False(t, parsed.IsObjectProperty())
	assert.Equal(t, "US", parsed.Value)
}

func TestReservedNameRejected(t *testing.T) {
	_, err := disclosure.NewObjectProperty("s", "_sd", "x", false)
	require.Error(t, err)

	_, err = disclosure.NewObjectProperty("s", "_sd_alg", "x", false)
	require.Error(t, err)

	_, err = disclosure.NewObjectProperty("s", "...", "x", false)
	require.Error(t, err)
}

func TestNestedDigestsRejectedUnlessAllowed(t *testing.T) {
	nested := map[string]any{"_sd": []any{"abc"}}
	_, err := disclosure.NewObjectProperty("s", "address", nested, false)
	require.Error(t, err)

	d, err := disclosure.NewObjectProperty("s", "address", nested, true)
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestDigestIsDeterministicAndAlgorithmSensitive(t *testing.T) {
	d, err := disclosure.NewObjectProperty("salt", "claim", "value", false)
	require.NoError(t, err)

	g1, err := d.Digest(hashset.SHA256)
	require.NoError(t, err)
	g2, err := d.Digest(hashset.SHA256)
	require.NoError(t, err)
	assert.Equal(t, g1, g2)

	g3, err := d.Digest(hashset.SHA384)
	require.NoError(t, err)
	assert.NotEqual(t, g1, g3)
}

func TestParseRejectsMalformedShapes(t *testing.T) {
	_, err := disclosure.Parse("not-base64url!!!")
	require.Error(t, err)

	// A valid base64url string that decodes to a JSON array with the wrong arity.
	_, err = disclosure.Parse("WyJvbmx5LW9uZS1lbGVtZW50Il0") // ["only-one-element"]
	require.Error(t, err)
}
