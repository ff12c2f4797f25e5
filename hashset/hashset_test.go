package hashset_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

func TestDigestIsDeterministicPerAlgorithm(t *testing.T) {
	// From draft-ietf-oauth-selective-disclosure-jwt: sha-256 digest of the
	// disclosure base64url string "WyJlbHVWNU9nM2dTTElJOEVWWk9ndmxhIiwgImZhbWls"...
	// is environment-independent given a fixed input string, so we just
	// check the function is deterministic and algorithm-dispatching works
	// rather than hardcode an external vector.
	for _, alg := range []hashset.Algorithm{hashset.SHA256, hashset.SHA384, hashset.SHA512, hashset.SHA3256, hashset.SHA3384, hashset.SHA3512} {
		t.Run(string(alg), func(t *testing.T) {
			d1, err := hashset.Digest(alg, []byte("hello"))
			require.NoError(t, err)
			d2, err := hashset.Digest(alg, []byte("hello"))
			require.NoError(t, err)
			assert.Equal(t, d1, d2)

			d3, err := hashset.Digest(alg, []byte("goodbye"))
			require.NoError(t, err)
			assert.NotEqual(t, d1, d3)
		})
	}
}

func TestDigestUnsupportedAlgorithm(t *testing.T) {
	_, err := hashset.Digest("sha-1", []byte("x"))
	require.Error(t, err)
	var uae *sdjwterr.UnsupportedHashingAlgorithm
	require.True(t, errors.As(err, &uae))
	assert.Equal(t, "sha-1", uae.Name)
}

func TestValid(t *testing.T) {
	assert.True(t, hashset.Valid(hashset.SHA256))
	assert.True(t, hashset.Valid(hashset.SHA3384))
	assert.False(t, hashset.Valid("sha-1"))
}

func TestDefaultSaltProviderProducesUniqueSalts(t *testing.T) {
	s1, err := hashset.DefaultSaltProvider.NewSalt()
	require.NoError(t, err)
	s2, err := hashset.DefaultSaltProvider.NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
	assert.NotEmpty(t, string(s1))
}

func TestMinimumDigestHint(t *testing.T) {
	h := hashset.MinimumDigestHint{Minimum: 3}
	assert.Equal(t, 3, h.DecoysFor(0))
	assert.Equal(t, 1, h.DecoysFor(2))
	assert.Equal(t, 0, h.DecoysFor(5))
}

func TestNoDecoys(t *testing.T) {
	assert.Equal(t, 0, hashset.NoDecoys{}.DecoysFor(0))
	assert.Equal(t, 0, hashset.NoDecoys{}.DecoysFor(10))
}
