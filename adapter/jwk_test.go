package adapter_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/adapter"
)

func TestToPublicKeyEC(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	jwk := map[string]any{
		"kty": "EC",
		"crv": "P-256",
		"x":   base64.RawURLEncoding.EncodeToString(priv.X.Bytes()),
		"y":   base64.RawURLEncoding.EncodeToString(priv.Y.Bytes()),
	}
	pub, err := adapter.ToPublicKey(jwk)
	require.NoError(t, err)
	ecPub, ok := pub.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.X, ecPub.X)
	assert.Equal(t, priv.Y, ecPub.Y)
}

func TestToPublicKeyRSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	eBytes := []byte{0, 1, 0, 1} // 65537, matches a typical RSA public exponent
	jwk := map[string]any{
		"kty": "RSA",
		"n":   base64.RawURLEncoding.EncodeToString(priv.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(eBytes),
	}
	pub, err := adapter.ToPublicKey(jwk)
	require.NoError(t, err)
	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.N, rsaPub.N)
	assert.Equal(t, priv.PublicKey.E, rsaPub.E)
}

func TestToPublicKeyUnsupportedKty(t *testing.T) {
	_, err := adapter.ToPublicKey(map[string]any{"kty": "oct"})
	require.Error(t, err)
}

func TestToPublicKeyRejectsNonObject(t *testing.T) {
	_, err := adapter.ToPublicKey("not-a-jwk")
	require.Error(t, err)
}

func TestToPublicKeyUnsupportedCurve(t *testing.T) {
	_, err := adapter.ToPublicKey(map[string]any{"kty": "EC", "crv": "P-999"})
	require.Error(t, err)
}
