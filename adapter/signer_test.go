package adapter_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/adapter"
)

func TestNewJWTSignerRejectsHMACAndNone(t *testing.T) {
	_, err := adapter.NewJWTSigner(jwt.SigningMethodHS256, []byte("secret"), "")
	require.Error(t, err)

	_, err = adapter.NewJWTSigner(jwt.SigningMethodNone, nil, "")
	require.Error(t, err)
}

func TestJWTSignerSignAndVerifyRoundTrip(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	signer, err := adapter.NewJWTSigner(jwt.SigningMethodES256, priv, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "ES256", signer.Algorithm())
	assert.Equal(t, "key-1", signer.KeyID())

	token, err := signer.Sign(map[string]any{"sub": "alice"}, map[string]any{"typ": "vc+sd-jwt"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier := &adapter.JWTSignatureVerifier{
		KeyFunc: func(*jwt.Token) (any, error) { return &priv.PublicKey, nil },
	}
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["sub"])
}
