package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/config"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := config.NewOptions()
	assert.Equal(t, hashset.Default, o.HashAlgorithm)
	assert.Equal(t, hashset.DefaultSaltProvider, o.SaltProvider)
	assert.Equal(t, hashset.DefaultDecoyGen, o.DecoyGen)
	assert.Equal(t, 64, o.MaxDepth)
	assert.Nil(t, o.DecoyStrategy)
}

func TestWithHashAlgorithmOverrides(t *testing.T) {
	o := config.NewOptions(config.WithHashAlgorithm(hashset.SHA384), config.WithMaxDepth(10))
	assert.Equal(t, hashset.SHA384, o.HashAlgorithm)
	assert.Equal(t, 10, o.MaxDepth)
}

func TestWithDecoyStrategy(t *testing.T) {
	strategy := hashset.MinimumDigestHint{Minimum: 4}
	o := config.NewOptions(config.WithDecoyStrategy(strategy))
	assert.Equal(t, strategy, o.DecoyStrategy)
}
