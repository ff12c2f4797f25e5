package sdlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/sdlog"
)

func TestNewSimpleProducesUsableLogger(t *testing.T) {
	log := sdlog.NewSimple("test")
	assert.NotPanics(t, func() {
		log.Info("hello", "key", "value")
	})
}

func TestDiscardSwallowsEverything(t *testing.T) {
	log := sdlog.Discard()
	assert.NotPanics(t, func() {
		log.Info("hello")
		log.Error(nil, "oops")
	})
}

func TestNewProductionAndDevelopment(t *testing.T) {
	devLog, err := sdlog.New("dev", false)
	assert.NoError(t, err)
	assert.NotPanics(t, func() { devLog.V(1).Info("debug") })

	prodLog, err := sdlog.New("prod", true)
	assert.NoError(t, err)
	assert.NotPanics(t, func() { prodLog.Info("info") })
}
