package discloser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
)

func TestBuildersProduceExpectedVariants(t *testing.T) {
	assert.IsType(t, discloser.LeafAlways{}, discloser.Plain("x"))
	assert.IsType(t, discloser.LeafSd{}, discloser.Disclosable("x"))
	assert.IsType(t, discloser.ObjectAlways{}, discloser.Obj())
	assert.IsType(t, discloser.ObjectSd{}, discloser.SdObj())
	assert.IsType(t, discloser.ArrayAlways{}, discloser.Arr())
	assert.IsType(t, discloser.ArraySd{}, discloser.SdArr())
}

func TestWithMinDigestsSetsHintOnCompoundVariants(t *testing.T) {
	obj := discloser.WithMinDigests(discloser.Obj(discloser.F("a", discloser.Plain(1))), 5)
	o, ok := obj.(discloser.ObjectAlways)
	assert.True(t, ok)
	assert.Equal(t, 5, o.MinDigestHint)

	arr := discloser.WithMinDigests(discloser.Arr(discloser.Plain(1)), 2)
	a, ok := arr.(discloser.ArrayAlways)
	assert.True(t, ok)
	assert.Equal(t, 2, a.MinDigestHint)
}

func TestWithMinDigestsIsNoopOnLeaves(t *testing.T) {
	leaf := discloser.WithMinDigests(discloser.Plain("x"), 5)
	assert.Equal(t, discloser.Plain("x"), leaf)
}
