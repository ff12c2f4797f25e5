package claimpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
)

func TestSelectJSONPath(t *testing.T) {
	tree := map[string]any{
		"address": map[string]any{"street": "Main St"},
	}
	v, err := claimpath.SelectJSONPath(tree, "$.address.street")
	require.NoError(t, err)
	assert.Equal(t, "Main St", v)
}
