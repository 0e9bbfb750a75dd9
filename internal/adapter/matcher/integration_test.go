//go:build integration

package matcher

import (
	"testing"

	"golang-netdef/internal/adapter/infrastructure/network"
	"golang-netdef/internal/pkg/netdef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_SystemLinks(t *testing.T) {
	parser := netdef.NewParser()
	require.NoError(t, parser.IngestBytes("lo.yaml", []byte(`network:
  ethernets:
    lo: {}
    any:
      match: {name: "*"}
`)))
	require.NoError(t, parser.Finalize())

	results, err := NewMatcher(network.NewManagerAdapter()).Match(parser.Registry().Definitions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Len(t, results[0].Links, 1)
	assert.Equal(t, "lo", results[0].Links[0].Name)
	assert.GreaterOrEqual(t, len(results[1].Links), 1)
}
