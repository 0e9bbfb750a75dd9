//go:build unit

package netdef

import (
	"context"
	"errors"
	"testing"

	"golang-netdef/internal/port"
	"golang-netdef/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingest(t *testing.T, p *Parser, name, content string) {
	t.Helper()
	require.NoError(t, p.IngestBytes(name, []byte(content)))
}

func finalized(t *testing.T, docs ...string) *Parser {
	t.Helper()
	p := NewParser()
	for i, doc := range docs {
		ingest(t, p, "doc"+string(rune('a'+i))+".yaml", doc)
	}
	require.NoError(t, p.Finalize())
	return p
}

func get(t *testing.T, p *Parser, id string) *types.Definition {
	t.Helper()
	def, ok := p.Registry().Get(id)
	require.True(t, ok, "definition %s not found", id)
	return def
}

type sliceSource []port.RawDocument

func (s sliceSource) Documents(ctx context.Context) ([]port.RawDocument, error) {
	return s, nil
}

func TestParser_MergeAcrossDocuments(t *testing.T) {
	t.Run("ScalarsOverrideListsAccumulate", func(t *testing.T) {
		p := finalized(t, `network:
  ethernets:
    eth0:
      dhcp4: true
      mtu: 1400
      gateway4: 10.0.0.254
      addresses: [10.0.0.1/24]
      nameservers:
        addresses: [1.1.1.1]
        search: [lan]
      routes:
        - to: 0.0.0.0/0
          via: 10.0.0.254
`, `network:
  ethernets:
    eth0:
      mtu: 9000
      gateway4: 10.0.0.253
      addresses: [10.0.0.2/24, "2001:db8::2/64"]
      nameservers:
        addresses: ["2001:db8::53"]
        search: [example.com]
      routes:
        - to: 10.1.0.0/16
          via: 10.0.0.253
          metric: 100
`)
		eth0 := get(t, p, "eth0")
		assert.True(t, eth0.DHCP4)
		assert.Equal(t, 9000, eth0.MTU)
		assert.Equal(t, "10.0.0.253", eth0.Gateway4)
		assert.Equal(t, []string{"10.0.0.1/24", "10.0.0.2/24", "2001:db8::2/64"}, eth0.Addresses)
		assert.Equal(t, []string{"10.0.0.1/24", "10.0.0.2/24"}, eth0.IPv4Addresses())
		assert.Equal(t, []string{"2001:db8::2/64"}, eth0.IPv6Addresses())
		assert.Equal(t, []string{"1.1.1.1", "2001:db8::53"}, eth0.Nameservers)
		assert.Equal(t, []string{"lan", "example.com"}, eth0.SearchDomains)
		require.Len(t, eth0.Routes, 2)
		assert.Equal(t, "0.0.0.0/0", eth0.Routes[0].To)
		assert.Equal(t, "10.1.0.0/16", eth0.Routes[1].To)
		assert.Equal(t, 4, eth0.Routes[1].Family)
	})

	t.Run("AmendedDefinitionScenario", func(t *testing.T) {
		p := finalized(t, `network:
  ethernets:
    eth0:
      dhcp4: true
`, `network:
  ethernets:
    eth0:
      mtu: 1500
      addresses: ["10.0.0.5/24"]
`)
		eth0 := get(t, p, "eth0")
		assert.True(t, eth0.DHCP4)
		assert.Equal(t, 1500, eth0.MTU)
		assert.Equal(t, []string{"10.0.0.5/24"}, eth0.Addresses)
	})

	t.Run("AccessPointsMergeBySSID", func(t *testing.T) {
		p := finalized(t, `network:
  wifis:
    wl0:
      access-points:
        home:
          password: first
        work:
          mode: adhoc
`, `network:
  wifis:
    wl0:
      access-points:
        home:
          mode: ap
          password: second
`)
		aps := get(t, p, "wl0").Wifi.AccessPoints
		require.Len(t, aps, 2)
		assert.Equal(t, "second", aps["home"].Password)
		assert.Equal(t, types.WifiModeAP, aps["home"].Mode)
		assert.Equal(t, "home", aps["home"].SSID)
		assert.Equal(t, types.WifiModeAdhoc, aps["work"].Mode)
	})

	t.Run("ConnectionIDStable", func(t *testing.T) {
		p := NewParser()
		ingest(t, p, "a.yaml", "network:\n  ethernets:\n    eth0: {dhcp4: true}\n")
		id := get(t, p, "eth0").ConnectionID
		assert.NotEqual(t, uuid.Nil, id)

		ingest(t, p, "b.yaml", "network:\n  ethernets:\n    eth0: {dhcp6: true}\n")
		require.NoError(t, p.Finalize())
		assert.Equal(t, id, get(t, p, "eth0").ConnectionID)
	})

	t.Run("DefinitionsInDeclarationOrder", func(t *testing.T) {
		p := finalized(t, `network:
  ethernets:
    eth1: {}
    eth0: {}
`, `network:
  bridges:
    br0: {}
  ethernets:
    eth2: {}
`)
		var ids []string
		for _, def := range p.Registry().Definitions() {
			ids = append(ids, def.ID)
		}
		assert.Equal(t, []string{"eth1", "eth0", "br0", "eth2"}, ids)
		assert.Equal(t, 4, p.Registry().Len())
	})
}

func TestParser_Ingest(t *testing.T) {
	t.Run("FailedDocumentLeavesRegistryUnchanged", func(t *testing.T) {
		p := NewParser()
		ingest(t, p, "a.yaml", "network:\n  ethernets:\n    eth0: {dhcp4: true}\n")

		err := p.IngestBytes("b.yaml", []byte(`network:
  ethernets:
    eth1:
      dhcp4: true
    eth0:
      mtu: 1500
      bogus: 1
`))
		require.Error(t, err)
		assert.True(t, IsKind(err, SchemaError))

		assert.Equal(t, 1, p.Registry().Len())
		_, ok := p.Registry().Get("eth1")
		assert.False(t, ok)
		assert.Equal(t, 0, get(t, p, "eth0").MTU)
	})

	t.Run("EmptyDocuments", func(t *testing.T) {
		p := NewParser()
		ingest(t, p, "empty.yaml", "")
		ingest(t, p, "null.yaml", "network:\n")
		ingest(t, p, "comment.yaml", "# nothing here\n")
		require.NoError(t, p.Finalize())
		assert.Equal(t, 0, p.Registry().Len())
	})

	t.Run("IngestSource", func(t *testing.T) {
		p := NewParser()
		err := p.IngestSource(context.Background(), sliceSource{
			{Name: "10-base.yaml", Data: []byte("network:\n  ethernets:\n    eth0: {mtu: 1400}\n")},
			{Name: "20-override.yaml", Data: []byte("network:\n  ethernets:\n    eth0: {mtu: 9000}\n")},
		})
		require.NoError(t, err)
		require.NoError(t, p.Finalize())
		assert.Equal(t, 9000, get(t, p, "eth0").MTU)
	})

	t.Run("IngestSourceCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewParser()
		err := p.IngestSource(ctx, sliceSource{
			{Name: "a.yaml", Data: []byte("network:\n  ethernets:\n    eth0: {}\n")},
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, p.Registry().Len())
	})

	t.Run("IngestSourceStopsAtFirstError", func(t *testing.T) {
		p := NewParser()
		err := p.IngestSource(context.Background(), sliceSource{
			{Name: "a.yaml", Data: []byte("network:\n  ethernets:\n    eth0: {}\n")},
			{Name: "b.yaml", Data: []byte("network:\n  ethernets:\n    eth1: {mtu: -1}\n")},
			{Name: "c.yaml", Data: []byte("network:\n  ethernets:\n    eth2: {}\n")},
		})
		require.Error(t, err)
		var e *Error
		require.True(t, errors.As(err, &e))
		require.NotNil(t, e.Location)
		assert.Equal(t, "b.yaml", e.Location.Document)
		assert.Equal(t, 1, p.Registry().Len())
	})
}

func TestParser_Finalize(t *testing.T) {
	t.Run("FailureLeavesRegistryUnfrozen", func(t *testing.T) {
		p := NewParser()
		ingest(t, p, "a.yaml", `network:
  vlans:
    vlan0: {id: 10, link: eth9}
`)
		err := p.Finalize()
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceError))
		assert.False(t, p.Frozen())
		assert.Len(t, p.Registry().Pending(), 1)
		assert.Empty(t, get(t, p, "vlan0").EffectiveBackend)

		ingest(t, p, "b.yaml", "network:\n  ethernets:\n    eth9: {}\n")
		require.NoError(t, p.Finalize())
		assert.True(t, p.Frozen())
		assert.True(t, get(t, p, "eth9").HasVlans)
	})

	t.Run("FrozenRejectsIngest", func(t *testing.T) {
		p := finalized(t, "network:\n  ethernets:\n    eth0: {}\n")

		err := p.IngestBytes("late.yaml", []byte("network:\n  ethernets:\n    eth1: {}\n"))
		assert.ErrorIs(t, err, ErrFrozen)
		assert.ErrorIs(t, p.Ingest(&Document{Name: "late.yaml"}), ErrFrozen)
		assert.NoError(t, p.Finalize())
		assert.Equal(t, 1, p.Registry().Len())
	})

	t.Run("ResetClearsEverything", func(t *testing.T) {
		p := finalized(t, "network:\n  renderer: NetworkManager\n  ethernets:\n    eth0: {}\n")

		p.Reset()
		assert.False(t, p.Frozen())
		assert.Equal(t, 0, p.Registry().Len())
		assert.Equal(t, DefaultBackend, p.EffectiveGlobalBackend())

		ingest(t, p, "a.yaml", "network:\n  ethernets:\n    eth1: {}\n")
		require.NoError(t, p.Finalize())
		assert.Equal(t, 1, p.Registry().Len())
	})

	t.Run("IndependentParsers", func(t *testing.T) {
		a := finalized(t, "network:\n  ethernets:\n    eth0: {}\n")
		b := NewParser()
		_, ok := b.Registry().Get("eth0")
		assert.False(t, ok)
		assert.True(t, a.Frozen())
		assert.False(t, b.Frozen())
	})
}

func TestParser_RouteMetric(t *testing.T) {
	routes := func(metric string) string {
		doc := `network:
  ethernets:
    eth0:
      routes:
        - to: 10.1.0.0/16
          via: 10.0.0.1
`
		if metric != "" {
			doc += "          metric: " + metric + "\n"
		}
		return doc
	}

	t.Run("Unspecified", func(t *testing.T) {
		p := finalized(t, routes(""))
		route := get(t, p, "eth0").Routes[0]
		assert.Equal(t, types.MetricUnspecified, route.Metric)
		assert.False(t, route.HasMetric())
	})

	t.Run("Explicit", func(t *testing.T) {
		p := finalized(t, routes("100"))
		route := get(t, p, "eth0").Routes[0]
		assert.Equal(t, int64(100), route.Metric)
		assert.True(t, route.HasMetric())
	})

	t.Run("Zero", func(t *testing.T) {
		p := finalized(t, routes("0"))
		assert.Equal(t, int64(0), get(t, p, "eth0").Routes[0].Metric)
	})

	for name, metric := range map[string]string{
		"Negative":   "-1",
		"TooLarge":   "4294967296",
		"WayTooHigh": "99999999999",
	} {
		metric := metric
		t.Run(name, func(t *testing.T) {
			p := NewParser()
			ingest(t, p, "a.yaml", routes(metric))
			err := p.Finalize()
			require.Error(t, err)
			assert.True(t, IsKind(err, ValidationError))
			assert.Contains(t, err.Error(), "invalid route metric")
		})
	}
}
