package types

import (
	"math"
	"net"

	"github.com/google/uuid"
)

// MetricUnspecified marks a route without an explicit metric.
const MetricUnspecified int64 = math.MaxUint32

// Route is a static route of an interface.
type Route struct {
	Family int    // 4 or 6
	To     string // destination in CIDR notation
	Via    string // next hop address
	Metric int64  // MetricUnspecified when not configured
}

// HasMetric reports whether the route carries an explicit metric.
func (r Route) HasMetric() bool {
	return r.Metric != MetricUnspecified
}

// MatchSelector selects the physical device a definition applies to.
type MatchSelector struct {
	Name       string // current interface name, may contain shell globs
	MACAddress string
	Driver     string // kernel driver name, may contain shell globs
}

// PhysicalSettings holds settings only valid for ethernet and wifi devices.
// SetName and Match are mutually exclusive.
type PhysicalSettings struct {
	SetName   string
	Match     *MatchSelector
	WakeOnLAN bool
}

// AccessPoint describes one wifi network a wifi device may join.
type AccessPoint struct {
	SSID     string
	Mode     WifiMode
	Password string
}

// WifiSettings holds settings only valid for wifi devices.
type WifiSettings struct {
	AccessPoints map[string]*AccessPoint // keyed by SSID
}

// BridgeParameters are the optional bridge tunables. Nil fields are unset.
type BridgeParameters struct {
	AgeingTime   *uint
	Priority     *uint
	ForwardDelay *uint
	HelloTime    *uint
	MaxAge       *uint
	PathCost     *uint
	STP          *bool
}

// BridgeSettings holds settings only valid for bridges.
type BridgeSettings struct {
	CustomBridging bool // true once any parameter was configured
	Parameters     BridgeParameters
}

// BondParameters are the optional bonding tunables. Empty strings and nil
// pointers are unset.
type BondParameters struct {
	Mode                  string
	LACPRate              string
	MonitorInterval       *uint
	MinLinks              *uint
	TransmitHashPolicy    string
	SelectionLogic        string
	AllSlavesActive       *bool
	ARPInterval           *uint
	ARPIPTargets          []string
	ARPValidate           string
	ARPAllTargets         string
	UpDelay               *uint
	DownDelay             *uint
	FailOverMACPolicy     string
	GratuitousARP         *uint
	PacketsPerSlave       *uint
	PrimaryReselectPolicy string
	ResendIGMP            *uint
	LearnInterval         *uint
	PrimarySlave          string
}

// BondSettings holds settings only valid for bonds.
type BondSettings struct {
	Parameters BondParameters
}

// VlanSettings holds settings only valid for vlans.
type VlanSettings struct {
	ID   *uint
	Link string // id of the parent definition
}

// Definition is the complete configuration of one network interface.
//
// Exactly the settings block that matches Kind is non-nil: Physical for
// ethernet and wifi, Wifi for wifi, Bridge for bridges, Bond for bonds and
// Vlan for vlans. NewDefinition is the only supported constructor.
type Definition struct {
	ID           string
	Kind         Kind
	Backend      *Backend // explicit override, nil inherits the global default
	ConnectionID uuid.UUID

	DHCP4         bool
	DHCP6         bool
	Addresses     []string // CIDR, both families, in configuration order
	Gateway4      string
	Gateway6      string
	Nameservers   []string // both families, in configuration order
	SearchDomains []string
	Routes        []Route
	MACAddress    string
	MTU           int // 0 when unset

	// Membership, only set on members.
	MemberOfBridge string
	MemberOfBond   string

	HasVlans bool

	Physical *PhysicalSettings
	Wifi     *WifiSettings
	Bridge   *BridgeSettings
	Bond     *BondSettings
	Vlan     *VlanSettings

	// EffectiveBackend is computed when the registry is finalized.
	EffectiveBackend Backend
}

// NewDefinition creates an empty definition of the given kind with a fresh
// connection id.
func NewDefinition(id string, kind Kind) *Definition {
	def := &Definition{
		ID:           id,
		Kind:         kind,
		ConnectionID: uuid.New(),
	}
	if kind.IsPhysical() {
		def.Physical = &PhysicalSettings{}
	}
	switch kind {
	case KindWifi:
		def.Wifi = &WifiSettings{AccessPoints: make(map[string]*AccessPoint)}
	case KindBridge:
		def.Bridge = &BridgeSettings{}
	case KindBond:
		def.Bond = &BondSettings{}
	case KindVlan:
		def.Vlan = &VlanSettings{}
	}
	return def
}

// IPv4Addresses returns the configured IPv4 addresses in order.
func (d *Definition) IPv4Addresses() []string {
	return filterFamily(d.Addresses, 4)
}

// IPv6Addresses returns the configured IPv6 addresses in order.
func (d *Definition) IPv6Addresses() []string {
	return filterFamily(d.Addresses, 6)
}

// IPv4Nameservers returns the configured IPv4 nameservers in order.
func (d *Definition) IPv4Nameservers() []string {
	return filterFamily(d.Nameservers, 4)
}

// IPv6Nameservers returns the configured IPv6 nameservers in order.
func (d *Definition) IPv6Nameservers() []string {
	return filterFamily(d.Nameservers, 6)
}

// AddressFamily returns 4 or 6 for an IP address or CIDR, 0 if it is neither.
func AddressFamily(s string) int {
	ip := net.ParseIP(s)
	if ip == nil {
		parsed, _, err := net.ParseCIDR(s)
		if err != nil {
			return 0
		}
		ip = parsed
	}
	if ip.To4() != nil {
		return 4
	}
	return 6
}

func filterFamily(addrs []string, family int) []string {
	var out []string
	for _, a := range addrs {
		if AddressFamily(a) == family {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy of the definition. The connection id is kept.
func (d *Definition) Clone() *Definition {
	c := *d
	if d.Backend != nil {
		b := *d.Backend
		c.Backend = &b
	}
	c.Addresses = cloneStrings(d.Addresses)
	c.Nameservers = cloneStrings(d.Nameservers)
	c.SearchDomains = cloneStrings(d.SearchDomains)
	if d.Routes != nil {
		c.Routes = append([]Route(nil), d.Routes...)
	}
	if d.Physical != nil {
		p := *d.Physical
		if d.Physical.Match != nil {
			m := *d.Physical.Match
			p.Match = &m
		}
		c.Physical = &p
	}
	if d.Wifi != nil {
		aps := make(map[string]*AccessPoint, len(d.Wifi.AccessPoints))
		for ssid, ap := range d.Wifi.AccessPoints {
			copied := *ap
			aps[ssid] = &copied
		}
		c.Wifi = &WifiSettings{AccessPoints: aps}
	}
	if d.Bridge != nil {
		c.Bridge = &BridgeSettings{
			CustomBridging: d.Bridge.CustomBridging,
			Parameters: BridgeParameters{
				AgeingTime:   cloneUint(d.Bridge.Parameters.AgeingTime),
				Priority:     cloneUint(d.Bridge.Parameters.Priority),
				ForwardDelay: cloneUint(d.Bridge.Parameters.ForwardDelay),
				HelloTime:    cloneUint(d.Bridge.Parameters.HelloTime),
				MaxAge:       cloneUint(d.Bridge.Parameters.MaxAge),
				PathCost:     cloneUint(d.Bridge.Parameters.PathCost),
				STP:          cloneBool(d.Bridge.Parameters.STP),
			},
		}
	}
	if d.Bond != nil {
		p := d.Bond.Parameters
		p.MonitorInterval = cloneUint(p.MonitorInterval)
		p.MinLinks = cloneUint(p.MinLinks)
		p.AllSlavesActive = cloneBool(p.AllSlavesActive)
		p.ARPInterval = cloneUint(p.ARPInterval)
		p.ARPIPTargets = cloneStrings(p.ARPIPTargets)
		p.UpDelay = cloneUint(p.UpDelay)
		p.DownDelay = cloneUint(p.DownDelay)
		p.GratuitousARP = cloneUint(p.GratuitousARP)
		p.PacketsPerSlave = cloneUint(p.PacketsPerSlave)
		p.ResendIGMP = cloneUint(p.ResendIGMP)
		p.LearnInterval = cloneUint(p.LearnInterval)
		c.Bond = &BondSettings{Parameters: p}
	}
	if d.Vlan != nil {
		c.Vlan = &VlanSettings{ID: cloneUint(d.Vlan.ID), Link: d.Vlan.Link}
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
