package netdef

import (
	"golang-netdef/internal/types"

	"gopkg.in/yaml.v3"
)

var (
	rootHandlers        map[string]handler
	networkHandlers     map[string]handler
	nameserverHandlers  map[string]handler
	routeHandlers       map[string]handler
	matchHandlers       map[string]handler
	accessPointHandlers map[string]handler
	bridgeParamHandlers map[string]handler
	bondParamHandlers   map[string]handler
	definitionHandlers  map[types.Kind]map[string]handler
)

func init() {
	rootHandlers = map[string]handler{
		"network": func(b *builder, node *yaml.Node) error {
			if isNull(node) {
				return nil
			}
			return b.mapping(node, networkHandlers)
		},
	}

	networkHandlers = map[string]handler{
		"version":  handleVersion,
		"renderer": handleGlobalRenderer,
		"ethernets": func(b *builder, node *yaml.Node) error {
			return b.section(types.KindEthernet, node)
		},
		"wifis": func(b *builder, node *yaml.Node) error {
			return b.section(types.KindWifi, node)
		},
		"bridges": func(b *builder, node *yaml.Node) error {
			return b.section(types.KindBridge, node)
		},
		"bonds": func(b *builder, node *yaml.Node) error {
			return b.section(types.KindBond, node)
		},
		"vlans": func(b *builder, node *yaml.Node) error {
			return b.section(types.KindVlan, node)
		},
	}

	common := map[string]handler{
		"renderer":    handleRenderer,
		"dhcp4":       handleDHCP4,
		"dhcp6":       handleDHCP6,
		"addresses":   handleAddresses,
		"gateway4":    handleGateway4,
		"gateway6":    handleGateway6,
		"nameservers": handleNameservers,
		"routes":      handleRoutes,
		"macaddress":  handleMACAddress,
		"mtu":         handleMTU,
	}
	physical := extend(common, map[string]handler{
		"match":     handleMatch,
		"set-name":  handleSetName,
		"wakeonlan": handleWakeOnLAN,
	})

	definitionHandlers = map[types.Kind]map[string]handler{
		types.KindEthernet: physical,
		types.KindWifi: extend(physical, map[string]handler{
			"access-points": handleAccessPoints,
		}),
		types.KindBridge: extend(common, map[string]handler{
			"interfaces": handleMembers(RefBridgeMember),
			"parameters": handleBridgeParameters,
		}),
		types.KindBond: extend(common, map[string]handler{
			"interfaces": handleMembers(RefBondMember),
			"parameters": handleBondParameters,
		}),
		types.KindVlan: extend(common, map[string]handler{
			"id":   handleVlanID,
			"link": handleVlanLink,
		}),
	}

	nameserverHandlers = map[string]handler{
		"addresses": handleNameserverAddresses,
		"search":    handleSearchDomains,
	}

	routeHandlers = map[string]handler{
		"to":     handleRouteTo,
		"via":    handleRouteVia,
		"metric": handleRouteMetric,
	}

	matchHandlers = map[string]handler{
		"name": func(b *builder, node *yaml.Node) error {
			v, err := b.scalar(node)
			b.def.Physical.Match.Name = v
			return err
		},
		"macaddress": func(b *builder, node *yaml.Node) error {
			v, err := b.mac(node)
			b.def.Physical.Match.MACAddress = v
			return err
		},
		"driver": func(b *builder, node *yaml.Node) error {
			v, err := b.scalar(node)
			b.def.Physical.Match.Driver = v
			return err
		},
	}

	accessPointHandlers = map[string]handler{
		"mode": func(b *builder, node *yaml.Node) error {
			v, err := b.scalar(node)
			if err != nil {
				return err
			}
			mode, err := types.ParseWifiMode(v)
			if err != nil {
				return b.errorf(node, "%s", err)
			}
			b.accessPoint.Mode = mode
			return nil
		},
		"password": func(b *builder, node *yaml.Node) error {
			v, err := b.scalar(node)
			b.accessPoint.Password = v
			return err
		},
	}

	bridgeParamHandlers = map[string]handler{
		"ageing-time":   bridgeUint(func(p *types.BridgeParameters) **uint { return &p.AgeingTime }),
		"forward-delay": bridgeUint(func(p *types.BridgeParameters) **uint { return &p.ForwardDelay }),
		"hello-time":    bridgeUint(func(p *types.BridgeParameters) **uint { return &p.HelloTime }),
		"max-age":       bridgeUint(func(p *types.BridgeParameters) **uint { return &p.MaxAge }),
		"path-cost":     bridgeUint(func(p *types.BridgeParameters) **uint { return &p.PathCost }),
		"priority":      handleBridgePriority,
		"stp": func(b *builder, node *yaml.Node) error {
			v, err := b.boolean(node)
			if err != nil {
				return err
			}
			b.def.Bridge.Parameters.STP = &v
			return nil
		},
	}

	bondParamHandlers = map[string]handler{
		"mode": bondEnum("bond mode", func(p *types.BondParameters) *string { return &p.Mode },
			"balance-rr", "active-backup", "balance-xor", "broadcast", "802.3ad", "balance-tlb", "balance-alb"),
		"lacp-rate": bondEnum("lacp rate", func(p *types.BondParameters) *string { return &p.LACPRate },
			"slow", "fast"),
		"transmit-hash-policy": bondEnum("transmit hash policy", func(p *types.BondParameters) *string { return &p.TransmitHashPolicy },
			"layer2", "layer3+4", "layer2+3", "encap2+3", "encap3+4"),
		"ad-select": bondEnum("ad select", func(p *types.BondParameters) *string { return &p.SelectionLogic },
			"stable", "bandwidth", "count"),
		"arp-validate": bondEnum("arp validate", func(p *types.BondParameters) *string { return &p.ARPValidate },
			"none", "active", "backup", "all"),
		"arp-all-targets": bondEnum("arp all targets", func(p *types.BondParameters) *string { return &p.ARPAllTargets },
			"any", "all"),
		"fail-over-mac-policy": bondEnum("fail over mac policy", func(p *types.BondParameters) *string { return &p.FailOverMACPolicy },
			"none", "active", "follow"),
		"primary-reselect-policy": bondEnum("primary reselect policy", func(p *types.BondParameters) *string { return &p.PrimaryReselectPolicy },
			"always", "better", "failure"),
		"mii-monitor-interval":  bondUint(func(p *types.BondParameters) **uint { return &p.MonitorInterval }),
		"min-links":             bondUint(func(p *types.BondParameters) **uint { return &p.MinLinks }),
		"arp-interval":          bondUint(func(p *types.BondParameters) **uint { return &p.ARPInterval }),
		"up-delay":              bondUint(func(p *types.BondParameters) **uint { return &p.UpDelay }),
		"down-delay":            bondUint(func(p *types.BondParameters) **uint { return &p.DownDelay }),
		"gratuitious-arp":       bondUint(func(p *types.BondParameters) **uint { return &p.GratuitousARP }),
		"gratuitous-arp":        bondUint(func(p *types.BondParameters) **uint { return &p.GratuitousARP }),
		"packets-per-slave":     bondUint(func(p *types.BondParameters) **uint { return &p.PacketsPerSlave }),
		"resend-igmp":           bondUint(func(p *types.BondParameters) **uint { return &p.ResendIGMP }),
		"learn-packet-interval": bondUint(func(p *types.BondParameters) **uint { return &p.LearnInterval }),
		"all-slaves-active": func(b *builder, node *yaml.Node) error {
			v, err := b.boolean(node)
			if err != nil {
				return err
			}
			b.def.Bond.Parameters.AllSlavesActive = &v
			return nil
		},
		"arp-ip-targets": func(b *builder, node *yaml.Node) error {
			return b.sequence(node, func(item *yaml.Node) error {
				v, err := b.ip(item, 4)
				if err != nil {
					return err
				}
				b.def.Bond.Parameters.ARPIPTargets = append(b.def.Bond.Parameters.ARPIPTargets, v)
				return nil
			})
		},
		"primary": func(b *builder, node *yaml.Node) error {
			v, err := b.scalar(node)
			b.def.Bond.Parameters.PrimarySlave = v
			return err
		},
	}
}

func extend(base, extra map[string]handler) map[string]handler {
	out := make(map[string]handler, len(base)+len(extra))
	for k, h := range base {
		out[k] = h
	}
	for k, h := range extra {
		out[k] = h
	}
	return out
}

func handleVersion(b *builder, node *yaml.Node) error {
	v, err := b.integer(node)
	if err != nil {
		return err
	}
	if v != 2 {
		return b.errorf(node, "only version 2 is supported")
	}
	return nil
}

func handleGlobalRenderer(b *builder, node *yaml.Node) error {
	backend, err := b.backend(node)
	if err != nil {
		return err
	}
	b.reg.globalBackend = &backend
	return nil
}

func handleRenderer(b *builder, node *yaml.Node) error {
	backend, err := b.backend(node)
	if err != nil {
		return err
	}
	b.def.Backend = &backend
	return nil
}

func (b *builder) backend(node *yaml.Node) (types.Backend, error) {
	v, err := b.scalar(node)
	if err != nil {
		return "", err
	}
	backend, err := types.ParseBackend(v)
	if err != nil {
		return "", b.errorf(node, "%s", err)
	}
	return backend, nil
}

func handleDHCP4(b *builder, node *yaml.Node) error {
	v, err := b.boolean(node)
	b.def.DHCP4 = v
	return err
}

func handleDHCP6(b *builder, node *yaml.Node) error {
	v, err := b.boolean(node)
	b.def.DHCP6 = v
	return err
}

func handleAddresses(b *builder, node *yaml.Node) error {
	return b.sequence(node, func(item *yaml.Node) error {
		v, err := b.cidr(item)
		if err != nil {
			return err
		}
		b.def.Addresses = append(b.def.Addresses, v)
		return nil
	})
}

func handleGateway4(b *builder, node *yaml.Node) error {
	v, err := b.ip(node, 4)
	if err != nil {
		return err
	}
	b.def.Gateway4 = v
	return nil
}

func handleGateway6(b *builder, node *yaml.Node) error {
	v, err := b.ip(node, 6)
	if err != nil {
		return err
	}
	b.def.Gateway6 = v
	return nil
}

func handleNameservers(b *builder, node *yaml.Node) error {
	return b.mapping(node, nameserverHandlers)
}

func handleNameserverAddresses(b *builder, node *yaml.Node) error {
	return b.sequence(node, func(item *yaml.Node) error {
		v, err := b.ip(item, 0)
		if err != nil {
			return err
		}
		b.def.Nameservers = append(b.def.Nameservers, v)
		return nil
	})
}

func handleSearchDomains(b *builder, node *yaml.Node) error {
	return b.sequence(node, func(item *yaml.Node) error {
		b.def.SearchDomains = append(b.def.SearchDomains, item.Value)
		return nil
	})
}

func handleRoutes(b *builder, node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return b.errorf(node, "expected sequence")
	}
	for _, item := range node.Content {
		route := types.Route{Metric: types.MetricUnspecified}
		b.route = &route
		err := b.mapping(item, routeHandlers)
		b.route = nil
		if err != nil {
			return err
		}
		if route.To == "" || route.Via == "" {
			return b.errorf(item, "route must include both a 'to' and 'via' IP")
		}
		if types.AddressFamily(route.Via) != route.Family {
			return b.errorf(item, "route 'via' %s does not match the family of 'to' %s", route.Via, route.To)
		}
		b.def.Routes = append(b.def.Routes, route)
	}
	return nil
}

func handleRouteTo(b *builder, node *yaml.Node) error {
	v, err := b.scalar(node)
	if err != nil {
		return err
	}
	if _, err := b.cidr(node); err != nil {
		return err
	}
	b.route.To = v
	b.route.Family = types.AddressFamily(v)
	return nil
}

func handleRouteVia(b *builder, node *yaml.Node) error {
	v, err := b.ip(node, 0)
	if err != nil {
		return err
	}
	b.route.Via = v
	return nil
}

func handleRouteMetric(b *builder, node *yaml.Node) error {
	v, err := b.integer(node)
	if err != nil {
		return err
	}
	b.route.Metric = v
	return nil
}

func handleMACAddress(b *builder, node *yaml.Node) error {
	v, err := b.mac(node)
	if err != nil {
		return err
	}
	b.def.MACAddress = v
	return nil
}

func handleMTU(b *builder, node *yaml.Node) error {
	v, err := b.integer(node)
	if err != nil {
		return err
	}
	if v <= 0 || v > 1<<31-1 {
		return b.errorf(node, "invalid mtu %d, must be a positive integer", v)
	}
	b.def.MTU = int(v)
	return nil
}

func handleMatch(b *builder, node *yaml.Node) error {
	if b.def.Physical.Match == nil {
		b.def.Physical.Match = &types.MatchSelector{}
	}
	return b.mapping(node, matchHandlers)
}

func handleSetName(b *builder, node *yaml.Node) error {
	v, err := b.scalar(node)
	if err != nil {
		return err
	}
	b.def.Physical.SetName = v
	return nil
}

func handleWakeOnLAN(b *builder, node *yaml.Node) error {
	v, err := b.boolean(node)
	b.def.Physical.WakeOnLAN = v
	return err
}

// handleAccessPoints merges access points by SSID. A later entry for the
// same SSID replaces the earlier one.
func handleAccessPoints(b *builder, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return b.errorf(node, "expected mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		ssid, err := b.scalar(key)
		if err != nil {
			return err
		}
		ap := &types.AccessPoint{SSID: ssid, Mode: types.WifiModeInfrastructure}
		if !isNull(value) {
			b.accessPoint = ap
			err = b.mapping(value, accessPointHandlers)
			b.accessPoint = nil
			if err != nil {
				return err
			}
		}
		b.def.Wifi.AccessPoints[ssid] = ap
	}
	return nil
}

func handleMembers(kind RefKind) handler {
	return func(b *builder, node *yaml.Node) error {
		return b.sequence(node, func(item *yaml.Node) error {
			b.reference(kind, item)
			return nil
		})
	}
}

func handleBridgeParameters(b *builder, node *yaml.Node) error {
	b.def.Bridge.CustomBridging = true
	return b.mapping(node, bridgeParamHandlers)
}

func bridgeUint(field func(*types.BridgeParameters) **uint) handler {
	return func(b *builder, node *yaml.Node) error {
		v, err := b.unsigned(node)
		if err != nil {
			return err
		}
		*field(&b.def.Bridge.Parameters) = &v
		return nil
	}
}

func handleBridgePriority(b *builder, node *yaml.Node) error {
	v, err := b.unsigned(node)
	if err != nil {
		return err
	}
	if v > 65535 {
		return b.errorf(node, "invalid bridge priority %d, must be in 0..65535", v)
	}
	b.def.Bridge.Parameters.Priority = &v
	return nil
}

func handleBondParameters(b *builder, node *yaml.Node) error {
	return b.mapping(node, bondParamHandlers)
}

func bondEnum(what string, field func(*types.BondParameters) *string, allowed ...string) handler {
	return func(b *builder, node *yaml.Node) error {
		v, err := b.oneOf(node, what, allowed...)
		if err != nil {
			return err
		}
		*field(&b.def.Bond.Parameters) = v
		return nil
	}
}

func bondUint(field func(*types.BondParameters) **uint) handler {
	return func(b *builder, node *yaml.Node) error {
		v, err := b.unsigned(node)
		if err != nil {
			return err
		}
		*field(&b.def.Bond.Parameters) = &v
		return nil
	}
}

func handleVlanID(b *builder, node *yaml.Node) error {
	v, err := b.unsigned(node)
	if err != nil {
		return err
	}
	if v > 4094 {
		return b.errorf(node, "invalid id %d for VLAN, must be in 0..4094", v)
	}
	b.def.Vlan.ID = &v
	return nil
}

func handleVlanLink(b *builder, node *yaml.Node) error {
	v, err := b.scalar(node)
	if err != nil {
		return err
	}
	b.def.Vlan.Link = v
	b.reference(RefVlanLink, node)
	return nil
}
