// Package types defines common types used across the application.
package types

import "fmt"

// Kind is the category of a network interface definition. It decides which
// settings are legal for the definition.
type Kind int

const (
	KindEthernet Kind = iota + 1
	KindWifi
	// Kinds from KindBridge on are virtual devices.
	KindBridge
	KindBond
	KindVlan
)

var kindNames = map[Kind]string{
	KindEthernet: "ethernet",
	KindWifi:     "wifi",
	KindBridge:   "bridge",
	KindBond:     "bond",
	KindVlan:     "vlan",
}

// String returns the lower case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsVirtual reports whether the kind describes a virtual device.
func (k Kind) IsVirtual() bool {
	return k >= KindBridge
}

// IsPhysical reports whether the kind describes a physical device.
func (k Kind) IsPhysical() bool {
	return k == KindEthernet || k == KindWifi
}

// Backend is the subsystem that applies an interface configuration.
type Backend string

const (
	BackendNetworkd       Backend = "networkd"
	BackendNetworkManager Backend = "NetworkManager"
)

func (b Backend) String() string {
	return string(b)
}

// ParseBackend converts a renderer name to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendNetworkd, BackendNetworkManager:
		return Backend(s), nil
	}
	return "", fmt.Errorf("unknown renderer '%s'", s)
}

// WifiMode is the operating mode of a wifi access point.
type WifiMode int

const (
	WifiModeInfrastructure WifiMode = iota
	WifiModeAdhoc
	WifiModeAP
)

// String returns the configuration spelling of the mode.
func (m WifiMode) String() string {
	switch m {
	case WifiModeAdhoc:
		return "adhoc"
	case WifiModeAP:
		return "ap"
	default:
		return "infrastructure"
	}
}

// ParseWifiMode converts a configuration value to a WifiMode.
func ParseWifiMode(s string) (WifiMode, error) {
	switch s {
	case "infrastructure":
		return WifiModeInfrastructure, nil
	case "adhoc":
		return WifiModeAdhoc, nil
	case "ap":
		return WifiModeAP, nil
	}
	return 0, fmt.Errorf("unknown wifi mode '%s'", s)
}
