// Package network provides network link inventory adapter implementation.
package network

import (
	"fmt"

	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/port"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
)

// ManagerAdapter is an adapter that implements the LinkManager port using the
// vishvananda/netlink and safchain/ethtool libraries. It only reads link state.
type ManagerAdapter struct{}

// Ensure ManagerAdapter implements the LinkManager port
var _ port.LinkManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new network manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

// ListLinks returns every link known to the kernel. Driver names are filled
// in when ethtool is available; links without a driver (loopback, most
// virtual devices) keep an empty driver.
func (n *ManagerAdapter) ListLinks() ([]port.Link, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list netlink interfaces: %w", err)
	}

	logger := logging.WithComponent("network")
	eth, err := ethtool.NewEthtool()
	if err != nil {
		logger.WithError(err).Warn("ethtool not available, driver names will be empty")
	} else {
		defer eth.Close()
	}

	out := make([]port.Link, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		l := port.Link{
			Name: attrs.Name,
			Type: link.Type(),
		}
		if attrs.HardwareAddr != nil {
			l.MACAddress = attrs.HardwareAddr.String()
		}
		if eth != nil {
			if driver, err := eth.DriverName(attrs.Name); err == nil {
				l.Driver = driver
			} else {
				logger.WithField("interface", attrs.Name).WithError(err).Debug("No driver name")
			}
		}
		out = append(out, l)
	}
	return out, nil
}
