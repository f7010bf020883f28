package services

import (
	"fmt"
	"net/netip"
	"strings"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/netconf"
)

// DHCPServerFields are the DHCP server values of a flat interface record
type DHCPServerFields struct {
	RangeStart       string
	RangeEnd         string
	DefaultLeaseTime int
	MaxLeaseTime     int
	PassDNS          bool
}

// ResolveRouterMode combines the DHCP server and NAT flags into a router mode
func ResolveRouterMode(dhcpServerEnabled, natEnabled bool) netconf.RouterMode {
	switch {
	case dhcpServerEnabled && natEnabled:
		return netconf.RouterModeDHCPNAT
	case dhcpServerEnabled:
		return netconf.RouterModeDHCP
	case natEnabled:
		return netconf.RouterModeNAT
	default:
		return netconf.RouterModeOff
	}
}

// RouterModeFlags splits a router mode into its DHCP server and NAT flags
func RouterModeFlags(mode netconf.RouterMode) (dhcpServerEnabled, natEnabled bool, err error) {
	switch mode {
	case netconf.RouterModeOff, "":
		return false, false, nil
	case netconf.RouterModeDHCP:
		return true, false, nil
	case netconf.RouterModeNAT:
		return false, true, nil
	case netconf.RouterModeDHCPNAT:
		return true, true, nil
	default:
		return false, false, errors.NewConfigurationError(fmt.Sprintf("unsupported router mode %q", mode), nil)
	}
}

// BuildRouterConfigs returns the DHCP server and NAT configs implied by mode
// for interface iface with the given static address and mask. The DHCP
// server config, when present, comes first.
func BuildRouterConfigs(mode netconf.RouterMode, iface, address, mask string, fields DHCPServerFields) ([]netconf.Config, error) {
	dhcpEnabled, natEnabled, err := RouterModeFlags(mode)
	if err != nil {
		return nil, err
	}

	var configs []netconf.Config

	if dhcpEnabled {
		dhcpConfig, err := buildDHCPServerConfig(iface, address, mask, fields)
		if err != nil {
			return nil, err
		}
		configs = append(configs, dhcpConfig)
	}

	if natEnabled {
		configs = append(configs, &netconf.NATConfig{
			SourceInterface:      iface,
			DestinationInterface: netconf.UnknownInterface,
			Masquerade:           true,
		})
	}

	return configs, nil
}

func buildDHCPServerConfig(iface, address, mask string, fields DHCPServerFields) (*netconf.DHCPServerConfig, error) {
	if strings.TrimSpace(address) == "" || strings.TrimSpace(mask) == "" {
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("DHCP server on %s requires a static address and subnet mask", iface), nil)
	}

	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	netmask, err := ParseNetmask(mask)
	if err != nil {
		return nil, err
	}

	cfg := &netconf.DHCPServerConfig{
		InterfaceName:    iface,
		Enabled:          true,
		Subnet:           SubnetOf(addr, netmask),
		RouterAddress:    addr,
		DefaultLeaseTime: fields.DefaultLeaseTime,
		MaxLeaseTime:     fields.MaxLeaseTime,
		PassDNS:          fields.PassDNS,
		DNSServers:       []netip.Addr{addr},
	}

	if strings.TrimSpace(fields.RangeStart) != "" {
		if cfg.RangeStart, err = ParseAddress(fields.RangeStart); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(fields.RangeEnd) != "" {
		if cfg.RangeEnd, err = ParseAddress(fields.RangeEnd); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// SubnetOf returns the network (address AND mask) as a prefix. mask must be contiguous.
func SubnetOf(addr, mask netip.Addr) netip.Prefix {
	a := addr.As4()
	m := mask.As4()
	var network [4]byte
	for i := range network {
		network[i] = a[i] & m[i]
	}
	bits, _ := netconf.MaskBits(mask)
	return netip.PrefixFrom(netip.AddrFrom4(network), bits)
}
