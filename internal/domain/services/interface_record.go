package services

import (
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"
)

// ToInterfaceConfig flattens an applied interface state into the record the
// console displays
func ToInterfaceConfig(state netconf.InterfaceState) entities.NetworkInterfaceConfig {
	rec := entities.NetworkInterfaceConfig{
		Name:         state.Name,
		HardwareType: state.HardwareType,
		HwAddress:    state.HwAddress,
		Status:       netconf.StatusDisabled,
		ConfigMode:   entities.ConfigModeDHCP,
		MTU:          state.MTU,
		RouterMode:   netconf.RouterModeOff,
		State:        "down",
	}
	if state.Up {
		rec.State = "up"
	}

	if ip := state.IPv4; ip != nil {
		if ip.Status != "" {
			rec.Status = ip.Status
		}
		if !ip.DHCP {
			rec.ConfigMode = entities.ConfigModeStatic
		}
		rec.IPAddress = formatAddr(ip.Address)
		rec.SubnetMask = formatAddr(ip.Netmask)
		rec.Gateway = formatAddr(ip.Gateway)
		rec.DNSServers = FormatAddressList(ip.DNSServers)
		rec.WINSServers = FormatAddressList(ip.WINSServers)
	}

	dhcp := state.DHCPServer != nil && state.DHCPServer.Enabled
	nat := state.NAT != nil && state.NAT.Masquerade
	rec.RouterMode = ResolveRouterMode(dhcp, nat)
	if dhcp {
		rec.RouterDHCPBeginAddr = formatAddr(state.DHCPServer.RangeStart)
		rec.RouterDHCPEndAddr = formatAddr(state.DHCPServer.RangeEnd)
		rec.RouterDHCPDefaultLease = state.DHCPServer.DefaultLeaseTime
		rec.RouterDHCPMaxLease = state.DHCPServer.MaxLeaseTime
		rec.RouterDNSPass = state.DHCPServer.PassDNS
	}

	switch state.HardwareType {
	case netconf.HardwareWifi:
		if state.Wifi != nil {
			rec.Wifi = UnmapWifi(state.Wifi)
		} else {
			rec.Wifi = &entities.WifiSettings{WirelessMode: entities.WirelessModeStation}
		}
	case netconf.HardwareModem:
		if state.Modem != nil {
			rec.Modem = UnmapModem(state.Modem)
		} else {
			rec.Modem = &entities.ModemSettings{}
		}
	}

	return rec
}
