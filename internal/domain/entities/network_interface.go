package entities

import (
	"errors"
	"regexp"

	"gateway-console/internal/domain/netconf"
)

// ConfigMode selects how an interface gets its IPv4 address
type ConfigMode string

const (
	ConfigModeDHCP   ConfigMode = "dhcp"
	ConfigModeStatic ConfigMode = "static"
)

// NetworkInterfaceConfig is the flat, console-facing configuration record of one interface
type NetworkInterfaceConfig struct {
	Name         string                  `json:"name"`
	HardwareType netconf.HardwareType    `json:"hwType"`
	HwAddress    string                  `json:"hwAddress,omitempty"`
	Status       netconf.InterfaceStatus `json:"status"`
	ConfigMode   ConfigMode              `json:"configMode"`
	MTU          int                     `json:"mtu,omitempty"`
	State        string                  `json:"state,omitempty"` // read only: up/down

	IPAddress   string `json:"ipAddress,omitempty"`
	SubnetMask  string `json:"subnetMask,omitempty"`
	Gateway     string `json:"gateway,omitempty"`
	DNSServers  string `json:"dnsServers,omitempty"`
	WINSServers string `json:"winsServers,omitempty"`

	RouterMode             netconf.RouterMode `json:"routerMode,omitempty"`
	RouterDHCPBeginAddr    string             `json:"routerDhcpBeginAddress,omitempty"`
	RouterDHCPEndAddr      string             `json:"routerDhcpEndAddress,omitempty"`
	RouterDHCPDefaultLease int                `json:"routerDhcpDefaultLease,omitempty"`
	RouterDHCPMaxLease     int                `json:"routerDhcpMaxLease,omitempty"`
	RouterDNSPass          bool               `json:"routerDnsPass,omitempty"`

	Wifi  *WifiSettings  `json:"wifi,omitempty"`
	Modem *ModemSettings `json:"modem,omitempty"`
}

var (
	ErrInvalidInterfaceName = errors.New("invalid interface name")
	ErrWifiConfigMismatch   = errors.New("wifi settings must be present exactly for wifi interfaces")
	ErrModemConfigMismatch  = errors.New("modem settings must be present exactly for modem interfaces")
	ErrInvalidConfigMode    = errors.New("config mode must be dhcp or static")
	ErrInvalidStatus        = errors.New("status must be disabled, lan or wan")
)

// Linux IFNAMSIZ is 16 including the terminator
var interfaceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.:-]{0,14}$`)

// Validate checks the structural invariants of the record. Address values are
// not parsed here; that happens during assembly.
func (c *NetworkInterfaceConfig) Validate() error {
	if !interfaceNamePattern.MatchString(c.Name) {
		return ErrInvalidInterfaceName
	}
	if c.ConfigMode != ConfigModeDHCP && c.ConfigMode != ConfigModeStatic {
		return ErrInvalidConfigMode
	}
	if (c.HardwareType == netconf.HardwareWifi) != (c.Wifi != nil) {
		return ErrWifiConfigMismatch
	}
	if (c.HardwareType == netconf.HardwareModem) != (c.Modem != nil) {
		return ErrModemConfigMismatch
	}
	switch c.Status {
	case netconf.StatusDisabled, netconf.StatusLAN, netconf.StatusWAN:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// IsDHCP reports whether the interface is a DHCP client
func (c *NetworkInterfaceConfig) IsDHCP() bool {
	return c.ConfigMode == ConfigModeDHCP
}

// AutoConnect reports whether the interface should be brought up
func (c *NetworkInterfaceConfig) AutoConnect() bool {
	return c.Status != netconf.StatusDisabled
}
