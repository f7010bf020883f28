package interfaces

import (
	"context"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"
)

// NetworkAdminService applies typed interface configurations to the host
type NetworkAdminService interface {
	// GetNetworkInterfaceConfigs returns the applied state of every known interface
	GetNetworkInterfaceConfigs(ctx context.Context) ([]netconf.InterfaceState, error)

	// UpdateEthernetInterfaceConfig applies an ethernet interface configuration
	UpdateEthernetInterfaceConfig(ctx context.Context, name string, autoConnect bool, mtu int, configs []netconf.Config) error

	// UpdateWifiInterfaceConfig applies a Wi-Fi interface configuration
	UpdateWifiInterfaceConfig(ctx context.Context, name string, autoConnect bool, configs []netconf.Config) error

	// UpdateModemInterfaceConfig applies a modem interface configuration
	UpdateModemInterfaceConfig(ctx context.Context, name string, modemID string, pppNumber int, configs []netconf.Config) error
}

// NATApplier programs masquerading rules for NAT configs
type NATApplier interface {
	// ApplyNAT replaces the rules owned by iface with the given configs
	ApplyNAT(ctx context.Context, iface string, rules []netconf.NATConfig) error
}

// DHCPServerWriter renders the DHCP server of an interface
type DHCPServerWriter interface {
	// WriteDHCPServer replaces the DHCP server of iface; nil disables it
	WriteDHCPServer(ctx context.Context, iface string, cfg *netconf.DHCPServerConfig) error
}

// LinkInspector lists the kernel's network links
type LinkInspector interface {
	// ListLinks returns every link with its IPv4 addresses
	ListLinks(ctx context.Context) ([]entities.LinkInfo, error)
}
