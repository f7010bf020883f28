package entities

// FirewallOpenPortEntry opens a local port (or port range "from:to") to inbound traffic
type FirewallOpenPortEntry struct {
	PortRange              string `json:"portRange" yaml:"portRange"`
	Protocol               string `json:"protocol" yaml:"protocol"`
	PermittedNetwork       string `json:"permittedNetwork,omitempty" yaml:"permittedNetwork,omitempty"`
	PermittedInterfaceName string `json:"permittedInterfaceName,omitempty" yaml:"permittedInterfaceName,omitempty"`
	UnpermittedInterface   string `json:"unpermittedInterfaceName,omitempty" yaml:"unpermittedInterfaceName,omitempty"`
	PermittedMAC           string `json:"permittedMAC,omitempty" yaml:"permittedMAC,omitempty"`
	SourcePortRange        string `json:"sourcePortRange,omitempty" yaml:"sourcePortRange,omitempty"`
}

// FirewallPortForwardEntry forwards an inbound port to an address behind another interface
type FirewallPortForwardEntry struct {
	InboundInterface  string `json:"inboundInterface" yaml:"inboundInterface"`
	OutboundInterface string `json:"outboundInterface" yaml:"outboundInterface"`
	Address           string `json:"address" yaml:"address"`
	Protocol          string `json:"protocol" yaml:"protocol"`
	InPort            int    `json:"inPort" yaml:"inPort"`
	OutPort           int    `json:"outPort" yaml:"outPort"`
	Masquerade        bool   `json:"masquerade" yaml:"masquerade"`
	PermittedNetwork  string `json:"permittedNetwork,omitempty" yaml:"permittedNetwork,omitempty"`
	PermittedMAC      string `json:"permittedMAC,omitempty" yaml:"permittedMAC,omitempty"`
	SourcePortRange   string `json:"sourcePortRange,omitempty" yaml:"sourcePortRange,omitempty"`
}

// FirewallNatEntry is a NAT rule between two interfaces
type FirewallNatEntry struct {
	InInterface        string `json:"inInterface" yaml:"inInterface"`
	OutInterface       string `json:"outInterface" yaml:"outInterface"`
	Protocol           string `json:"protocol" yaml:"protocol"`
	SourceNetwork      string `json:"sourceNetwork,omitempty" yaml:"sourceNetwork,omitempty"`
	DestinationNetwork string `json:"destinationNetwork,omitempty" yaml:"destinationNetwork,omitempty"`
	Masquerade         bool   `json:"masquerade" yaml:"masquerade"`
}
