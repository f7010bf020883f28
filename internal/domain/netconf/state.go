package netconf

// InterfaceState is the applied configuration of one interface as reported by
// the network admin service. It is the storable form of a []Config.
type InterfaceState struct {
	Name         string            `yaml:"name"`
	HardwareType HardwareType      `yaml:"hardwareType"`
	HwAddress    string            `yaml:"hwAddress,omitempty"`
	AutoConnect  bool              `yaml:"autoConnect"`
	MTU          int               `yaml:"mtu,omitempty"`
	Up           bool              `yaml:"-"`
	IPv4         *IPv4Config       `yaml:"ipv4,omitempty"`
	Wifi         *WifiConfig       `yaml:"wifi,omitempty"`
	Modem        *ModemConfig      `yaml:"modem,omitempty"`
	DHCPServer   *DHCPServerConfig `yaml:"dhcpServer,omitempty"`
	NAT          *NATConfig        `yaml:"nat,omitempty"`
}

// NewInterfaceState folds an ordered config list into an InterfaceState.
// A later config of the same kind replaces an earlier one.
func NewInterfaceState(name string, hw HardwareType, autoConnect bool, mtu int, configs []Config) InterfaceState {
	state := InterfaceState{
		Name:         name,
		HardwareType: hw,
		AutoConnect:  autoConnect,
		MTU:          mtu,
	}
	for _, c := range configs {
		switch v := c.(type) {
		case *IPv4Config:
			state.IPv4 = v
		case *WifiConfig:
			state.Wifi = v
		case *ModemConfig:
			state.Modem = v
		case *DHCPServerConfig:
			state.DHCPServer = v
		case *NATConfig:
			state.NAT = v
		}
	}
	return state
}

// Configs returns the state as an ordered config list
func (s InterfaceState) Configs() []Config {
	var configs []Config
	if s.IPv4 != nil {
		configs = append(configs, s.IPv4)
	}
	if s.DHCPServer != nil {
		configs = append(configs, s.DHCPServer)
	}
	if s.NAT != nil {
		configs = append(configs, s.NAT)
	}
	if s.Wifi != nil {
		configs = append(configs, s.Wifi)
	}
	if s.Modem != nil {
		configs = append(configs, s.Modem)
	}
	return configs
}
