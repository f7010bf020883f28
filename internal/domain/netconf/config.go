// Package netconf holds the typed network configuration objects handed to
// the network administration service. An interface is described by an
// ordered list of Config values built fresh for every update.
package netconf

import "net/netip"

// HardwareType is the kind of network hardware behind an interface
type HardwareType string

const (
	HardwareEthernet HardwareType = "ethernet"
	HardwareWifi     HardwareType = "wifi"
	HardwareModem    HardwareType = "modem"
	HardwareOther    HardwareType = "other"
)

// UnknownInterface is the NAT destination placeholder resolved by the network admin service
const UnknownInterface = "unknown"

// Kind names a Config variant
type Kind string

const (
	KindIPv4       Kind = "ipv4"
	KindWifi       Kind = "wifi"
	KindModem      Kind = "modem"
	KindDHCPServer Kind = "dhcp-server"
	KindNAT        Kind = "nat"
)

// Config is one typed configuration object of an interface
type Config interface {
	Kind() Kind
}

// IPv4Config is the IPv4 addressing of an interface
type IPv4Config struct {
	Status      InterfaceStatus `yaml:"status"`
	AutoConnect bool            `yaml:"autoConnect"`
	DHCP        bool            `yaml:"dhcp"`
	Address     netip.Addr      `yaml:"address"`
	Netmask     netip.Addr      `yaml:"netmask"`
	Gateway     netip.Addr      `yaml:"gateway"`
	DNSServers  []netip.Addr    `yaml:"dnsServers,omitempty"`
	WINSServers []netip.Addr    `yaml:"winsServers,omitempty"`
}

func (*IPv4Config) Kind() Kind { return KindIPv4 }

// Prefix returns the address with the netmask applied as a prefix length.
// ok is false when either is missing or the mask is not contiguous.
func (c *IPv4Config) Prefix() (netip.Prefix, bool) {
	if !c.Address.IsValid() || !c.Netmask.IsValid() {
		return netip.Prefix{}, false
	}
	bits, ok := MaskBits(c.Netmask)
	if !ok {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(c.Address, bits), true
}

// BackgroundScan configures wpa_supplicant style background scanning
type BackgroundScan struct {
	Module        string `yaml:"module"`
	ShortInterval int    `yaml:"shortInterval"`
	RSSIThreshold int    `yaml:"rssiThreshold"`
	LongInterval  int    `yaml:"longInterval"`
}

// WifiConfig is the wireless configuration for the active wireless mode
type WifiConfig struct {
	Mode            WifiMode        `yaml:"mode"`
	SSID            string          `yaml:"ssid"`
	Security        WifiSecurity    `yaml:"security"`
	PairwiseCiphers WifiCiphers     `yaml:"pairwiseCiphers"`
	GroupCiphers    WifiCiphers     `yaml:"groupCiphers"`
	RadioMode       WifiRadioMode   `yaml:"radioMode"`
	Channels        []int           `yaml:"channels,omitempty"`
	Passkey         string          `yaml:"passkey,omitempty"`
	PingAccessPoint bool            `yaml:"pingAccessPoint"`
	IgnoreSSID      bool            `yaml:"ignoreSSID"`
	Broadcast       bool            `yaml:"broadcast"`
	Driver          string          `yaml:"driver,omitempty"`
	BackgroundScan  *BackgroundScan `yaml:"backgroundScan,omitempty"`
}

func (*WifiConfig) Kind() Kind { return KindWifi }

// ModemConfig is the cellular/PPP configuration of a modem interface
type ModemConfig struct {
	ModemID           string        `yaml:"modemId"`
	Model             string        `yaml:"model,omitempty"`
	Manufacturer      string        `yaml:"manufacturer,omitempty"`
	PPPNumber         int           `yaml:"pppNumber"`
	APN               string        `yaml:"apn"`
	DialString        string        `yaml:"dialString"`
	AuthType          ModemAuthType `yaml:"authType"`
	Username          string        `yaml:"username,omitempty"`
	Password          string        `yaml:"password,omitempty"`
	PDPType           PDPType       `yaml:"pdpType"`
	HeaderCompression int           `yaml:"headerCompression"`
	DataCompression   int           `yaml:"dataCompression"`
	LCPEchoInterval   int           `yaml:"lcpEchoInterval"`
	LCPEchoFailure    int           `yaml:"lcpEchoFailure"`
	ResetTimeout      int           `yaml:"resetTimeout"`
	Idle              int           `yaml:"idle"`
	Persist           bool          `yaml:"persist"`
	MaxFail           int           `yaml:"maxFail"`
	ActiveFilter      string        `yaml:"activeFilter,omitempty"`
	GPSEnabled        bool          `yaml:"gpsEnabled"`
	Enabled           bool          `yaml:"enabled"`
}

func (*ModemConfig) Kind() Kind { return KindModem }

// DHCPServerConfig is the DHCP server served on an interface
type DHCPServerConfig struct {
	InterfaceName    string       `yaml:"interfaceName"`
	Enabled          bool         `yaml:"enabled"`
	Subnet           netip.Prefix `yaml:"subnet"`
	RouterAddress    netip.Addr   `yaml:"routerAddress"`
	RangeStart       netip.Addr   `yaml:"rangeStart"`
	RangeEnd         netip.Addr   `yaml:"rangeEnd"`
	DefaultLeaseTime int          `yaml:"defaultLeaseTime"`
	MaxLeaseTime     int          `yaml:"maxLeaseTime"`
	PassDNS          bool         `yaml:"passDns"`
	DNSServers       []netip.Addr `yaml:"dnsServers,omitempty"`
}

func (*DHCPServerConfig) Kind() Kind { return KindDHCPServer }

// NATConfig masquerades traffic from SourceInterface out of DestinationInterface
type NATConfig struct {
	SourceInterface      string `yaml:"sourceInterface"`
	DestinationInterface string `yaml:"destinationInterface"`
	Masquerade           bool   `yaml:"masquerade"`
}

func (*NATConfig) Kind() Kind { return KindNAT }

// MaskBits returns the prefix length of a contiguous IPv4 netmask
func MaskBits(mask netip.Addr) (int, bool) {
	if !mask.Is4() {
		return 0, false
	}
	b := mask.As4()
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	bits := 0
	for v&0x80000000 != 0 {
		bits++
		v <<= 1
	}
	if v != 0 {
		return 0, false
	}
	return bits, true
}

// MaskFromBits returns the dotted-quad netmask for an IPv4 prefix length
func MaskFromBits(bits int) netip.Addr {
	if bits < 0 {
		bits = 0
	}
	if bits > 32 {
		bits = 32
	}
	var v uint32
	if bits > 0 {
		v = ^uint32(0) << (32 - bits)
	}
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
