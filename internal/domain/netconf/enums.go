package netconf

// InterfaceStatus is the administrative status of an interface
type InterfaceStatus string

const (
	StatusDisabled InterfaceStatus = "disabled"
	StatusLAN      InterfaceStatus = "lan"
	StatusWAN      InterfaceStatus = "wan"
)

// RouterMode combines the DHCP server and NAT roles of an interface
type RouterMode string

const (
	RouterModeOff     RouterMode = "off"
	RouterModeDHCP    RouterMode = "dhcp"
	RouterModeNAT     RouterMode = "nat"
	RouterModeDHCPNAT RouterMode = "dhcpnat"
)

// WifiMode is the wireless operating mode
type WifiMode int

const (
	WifiModeUnknown WifiMode = iota
	WifiModeStation
	WifiModeAccessPoint
	WifiModeAdHoc
)

func (m WifiMode) String() string {
	switch m {
	case WifiModeStation:
		return "station"
	case WifiModeAccessPoint:
		return "accessPoint"
	case WifiModeAdHoc:
		return "adhoc"
	default:
		return "unknown"
	}
}

// WifiSecurity is the wireless security scheme
type WifiSecurity int

const (
	SecurityNone WifiSecurity = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityWPAWPA2
)

func (s WifiSecurity) String() string {
	switch s {
	case SecurityWEP:
		return "wep"
	case SecurityWPA:
		return "wpa"
	case SecurityWPA2:
		return "wpa2"
	case SecurityWPAWPA2:
		return "wpa-wpa2"
	default:
		return "none"
	}
}

// WifiCiphers is a pairwise or group cipher suite. The zero value means unset.
type WifiCiphers int

const (
	CiphersUnset WifiCiphers = iota
	CiphersCCMP
	CiphersTKIP
	CiphersCCMPTKIP
)

func (c WifiCiphers) String() string {
	switch c {
	case CiphersCCMP:
		return "ccmp"
	case CiphersTKIP:
		return "tkip"
	case CiphersCCMPTKIP:
		return "ccmp-tkip"
	default:
		return ""
	}
}

// WifiRadioMode is the 802.11 hardware mode. The zero value means unset.
type WifiRadioMode int

const (
	RadioModeUnset WifiRadioMode = iota
	RadioMode80211a
	RadioMode80211b
	RadioMode80211g
	RadioMode80211n
)

func (r WifiRadioMode) String() string {
	switch r {
	case RadioMode80211a:
		return "a"
	case RadioMode80211b:
		return "b"
	case RadioMode80211g:
		return "g"
	case RadioMode80211n:
		return "n"
	default:
		return ""
	}
}

// ModemAuthType is the PPP authentication scheme
type ModemAuthType string

const (
	AuthNone ModemAuthType = "none"
	AuthAuto ModemAuthType = "auto"
	AuthPAP  ModemAuthType = "pap"
	AuthCHAP ModemAuthType = "chap"
)

// PDPType is the packet data protocol type of a cellular context
type PDPType string

const (
	PDPTypeIP   PDPType = "ip"
	PDPTypePPP  PDPType = "ppp"
	PDPTypeIPv6 PDPType = "ipv6"
)
