package entities

// Wireless mode keys of WifiSettings
const (
	WirelessModeStation     = "station"
	WirelessModeAccessPoint = "accessPoint"
	WirelessModeAdHoc       = "adhoc"
)

// WifiSettings holds the Wi-Fi record of the interface's active wireless mode.
// The mode key decides whether Config is the station, access point or ad-hoc
// configuration.
type WifiSettings struct {
	WirelessMode string     `json:"wirelessMode"`
	Config       WifiRecord `json:"config"`
}

// WifiRecord is the console-facing Wi-Fi configuration of one wireless mode
type WifiRecord struct {
	SSID            string `json:"ssid"`
	Security        string `json:"security"`
	PairwiseCiphers string `json:"pairwiseCiphers,omitempty"`
	GroupCiphers    string `json:"groupCiphers,omitempty"`
	RadioMode       string `json:"radioMode,omitempty"`
	Channels        []int  `json:"channels,omitempty"`
	Passkey         string `json:"passkey,omitempty"`
	PingAccessPoint bool   `json:"pingAccessPoint"`
	IgnoreSSID      bool   `json:"ignoreSSID"`
	Broadcast       bool   `json:"broadcast"`
	Driver          string `json:"driver,omitempty"`

	BgScanModule        string `json:"bgscanModule,omitempty"`
	BgScanShortInterval int    `json:"bgscanShortInterval,omitempty"`
	BgScanRSSIThreshold int    `json:"bgscanRssiThreshold,omitempty"`
	BgScanLongInterval  int    `json:"bgscanLongInterval,omitempty"`
}

// ModemSettings is the console-facing cellular modem configuration
type ModemSettings struct {
	ModemID           string `json:"modemId"`
	Model             string `json:"model,omitempty"`
	Manufacturer      string `json:"manufacturer,omitempty"`
	APN               string `json:"apn"`
	DialString        string `json:"dialString"`
	PPPNumber         int    `json:"pppNum"`
	AuthType          string `json:"authType"`
	Username          string `json:"username,omitempty"`
	Password          string `json:"password,omitempty"`
	PDPType           string `json:"pdpType"`
	HeaderCompression int    `json:"headerCompression"`
	DataCompression   int    `json:"dataCompression"`
	LCPEchoInterval   int    `json:"lcpEchoInterval"`
	LCPEchoFailure    int    `json:"lcpEchoFailure"`
	ResetTimeout      int    `json:"resetTimeout"`
	Idle              int    `json:"idle"`
	Persist           bool   `json:"persist"`
	MaxFail           int    `json:"maxFail"`
	ActiveFilter      string `json:"activeFilter,omitempty"`
	GPSEnabled        bool   `json:"gpsEnabled"`
}
