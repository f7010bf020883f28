package services

import (
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"
)

// Unrecognised values map to permissive defaults; none of these lookups fail.
var (
	wifiModes = map[string]netconf.WifiMode{
		entities.WirelessModeStation:     netconf.WifiModeStation,
		entities.WirelessModeAccessPoint: netconf.WifiModeAccessPoint,
		entities.WirelessModeAdHoc:       netconf.WifiModeAdHoc,
	}

	wifiSecurities = map[string]netconf.WifiSecurity{
		"none":     netconf.SecurityNone,
		"wep":      netconf.SecurityWEP,
		"wpa":      netconf.SecurityWPA,
		"wpa2":     netconf.SecurityWPA2,
		"wpa-wpa2": netconf.SecurityWPAWPA2,
	}

	wifiCiphers = map[string]netconf.WifiCiphers{
		"ccmp":      netconf.CiphersCCMP,
		"tkip":      netconf.CiphersTKIP,
		"ccmp-tkip": netconf.CiphersCCMPTKIP,
	}

	wifiRadioModes = map[string]netconf.WifiRadioMode{
		"a": netconf.RadioMode80211a,
		"b": netconf.RadioMode80211b,
		"g": netconf.RadioMode80211g,
		"n": netconf.RadioMode80211n,
	}
)

// MapWifiMode maps a wireless mode key; unknown keys give WifiModeUnknown
func MapWifiMode(s string) netconf.WifiMode {
	return wifiModes[s]
}

// MapWifiSecurity maps a security name; unknown names give SecurityNone
func MapWifiSecurity(s string) netconf.WifiSecurity {
	return wifiSecurities[s]
}

// MapWifiCiphers maps a cipher suite name; unknown names leave it unset
func MapWifiCiphers(s string) netconf.WifiCiphers {
	return wifiCiphers[s]
}

// MapWifiRadioMode maps a hardware mode letter; unknown letters leave it unset
func MapWifiRadioMode(s string) netconf.WifiRadioMode {
	return wifiRadioModes[s]
}

// MapWifi builds the typed Wi-Fi config for the given wireless mode and record
func MapWifi(mode string, rec entities.WifiRecord) *netconf.WifiConfig {
	cfg := &netconf.WifiConfig{
		Mode:            MapWifiMode(mode),
		SSID:            rec.SSID,
		Security:        MapWifiSecurity(rec.Security),
		PairwiseCiphers: MapWifiCiphers(rec.PairwiseCiphers),
		GroupCiphers:    MapWifiCiphers(rec.GroupCiphers),
		RadioMode:       MapWifiRadioMode(rec.RadioMode),
		Passkey:         rec.Passkey,
		PingAccessPoint: rec.PingAccessPoint,
		IgnoreSSID:      rec.IgnoreSSID,
		Broadcast:       rec.Broadcast,
		Driver:          rec.Driver,
	}

	if rec.Channels != nil {
		cfg.Channels = append([]int(nil), rec.Channels...)
	}

	if rec.BgScanModule != "" {
		cfg.BackgroundScan = &netconf.BackgroundScan{
			Module:        rec.BgScanModule,
			ShortInterval: rec.BgScanShortInterval,
			RSSIThreshold: rec.BgScanRSSIThreshold,
			LongInterval:  rec.BgScanLongInterval,
		}
	}

	return cfg
}

// UnmapWifi converts a typed Wi-Fi config back to console settings
func UnmapWifi(cfg *netconf.WifiConfig) *entities.WifiSettings {
	rec := entities.WifiRecord{
		SSID:            cfg.SSID,
		Security:        cfg.Security.String(),
		PairwiseCiphers: cfg.PairwiseCiphers.String(),
		GroupCiphers:    cfg.GroupCiphers.String(),
		RadioMode:       cfg.RadioMode.String(),
		Passkey:         cfg.Passkey,
		PingAccessPoint: cfg.PingAccessPoint,
		IgnoreSSID:      cfg.IgnoreSSID,
		Broadcast:       cfg.Broadcast,
		Driver:          cfg.Driver,
	}
	if cfg.Channels != nil {
		rec.Channels = append([]int(nil), cfg.Channels...)
	}
	if bg := cfg.BackgroundScan; bg != nil {
		rec.BgScanModule = bg.Module
		rec.BgScanShortInterval = bg.ShortInterval
		rec.BgScanRSSIThreshold = bg.RSSIThreshold
		rec.BgScanLongInterval = bg.LongInterval
	}
	return &entities.WifiSettings{
		WirelessMode: cfg.Mode.String(),
		Config:       rec,
	}
}
