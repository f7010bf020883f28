package services

import (
	"testing"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapWifi(t *testing.T) {
	rec := entities.WifiRecord{
		SSID:                "gateway",
		Security:            "wpa2",
		PairwiseCiphers:     "ccmp",
		GroupCiphers:        "ccmp-tkip",
		RadioMode:           "g",
		Channels:            []int{1, 6, 11},
		Passkey:             "secret",
		PingAccessPoint:     true,
		IgnoreSSID:          true,
		BgScanModule:        "simple",
		BgScanShortInterval: 30,
		BgScanRSSIThreshold: -45,
		BgScanLongInterval:  300,
	}

	cfg := MapWifi(entities.WirelessModeStation, rec)
	assert.Equal(t, netconf.WifiModeStation, cfg.Mode)
	assert.Equal(t, "gateway", cfg.SSID)
	assert.Equal(t, netconf.SecurityWPA2, cfg.Security)
	assert.Equal(t, netconf.CiphersCCMP, cfg.PairwiseCiphers)
	assert.Equal(t, netconf.CiphersCCMPTKIP, cfg.GroupCiphers)
	assert.Equal(t, netconf.RadioMode80211g, cfg.RadioMode)
	assert.Equal(t, []int{1, 6, 11}, cfg.Channels)
	assert.Equal(t, "secret", cfg.Passkey)
	assert.True(t, cfg.PingAccessPoint)
	assert.True(t, cfg.IgnoreSSID)
	require.NotNil(t, cfg.BackgroundScan)
	assert.Equal(t, netconf.BackgroundScan{Module: "simple", ShortInterval: 30, RSSIThreshold: -45, LongInterval: 300}, *cfg.BackgroundScan)

	// channels are copied, not aliased
	rec.Channels[0] = 14
	assert.Equal(t, 1, cfg.Channels[0])
}

func TestMapWifi_PermissiveDefaults(t *testing.T) {
	cfg := MapWifi("mesh", entities.WifiRecord{
		Security:        "wpa3",
		PairwiseCiphers: "gcmp",
		RadioMode:       "ax",
		Channels:        []int{0, 200},
	})

	assert.Equal(t, netconf.WifiModeUnknown, cfg.Mode)
	assert.Equal(t, netconf.SecurityNone, cfg.Security)
	assert.Equal(t, netconf.CiphersUnset, cfg.PairwiseCiphers)
	assert.Equal(t, netconf.CiphersUnset, cfg.GroupCiphers)
	assert.Equal(t, netconf.RadioModeUnset, cfg.RadioMode)
	assert.Equal(t, []int{0, 200}, cfg.Channels)
	assert.Nil(t, cfg.BackgroundScan)
}

func TestWifiEnumMapping_Idempotent(t *testing.T) {
	for _, s := range []string{"none", "wep", "wpa", "wpa2", "wpa-wpa2"} {
		sec := MapWifiSecurity(s)
		assert.Equal(t, s, sec.String())
		assert.Equal(t, sec, MapWifiSecurity(sec.String()))
	}
	for _, s := range []string{"ccmp", "tkip", "ccmp-tkip", ""} {
		c := MapWifiCiphers(s)
		assert.Equal(t, s, c.String())
		assert.Equal(t, c, MapWifiCiphers(c.String()))
	}
	for _, s := range []string{"a", "b", "g", "n"} {
		r := MapWifiRadioMode(s)
		assert.Equal(t, r, MapWifiRadioMode(r.String()))
	}
	for _, s := range []string{entities.WirelessModeStation, entities.WirelessModeAccessPoint, entities.WirelessModeAdHoc} {
		m := MapWifiMode(s)
		assert.Equal(t, m, MapWifiMode(m.String()))
	}

	// defaults are fixed points too
	assert.Equal(t, netconf.SecurityNone, MapWifiSecurity(MapWifiSecurity("bogus").String()))
}

func TestUnmapWifi_RoundTrip(t *testing.T) {
	settings := entities.WifiSettings{
		WirelessMode: entities.WirelessModeAccessPoint,
		Config: entities.WifiRecord{
			SSID:            "lab",
			Security:        "wpa-wpa2",
			PairwiseCiphers: "tkip",
			GroupCiphers:    "tkip",
			RadioMode:       "n",
			Channels:        []int{36},
			Broadcast:       true,
			Driver:          "nl80211",
		},
	}

	cfg := MapWifi(settings.WirelessMode, settings.Config)
	assert.Equal(t, &settings, UnmapWifi(cfg))
}

func TestMapModem(t *testing.T) {
	in := entities.ModemSettings{
		ModemID:         "1-1.2",
		Model:           "EC25",
		Manufacturer:    "Quectel",
		APN:             "internet",
		DialString:      "atd*99#",
		PPPNumber:       0,
		AuthType:        "chap",
		Username:        "user",
		PDPType:         "ipv6",
		LCPEchoInterval: 5,
		LCPEchoFailure:  3,
		Persist:         true,
		MaxFail:         5,
	}

	cfg := MapModem(in, true)
	assert.Equal(t, netconf.AuthCHAP, cfg.AuthType)
	assert.Equal(t, netconf.PDPTypeIPv6, cfg.PDPType)
	assert.Equal(t, "internet", cfg.APN)
	assert.Equal(t, 5, cfg.LCPEchoInterval)
	assert.Equal(t, "EC25", cfg.Model)
	assert.Equal(t, "Quectel", cfg.Manufacturer)
	assert.True(t, cfg.Enabled)

	assert.Equal(t, &in, UnmapModem(cfg))

	defaults := MapModem(entities.ModemSettings{AuthType: "kerberos", PDPType: "x25"}, false)
	assert.Equal(t, netconf.AuthNone, defaults.AuthType)
	assert.Equal(t, netconf.PDPTypeIP, defaults.PDPType)
}
