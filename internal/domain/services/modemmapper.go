package services

import (
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"
)

var (
	modemAuthTypes = map[string]netconf.ModemAuthType{
		"none": netconf.AuthNone,
		"auto": netconf.AuthAuto,
		"pap":  netconf.AuthPAP,
		"chap": netconf.AuthCHAP,
	}

	pdpTypes = map[string]netconf.PDPType{
		"ip":   netconf.PDPTypeIP,
		"ppp":  netconf.PDPTypePPP,
		"ipv6": netconf.PDPTypeIPv6,
	}
)

// MapModem copies console modem settings into a typed modem config.
// Unknown auth types become none and unknown PDP types become ip.
func MapModem(m entities.ModemSettings, enabled bool) *netconf.ModemConfig {
	auth, ok := modemAuthTypes[m.AuthType]
	if !ok {
		auth = netconf.AuthNone
	}
	pdp, ok := pdpTypes[m.PDPType]
	if !ok {
		pdp = netconf.PDPTypeIP
	}

	return &netconf.ModemConfig{
		ModemID:           m.ModemID,
		Model:             m.Model,
		Manufacturer:      m.Manufacturer,
		PPPNumber:         m.PPPNumber,
		APN:               m.APN,
		DialString:        m.DialString,
		AuthType:          auth,
		Username:          m.Username,
		Password:          m.Password,
		PDPType:           pdp,
		HeaderCompression: m.HeaderCompression,
		DataCompression:   m.DataCompression,
		LCPEchoInterval:   m.LCPEchoInterval,
		LCPEchoFailure:    m.LCPEchoFailure,
		ResetTimeout:      m.ResetTimeout,
		Idle:              m.Idle,
		Persist:           m.Persist,
		MaxFail:           m.MaxFail,
		ActiveFilter:      m.ActiveFilter,
		GPSEnabled:        m.GPSEnabled,
		Enabled:           enabled,
	}
}

// UnmapModem converts a typed modem config back to console settings
func UnmapModem(c *netconf.ModemConfig) *entities.ModemSettings {
	return &entities.ModemSettings{
		ModemID:           c.ModemID,
		Model:             c.Model,
		Manufacturer:      c.Manufacturer,
		APN:               c.APN,
		DialString:        c.DialString,
		PPPNumber:         c.PPPNumber,
		AuthType:          string(c.AuthType),
		Username:          c.Username,
		Password:          c.Password,
		PDPType:           string(c.PDPType),
		HeaderCompression: c.HeaderCompression,
		DataCompression:   c.DataCompression,
		LCPEchoInterval:   c.LCPEchoInterval,
		LCPEchoFailure:    c.LCPEchoFailure,
		ResetTimeout:      c.ResetTimeout,
		Idle:              c.Idle,
		Persist:           c.Persist,
		MaxFail:           c.MaxFail,
		ActiveFilter:      c.ActiveFilter,
		GPSEnabled:        c.GPSEnabled,
	}
}
