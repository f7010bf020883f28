package network

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/netconf"

	"github.com/sirupsen/logrus"
)

// NMCLIRenderer configures interfaces as NetworkManager connections named
// gw-<interface>
type NMCLIRenderer struct {
	command hostCommand
	logger  *logrus.Logger
}

// NewNMCLIRenderer creates a NMCLIRenderer
func NewNMCLIRenderer(command hostCommand, logger *logrus.Logger) *NMCLIRenderer {
	return &NMCLIRenderer{
		command: command,
		logger:  logger,
	}
}

// Backend returns "nmcli"
func (r *NMCLIRenderer) Backend() string {
	return "nmcli"
}

// ConnectionName returns the NetworkManager connection owned for an interface
func ConnectionName(iface string) string {
	return "gw-" + iface
}

// Render replaces the interface's connection and activates it when the
// interface auto-connects
func (r *NMCLIRenderer) Render(ctx context.Context, state netconf.InterfaceState) error {
	addArgs, err := nmcliAddArgs(state)
	if err != nil {
		return err
	}
	conName := ConnectionName(state.Name)

	r.logger.WithFields(logrus.Fields{
		"interface":  state.Name,
		"connection": conName,
	}).Info("Configuring NetworkManager connection")

	r.remove(ctx, conName)

	if _, err := r.command.run(ctx, "nmcli", addArgs...); err != nil {
		return errors.NewNetworkError(fmt.Sprintf("nmcli connection add failed: %s", state.Name), err)
	}

	if !state.AutoConnect {
		return nil
	}

	if _, err := r.command.run(ctx, "nmcli", "connection", "up", conName); err != nil {
		r.remove(ctx, conName)
		return errors.NewNetworkError(fmt.Sprintf("nmcli connection up failed: %s", state.Name), err)
	}

	r.logger.WithField("interface", state.Name).Info("NetworkManager connection active")
	return nil
}

// remove drops an existing connection; a missing connection is not an error
func (r *NMCLIRenderer) remove(ctx context.Context, conName string) {
	if _, err := r.command.run(ctx, "nmcli", "connection", "down", conName); err != nil {
		r.logger.WithError(err).WithField("connection", conName).Debug("nmcli connection down failed (ignored)")
	}
	if _, err := r.command.run(ctx, "nmcli", "connection", "delete", conName); err != nil {
		r.logger.WithError(err).WithField("connection", conName).Debug("nmcli connection delete failed (ignored)")
	}
}

func nmcliAddArgs(state netconf.InterfaceState) ([]string, error) {
	args := []string{"connection", "add"}
	conName := ConnectionName(state.Name)

	switch state.HardwareType {
	case netconf.HardwareEthernet:
		args = append(args, "type", "ethernet", "con-name", conName, "ifname", state.Name)
		if state.HwAddress != "" {
			args = append(args, "ethernet.mac-address", state.HwAddress)
		}
	case netconf.HardwareWifi:
		if state.Wifi == nil {
			return nil, errors.NewConfigurationError(fmt.Sprintf("wifi interface %s has no wifi config", state.Name), nil)
		}
		args = append(args, "type", "wifi", "con-name", conName, "ifname", state.Name, "ssid", state.Wifi.SSID)
		args = append(args, nmcliWifiArgs(state.Wifi)...)
	case netconf.HardwareModem:
		if state.Modem == nil {
			return nil, errors.NewConfigurationError(fmt.Sprintf("modem interface %s has no modem config", state.Name), nil)
		}
		args = append(args, "type", "gsm", "con-name", conName, "ifname", state.Name)
		args = append(args, nmcliModemArgs(state.Modem)...)
	default:
		return nil, errors.NewConfigurationError(fmt.Sprintf("nmcli cannot render %s interface %s", state.HardwareType, state.Name), nil)
	}

	args = append(args, "connection.autoconnect", yesNo(state.AutoConnect))
	if state.MTU > 0 && state.HardwareType != netconf.HardwareModem {
		args = append(args, mtuKey(state.HardwareType), strconv.Itoa(state.MTU))
	}
	args = append(args, nmcliIPv4Args(state.IPv4)...)
	args = append(args, "ipv6.method", "disabled")
	return args, nil
}

func nmcliIPv4Args(ip *netconf.IPv4Config) []string {
	if ip == nil {
		return []string{"ipv4.method", "disabled"}
	}

	var args []string
	if ip.DHCP {
		args = append(args, "ipv4.method", "auto")
		if len(ip.DNSServers) > 0 {
			args = append(args, "ipv4.ignore-auto-dns", "yes")
		}
	} else if prefix, ok := ip.Prefix(); ok {
		args = append(args, "ipv4.method", "manual", "ipv4.addresses", prefix.String())
		if ip.Gateway.IsValid() {
			args = append(args, "ipv4.gateway", ip.Gateway.String())
		}
	} else {
		args = append(args, "ipv4.method", "disabled")
	}
	if len(ip.DNSServers) > 0 {
		args = append(args, "ipv4.dns", strings.Join(addrStrings(ip.DNSServers), ","))
	}
	return args
}

func nmcliWifiArgs(w *netconf.WifiConfig) []string {
	var args []string
	switch w.Mode {
	case netconf.WifiModeAccessPoint:
		args = append(args, "wifi.mode", "ap")
	case netconf.WifiModeAdHoc:
		args = append(args, "wifi.mode", "adhoc")
	default:
		args = append(args, "wifi.mode", "infrastructure")
	}

	switch w.RadioMode {
	case netconf.RadioMode80211a:
		args = append(args, "wifi.band", "a")
	case netconf.RadioMode80211b, netconf.RadioMode80211g:
		args = append(args, "wifi.band", "bg")
	}
	if len(w.Channels) > 0 && w.RadioMode != netconf.RadioModeUnset && w.RadioMode != netconf.RadioMode80211n {
		args = append(args, "wifi.channel", strconv.Itoa(w.Channels[0]))
	}
	if w.IgnoreSSID {
		args = append(args, "wifi.hidden", "yes")
	}

	switch w.Security {
	case netconf.SecurityWEP:
		args = append(args, "wifi-sec.key-mgmt", "none", "wifi-sec.wep-key0", w.Passkey)
	case netconf.SecurityWPA, netconf.SecurityWPA2, netconf.SecurityWPAWPA2:
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.psk", w.Passkey)
		args = append(args, wpaProtoArgs(w)...)
	}
	return args
}

func wpaProtoArgs(w *netconf.WifiConfig) []string {
	var args []string
	switch w.Security {
	case netconf.SecurityWPA:
		args = append(args, "wifi-sec.proto", "wpa")
	case netconf.SecurityWPA2:
		args = append(args, "wifi-sec.proto", "rsn")
	}
	if c := cipherList(w.PairwiseCiphers); c != "" {
		args = append(args, "wifi-sec.pairwise", c)
	}
	if c := cipherList(w.GroupCiphers); c != "" {
		args = append(args, "wifi-sec.group", c)
	}
	return args
}

func cipherList(c netconf.WifiCiphers) string {
	switch c {
	case netconf.CiphersCCMP:
		return "ccmp"
	case netconf.CiphersTKIP:
		return "tkip"
	case netconf.CiphersCCMPTKIP:
		return "ccmp,tkip"
	}
	return ""
}

func nmcliModemArgs(m *netconf.ModemConfig) []string {
	args := []string{"gsm.apn", m.APN}
	if m.DialString != "" {
		args = append(args, "gsm.number", m.DialString)
	}
	if m.ModemID != "" {
		args = append(args, "gsm.device-id", m.ModemID)
	}
	if m.Username != "" {
		args = append(args, "gsm.username", m.Username)
	}
	if m.Password != "" {
		args = append(args, "gsm.password", m.Password)
	}

	switch m.AuthType {
	case netconf.AuthPAP:
		args = append(args, "ppp.refuse-chap", "yes", "ppp.refuse-mschap", "yes", "ppp.refuse-mschapv2", "yes")
	case netconf.AuthCHAP:
		args = append(args, "ppp.refuse-pap", "yes")
	}
	if m.LCPEchoInterval > 0 {
		args = append(args, "ppp.lcp-echo-interval", strconv.Itoa(m.LCPEchoInterval))
	}
	if m.LCPEchoFailure > 0 {
		args = append(args, "ppp.lcp-echo-failure", strconv.Itoa(m.LCPEchoFailure))
	}
	if m.HeaderCompression == 0 {
		args = append(args, "ppp.novj", "yes")
	}
	if m.DataCompression == 0 {
		args = append(args, "ppp.nobsdcomp", "yes", "ppp.nodeflate", "yes")
	}
	return args
}

func mtuKey(hw netconf.HardwareType) string {
	if hw == netconf.HardwareWifi {
		return "802-11-wireless.mtu"
	}
	return "802-3-ethernet.mtu"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
