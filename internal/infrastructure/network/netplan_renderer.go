package network

import (
	"context"
	"fmt"
	"path/filepath"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type netplanDocument struct {
	Network netplanNetwork `yaml:"network"`
}

type netplanNetwork struct {
	Version   int                      `yaml:"version"`
	Renderer  string                   `yaml:"renderer,omitempty"`
	Ethernets map[string]netplanDevice `yaml:"ethernets,omitempty"`
	Wifis     map[string]netplanWifi   `yaml:"wifis,omitempty"`
	Modems    map[string]netplanModem  `yaml:"modems,omitempty"`
}

type netplanDevice struct {
	DHCP4          bool                `yaml:"dhcp4"`
	DHCP4Overrides *netplanDHCP4       `yaml:"dhcp4-overrides,omitempty"`
	Addresses      []string            `yaml:"addresses,omitempty"`
	Routes         []netplanRoute      `yaml:"routes,omitempty"`
	Nameservers    *netplanNameservers `yaml:"nameservers,omitempty"`
	MTU            int                 `yaml:"mtu,omitempty"`
	Match          *netplanMatch       `yaml:"match,omitempty"`
	Optional       bool                `yaml:"optional,omitempty"`
	ActivationMode string              `yaml:"activation-mode,omitempty"`
}

type netplanDHCP4 struct {
	UseDNS bool `yaml:"use-dns"`
}

type netplanRoute struct {
	To  string `yaml:"to"`
	Via string `yaml:"via"`
}

type netplanNameservers struct {
	Addresses []string `yaml:"addresses"`
}

type netplanMatch struct {
	MACAddress string `yaml:"macaddress"`
}

type netplanWifi struct {
	netplanDevice `yaml:",inline"`
	AccessPoints  map[string]netplanAccessPoint `yaml:"access-points"`
}

type netplanAccessPoint struct {
	Password string          `yaml:"password,omitempty"`
	Auth     *netplanWifiAuth `yaml:"auth,omitempty"`
	Mode     string          `yaml:"mode,omitempty"`
	Band     string          `yaml:"band,omitempty"`
	Channel  int             `yaml:"channel,omitempty"`
	Hidden   bool            `yaml:"hidden,omitempty"`
}

type netplanWifiAuth struct {
	KeyManagement string `yaml:"key-management"`
	Password      string `yaml:"password,omitempty"`
}

type netplanModem struct {
	netplanDevice `yaml:",inline"`
	APN           string `yaml:"apn,omitempty"`
	Number        string `yaml:"number,omitempty"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	DeviceID      string `yaml:"device-id,omitempty"`
}

// NetplanRenderer renders one netplan file per interface and applies it
type NetplanRenderer struct {
	command    hostCommand
	fileSystem interfaces.FileSystem
	logger     *logrus.Logger
	configDir  string
}

// NewNetplanRenderer creates a NetplanRenderer writing into configDir
func NewNetplanRenderer(command hostCommand, fs interfaces.FileSystem, configDir string, logger *logrus.Logger) *NetplanRenderer {
	if configDir == "" {
		configDir = constants.NetplanConfigDir
	}
	return &NetplanRenderer{
		command:    command,
		fileSystem: fs,
		logger:     logger,
		configDir:  configDir,
	}
}

// Backend returns "netplan"
func (r *NetplanRenderer) Backend() string {
	return "netplan"
}

// ConfigPath returns the netplan file of an interface
func (r *NetplanRenderer) ConfigPath(name string) string {
	return filepath.Join(r.configDir, fmt.Sprintf("90-gateway-%s.yaml", name))
}

// Render writes the interface's netplan file, validates it with netplan
// generate and applies it. On failure the previous file is restored.
func (r *NetplanRenderer) Render(ctx context.Context, state netconf.InterfaceState) error {
	configPath := r.ConfigPath(state.Name)

	doc, err := generateNetplanDocument(state)
	if err != nil {
		return err
	}
	configData, err := yaml.Marshal(doc)
	if err != nil {
		return errors.NewSystemError("failed to marshal netplan config", err)
	}

	previous, readErr := r.fileSystem.ReadFile(configPath)
	hadPrevious := readErr == nil

	if err := r.fileSystem.WriteFile(configPath, configData, constants.SecretFilePermission); err != nil {
		return errors.NewSystemError("failed to write netplan config", err)
	}

	r.logger.WithFields(logrus.Fields{
		"interface":   state.Name,
		"config_path": configPath,
	}).Info("Netplan config written")

	if _, err := r.command.run(ctx, "netplan", "generate"); err != nil {
		r.restore(configPath, previous, hadPrevious)
		return errors.NewNetworkError("netplan rejected the configuration", err)
	}

	if _, err := r.command.run(ctx, "netplan", "apply"); err != nil {
		r.restore(configPath, previous, hadPrevious)
		if _, reapplyErr := r.command.run(ctx, "netplan", "apply"); reapplyErr != nil {
			r.logger.WithError(reapplyErr).Error("Failed to re-apply previous netplan config")
		}
		return errors.NewNetworkError("failed to apply netplan config", err)
	}

	return nil
}

func (r *NetplanRenderer) restore(path string, previous []byte, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = r.fileSystem.WriteFile(path, previous, constants.SecretFilePermission)
	} else {
		err = r.fileSystem.Remove(path)
	}
	if err != nil {
		r.logger.WithError(err).WithField("config_path", path).Error("Failed to restore netplan config")
	}
}

func generateNetplanDocument(state netconf.InterfaceState) (netplanDocument, error) {
	device := netplanDeviceFor(state)
	network := netplanNetwork{Version: 2}

	switch state.HardwareType {
	case netconf.HardwareEthernet:
		if state.HwAddress != "" {
			device.Match = &netplanMatch{MACAddress: state.HwAddress}
		}
		network.Ethernets = map[string]netplanDevice{state.Name: device}

	case netconf.HardwareWifi:
		if state.Wifi == nil {
			return netplanDocument{}, errors.NewConfigurationError(fmt.Sprintf("wifi interface %s has no wifi config", state.Name), nil)
		}
		network.Wifis = map[string]netplanWifi{
			state.Name: {
				netplanDevice: device,
				AccessPoints:  map[string]netplanAccessPoint{state.Wifi.SSID: netplanAccessPointFor(state.Wifi)},
			},
		}

	case netconf.HardwareModem:
		if state.Modem == nil {
			return netplanDocument{}, errors.NewConfigurationError(fmt.Sprintf("modem interface %s has no modem config", state.Name), nil)
		}
		// modems are only supported by the NetworkManager backend
		network.Renderer = "NetworkManager"
		network.Modems = map[string]netplanModem{
			state.Name: {
				netplanDevice: device,
				APN:           state.Modem.APN,
				Number:        state.Modem.DialString,
				Username:      state.Modem.Username,
				Password:      state.Modem.Password,
				DeviceID:      state.Modem.ModemID,
			},
		}

	default:
		return netplanDocument{}, errors.NewConfigurationError(fmt.Sprintf("netplan cannot render %s interface %s", state.HardwareType, state.Name), nil)
	}

	return netplanDocument{Network: network}, nil
}

func netplanDeviceFor(state netconf.InterfaceState) netplanDevice {
	device := netplanDevice{
		MTU:      state.MTU,
		Optional: true,
	}
	if !state.AutoConnect {
		device.ActivationMode = "off"
	}

	ip := state.IPv4
	if ip == nil {
		return device
	}

	device.DHCP4 = ip.DHCP
	if !ip.DHCP {
		if prefix, ok := ip.Prefix(); ok {
			device.Addresses = []string{prefix.String()}
		}
		if ip.Gateway.IsValid() {
			device.Routes = []netplanRoute{{To: "default", Via: ip.Gateway.String()}}
		}
	}
	if len(ip.DNSServers) > 0 {
		device.Nameservers = &netplanNameservers{Addresses: addrStrings(ip.DNSServers)}
		if ip.DHCP {
			device.DHCP4Overrides = &netplanDHCP4{UseDNS: false}
		}
	}
	return device
}

func netplanAccessPointFor(w *netconf.WifiConfig) netplanAccessPoint {
	ap := netplanAccessPoint{
		Hidden: w.IgnoreSSID,
	}

	switch w.Mode {
	case netconf.WifiModeAccessPoint:
		ap.Mode = "ap"
	case netconf.WifiModeAdHoc:
		ap.Mode = "adhoc"
	default:
		ap.Mode = "infrastructure"
	}

	switch w.RadioMode {
	case netconf.RadioMode80211a:
		ap.Band = "5GHz"
	case netconf.RadioMode80211b, netconf.RadioMode80211g:
		ap.Band = "2.4GHz"
	}
	if len(w.Channels) > 0 && ap.Band != "" {
		ap.Channel = w.Channels[0]
	}

	switch w.Security {
	case netconf.SecurityWPA, netconf.SecurityWPA2, netconf.SecurityWPAWPA2:
		ap.Password = w.Passkey
	case netconf.SecurityWEP:
		ap.Auth = &netplanWifiAuth{KeyManagement: "none", Password: w.Passkey}
	}
	return ap
}
