package network

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"text/template"
	"time"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/sirupsen/logrus"
)

var dnsmasqTemplate = template.Must(template.New("dnsmasq").Parse(`# managed by gateway-console
interface={{.Interface}}
bind-dynamic
dhcp-range={{.Interface}},{{.Start}},{{.End}},{{.Netmask}},{{.Lease}}
dhcp-option={{.Interface}},option:router,{{.Router}}
{{- if .DNS}}
dhcp-option={{.Interface}},option:dns-server,{{.DNS}}
{{- end}}
`))

type dnsmasqData struct {
	Interface string
	Start     string
	End       string
	Netmask   string
	Lease     string
	Router    string
	DNS       string
}

// DnsmasqWriter renders per-interface dnsmasq drop-in files and restarts
// dnsmasq when one changes
type DnsmasqWriter struct {
	configDir  string
	fileSystem interfaces.FileSystem
	executor   interfaces.CommandExecutor
	timeout    time.Duration
	logger     *logrus.Logger
}

// NewDnsmasqWriter creates a DnsmasqWriter writing into configDir
func NewDnsmasqWriter(configDir string, fs interfaces.FileSystem, executor interfaces.CommandExecutor, timeout time.Duration, logger *logrus.Logger) *DnsmasqWriter {
	return &DnsmasqWriter{
		configDir:  configDir,
		fileSystem: fs,
		executor:   executor,
		timeout:    timeout,
		logger:     logger,
	}
}

// WriteDHCPServer replaces the DHCP server of iface. A nil or disabled
// config removes it.
func (w *DnsmasqWriter) WriteDHCPServer(ctx context.Context, iface string, cfg *netconf.DHCPServerConfig) error {
	path := filepath.Join(w.configDir, fmt.Sprintf("gateway-%s.conf", iface))

	if cfg == nil || !cfg.Enabled {
		if !w.fileSystem.Exists(path) {
			return nil
		}
		if err := w.fileSystem.Remove(path); err != nil {
			return errors.NewSystemError(fmt.Sprintf("failed to remove DHCP server config of %s", iface), err)
		}
		w.logger.WithField("interface", iface).Info("DHCP server disabled")
		return w.restart(ctx)
	}

	content, err := renderDnsmasq(iface, cfg)
	if err != nil {
		return errors.NewConfigurationError(fmt.Sprintf("invalid DHCP server config for %s", iface), err)
	}

	if existing, err := w.fileSystem.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return nil
	}

	if err := w.fileSystem.WriteFile(path, content, constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to write DHCP server config of %s", iface), err)
	}

	w.logger.WithFields(logrus.Fields{
		"interface": iface,
		"subnet":    cfg.Subnet.String(),
		"path":      path,
	}).Info("DHCP server config written")
	return w.restart(ctx)
}

func (w *DnsmasqWriter) restart(ctx context.Context) error {
	if w.executor == nil {
		return nil
	}
	if _, err := w.executor.ExecuteWithTimeout(ctx, w.timeout, "systemctl", "try-restart", "dnsmasq"); err != nil {
		return errors.NewNetworkError("failed to restart dnsmasq", err)
	}
	return nil
}

// renderDnsmasq fills in a missing range with the usable hosts of the subnet
func renderDnsmasq(iface string, cfg *netconf.DHCPServerConfig) ([]byte, error) {
	if !cfg.Subnet.IsValid() || !cfg.RouterAddress.IsValid() {
		return nil, fmt.Errorf("subnet and router address are required")
	}

	start, end := cfg.RangeStart, cfg.RangeEnd
	if !start.IsValid() {
		start = cfg.Subnet.Masked().Addr().Next()
		if start == cfg.RouterAddress {
			start = start.Next()
		}
	}
	if !end.IsValid() {
		end = lastHost(cfg.Subnet)
	}
	if !cfg.Subnet.Contains(start) || !cfg.Subnet.Contains(end) || end.Less(start) {
		return nil, fmt.Errorf("range %s-%s is outside %s", start, end, cfg.Subnet)
	}

	lease := "12h"
	if cfg.DefaultLeaseTime > 0 {
		lease = fmt.Sprintf("%ds", cfg.DefaultLeaseTime)
	}

	data := dnsmasqData{
		Interface: iface,
		Start:     start.String(),
		End:       end.String(),
		Netmask:   netconf.MaskFromBits(cfg.Subnet.Bits()).String(),
		Lease:     lease,
		Router:    cfg.RouterAddress.String(),
		DNS:       joinAddrs(cfg.DNSServers),
	}

	var buf bytes.Buffer
	if err := dnsmasqTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
