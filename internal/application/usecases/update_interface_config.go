package usecases

import (
	"context"
	"fmt"
	"strings"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"
	"gateway-console/internal/domain/services"

	"github.com/sirupsen/logrus"
)

// UpdateInterfaceConfigUseCase turns a flat interface record into typed
// configs, submits them to the network admin service and snapshots the
// resulting device configuration
type UpdateInterfaceConfigUseCase struct {
	networkAdmin interfaces.NetworkAdminService
	snapshots    Snapshotter
	metrics      UpdateMetrics
	logger       *logrus.Logger
}

// Snapshotter saves the current device configuration
type Snapshotter interface {
	Snapshot(ctx context.Context) (int64, error)
}

// UpdateMetrics records the outcome of interface updates
type UpdateMetrics interface {
	RecordInterfaceUpdate(hardwareType string, err error)
}

// NewUpdateInterfaceConfigUseCase creates an UpdateInterfaceConfigUseCase
func NewUpdateInterfaceConfigUseCase(
	networkAdmin interfaces.NetworkAdminService,
	snapshots Snapshotter,
	metrics UpdateMetrics,
	logger *logrus.Logger,
) *UpdateInterfaceConfigUseCase {
	return &UpdateInterfaceConfigUseCase{
		networkAdmin: networkAdmin,
		snapshots:    snapshots,
		metrics:      metrics,
		logger:       logger,
	}
}

// UpdateInterfaceConfigInput is the submitted interface record
type UpdateInterfaceConfigInput struct {
	Config entities.NetworkInterfaceConfig
}

// UpdateInterfaceConfigOutput holds the configs that were submitted and the
// snapshot taken afterwards. SnapshotID is zero when no snapshot was saved.
type UpdateInterfaceConfigOutput struct {
	Configs    []netconf.Config
	SnapshotID int64
}

// Execute assembles and submits the interface configuration
func (uc *UpdateInterfaceConfigUseCase) Execute(ctx context.Context, input UpdateInterfaceConfigInput) (*UpdateInterfaceConfigOutput, error) {
	cfg := input.Config

	configs, err := uc.submit(ctx, cfg)
	if uc.metrics != nil {
		uc.metrics.RecordInterfaceUpdate(string(cfg.HardwareType), err)
	}
	if err != nil {
		uc.logger.WithFields(logrus.Fields{
			"interface":     cfg.Name,
			"hardware_type": cfg.HardwareType,
			"error_type":    errors.TypeOf(err),
		}).WithError(err).Error("Interface configuration update failed")
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"interface":     cfg.Name,
		"hardware_type": cfg.HardwareType,
		"config_mode":   cfg.ConfigMode,
		"router_mode":   cfg.RouterMode,
		"config_count":  len(configs),
	}).Info("Interface configuration updated")

	return &UpdateInterfaceConfigOutput{
		Configs:    configs,
		SnapshotID: uc.snapshot(ctx, cfg.Name),
	}, nil
}

// snapshot failures leave the applied update in place
func (uc *UpdateInterfaceConfigUseCase) snapshot(ctx context.Context, name string) int64 {
	if uc.snapshots == nil {
		return 0
	}

	id, err := uc.snapshots.Snapshot(ctx)
	if err != nil {
		uc.logger.WithField("interface", name).WithError(err).Warn("Failed to snapshot configuration after interface update")
		return 0
	}
	return id
}

func (uc *UpdateInterfaceConfigUseCase) submit(ctx context.Context, cfg entities.NetworkInterfaceConfig) ([]netconf.Config, error) {
	configs, err := AssembleInterfaceConfigs(cfg)
	if err != nil {
		return nil, err
	}

	autoConnect := cfg.AutoConnect()

	switch cfg.HardwareType {
	case netconf.HardwareEthernet:
		err = uc.networkAdmin.UpdateEthernetInterfaceConfig(ctx, cfg.Name, autoConnect, cfg.MTU, configs)
	case netconf.HardwareWifi:
		err = uc.networkAdmin.UpdateWifiInterfaceConfig(ctx, cfg.Name, autoConnect, configs)
	case netconf.HardwareModem:
		err = uc.networkAdmin.UpdateModemInterfaceConfig(ctx, cfg.Name, cfg.Modem.ModemID, cfg.Modem.PPPNumber, configs)
	}
	if err != nil {
		return nil, errors.WrapCollaborator(err, fmt.Sprintf("failed to update %s interface %s", cfg.HardwareType, cfg.Name))
	}

	return configs, nil
}

// AssembleInterfaceConfigs builds the ordered typed config list for a flat
// interface record: IPv4 first, then any DHCP server and NAT configs, then
// the Wi-Fi or modem config. Address values are parsed strictly.
func AssembleInterfaceConfigs(cfg entities.NetworkInterfaceConfig) ([]netconf.Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid interface record %q", cfg.Name), err)
	}

	switch cfg.HardwareType {
	case netconf.HardwareEthernet, netconf.HardwareWifi, netconf.HardwareModem:
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported hardware type %q for interface %s", cfg.HardwareType, cfg.Name), nil)
	}

	autoConnect := cfg.AutoConnect()

	ipv4 := &netconf.IPv4Config{
		Status:      cfg.Status,
		AutoConnect: autoConnect,
		DHCP:        cfg.IsDHCP(),
	}

	var err error
	if !cfg.IsDHCP() {
		if ipv4.Address, err = parseOptional(cfg.IPAddress, services.ParseAddress); err != nil {
			return nil, err
		}
		if ipv4.Netmask, err = parseOptional(cfg.SubnetMask, services.ParseNetmask); err != nil {
			return nil, err
		}
		if ipv4.Gateway, err = parseOptional(cfg.Gateway, services.ParseAddress); err != nil {
			return nil, err
		}
	}

	// custom DNS applies in DHCP mode too
	if ipv4.DNSServers, err = services.ParseAddressList(cfg.DNSServers); err != nil {
		return nil, err
	}
	if ipv4.WINSServers, err = services.ParseAddressList(cfg.WINSServers); err != nil {
		return nil, err
	}

	configs := []netconf.Config{ipv4}

	if !cfg.IsDHCP() {
		routerConfigs, err := services.BuildRouterConfigs(routerModeOf(cfg), cfg.Name, cfg.IPAddress, cfg.SubnetMask, services.DHCPServerFields{
			RangeStart:       cfg.RouterDHCPBeginAddr,
			RangeEnd:         cfg.RouterDHCPEndAddr,
			DefaultLeaseTime: cfg.RouterDHCPDefaultLease,
			MaxLeaseTime:     cfg.RouterDHCPMaxLease,
			PassDNS:          cfg.RouterDNSPass,
		})
		if err != nil {
			return nil, err
		}
		configs = append(configs, routerConfigs...)
	}

	switch cfg.HardwareType {
	case netconf.HardwareWifi:
		configs = append(configs, services.MapWifi(cfg.Wifi.WirelessMode, cfg.Wifi.Config))
	case netconf.HardwareModem:
		configs = append(configs, services.MapModem(*cfg.Modem, autoConnect))
	}

	return configs, nil
}

func routerModeOf(cfg entities.NetworkInterfaceConfig) netconf.RouterMode {
	if cfg.RouterMode == "" {
		return netconf.RouterModeOff
	}
	return cfg.RouterMode
}

func parseOptional[T any](s string, parse func(string) (T, error)) (T, error) {
	var zero T
	if strings.TrimSpace(s) == "" {
		return zero, nil
	}
	return parse(s)
}
