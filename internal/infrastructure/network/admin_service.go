package network

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/sirupsen/logrus"
)

// AdminService applies interface configurations through a host renderer,
// then programs the interface's DHCP server and NAT rules and records the
// applied state
type AdminService struct {
	mu       sync.Mutex
	renderer HostRenderer
	store    *StateStore
	nat      interfaces.NATApplier
	dhcp     interfaces.DHCPServerWriter
	links    interfaces.LinkInspector
	logger   *logrus.Logger
}

// NewAdminService creates an AdminService
func NewAdminService(
	renderer HostRenderer,
	store *StateStore,
	nat interfaces.NATApplier,
	dhcp interfaces.DHCPServerWriter,
	links interfaces.LinkInspector,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		renderer: renderer,
		store:    store,
		nat:      nat,
		dhcp:     dhcp,
		links:    links,
		logger:   logger,
	}
}

// Backend names the host renderer in use
func (s *AdminService) Backend() string {
	return s.renderer.Backend()
}

// GetNetworkInterfaceConfigs merges the stored states with the kernel's
// links. Links never configured through the console are reported with
// their hardware details only.
func (s *AdminService) GetNetworkInterfaceConfigs(ctx context.Context) ([]netconf.InterfaceState, error) {
	states, err := s.store.List()
	if err != nil {
		return nil, err
	}

	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(states))
	for i, st := range states {
		byName[st.Name] = i
	}

	for _, link := range links {
		if link.Name == "lo" {
			continue
		}
		i, ok := byName[link.Name]
		if !ok {
			states = append(states, netconf.InterfaceState{
				Name:         link.Name,
				HardwareType: netconf.HardwareType(link.HardwareType),
				HwAddress:    link.HwAddress,
				MTU:          link.MTU,
				Up:           link.Up,
			})
			continue
		}
		states[i].Up = link.Up
		if states[i].HwAddress == "" {
			states[i].HwAddress = link.HwAddress
		}
		if states[i].MTU == 0 {
			states[i].MTU = link.MTU
		}
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states, nil
}

// UpdateEthernetInterfaceConfig applies an ethernet interface configuration
func (s *AdminService) UpdateEthernetInterfaceConfig(ctx context.Context, name string, autoConnect bool, mtu int, configs []netconf.Config) error {
	state := netconf.NewInterfaceState(name, netconf.HardwareEthernet, autoConnect, mtu, configs)
	return s.apply(ctx, state)
}

// UpdateWifiInterfaceConfig applies a Wi-Fi interface configuration
func (s *AdminService) UpdateWifiInterfaceConfig(ctx context.Context, name string, autoConnect bool, configs []netconf.Config) error {
	state := netconf.NewInterfaceState(name, netconf.HardwareWifi, autoConnect, 0, configs)
	if state.Wifi == nil {
		return errors.NewConfigurationError(fmt.Sprintf("no wifi config for %s", name), nil)
	}
	return s.apply(ctx, state)
}

// UpdateModemInterfaceConfig applies a modem interface configuration. The
// modem id and PPP unit number given here win over the ones in configs.
func (s *AdminService) UpdateModemInterfaceConfig(ctx context.Context, name string, modemID string, pppNumber int, configs []netconf.Config) error {
	state := netconf.NewInterfaceState(name, netconf.HardwareModem, false, 0, configs)
	if state.Modem == nil {
		return errors.NewConfigurationError(fmt.Sprintf("no modem config for %s", name), nil)
	}
	modem := *state.Modem
	modem.ModemID = modemID
	modem.PPPNumber = pppNumber
	state.Modem = &modem
	state.AutoConnect = modem.Enabled
	if state.IPv4 != nil {
		state.AutoConnect = state.AutoConnect && state.IPv4.AutoConnect
	}
	return s.apply(ctx, state)
}

func (s *AdminService) apply(ctx context.Context, state netconf.InterfaceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, found, err := s.store.Get(state.Name)
	if err != nil {
		return err
	}
	if found && state.HwAddress == "" {
		state.HwAddress = previous.HwAddress
	}

	logger := s.logger.WithFields(logrus.Fields{
		"interface": state.Name,
		"hw_type":   state.HardwareType,
		"backend":   s.renderer.Backend(),
	})
	logger.Info("Applying interface configuration")

	if err := s.renderer.Render(ctx, state); err != nil {
		return err
	}

	if err := s.applyServices(ctx, state); err != nil {
		logger.WithError(err).Error("Interface configuration failed after rendering, restoring previous state")
		s.restore(ctx, state.Name, previous, found, logger)
		return err
	}

	logger.Info("Interface configuration applied")
	return nil
}

// applyServices programs the DHCP server and NAT rules of a rendered state
// and records it
func (s *AdminService) applyServices(ctx context.Context, state netconf.InterfaceState) error {
	if err := s.dhcp.WriteDHCPServer(ctx, state.Name, state.DHCPServer); err != nil {
		return err
	}

	rules, err := s.natRules(state)
	if err != nil {
		return err
	}
	if err := s.nat.ApplyNAT(ctx, state.Name, rules); err != nil {
		return err
	}

	return s.store.Put(state)
}

// restore puts the host back to the stored state of name after a failed
// apply. Without a stored state the DHCP server and NAT rules of name are
// cleared; the rendered host config stays.
func (s *AdminService) restore(ctx context.Context, name string, previous netconf.InterfaceState, found bool, logger *logrus.Entry) {
	ctx = context.WithoutCancel(ctx)

	var dhcp *netconf.DHCPServerConfig
	var rules []netconf.NATConfig
	if found {
		if err := s.renderer.Render(ctx, previous); err != nil {
			logger.WithError(err).Error("Failed to restore previous host configuration")
		}
		dhcp = previous.DHCPServer
		resolved, err := s.natRules(previous)
		if err != nil {
			logger.WithError(err).Error("Failed to resolve previous NAT rules")
		}
		rules = resolved
	}

	if err := s.dhcp.WriteDHCPServer(ctx, name, dhcp); err != nil {
		logger.WithError(err).Error("Failed to restore previous DHCP server")
	}
	if err := s.nat.ApplyNAT(ctx, name, rules); err != nil {
		logger.WithError(err).Error("Failed to restore previous NAT rules")
	}
}

// RestoreNAT programs the NAT rules of every stored interface. The NAT
// backend keeps its rules in memory only, so this runs once at startup.
func (s *AdminService) RestoreNAT(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.store.List()
	if err != nil {
		return err
	}

	restored := 0
	for _, state := range states {
		rules, err := s.natRules(state)
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			continue
		}
		if err := s.nat.ApplyNAT(ctx, state.Name, rules); err != nil {
			return err
		}
		restored++
	}

	s.logger.WithField("interfaces", restored).Info("Stored NAT rules restored")
	return nil
}

// SectionName keys the interface states inside a configuration snapshot
func (s *AdminService) SectionName() string {
	return "interfaces"
}

// Capture returns the applied state of every configured interface
func (s *AdminService) Capture(ctx context.Context) (interface{}, error) {
	states, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = []netconf.InterfaceState{}
	}
	return states, nil
}

// Restore re-applies captured interface states, WAN interfaces first so
// that NAT destinations resolve against them. Interfaces configured after
// the capture keep their current state.
func (s *AdminService) Restore(ctx context.Context, decode func(v interface{}) error) error {
	var states []netconf.InterfaceState
	if err := decode(&states); err != nil {
		return errors.NewSystemError("failed to decode interface states", err)
	}

	sort.SliceStable(states, func(i, j int) bool {
		return isWAN(states[i]) && !isWAN(states[j])
	})

	for _, state := range states {
		if err := s.apply(ctx, state); err != nil {
			return err
		}
	}

	s.logger.WithField("interfaces", len(states)).Info("Interface states restored")
	return nil
}

func isWAN(state netconf.InterfaceState) bool {
	return state.IPv4 != nil && state.IPv4.Status == netconf.StatusWAN
}

// natRules resolves the NAT config of state. An "unknown" destination
// becomes the first WAN interface other than the source; when there is no
// such interface the rule matches any outbound interface.
func (s *AdminService) natRules(state netconf.InterfaceState) ([]netconf.NATConfig, error) {
	if state.NAT == nil || !state.NAT.Masquerade {
		return nil, nil
	}

	rule := *state.NAT
	if rule.DestinationInterface == "" || rule.DestinationInterface == netconf.UnknownInterface {
		wan, err := s.firstWAN(state.Name)
		if err != nil {
			return nil, err
		}
		if wan != "" {
			rule.DestinationInterface = wan
		}
	}
	return []netconf.NATConfig{rule}, nil
}

func (s *AdminService) firstWAN(exclude string) (string, error) {
	states, err := s.store.List()
	if err != nil {
		return "", err
	}
	for _, st := range states {
		if st.Name == exclude {
			continue
		}
		if isWAN(st) {
			return st.Name, nil
		}
	}
	return "", nil
}

var (
	_ interfaces.NetworkAdminService = (*AdminService)(nil)
	_ interfaces.SnapshotSection     = (*AdminService)(nil)
)
