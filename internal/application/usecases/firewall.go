package usecases

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// FirewallUseCase reads and replaces the firewall rule lists
type FirewallUseCase struct {
	repository interfaces.FirewallRepository
	logger     *logrus.Logger
}

// NewFirewallUseCase creates a FirewallUseCase
func NewFirewallUseCase(repository interfaces.FirewallRepository, logger *logrus.Logger) *FirewallUseCase {
	return &FirewallUseCase{
		repository: repository,
		logger:     logger,
	}
}

// GetOpenPorts returns the open port entries
func (uc *FirewallUseCase) GetOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error) {
	entries, err := uc.repository.FindOpenPorts(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to read open ports")
	}
	return entries, nil
}

// UpdateOpenPorts validates and replaces the open port entries
func (uc *FirewallUseCase) UpdateOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error {
	for i, e := range entries {
		if err := validateOpenPort(e); err != nil {
			return errors.NewValidationError(fmt.Sprintf("open port entry %d", i), err)
		}
	}
	if err := uc.repository.ReplaceOpenPorts(ctx, entries); err != nil {
		uc.logger.WithError(err).Error("Failed to store open ports")
		return errors.WrapCollaborator(err, "failed to store open ports")
	}
	uc.logger.WithField("entry_count", len(entries)).Info("Open ports updated")
	return nil
}

// GetPortForwards returns the port forward entries
func (uc *FirewallUseCase) GetPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error) {
	entries, err := uc.repository.FindPortForwards(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to read port forwards")
	}
	return entries, nil
}

// UpdatePortForwards validates and replaces the port forward entries
func (uc *FirewallUseCase) UpdatePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error {
	for i, e := range entries {
		if err := validatePortForward(e); err != nil {
			return errors.NewValidationError(fmt.Sprintf("port forward entry %d", i), err)
		}
	}
	if err := uc.repository.ReplacePortForwards(ctx, entries); err != nil {
		uc.logger.WithError(err).Error("Failed to store port forwards")
		return errors.WrapCollaborator(err, "failed to store port forwards")
	}
	uc.logger.WithField("entry_count", len(entries)).Info("Port forwards updated")
	return nil
}

// GetNatEntries returns the NAT entries
func (uc *FirewallUseCase) GetNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error) {
	entries, err := uc.repository.FindNatEntries(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to read NAT entries")
	}
	return entries, nil
}

// UpdateNatEntries validates and replaces the NAT entries
func (uc *FirewallUseCase) UpdateNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error {
	for i, e := range entries {
		if err := validateNatEntry(e); err != nil {
			return errors.NewValidationError(fmt.Sprintf("NAT entry %d", i), err)
		}
	}
	if err := uc.repository.ReplaceNatEntries(ctx, entries); err != nil {
		uc.logger.WithError(err).Error("Failed to store NAT entries")
		return errors.WrapCollaborator(err, "failed to store NAT entries")
	}
	uc.logger.WithField("entry_count", len(entries)).Info("NAT entries updated")
	return nil
}

func validateOpenPort(e entities.FirewallOpenPortEntry) error {
	if err := validatePortRange(e.PortRange); err != nil {
		return err
	}
	if err := validateProtocol(e.Protocol); err != nil {
		return err
	}
	if e.SourcePortRange != "" {
		if err := validatePortRange(e.SourcePortRange); err != nil {
			return err
		}
	}
	return validateNetwork(e.PermittedNetwork)
}

func validatePortForward(e entities.FirewallPortForwardEntry) error {
	if e.InboundInterface == "" || e.OutboundInterface == "" {
		return fmt.Errorf("inbound and outbound interfaces are required")
	}
	if addr, err := netip.ParseAddr(e.Address); err != nil || !addr.Is4() {
		return fmt.Errorf("invalid forward address %q", e.Address)
	}
	if err := validateProtocol(e.Protocol); err != nil {
		return err
	}
	if !validPort(e.InPort) || !validPort(e.OutPort) {
		return fmt.Errorf("ports must be between 1 and 65535")
	}
	if e.SourcePortRange != "" {
		if err := validatePortRange(e.SourcePortRange); err != nil {
			return err
		}
	}
	return validateNetwork(e.PermittedNetwork)
}

func validateNatEntry(e entities.FirewallNatEntry) error {
	if e.InInterface == "" || e.OutInterface == "" {
		return fmt.Errorf("in and out interfaces are required")
	}
	if e.Protocol != "" && e.Protocol != "all" {
		if err := validateProtocol(e.Protocol); err != nil {
			return err
		}
	}
	if err := validateNetwork(e.SourceNetwork); err != nil {
		return err
	}
	return validateNetwork(e.DestinationNetwork)
}

func validateProtocol(p string) error {
	switch strings.ToLower(p) {
	case "tcp", "udp":
		return nil
	}
	return fmt.Errorf("unsupported protocol %q", p)
}

// validatePortRange accepts "port" or "from:to"
func validatePortRange(r string) error {
	from, to, found := strings.Cut(r, ":")
	low, err := strconv.Atoi(from)
	if err != nil || !validPort(low) {
		return fmt.Errorf("invalid port range %q", r)
	}
	if !found {
		return nil
	}
	high, err := strconv.Atoi(to)
	if err != nil || !validPort(high) || high < low {
		return fmt.Errorf("invalid port range %q", r)
	}
	return nil
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// validateNetwork accepts an empty value or an IPv4 CIDR
func validateNetwork(n string) error {
	if n == "" {
		return nil
	}
	prefix, err := netip.ParsePrefix(n)
	if err != nil || !prefix.Addr().Is4() {
		return fmt.Errorf("invalid network %q", n)
	}
	return nil
}
