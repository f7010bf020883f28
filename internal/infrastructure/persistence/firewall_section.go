package persistence

import (
	"context"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
)

type firewallDocument struct {
	OpenPorts    []entities.FirewallOpenPortEntry    `yaml:"openPorts"`
	PortForwards []entities.FirewallPortForwardEntry `yaml:"portForwards"`
	NAT          []entities.FirewallNatEntry         `yaml:"nat"`
}

// FirewallSection puts the firewall rule lists into configuration snapshots
type FirewallSection struct {
	repo interfaces.FirewallRepository
}

// NewFirewallSection creates a snapshot section backed by repo
func NewFirewallSection(repo interfaces.FirewallRepository) *FirewallSection {
	return &FirewallSection{repo: repo}
}

func (s *FirewallSection) SectionName() string {
	return "firewall"
}

func (s *FirewallSection) Capture(ctx context.Context) (interface{}, error) {
	openPorts, err := s.repo.FindOpenPorts(ctx)
	if err != nil {
		return nil, err
	}
	portForwards, err := s.repo.FindPortForwards(ctx)
	if err != nil {
		return nil, err
	}
	nat, err := s.repo.FindNatEntries(ctx)
	if err != nil {
		return nil, err
	}
	return firewallDocument{OpenPorts: openPorts, PortForwards: portForwards, NAT: nat}, nil
}

// Restore replaces all three rule lists with the decoded ones
func (s *FirewallSection) Restore(ctx context.Context, decode func(v interface{}) error) error {
	var doc firewallDocument
	if err := decode(&doc); err != nil {
		return errors.NewSystemError("failed to decode firewall snapshot", err)
	}

	if err := s.repo.ReplaceOpenPorts(ctx, doc.OpenPorts); err != nil {
		return err
	}
	if err := s.repo.ReplacePortForwards(ctx, doc.PortForwards); err != nil {
		return err
	}
	return s.repo.ReplaceNatEntries(ctx, doc.NAT)
}

var _ interfaces.SnapshotSection = (*FirewallSection)(nil)
