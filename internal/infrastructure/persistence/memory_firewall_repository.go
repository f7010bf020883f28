package persistence

import (
	"context"
	"sync"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/interfaces"
)

// MemoryFirewallRepository keeps firewall rule lists in process memory
type MemoryFirewallRepository struct {
	mu           sync.RWMutex
	openPorts    []entities.FirewallOpenPortEntry
	portForwards []entities.FirewallPortForwardEntry
	natEntries   []entities.FirewallNatEntry
}

// NewMemoryFirewallRepository creates an empty MemoryFirewallRepository
func NewMemoryFirewallRepository() *MemoryFirewallRepository {
	return &MemoryFirewallRepository{}
}

func (r *MemoryFirewallRepository) FindOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.FirewallOpenPortEntry{}, r.openPorts...), nil
}

func (r *MemoryFirewallRepository) ReplaceOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openPorts = append([]entities.FirewallOpenPortEntry(nil), entries...)
	return nil
}

func (r *MemoryFirewallRepository) FindPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.FirewallPortForwardEntry{}, r.portForwards...), nil
}

func (r *MemoryFirewallRepository) ReplacePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.portForwards = append([]entities.FirewallPortForwardEntry(nil), entries...)
	return nil
}

func (r *MemoryFirewallRepository) FindNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.FirewallNatEntry{}, r.natEntries...), nil
}

func (r *MemoryFirewallRepository) ReplaceNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.natEntries = append([]entities.FirewallNatEntry(nil), entries...)
	return nil
}

// Ping always succeeds
func (r *MemoryFirewallRepository) Ping(ctx context.Context) error {
	return nil
}

var _ interfaces.FirewallRepository = (*MemoryFirewallRepository)(nil)
