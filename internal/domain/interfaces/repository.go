package interfaces

import (
	"context"

	"gateway-console/internal/domain/entities"
)

// FirewallRepository stores the console's firewall rule lists. Replace calls
// swap the whole list atomically.
type FirewallRepository interface {
	FindOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error)
	ReplaceOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error

	FindPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error)
	ReplacePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error

	FindNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error)
	ReplaceNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error

	// Ping checks the backing store
	Ping(ctx context.Context) error
}
