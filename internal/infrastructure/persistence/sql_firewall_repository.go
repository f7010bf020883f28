package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// The schema only uses types and clauses understood by both MySQL and SQLite.
// Rows keep the order of the submitted list through their position column.
var firewallSchema = []string{
	`CREATE TABLE IF NOT EXISTS firewall_open_ports (
		position INT NOT NULL PRIMARY KEY,
		port_range VARCHAR(32) NOT NULL,
		protocol VARCHAR(8) NOT NULL,
		permitted_network VARCHAR(64) NOT NULL DEFAULT '',
		permitted_interface VARCHAR(16) NOT NULL DEFAULT '',
		unpermitted_interface VARCHAR(16) NOT NULL DEFAULT '',
		permitted_mac VARCHAR(17) NOT NULL DEFAULT '',
		source_port_range VARCHAR(32) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS firewall_port_forwards (
		position INT NOT NULL PRIMARY KEY,
		inbound_interface VARCHAR(16) NOT NULL,
		outbound_interface VARCHAR(16) NOT NULL,
		address VARCHAR(45) NOT NULL,
		protocol VARCHAR(8) NOT NULL,
		in_port INT NOT NULL,
		out_port INT NOT NULL,
		masquerade BOOLEAN NOT NULL DEFAULT FALSE,
		permitted_network VARCHAR(64) NOT NULL DEFAULT '',
		permitted_mac VARCHAR(17) NOT NULL DEFAULT '',
		source_port_range VARCHAR(32) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS firewall_nat_entries (
		position INT NOT NULL PRIMARY KEY,
		in_interface VARCHAR(16) NOT NULL,
		out_interface VARCHAR(16) NOT NULL,
		protocol VARCHAR(8) NOT NULL DEFAULT '',
		source_network VARCHAR(64) NOT NULL DEFAULT '',
		destination_network VARCHAR(64) NOT NULL DEFAULT '',
		masquerade BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

// SQLFirewallRepository stores firewall rule lists in MySQL or SQLite
type SQLFirewallRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewSQLFirewallRepository creates a SQLFirewallRepository on db
func NewSQLFirewallRepository(db *sql.DB, logger *logrus.Logger) *SQLFirewallRepository {
	return &SQLFirewallRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the firewall tables when they are missing
func (r *SQLFirewallRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range firewallSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewSystemError("failed to create firewall schema", err)
		}
	}
	return nil
}

// Ping checks the database connection
func (r *SQLFirewallRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.NewUnavailableError("firewall database unreachable", err)
	}
	return nil
}

// FindOpenPorts returns the open-port entries in stored order
func (r *SQLFirewallRepository) FindOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error) {
	query := `
		SELECT port_range, protocol, permitted_network, permitted_interface,
			unpermitted_interface, permitted_mac, source_port_range
		FROM firewall_open_ports
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewSystemError("failed to query open ports", err)
	}
	defer rows.Close()

	entries := []entities.FirewallOpenPortEntry{}
	for rows.Next() {
		var e entities.FirewallOpenPortEntry
		if err := rows.Scan(
			&e.PortRange,
			&e.Protocol,
			&e.PermittedNetwork,
			&e.PermittedInterfaceName,
			&e.UnpermittedInterface,
			&e.PermittedMAC,
			&e.SourcePortRange,
		); err != nil {
			return nil, errors.NewSystemError("failed to scan open port", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewSystemError("failed to read open ports", err)
	}
	return entries, nil
}

// ReplaceOpenPorts swaps the open-port list in one transaction
func (r *SQLFirewallRepository) ReplaceOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error {
	insert := `
		INSERT INTO firewall_open_ports (position, port_range, protocol, permitted_network,
			permitted_interface, unpermitted_interface, permitted_mac, source_port_range)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.replace(ctx, "firewall_open_ports", len(entries), func(tx *sql.Tx) error {
		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, insert, i,
				e.PortRange, e.Protocol, e.PermittedNetwork, e.PermittedInterfaceName,
				e.UnpermittedInterface, e.PermittedMAC, e.SourcePortRange,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindPortForwards returns the port-forward entries in stored order
func (r *SQLFirewallRepository) FindPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error) {
	query := `
		SELECT inbound_interface, outbound_interface, address, protocol, in_port, out_port,
			masquerade, permitted_network, permitted_mac, source_port_range
		FROM firewall_port_forwards
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewSystemError("failed to query port forwards", err)
	}
	defer rows.Close()

	entries := []entities.FirewallPortForwardEntry{}
	for rows.Next() {
		var e entities.FirewallPortForwardEntry
		if err := rows.Scan(
			&e.InboundInterface,
			&e.OutboundInterface,
			&e.Address,
			&e.Protocol,
			&e.InPort,
			&e.OutPort,
			&e.Masquerade,
			&e.PermittedNetwork,
			&e.PermittedMAC,
			&e.SourcePortRange,
		); err != nil {
			return nil, errors.NewSystemError("failed to scan port forward", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewSystemError("failed to read port forwards", err)
	}
	return entries, nil
}

// ReplacePortForwards swaps the port-forward list in one transaction
func (r *SQLFirewallRepository) ReplacePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error {
	insert := `
		INSERT INTO firewall_port_forwards (position, inbound_interface, outbound_interface, address,
			protocol, in_port, out_port, masquerade, permitted_network, permitted_mac, source_port_range)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.replace(ctx, "firewall_port_forwards", len(entries), func(tx *sql.Tx) error {
		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, insert, i,
				e.InboundInterface, e.OutboundInterface, e.Address, e.Protocol, e.InPort, e.OutPort,
				e.Masquerade, e.PermittedNetwork, e.PermittedMAC, e.SourcePortRange,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindNatEntries returns the NAT entries in stored order
func (r *SQLFirewallRepository) FindNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error) {
	query := `
		SELECT in_interface, out_interface, protocol, source_network, destination_network, masquerade
		FROM firewall_nat_entries
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewSystemError("failed to query NAT entries", err)
	}
	defer rows.Close()

	entries := []entities.FirewallNatEntry{}
	for rows.Next() {
		var e entities.FirewallNatEntry
		if err := rows.Scan(
			&e.InInterface,
			&e.OutInterface,
			&e.Protocol,
			&e.SourceNetwork,
			&e.DestinationNetwork,
			&e.Masquerade,
		); err != nil {
			return nil, errors.NewSystemError("failed to scan NAT entry", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewSystemError("failed to read NAT entries", err)
	}
	return entries, nil
}

// ReplaceNatEntries swaps the NAT list in one transaction
func (r *SQLFirewallRepository) ReplaceNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error {
	insert := `
		INSERT INTO firewall_nat_entries (position, in_interface, out_interface, protocol,
			source_network, destination_network, masquerade)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return r.replace(ctx, "firewall_nat_entries", len(entries), func(tx *sql.Tx) error {
		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, insert, i,
				e.InInterface, e.OutInterface, e.Protocol, e.SourceNetwork, e.DestinationNetwork, e.Masquerade,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace clears table and runs fill inside a single transaction
func (r *SQLFirewallRepository) replace(ctx context.Context, table string, count int, fill func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewSystemError("failed to begin transaction", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		tx.Rollback()
		return errors.NewSystemError(fmt.Sprintf("failed to clear %s", table), err)
	}

	if err := fill(tx); err != nil {
		tx.Rollback()
		return errors.NewSystemError(fmt.Sprintf("failed to write %s", table), err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to commit %s", table), err)
	}

	r.logger.WithFields(logrus.Fields{
		"table": table,
		"count": count,
	}).Info("Firewall entries replaced")
	return nil
}

var _ interfaces.FirewallRepository = (*SQLFirewallRepository)(nil)
