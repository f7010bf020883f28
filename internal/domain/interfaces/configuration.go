package interfaces

import (
	"context"

	"gateway-console/internal/domain/entities"
)

// ConfigurationService owns component configurations and the snapshots of
// the whole device configuration
type ConfigurationService interface {
	// GetSnapshots returns the ids of all stored snapshots in no particular order
	GetSnapshots(ctx context.Context) ([]int64, error)

	// Snapshot stores the current configuration and returns the new snapshot id
	Snapshot(ctx context.Context) (int64, error)

	// Rollback restores and re-applies the configuration saved in snapshot id
	Rollback(ctx context.Context, id int64) error

	// GetComponentConfigurations returns every component configuration
	GetComponentConfigurations(ctx context.Context) ([]entities.ComponentConfiguration, error)

	// UpdateConfiguration replaces the properties of component pid
	UpdateConfiguration(ctx context.Context, pid string, properties map[string]interface{}) error
}

// SnapshotSection is a part of the device configuration that snapshots
// capture and rollback re-applies
type SnapshotSection interface {
	// SectionName keys the section inside a snapshot
	SectionName() string

	// Capture returns the current configuration of the section
	Capture(ctx context.Context) (interface{}, error)

	// Restore re-applies a captured configuration. decode fills a value of
	// the type Capture returns.
	Restore(ctx context.Context, decode func(v interface{}) error) error
}

// PackageManager installs and removes OS packages
type PackageManager interface {
	List(ctx context.Context) ([]entities.PackageInfo, error)
	Install(ctx context.Context, path string) error
	Uninstall(ctx context.Context, name string) error
}
