package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultRollbackSettleDelay is how long a rollback waits for the device to
// apply the restored configuration
const DefaultRollbackSettleDelay = 5 * time.Second

// SnapshotMetrics records snapshot operations
type SnapshotMetrics interface {
	RecordSnapshotOperation(operation string, err error)
}

// SnapshotUseCase lists, creates and rolls back configuration snapshots
type SnapshotUseCase struct {
	configService interfaces.ConfigurationService
	clock         interfaces.Clock
	settleDelay   time.Duration
	metrics       SnapshotMetrics
	logger        *logrus.Logger
}

// NewSnapshotUseCase creates a SnapshotUseCase. A non-positive settleDelay
// selects DefaultRollbackSettleDelay.
func NewSnapshotUseCase(
	configService interfaces.ConfigurationService,
	clock interfaces.Clock,
	settleDelay time.Duration,
	metrics SnapshotMetrics,
	logger *logrus.Logger,
) *SnapshotUseCase {
	if settleDelay <= 0 {
		settleDelay = DefaultRollbackSettleDelay
	}
	return &SnapshotUseCase{
		configService: configService,
		clock:         clock,
		settleDelay:   settleDelay,
		metrics:       metrics,
		logger:        logger,
	}
}

// ListSnapshots returns the snapshot ids newest first
func (uc *SnapshotUseCase) ListSnapshots(ctx context.Context) ([]int64, error) {
	ids, err := uc.configService.GetSnapshots(ctx)
	uc.record("list", err)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to list snapshots")
		return nil, errors.WrapCollaborator(err, "failed to list snapshots")
	}

	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] > sorted[j]
	})
	return sorted, nil
}

// CreateSnapshot stores the current configuration and returns the new id
func (uc *SnapshotUseCase) CreateSnapshot(ctx context.Context) (int64, error) {
	id, err := uc.configService.Snapshot(ctx)
	uc.record("create", err)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to create snapshot")
		return 0, errors.WrapCollaborator(err, "failed to create snapshot")
	}

	uc.logger.WithField("snapshot_id", id).Info("Snapshot created")
	return id, nil
}

// Rollback restores snapshot id and then waits the settle delay. The wait
// ends early only when ctx is done.
func (uc *SnapshotUseCase) Rollback(ctx context.Context, id int64) error {
	err := uc.rollback(ctx, id)
	uc.record("rollback", err)
	return err
}

func (uc *SnapshotUseCase) rollback(ctx context.Context, id int64) error {
	logger := uc.logger.WithField("snapshot_id", id)

	if err := uc.configService.Rollback(ctx, id); err != nil {
		logger.WithError(err).Error("Rollback failed")
		return errors.WrapCollaborator(err, fmt.Sprintf("failed to roll back to snapshot %d", id))
	}

	logger.WithField("settle_delay", uc.settleDelay).Info("Rollback applied, waiting for the device to settle")

	select {
	case <-uc.clock.After(uc.settleDelay):
	case <-ctx.Done():
		logger.Warn("Rollback settle wait interrupted")
		return &errors.DomainError{
			Type:    errors.ErrorTypeTimeout,
			Message: fmt.Sprintf("rollback to snapshot %d applied but settle wait was interrupted", id),
			Cause:   ctx.Err(),
		}
	}

	logger.Info("Rollback completed")
	return nil
}

func (uc *SnapshotUseCase) record(operation string, err error) {
	if uc.metrics != nil {
		uc.metrics.RecordSnapshotOperation(operation, err)
	}
}
