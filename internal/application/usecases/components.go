package usecases

import (
	"context"
	"fmt"
	"sort"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// ComponentConfigUseCase lists and updates component configurations
type ComponentConfigUseCase struct {
	configService interfaces.ConfigurationService
	logger        *logrus.Logger
}

// NewComponentConfigUseCase creates a ComponentConfigUseCase
func NewComponentConfigUseCase(configService interfaces.ConfigurationService, logger *logrus.Logger) *ComponentConfigUseCase {
	return &ComponentConfigUseCase{
		configService: configService,
		logger:        logger,
	}
}

// List returns every component configuration sorted by pid
func (uc *ComponentConfigUseCase) List(ctx context.Context) ([]entities.ComponentConfiguration, error) {
	configs, err := uc.configService.GetComponentConfigurations(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to read component configurations")
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].PID < configs[j].PID
	})
	return configs, nil
}

// Update replaces the properties of component pid
func (uc *ComponentConfigUseCase) Update(ctx context.Context, pid string, properties map[string]interface{}) error {
	if pid == "" {
		return errors.NewValidationError("component pid is required", nil)
	}
	if properties == nil {
		return errors.NewValidationError(fmt.Sprintf("properties of %s are required", pid), nil)
	}

	if err := uc.configService.UpdateConfiguration(ctx, pid, properties); err != nil {
		uc.logger.WithField("pid", pid).WithError(err).Error("Failed to update component configuration")
		return errors.WrapCollaborator(err, fmt.Sprintf("failed to update configuration of %s", pid))
	}

	uc.logger.WithFields(logrus.Fields{
		"pid":            pid,
		"property_count": len(properties),
	}).Info("Component configuration updated")
	return nil
}
