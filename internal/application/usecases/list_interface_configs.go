package usecases

import (
	"context"
	"fmt"
	"sort"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/services"

	"github.com/sirupsen/logrus"
)

// ListInterfaceConfigsUseCase reads the applied interface configurations
// back into flat console records
type ListInterfaceConfigsUseCase struct {
	networkAdmin interfaces.NetworkAdminService
	logger       *logrus.Logger
}

// NewListInterfaceConfigsUseCase creates a ListInterfaceConfigsUseCase
func NewListInterfaceConfigsUseCase(networkAdmin interfaces.NetworkAdminService, logger *logrus.Logger) *ListInterfaceConfigsUseCase {
	return &ListInterfaceConfigsUseCase{
		networkAdmin: networkAdmin,
		logger:       logger,
	}
}

// ListInterfaceConfigsInput optionally narrows the result to one interface
type ListInterfaceConfigsInput struct {
	Name string
}

// ListInterfaceConfigsOutput holds the records sorted by interface name
type ListInterfaceConfigsOutput struct {
	Interfaces []entities.NetworkInterfaceConfig
}

// Execute lists the interface records. With a name set, a missing interface
// is a NOT_FOUND error.
func (uc *ListInterfaceConfigsUseCase) Execute(ctx context.Context, input ListInterfaceConfigsInput) (*ListInterfaceConfigsOutput, error) {
	states, err := uc.networkAdmin.GetNetworkInterfaceConfigs(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to read interface configurations")
		return nil, errors.WrapCollaborator(err, "failed to read interface configurations")
	}

	records := make([]entities.NetworkInterfaceConfig, 0, len(states))
	for _, state := range states {
		if input.Name != "" && state.Name != input.Name {
			continue
		}
		records = append(records, services.ToInterfaceConfig(state))
	}

	if input.Name != "" && len(records) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s not found", input.Name))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	uc.logger.WithField("interface_count", len(records)).Debug("Interface configurations read")

	return &ListInterfaceConfigsOutput{Interfaces: records}, nil
}
