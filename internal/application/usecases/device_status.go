package usecases

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DeviceStatusUseCase collects the gateway summary shown on the status page
type DeviceStatusUseCase struct {
	osDetector interfaces.OSDetector
	links      interfaces.LinkInspector
	fileSystem interfaces.FileSystem
	clock      interfaces.Clock
	procRoot   string
	logger     *logrus.Logger
}

// NewDeviceStatusUseCase creates a DeviceStatusUseCase reading kernel facts below procRoot
func NewDeviceStatusUseCase(
	osDetector interfaces.OSDetector,
	links interfaces.LinkInspector,
	fs interfaces.FileSystem,
	clock interfaces.Clock,
	procRoot string,
	logger *logrus.Logger,
) *DeviceStatusUseCase {
	if procRoot == "" {
		procRoot = constants.ProcRoot
	}
	return &DeviceStatusUseCase{
		osDetector: osDetector,
		links:      links,
		fileSystem: fs,
		clock:      clock,
		procRoot:   procRoot,
		logger:     logger,
	}
}

// Execute returns the device status. Host facts that cannot be read are left
// empty; only the link inventory is required.
func (uc *DeviceStatusUseCase) Execute(ctx context.Context) (*entities.DeviceStatus, error) {
	links, err := uc.links.ListLinks(ctx)
	if err != nil {
		return nil, errors.WrapCollaborator(err, "failed to list network links")
	}

	status := &entities.DeviceStatus{
		Hostname:      uc.readProc("sys/kernel/hostname"),
		KernelVersion: uc.readProc("sys/kernel/osrelease"),
		Uptime:        uc.uptime(),
		Timestamp:     uc.clock.Now(),
		Interfaces:    links,
		OSType:        "unknown",
	}

	if osType, err := uc.osDetector.DetectOS(); err != nil {
		uc.logger.WithError(err).Warn("OS detection failed")
	} else {
		status.OSType = string(osType)
	}

	return status, nil
}

func (uc *DeviceStatusUseCase) readProc(name string) string {
	data, err := uc.fileSystem.ReadFile(filepath.Join(uc.procRoot, name))
	if err != nil {
		uc.logger.WithField("file", name).WithError(err).Debug("Failed to read host fact")
		return ""
	}
	return strings.TrimSpace(string(data))
}

// uptime formats the first field of /proc/uptime, rounded to seconds
func (uc *DeviceStatusUseCase) uptime() string {
	fields := strings.Fields(uc.readProc("uptime"))
	if len(fields) == 0 {
		return ""
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ""
	}
	return (time.Duration(seconds) * time.Second).String()
}
