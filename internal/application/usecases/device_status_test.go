package usecases

import (
	"context"
	"errors"
	"testing"

	"gateway-console/internal/domain/entities"
	domainErrors "gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeviceStatusUseCase_Execute(t *testing.T) {
	detector := new(MockOSDetector)
	links := new(MockLinkInspector)
	fs := new(MockFileSystem)
	clock := newFakeClock()
	uc := NewDeviceStatusUseCase(detector, links, fs, clock, "/host/proc", newTestLogger())

	inventory := []entities.LinkInfo{{Name: "eth0", Index: 2, HardwareType: "ethernet", MTU: 1500, Up: true, Addresses: []string{"10.0.0.1/24"}}}
	links.On("ListLinks", mock.Anything).Return(inventory, nil)
	detector.On("DetectOS").Return(interfaces.OSTypeUbuntu, nil)
	fs.On("ReadFile", "/host/proc/sys/kernel/hostname").Return([]byte("gw-01\n"), nil)
	fs.On("ReadFile", "/host/proc/sys/kernel/osrelease").Return([]byte("6.1.0-18-arm64\n"), nil)
	fs.On("ReadFile", "/host/proc/uptime").Return([]byte("93784.52 180000.10\n"), nil)

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gw-01", status.Hostname)
	assert.Equal(t, "6.1.0-18-arm64", status.KernelVersion)
	assert.Equal(t, "26h3m4s", status.Uptime)
	assert.Equal(t, "ubuntu", status.OSType)
	assert.Equal(t, clock.now, status.Timestamp)
	assert.Equal(t, inventory, status.Interfaces)
}

func TestDeviceStatusUseCase_DegradesHostFacts(t *testing.T) {
	detector := new(MockOSDetector)
	links := new(MockLinkInspector)
	fs := new(MockFileSystem)
	uc := NewDeviceStatusUseCase(detector, links, fs, newFakeClock(), "", newTestLogger())

	links.On("ListLinks", mock.Anything).Return([]entities.LinkInfo{}, nil)
	detector.On("DetectOS").Return(interfaces.OSType(""), errors.New("no os-release"))
	fs.On("ReadFile", mock.Anything).Return(nil, errors.New("permission denied"))

	status, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unknown", status.OSType)
	assert.Empty(t, status.Hostname)
	assert.Empty(t, status.Uptime)
}

func TestDeviceStatusUseCase_LinkFailure(t *testing.T) {
	links := new(MockLinkInspector)
	uc := NewDeviceStatusUseCase(new(MockOSDetector), links, new(MockFileSystem), newFakeClock(), "", newTestLogger())

	links.On("ListLinks", mock.Anything).Return(nil, errors.New("netlink: operation not permitted"))

	_, err := uc.Execute(context.Background())
	assert.True(t, domainErrors.IsInternalError(err))
}
