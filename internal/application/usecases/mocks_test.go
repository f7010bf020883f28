package usecases

import (
	"context"
	"os"
	"time"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/stretchr/testify/mock"
)

// MockNetworkAdminService is a mock of interfaces.NetworkAdminService
type MockNetworkAdminService struct {
	mock.Mock
}

func (m *MockNetworkAdminService) GetNetworkInterfaceConfigs(ctx context.Context) ([]netconf.InterfaceState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netconf.InterfaceState), args.Error(1)
}

func (m *MockNetworkAdminService) UpdateEthernetInterfaceConfig(ctx context.Context, name string, autoConnect bool, mtu int, configs []netconf.Config) error {
	args := m.Called(ctx, name, autoConnect, mtu, configs)
	return args.Error(0)
}

func (m *MockNetworkAdminService) UpdateWifiInterfaceConfig(ctx context.Context, name string, autoConnect bool, configs []netconf.Config) error {
	args := m.Called(ctx, name, autoConnect, configs)
	return args.Error(0)
}

func (m *MockNetworkAdminService) UpdateModemInterfaceConfig(ctx context.Context, name string, modemID string, pppNumber int, configs []netconf.Config) error {
	args := m.Called(ctx, name, modemID, pppNumber, configs)
	return args.Error(0)
}

// MockConfigurationService is a mock of interfaces.ConfigurationService
type MockConfigurationService struct {
	mock.Mock
}

func (m *MockConfigurationService) GetSnapshots(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockConfigurationService) Snapshot(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConfigurationService) Rollback(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConfigurationService) GetComponentConfigurations(ctx context.Context) ([]entities.ComponentConfiguration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ComponentConfiguration), args.Error(1)
}

func (m *MockConfigurationService) UpdateConfiguration(ctx context.Context, pid string, properties map[string]interface{}) error {
	args := m.Called(ctx, pid, properties)
	return args.Error(0)
}

// MockFirewallRepository is a mock of interfaces.FirewallRepository
type MockFirewallRepository struct {
	mock.Mock
}

func (m *MockFirewallRepository) FindOpenPorts(ctx context.Context) ([]entities.FirewallOpenPortEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FirewallOpenPortEntry), args.Error(1)
}

func (m *MockFirewallRepository) ReplaceOpenPorts(ctx context.Context, entries []entities.FirewallOpenPortEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockFirewallRepository) FindPortForwards(ctx context.Context) ([]entities.FirewallPortForwardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FirewallPortForwardEntry), args.Error(1)
}

func (m *MockFirewallRepository) ReplacePortForwards(ctx context.Context, entries []entities.FirewallPortForwardEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockFirewallRepository) FindNatEntries(ctx context.Context) ([]entities.FirewallNatEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FirewallNatEntry), args.Error(1)
}

func (m *MockFirewallRepository) ReplaceNatEntries(ctx context.Context, entries []entities.FirewallNatEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockFirewallRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLinkInspector is a mock of interfaces.LinkInspector
type MockLinkInspector struct {
	mock.Mock
}

func (m *MockLinkInspector) ListLinks(ctx context.Context) ([]entities.LinkInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LinkInfo), args.Error(1)
}

// MockPackageManager is a mock of interfaces.PackageManager
type MockPackageManager struct {
	mock.Mock
}

func (m *MockPackageManager) List(ctx context.Context) ([]entities.PackageInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PackageInfo), args.Error(1)
}

func (m *MockPackageManager) Install(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockPackageManager) Uninstall(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockFileSystem is a mock of interfaces.FileSystem
type MockFileSystem struct {
	mock.Mock
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	args := m.Called(path, data, perm)
	return args.Error(0)
}

func (m *MockFileSystem) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	args := m.Called(path, perm)
	return args.Error(0)
}

func (m *MockFileSystem) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFileSystem) ListFiles(path string) ([]string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCommandExecutor is a mock of interfaces.CommandExecutor
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	callArgs := m.Called(ctx, command, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

func (m *MockCommandExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error) {
	callArgs := m.Called(ctx, timeout, command, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

// MockOSDetector is a mock of interfaces.OSDetector
type MockOSDetector struct {
	mock.Mock
}

func (m *MockOSDetector) DetectOS() (interfaces.OSType, error) {
	args := m.Called()
	return args.Get(0).(interfaces.OSType), args.Error(1)
}

// fakeClock hands out a channel the test controls
type fakeClock struct {
	now   time.Time
	fire  chan time.Time
	delay chan time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		fire:  make(chan time.Time, 1),
		delay: make(chan time.Duration, 1),
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.delay <- d
	return c.fire
}
