package adapters

import (
	"context"
	"testing"
	"time"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestSystemPackageManager_ListDpkg(t *testing.T) {
	executor := new(MockCommandExecutor)
	pm := NewSystemPackageManager(executor, interfaces.OSTypeUbuntu, 0)

	executor.On("Execute", mock.Anything, "dpkg-query", []string{"-W", "-f=${Package}\t${Version}\n"}).
		Return([]byte("dnsmasq\t2.86-1.1\nopenssl\t3.0.2-0ubuntu1\n\n"), nil)

	pkgs, err := pm.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.PackageInfo{
		{Name: "dnsmasq", Version: "2.86-1.1"},
		{Name: "openssl", Version: "3.0.2-0ubuntu1"},
	}, pkgs)
}

func TestSystemPackageManager_RPMWithTimeout(t *testing.T) {
	executor := new(MockCommandExecutor)
	pm := NewSystemPackageManager(executor, interfaces.OSTypeRHEL, time.Minute)

	executor.On("ExecuteWithTimeout", mock.Anything, time.Minute, "rpm", []string{"-U", "--replacepkgs", "/tmp/agent.rpm"}).Return([]byte{}, nil)
	executor.On("ExecuteWithTimeout", mock.Anything, time.Minute, "rpm", []string{"-e", "agent"}).Return([]byte{}, nil)

	require.NoError(t, pm.Install(context.Background(), "/tmp/agent.rpm"))
	require.NoError(t, pm.Uninstall(context.Background(), "agent"))
	executor.AssertExpectations(t)
}
