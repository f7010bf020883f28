package network

import (
	"net/netip"
	"testing"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/netconf"
	"gateway-console/internal/infrastructure/adapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_PutGetList(t *testing.T) {
	store := NewStateStore(t.TempDir(), adapters.NewRealFileSystem())

	states, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, states)

	eth1 := netconf.InterfaceState{
		Name:         "eth1",
		HardwareType: netconf.HardwareEthernet,
		AutoConnect:  true,
		IPv4: &netconf.IPv4Config{
			Status:     netconf.StatusLAN,
			Address:    netip.MustParseAddr("192.168.1.1"),
			Netmask:    netip.MustParseAddr("255.255.255.0"),
			DNSServers: []netip.Addr{netip.MustParseAddr("8.8.8.8")},
		},
		DHCPServer: &netconf.DHCPServerConfig{
			InterfaceName: "eth1",
			Enabled:       true,
			Subnet:        netip.MustParsePrefix("192.168.1.0/24"),
			RouterAddress: netip.MustParseAddr("192.168.1.1"),
		},
	}
	eth0 := netconf.InterfaceState{Name: "eth0", HardwareType: netconf.HardwareEthernet}

	require.NoError(t, store.Put(eth1))
	require.NoError(t, store.Put(eth0))

	got, found, err := store.Get("eth1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, eth1.IPv4.Address, got.IPv4.Address)
	assert.Equal(t, eth1.IPv4.DNSServers, got.IPv4.DNSServers)
	assert.Equal(t, eth1.DHCPServer.Subnet, got.DHCPServer.Subnet)
	assert.False(t, got.IPv4.Gateway.IsValid())

	states, err = store.List()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "eth0", states[0].Name)
	assert.Equal(t, "eth1", states[1].Name)

	eth0.MTU = 1400
	require.NoError(t, store.Put(eth0))
	states, err = store.List()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, 1400, states[0].MTU)

	_, found, err = store.Get("wlan0")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStateStore_CorruptFile(t *testing.T) {
	fs := adapters.NewRealFileSystem()
	store := NewStateStore(t.TempDir(), fs)
	require.NoError(t, fs.WriteFile(store.Path(), []byte("interfaces: [:"), 0600))

	_, err := store.List()
	require.Error(t, err)
	assert.True(t, errors.IsSystemError(err))
}
