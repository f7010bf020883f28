package network

import (
	"context"
	"fmt"
	"net/netip"
	"path/filepath"
	"testing"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"
	"gateway-console/internal/infrastructure/adapters"
	"gateway-console/internal/infrastructure/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	service  *AdminService
	renderer *fakeRenderer
	nat      *fakeNAT
	dhcp     *fakeDHCP
	links    *fakeLinks
	store    *StateStore
}

func newAdminFixture(t *testing.T) *adminFixture {
	f := &adminFixture{
		renderer: &fakeRenderer{},
		nat:      &fakeNAT{},
		dhcp:     &fakeDHCP{},
		links:    &fakeLinks{},
		store:    NewStateStore(t.TempDir(), adapters.NewRealFileSystem()),
	}
	f.service = NewAdminService(f.renderer, f.store, f.nat, f.dhcp, f.links, newTestLogger())
	return f
}

func wanIPv4() *netconf.IPv4Config {
	return &netconf.IPv4Config{Status: netconf.StatusWAN, AutoConnect: true, DHCP: true}
}

func TestAdminService_UpdateEthernet_ResolvesUnknownNATDestination(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth0", true, 0, []netconf.Config{wanIPv4()}))

	dhcp := &netconf.DHCPServerConfig{
		InterfaceName: "eth1",
		Enabled:       true,
		Subnet:        netip.MustParsePrefix("192.168.1.0/24"),
		RouterAddress: netip.MustParseAddr("192.168.1.1"),
	}
	configs := []netconf.Config{
		&netconf.IPv4Config{
			Status:      netconf.StatusLAN,
			AutoConnect: true,
			Address:     netip.MustParseAddr("192.168.1.1"),
			Netmask:     netip.MustParseAddr("255.255.255.0"),
		},
		dhcp,
		&netconf.NATConfig{SourceInterface: "eth1", DestinationInterface: netconf.UnknownInterface, Masquerade: true},
	}
	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth1", true, 1500, configs))

	require.Len(t, f.renderer.rendered, 2)
	rendered := f.renderer.rendered[1]
	assert.Equal(t, "eth1", rendered.Name)
	assert.Equal(t, 1500, rendered.MTU)
	assert.True(t, rendered.AutoConnect)

	assert.Same(t, dhcp, f.dhcp.configs["eth1"])
	assert.Nil(t, f.dhcp.configs["eth0"])
	assert.Equal(t, []netconf.NATConfig{
		{SourceInterface: "eth1", DestinationInterface: "eth0", Masquerade: true},
	}, f.nat.calls["eth1"])
	assert.Empty(t, f.nat.calls["eth0"])

	stored, found, err := f.store.Get("eth1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, netconf.UnknownInterface, stored.NAT.DestinationInterface, "the placeholder is stored, not the resolved name")
}

func TestAdminService_UpdateEthernet_NoWANKeepsPlaceholder(t *testing.T) {
	f := newAdminFixture(t)

	configs := []netconf.Config{
		&netconf.IPv4Config{Status: netconf.StatusLAN},
		&netconf.NATConfig{SourceInterface: "eth1", DestinationInterface: netconf.UnknownInterface, Masquerade: true},
	}
	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(context.Background(), "eth1", true, 0, configs))
	assert.Equal(t, netconf.UnknownInterface, f.nat.calls["eth1"][0].DestinationInterface)
}

func TestAdminService_RenderFailureStoresNothing(t *testing.T) {
	f := newAdminFixture(t)
	f.renderer.err = errors.NewNetworkError("netplan apply failed", fmt.Errorf("exit status 1"))

	err := f.service.UpdateEthernetInterfaceConfig(context.Background(), "eth0", true, 0, []netconf.Config{wanIPv4()})
	require.Error(t, err)
	assert.True(t, errors.IsNetworkError(err))

	_, found, err := f.store.Get("eth0")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, f.dhcp.configs)
}

func TestAdminService_UpdateWifi(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	err := f.service.UpdateWifiInterfaceConfig(ctx, "wlan0", true, []netconf.Config{wanIPv4()})
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	wifi := &netconf.WifiConfig{Mode: netconf.WifiModeStation, SSID: "office"}
	require.NoError(t, f.service.UpdateWifiInterfaceConfig(ctx, "wlan0", true, []netconf.Config{wanIPv4(), wifi}))
	assert.Equal(t, netconf.HardwareWifi, f.renderer.rendered[0].HardwareType)
	assert.Same(t, wifi, f.renderer.rendered[0].Wifi)
}

func TestAdminService_UpdateModem(t *testing.T) {
	f := newAdminFixture(t)

	modem := &netconf.ModemConfig{APN: "internet", Enabled: true}
	ipv4 := &netconf.IPv4Config{Status: netconf.StatusWAN, AutoConnect: true, DHCP: true}
	require.NoError(t, f.service.UpdateModemInterfaceConfig(context.Background(), "ppp0", "1-1.2", 0, []netconf.Config{ipv4, modem}))

	rendered := f.renderer.rendered[0]
	assert.Equal(t, "1-1.2", rendered.Modem.ModemID)
	assert.Equal(t, 0, rendered.Modem.PPPNumber)
	assert.True(t, rendered.AutoConnect)
	assert.Empty(t, modem.ModemID, "caller's config is not modified")
}

func TestAdminService_GetNetworkInterfaceConfigs(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth0", true, 0, []netconf.Config{wanIPv4()}))

	f.links.links = []entities.LinkInfo{
		{Name: "lo", HardwareType: "other", MTU: 65536, Up: true},
		{Name: "eth0", HardwareType: "ethernet", HwAddress: "00:11:22:33:44:55", MTU: 1500, Up: true},
		{Name: "wlan0", HardwareType: "wifi", HwAddress: "66:77:88:99:aa:bb", MTU: 1500},
	}

	states, err := f.service.GetNetworkInterfaceConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, "eth0", states[0].Name)
	assert.True(t, states[0].Up)
	assert.Equal(t, "00:11:22:33:44:55", states[0].HwAddress)
	assert.Equal(t, 1500, states[0].MTU)
	require.NotNil(t, states[0].IPv4)
	assert.Equal(t, netconf.StatusWAN, states[0].IPv4.Status)

	assert.Equal(t, "wlan0", states[1].Name)
	assert.Equal(t, netconf.HardwareWifi, states[1].HardwareType)
	assert.False(t, states[1].Up)
	assert.Nil(t, states[1].IPv4)
}

func TestAdminService_GetNetworkInterfaceConfigs_LinkError(t *testing.T) {
	f := newAdminFixture(t)
	f.links.err = errors.NewUnavailableError("netlink unavailable", nil)

	_, err := f.service.GetNetworkInterfaceConfigs(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailableError(err))
}

func TestAdminServiceFactory_CreateNATApplier(t *testing.T) {
	factory := NewAdminServiceFactory(nil, nil, nil, nil, FactoryOptions{NATBackend: NATBackendNone}, newTestLogger())
	nat, err := factory.CreateNATApplier()
	require.NoError(t, err)
	assert.IsType(t, &NoopNATApplier{}, nat)

	factory = NewAdminServiceFactory(nil, nil, nil, nil, FactoryOptions{NATBackend: "iptables"}, newTestLogger())
	_, err = factory.CreateNATApplier()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

type fixedOS struct {
	osType interfaces.OSType
	err    error
}

func (o fixedOS) DetectOS() (interfaces.OSType, error) {
	return o.osType, o.err
}

func TestAdminServiceFactory_CreateRenderer(t *testing.T) {
	tests := []struct {
		name    string
		os      fixedOS
		backend string
		wantErr bool
	}{
		{name: "ubuntu uses netplan", os: fixedOS{osType: interfaces.OSTypeUbuntu}, backend: "netplan"},
		{name: "rhel uses nmcli", os: fixedOS{osType: interfaces.OSTypeRHEL}, backend: "nmcli"},
		{name: "unsupported os", os: fixedOS{osType: "suse"}, wantErr: true},
		{name: "detection failure", os: fixedOS{err: fmt.Errorf("no os-release")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewAdminServiceFactory(tt.os, newRecordingExecutor(), adapters.NewRealFileSystem(), &fakeLinks{}, FactoryOptions{}, newTestLogger())
			renderer, err := factory.CreateRenderer()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsSystemError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.backend, renderer.Backend())
		})
	}
}

func lanIPv4(addr string) *netconf.IPv4Config {
	return &netconf.IPv4Config{
		Status:      netconf.StatusLAN,
		AutoConnect: true,
		Address:     netip.MustParseAddr(addr),
		Netmask:     netip.MustParseAddr("255.255.255.0"),
	}
}

func TestAdminService_FailedApplyRestoresPreviousState(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth1", true, 1500, []netconf.Config{lanIPv4("192.168.1.1")}))
	previous, found, err := f.store.Get("eth1")
	require.NoError(t, err)
	require.True(t, found)

	f.dhcp.errs = []error{errors.NewSystemError("failed to write dnsmasq config", fmt.Errorf("read-only file system"))}
	err = f.service.UpdateEthernetInterfaceConfig(ctx, "eth1", true, 1500, []netconf.Config{lanIPv4("10.0.0.1")})
	require.Error(t, err)
	assert.True(t, errors.IsSystemError(err))

	require.Len(t, f.renderer.rendered, 3)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), f.renderer.rendered[1].IPv4.Address)
	assert.Equal(t, previous, f.renderer.rendered[2])

	stored, _, err := f.store.Get("eth1")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.168.1.1"), stored.IPv4.Address)
	assert.Contains(t, f.dhcp.configs, "eth1")
	assert.Nil(t, f.dhcp.configs["eth1"])
}

func TestAdminService_FailedFirstApplyClearsServices(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	f.dhcp.errs = []error{errors.NewSystemError("failed to write dnsmasq config", nil)}

	configs := []netconf.Config{
		lanIPv4("192.168.1.1"),
		&netconf.NATConfig{SourceInterface: "eth1", DestinationInterface: netconf.UnknownInterface, Masquerade: true},
	}
	require.Error(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth1", true, 0, configs))

	assert.Len(t, f.renderer.rendered, 1)
	assert.Contains(t, f.nat.calls, "eth1")
	assert.Empty(t, f.nat.calls["eth1"])
	_, found, err := f.store.Get("eth1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdminService_RestoreNATKeepsEveryInterfaceAfterRestart(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}
	store := NewStateStore(t.TempDir(), adapters.NewRealFileSystem())
	natConfig := func(src string) []netconf.Config {
		return []netconf.Config{
			lanIPv4("192.168.1.1"),
			&netconf.NATConfig{SourceInterface: src, DestinationInterface: netconf.UnknownInterface, Masquerade: true},
		}
	}

	first := NewAdminService(&fakeRenderer{}, store,
		NewNFTablesNATApplier(conn, newRecordingExecutor(), 0, newTestLogger()),
		&fakeDHCP{}, &fakeLinks{}, newTestLogger())
	require.NoError(t, first.UpdateEthernetInterfaceConfig(ctx, "eth0", true, 0, []netconf.Config{wanIPv4()}))
	require.NoError(t, first.UpdateEthernetInterfaceConfig(ctx, "eth1", true, 0, natConfig("eth1")))
	require.Len(t, conn.rules, 1)

	// a restarted process starts with an empty applier on the same kernel table
	restarted := NewAdminService(&fakeRenderer{}, store,
		NewNFTablesNATApplier(conn, newRecordingExecutor(), 0, newTestLogger()),
		&fakeDHCP{}, &fakeLinks{}, newTestLogger())
	require.NoError(t, restarted.RestoreNAT(ctx))
	assert.Len(t, conn.rules, 1)

	require.NoError(t, restarted.UpdateEthernetInterfaceConfig(ctx, "eth2", true, 0, natConfig("eth2")))
	assert.Len(t, conn.rules, 2)
}

func TestAdminService_RollbackReappliesInterfaceStates(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	root := t.TempDir()

	configStore, err := services.NewConfigurationStore(adapters.NewRealFileSystem(), adapters.NewRealClock(), newTestLogger(),
		filepath.Join(root, "state"), filepath.Join(root, "snapshots"), 5, f.service)
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth0", true, 1500, []netconf.Config{lanIPv4("192.168.1.1")}))
	id, err := configStore.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateEthernetInterfaceConfig(ctx, "eth0", true, 1500, []netconf.Config{lanIPv4("10.0.0.1")}))
	require.NoError(t, configStore.Rollback(ctx, id))

	stored, found, err := f.store.Get("eth0")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, netip.MustParseAddr("192.168.1.1"), stored.IPv4.Address)
	assert.Equal(t, 1500, stored.MTU)

	last := f.renderer.rendered[len(f.renderer.rendered)-1]
	assert.Equal(t, "eth0", last.Name)
	assert.Equal(t, netip.MustParseAddr("192.168.1.1"), last.IPv4.Address)
}

func TestAdminService_RestoreAppliesWANFirst(t *testing.T) {
	f := newAdminFixture(t)
	states := []netconf.InterfaceState{
		{Name: "eth1", HardwareType: netconf.HardwareEthernet, IPv4: lanIPv4("192.168.1.1"),
			NAT: &netconf.NATConfig{SourceInterface: "eth1", DestinationInterface: netconf.UnknownInterface, Masquerade: true}},
		{Name: "eth0", HardwareType: netconf.HardwareEthernet, IPv4: wanIPv4()},
	}

	require.NoError(t, f.service.Restore(context.Background(), func(v interface{}) error {
		*(v.(*[]netconf.InterfaceState)) = states
		return nil
	}))

	require.Len(t, f.renderer.rendered, 2)
	assert.Equal(t, "eth0", f.renderer.rendered[0].Name)
	assert.Equal(t, "eth0", f.nat.calls["eth1"][0].DestinationInterface)
}
