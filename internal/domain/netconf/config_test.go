package netconf

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskBits(t *testing.T) {
	tests := []struct {
		mask   string
		bits   int
		wantOK bool
	}{
		{"255.255.255.0", 24, true},
		{"255.255.0.0", 16, true},
		{"255.255.255.255", 32, true},
		{"0.0.0.0", 0, true},
		{"255.255.255.252", 30, true},
		{"255.0.255.0", 0, false},
		{"255.255.255.1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.mask, func(t *testing.T) {
			bits, ok := MaskBits(netip.MustParseAddr(tt.mask))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.bits, bits)
				assert.Equal(t, tt.mask, MaskFromBits(bits).String())
			}
		})
	}
}

func TestIPv4Config_Prefix(t *testing.T) {
	cfg := &IPv4Config{
		Address: netip.MustParseAddr("10.0.0.1"),
		Netmask: netip.MustParseAddr("255.255.255.0"),
	}
	prefix, ok := cfg.Prefix()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1/24", prefix.String())

	_, ok = (&IPv4Config{Address: netip.MustParseAddr("10.0.0.1")}).Prefix()
	assert.False(t, ok)
}

func TestInterfaceState_RoundTrip(t *testing.T) {
	ipv4 := &IPv4Config{Status: StatusLAN, AutoConnect: true}
	nat := &NATConfig{SourceInterface: "eth0", DestinationInterface: UnknownInterface, Masquerade: true}
	dhcp := &DHCPServerConfig{InterfaceName: "eth0", Enabled: true}

	state := NewInterfaceState("eth0", HardwareEthernet, true, 1500, []Config{ipv4, dhcp, nat})

	assert.Same(t, ipv4, state.IPv4)
	assert.Same(t, dhcp, state.DHCPServer)
	assert.Same(t, nat, state.NAT)
	assert.Nil(t, state.Wifi)
	assert.Equal(t, []Config{ipv4, dhcp, nat}, state.Configs())
}
