package network

import (
	"encoding/binary"
	"net/netip"
	"strings"
)

// lastHost returns the address before the broadcast address of an IPv4 prefix
func lastHost(p netip.Prefix) netip.Addr {
	p = p.Masked()
	base := p.Addr().As4()
	v := binary.BigEndian.Uint32(base[:])
	hostBits := 32 - p.Bits()
	if hostBits < 2 {
		return p.Addr()
	}
	v |= 1<<hostBits - 1
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], v-1)
	return netip.AddrFrom4(out)
}

func joinAddrs(addrs []netip.Addr) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.IsValid() {
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, ",")
}

func addrStrings(addrs []netip.Addr) []string {
	var out []string
	for _, a := range addrs {
		if a.IsValid() {
			out = append(out, a.String())
		}
	}
	return out
}
