package services

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/netconf"
)

var addressListSeparator = regexp.MustCompile(`[\s,;\n\t]+`)

// ParseAddressList parses a delimited list of IPv4 addresses. Tokens may be
// separated by whitespace, commas or semicolons; empty tokens are skipped.
// A single malformed token fails the whole list.
func ParseAddressList(s string) ([]netip.Addr, error) {
	var addrs []netip.Addr
	for _, token := range addressListSeparator.Split(s, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		addr, err := ParseAddress(token)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// ParseAddress parses one dotted-quad IPv4 address
func ParseAddress(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return netip.Addr{}, errors.NewConfigurationError(fmt.Sprintf("invalid IPv4 address %q", s), err)
	}
	return addr, nil
}

// ParseNetmask parses a dotted-quad netmask and rejects non-contiguous masks
func ParseNetmask(s string) (netip.Addr, error) {
	mask, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !mask.Is4() {
		return netip.Addr{}, errors.NewConfigurationError(fmt.Sprintf("invalid subnet mask %q", s), err)
	}
	if _, ok := netconf.MaskBits(mask); !ok {
		return netip.Addr{}, errors.NewConfigurationError(fmt.Sprintf("subnet mask %q is not contiguous", s), nil)
	}
	return mask, nil
}

// FormatAddressList joins addresses with the separator the console displays
func FormatAddressList(addrs []netip.Addr) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ",")
}

// formatAddr renders an address, or "" when it is unset
func formatAddr(a netip.Addr) string {
	if !a.IsValid() {
		return ""
	}
	return a.String()
}
