package adapters

import (
	"context"
	"net"
	"path/filepath"
	"sort"
	"strings"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/vishvananda/netlink"
)

// LinkSource is the subset of netlink used to list links. *netlink.Handle
// satisfies it.
type LinkSource interface {
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
}

type defaultLinkSource struct{}

func (defaultLinkSource) LinkList() ([]netlink.Link, error) { return netlink.LinkList() }

func (defaultLinkSource) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

// NetlinkInspector lists kernel links through netlink and classifies their hardware
type NetlinkInspector struct {
	source     LinkSource
	fileSystem interfaces.FileSystem
	sysfsRoot  string
}

// NewNetlinkInspector creates a NetlinkInspector. A nil source uses the
// process's netlink socket.
func NewNetlinkInspector(source LinkSource, fs interfaces.FileSystem, sysfsRoot string) *NetlinkInspector {
	if source == nil {
		source = defaultLinkSource{}
	}
	if sysfsRoot == "" {
		sysfsRoot = constants.SysClassNet
	}
	return &NetlinkInspector{
		source:     source,
		fileSystem: fs,
		sysfsRoot:  sysfsRoot,
	}
}

// ListLinks returns every link sorted by index
func (n *NetlinkInspector) ListLinks(ctx context.Context) ([]entities.LinkInfo, error) {
	links, err := n.source.LinkList()
	if err != nil {
		return nil, errors.NewUnavailableError("failed to list netlink interfaces", err)
	}

	infos := make([]entities.LinkInfo, 0, len(links))
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attrs := link.Attrs()
		info := entities.LinkInfo{
			Name:         attrs.Name,
			Index:        attrs.Index,
			HardwareType: string(n.hardwareType(link)),
			MTU:          attrs.MTU,
			Up:           attrs.OperState == netlink.OperUp || (attrs.OperState == netlink.OperUnknown && attrs.Flags&net.FlagUp != 0),
		}
		if len(attrs.HardwareAddr) > 0 {
			info.HwAddress = attrs.HardwareAddr.String()
		}

		addrs, err := n.source.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return nil, errors.NewUnavailableError("failed to list addresses of "+attrs.Name, err)
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				info.Addresses = append(info.Addresses, addr.IPNet.String())
			}
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Index < infos[j].Index
	})
	return infos, nil
}

func (n *NetlinkInspector) hardwareType(link netlink.Link) netconf.HardwareType {
	name := link.Attrs().Name
	if strings.HasPrefix(name, "ppp") || strings.HasPrefix(name, "wwan") {
		return netconf.HardwareModem
	}
	if n.fileSystem != nil && n.fileSystem.Exists(filepath.Join(n.sysfsRoot, name, "wireless")) {
		return netconf.HardwareWifi
	}
	if link.Type() == "device" && len(link.Attrs().HardwareAddr) > 0 {
		return netconf.HardwareEthernet
	}
	return netconf.HardwareOther
}
