package network

import (
	"fmt"
	"time"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/google/nftables"
	"github.com/sirupsen/logrus"
)

// NAT backends
const (
	NATBackendNFTables = "nftables"
	NATBackendNone     = "none"
)

// FactoryOptions are the host paths and switches of the network stack
type FactoryOptions struct {
	StateDir       string
	NetplanDir     string
	DnsmasqDir     string
	NATBackend     string
	CommandTimeout time.Duration
	UseNsenter     bool
}

// AdminServiceFactory builds the network admin service for the detected host OS
type AdminServiceFactory struct {
	osDetector      interfaces.OSDetector
	commandExecutor interfaces.CommandExecutor
	fileSystem      interfaces.FileSystem
	links           interfaces.LinkInspector
	options         FactoryOptions
	logger          *logrus.Logger
}

// NewAdminServiceFactory creates a new AdminServiceFactory
func NewAdminServiceFactory(
	osDetector interfaces.OSDetector,
	executor interfaces.CommandExecutor,
	fs interfaces.FileSystem,
	links interfaces.LinkInspector,
	options FactoryOptions,
	logger *logrus.Logger,
) *AdminServiceFactory {
	return &AdminServiceFactory{
		osDetector:      osDetector,
		commandExecutor: executor,
		fileSystem:      fs,
		links:           links,
		options:         options,
		logger:          logger,
	}
}

// CreateRenderer picks netplan on Ubuntu and nmcli on RHEL
func (f *AdminServiceFactory) CreateRenderer() (HostRenderer, error) {
	osType, err := f.osDetector.DetectOS()
	if err != nil {
		return nil, errors.NewSystemError("failed to detect OS", err)
	}

	f.logger.WithField("os_type", osType).Debug("OS type detected")

	command := hostCommand{
		executor: f.commandExecutor,
		timeout:  f.options.CommandTimeout,
		nsenter:  f.options.UseNsenter,
	}

	switch osType {
	case interfaces.OSTypeUbuntu:
		return NewNetplanRenderer(command, f.fileSystem, f.options.NetplanDir, f.logger), nil
	case interfaces.OSTypeRHEL:
		return NewNMCLIRenderer(command, f.logger), nil
	default:
		return nil, errors.NewSystemError(fmt.Sprintf("unsupported OS type: %s", osType), nil)
	}
}

// CreateNATApplier builds the configured NAT backend
func (f *AdminServiceFactory) CreateNATApplier() (interfaces.NATApplier, error) {
	switch f.options.NATBackend {
	case NATBackendNFTables, "":
		conn, err := nftables.New()
		if err != nil {
			return nil, errors.NewSystemError("failed to open nftables connection", err)
		}
		return NewNFTablesNATApplier(conn, f.commandExecutor, f.options.CommandTimeout, f.logger), nil
	case NATBackendNone:
		return NewNoopNATApplier(f.logger), nil
	default:
		return nil, errors.NewConfigurationError(fmt.Sprintf("unknown NAT backend: %s", f.options.NATBackend), nil)
	}
}

// CreateAdminService wires renderer, NAT backend, DHCP server writer and
// state store into an AdminService
func (f *AdminServiceFactory) CreateAdminService() (*AdminService, error) {
	renderer, err := f.CreateRenderer()
	if err != nil {
		return nil, err
	}

	nat, err := f.CreateNATApplier()
	if err != nil {
		return nil, err
	}

	dhcp := NewDnsmasqWriter(f.options.DnsmasqDir, f.fileSystem, f.commandExecutor, f.options.CommandTimeout, f.logger)
	store := NewStateStore(f.options.StateDir, f.fileSystem)

	return NewAdminService(renderer, store, nat, dhcp, f.links, f.logger), nil
}
