package container

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"gateway-console/internal/application/usecases"
	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/infrastructure/adapters"
	"gateway-console/internal/infrastructure/config"
	"gateway-console/internal/infrastructure/health"
	"gateway-console/internal/infrastructure/metrics"
	"gateway-console/internal/infrastructure/network"
	"gateway-console/internal/infrastructure/persistence"
	"gateway-console/internal/infrastructure/rpc"
	"gateway-console/internal/infrastructure/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Container wires the console's adapters, stores, use cases and HTTP server
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// adapters
	fileSystem      interfaces.FileSystem
	commandExecutor interfaces.CommandExecutor
	clock           interfaces.Clock
	osDetector      interfaces.OSDetector
	links           interfaces.LinkInspector
	osType          interfaces.OSType

	// services
	metrics       *metrics.Metrics
	healthService *health.HealthService
	configStore   *services.ConfigurationStore
	networkAdmin  *network.AdminService

	// firewall store
	firewallRepository interfaces.FirewallRepository
	db                 *sql.DB

	// use cases
	listInterfacesUseCase  *usecases.ListInterfaceConfigsUseCase
	updateInterfaceUseCase *usecases.UpdateInterfaceConfigUseCase
	snapshotUseCase        *usecases.SnapshotUseCase
	firewallUseCase        *usecases.FirewallUseCase
	componentUseCase       *usecases.ComponentConfigUseCase
	deviceStatusUseCase    *usecases.DeviceStatusUseCase
	packageUseCase         *usecases.PackageUseCase
	certificateUseCase     *usecases.CertificateUseCase

	server *rpc.Server
}

// NewContainer builds every component from cfg. ctx bounds the startup
// database connection and the replay of stored NAT rules.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		config: cfg,
		logger: logger,
	}

	if err := c.initializeInfrastructure(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initializeServices(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.initializeUseCases()
	c.initializeServer()

	return c, nil
}

func (c *Container) initializeInfrastructure(ctx context.Context) error {
	c.fileSystem = adapters.NewRealFileSystem()
	c.commandExecutor = adapters.NewRealCommandExecutor()
	c.clock = adapters.NewRealClock()
	c.osDetector = adapters.NewRealOSDetector(c.fileSystem, c.config.Network.OSReleaseFile)
	c.links = adapters.NewNetlinkInspector(nil, c.fileSystem, "")
	c.metrics = metrics.New()

	osType, err := c.osDetector.DetectOS()
	if err != nil {
		return err
	}
	c.osType = osType

	return c.initializeFirewallRepository(ctx)
}

func (c *Container) initializeFirewallRepository(ctx context.Context) error {
	switch c.config.Firewall.Backend {
	case config.FirewallBackendMemory:
		c.firewallRepository = persistence.NewMemoryFirewallRepository()
		return nil
	case config.FirewallBackendSQLite:
		db, err := persistence.OpenSQLite(ctx, c.config.Firewall.SQLitePath)
		if err != nil {
			return err
		}
		c.db = db
	case config.FirewallBackendMySQL:
		dbCfg := c.config.Database
		opts := persistence.MySQLOptions{
			Host:         dbCfg.Host,
			Port:         dbCfg.Port,
			User:         dbCfg.User,
			Password:     dbCfg.Password,
			Database:     dbCfg.Database,
			MaxOpenConns: dbCfg.MaxOpenConns,
			MaxIdleConns: dbCfg.MaxIdleConns,
			MaxLifetime:  dbCfg.MaxLifetime,
		}
		db, err := persistence.ConnectWithBackoff(ctx, persistence.ConnectOptions{
			MaxAttempts: dbCfg.ConnectAttempts,
			Backoff:     persistence.NewExponentialBackoff(dbCfg.ConnectBackoff, 30*time.Second, 2.0),
			Clock:       c.clock,
		}, c.logger, func(ctx context.Context) (*sql.DB, error) {
			return persistence.OpenMySQL(ctx, opts)
		})
		if err != nil {
			return err
		}
		c.db = db
	default:
		return errors.NewConfigurationError(fmt.Sprintf("unknown firewall backend: %s", c.config.Firewall.Backend), nil)
	}

	repo := persistence.NewSQLFirewallRepository(c.db, c.logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	c.firewallRepository = repo
	return nil
}

func (c *Container) initializeServices(ctx context.Context) error {
	storage := c.config.Storage

	factory := network.NewAdminServiceFactory(
		c.osDetector,
		c.commandExecutor,
		c.fileSystem,
		c.links,
		network.FactoryOptions{
			StateDir:       storage.StateDir,
			NetplanDir:     c.config.Network.NetplanDir,
			DnsmasqDir:     c.config.Network.DnsmasqDir,
			NATBackend:     c.config.Network.NATBackend,
			CommandTimeout: c.config.Network.CommandTimeout,
			UseNsenter:     c.config.Network.UseNsenter,
		},
		c.logger,
	)
	admin, err := factory.CreateAdminService()
	if err != nil {
		return err
	}
	c.networkAdmin = admin

	// the NAT table only holds what this process applied
	if err := admin.RestoreNAT(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to restore stored NAT rules")
	}

	store, err := services.NewConfigurationStore(
		c.fileSystem,
		c.clock,
		c.logger,
		storage.StateDir,
		storage.SnapshotDir,
		storage.MaxSnapshots,
		admin,
		persistence.NewFirewallSection(c.firewallRepository),
	)
	if err != nil {
		return err
	}
	c.configStore = store

	c.healthService = health.NewHealthService(c.clock, c.logger)
	c.healthService.SetNetworkBackend(admin.Backend())
	c.healthService.AddCheck("configuration_store", true, c.configStore.Check)
	c.healthService.AddCheck("firewall_store", true, c.firewallRepository.Ping)
	c.healthService.AddCheck("network_links", false, func(ctx context.Context) error {
		_, err := c.links.ListLinks(ctx)
		return err
	})

	return nil
}

func (c *Container) initializeUseCases() {
	c.listInterfacesUseCase = usecases.NewListInterfaceConfigsUseCase(c.networkAdmin, c.logger)
	c.updateInterfaceUseCase = usecases.NewUpdateInterfaceConfigUseCase(c.networkAdmin, c.configStore, c.metrics, c.logger)
	c.snapshotUseCase = usecases.NewSnapshotUseCase(
		c.configStore,
		c.clock,
		c.config.Storage.RollbackSettleDelay,
		c.metrics,
		c.logger,
	)
	c.firewallUseCase = usecases.NewFirewallUseCase(c.firewallRepository, c.logger)
	c.componentUseCase = usecases.NewComponentConfigUseCase(c.configStore, c.logger)
	c.deviceStatusUseCase = usecases.NewDeviceStatusUseCase(c.osDetector, c.links, c.fileSystem, c.clock, "", c.logger)
	c.packageUseCase = usecases.NewPackageUseCase(
		adapters.NewSystemPackageManager(c.commandExecutor, c.osType, c.config.Network.CommandTimeout),
		c.logger,
	)
	c.certificateUseCase = usecases.NewCertificateUseCase(c.fileSystem, c.config.Storage.CertDir, c.logger)
}

func (c *Container) initializeServer() {
	c.server = rpc.NewServer(
		rpc.Services{
			Interfaces:      c.listInterfacesUseCase,
			InterfaceUpdate: c.updateInterfaceUseCase,
			Firewall:        c.firewallUseCase,
			Snapshots:       c.snapshotUseCase,
			Components:      c.componentUseCase,
			Device:          c.deviceStatusUseCase,
			Packages:        c.packageUseCase,
			Certificates:    c.certificateUseCase,
		},
		c.healthService,
		promhttp.HandlerFor(c.metrics.Registry(), promhttp.HandlerOpts{}),
		c.metrics,
		c.logger,
	)
}

// GetConfig returns the loaded configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetMetrics returns the console's metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetHealthService returns the health service
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetOSType returns the detected host OS family
func (c *Container) GetOSType() interfaces.OSType {
	return c.osType
}

// GetNetworkBackend returns the host network backend in use
func (c *Container) GetNetworkBackend() string {
	return c.networkAdmin.Backend()
}

// GetHandler returns the console's HTTP handler
func (c *Container) GetHandler() http.Handler {
	return c.server.Handler()
}

// Close releases the firewall database, if one was opened
func (c *Container) Close() error {
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
