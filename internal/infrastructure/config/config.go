package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gateway-console/internal/domain/constants"
	"gateway-console/internal/domain/errors"

	"gopkg.in/yaml.v3"
)

// Config is a struct that holds application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Firewall FirewallConfig `yaml:"firewall"`
	Storage  StorageConfig  `yaml:"storage"`
	Network  NetworkConfig  `yaml:"network"`
}

// ServerConfig holds the HTTP API listener settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LogConfig selects the logrus level and formatter
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig is a struct that holds database configuration
type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"name"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
	MaxIdleConns int           `yaml:"maxIdleConns"`
	MaxLifetime  time.Duration `yaml:"maxLifetime"`

	ConnectAttempts int           `yaml:"connectAttempts"`
	ConnectBackoff  time.Duration `yaml:"connectBackoff"`
}

// FirewallConfig selects where firewall rule lists are stored
type FirewallConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlitePath"`
}

// StorageConfig holds the on-disk locations of console state
type StorageConfig struct {
	StateDir            string        `yaml:"stateDir"`
	SnapshotDir         string        `yaml:"snapshotDir"`
	MaxSnapshots        int           `yaml:"maxSnapshots"`
	RollbackSettleDelay time.Duration `yaml:"rollbackSettleDelay"`
	CertDir             string        `yaml:"certDir"`
}

// NetworkConfig holds the host network stack settings
type NetworkConfig struct {
	NetplanDir     string        `yaml:"netplanDir"`
	DnsmasqDir     string        `yaml:"dnsmasqDir"`
	NATBackend     string        `yaml:"natBackend"`
	OSReleaseFile  string        `yaml:"osReleaseFile"`
	CommandTimeout time.Duration `yaml:"commandTimeout"`
	UseNsenter     bool          `yaml:"useNsenter"`
}

// Firewall backends
const (
	FirewallBackendMemory = "memory"
	FirewallBackendMySQL  = "mysql"
	FirewallBackendSQLite = "sqlite"
)

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            constants.DefaultConsolePort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  constants.DefaultLogLevel,
			Format: constants.DefaultLogFormat,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "3306",
			User:         "root",
			Database:     "gateway",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,

			ConnectAttempts: 5,
			ConnectBackoff:  2 * time.Second,
		},
		Firewall: FirewallConfig{
			Backend: FirewallBackendMemory,
		},
		Storage: StorageConfig{
			StateDir:            constants.DefaultStateDir,
			MaxSnapshots:        constants.DefaultMaxSnapshots,
			RollbackSettleDelay: 5 * time.Second,
		},
		Network: NetworkConfig{
			NetplanDir:     constants.NetplanConfigDir,
			DnsmasqDir:     constants.DnsmasqConfigDir,
			NATBackend:     "nftables",
			OSReleaseFile:  constants.OSReleaseFile,
			CommandTimeout: 30 * time.Second,
		},
	}
}

// EnvironmentConfigLoader is an implementation that loads configuration from environment variables
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads configuration from environment variables
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := Defaults()
	applyEnvironment(config)
	fillDerived(config)

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// FileConfigLoader reads a YAML file and lets environment variables
// override what it sets
type FileConfigLoader struct {
	path string
}

// NewFileConfigLoader creates a FileConfigLoader for path
func NewFileConfigLoader(path string) ConfigLoader {
	return &FileConfigLoader{path: path}
}

// Load loads configuration from the file and the environment
func (l *FileConfigLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to read config file %s", l.path), err)
	}

	config := Defaults()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to parse config file %s", l.path), err)
	}
	applyEnvironment(config)
	fillDerived(config)

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// NewConfigLoader returns a FileConfigLoader when path is set and an
// EnvironmentConfigLoader otherwise
func NewConfigLoader(path string) ConfigLoader {
	if path == "" {
		return NewEnvironmentConfigLoader()
	}
	return NewFileConfigLoader(path)
}

func applyEnvironment(c *Config) {
	c.Server.Port = getEnvOrDefault("CONSOLE_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDurationOrDefault("CONSOLE_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDurationOrDefault("CONSOLE_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	c.Database.Host = getEnvOrDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvOrDefault("DB_PORT", c.Database.Port)
	c.Database.User = getEnvOrDefault("DB_USER", c.Database.User)
	c.Database.Password = getEnvOrDefault("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnvOrDefault("DB_NAME", c.Database.Database)
	c.Database.MaxOpenConns = getEnvIntOrDefault("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvIntOrDefault("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxLifetime = getEnvDurationOrDefault("DB_MAX_LIFETIME", c.Database.MaxLifetime)
	c.Database.ConnectAttempts = getEnvIntOrDefault("DB_CONNECT_ATTEMPTS", c.Database.ConnectAttempts)
	c.Database.ConnectBackoff = getEnvDurationOrDefault("DB_CONNECT_BACKOFF", c.Database.ConnectBackoff)

	c.Firewall.Backend = getEnvOrDefault("FIREWALL_BACKEND", c.Firewall.Backend)
	c.Firewall.SQLitePath = getEnvOrDefault("FIREWALL_SQLITE_PATH", c.Firewall.SQLitePath)

	c.Storage.StateDir = getEnvOrDefault("STATE_DIR", c.Storage.StateDir)
	c.Storage.SnapshotDir = getEnvOrDefault("SNAPSHOT_DIR", c.Storage.SnapshotDir)
	c.Storage.MaxSnapshots = getEnvIntOrDefault("MAX_SNAPSHOTS", c.Storage.MaxSnapshots)
	c.Storage.RollbackSettleDelay = getEnvDurationOrDefault("ROLLBACK_SETTLE_DELAY", c.Storage.RollbackSettleDelay)
	c.Storage.CertDir = getEnvOrDefault("CERT_DIR", c.Storage.CertDir)

	c.Network.NetplanDir = getEnvOrDefault("NETPLAN_DIR", c.Network.NetplanDir)
	c.Network.DnsmasqDir = getEnvOrDefault("DNSMASQ_DIR", c.Network.DnsmasqDir)
	c.Network.NATBackend = getEnvOrDefault("NAT_BACKEND", c.Network.NATBackend)
	c.Network.OSReleaseFile = getEnvOrDefault("OS_RELEASE_FILE", c.Network.OSReleaseFile)
	c.Network.CommandTimeout = getEnvDurationOrDefault("COMMAND_TIMEOUT", c.Network.CommandTimeout)
	c.Network.UseNsenter = getEnvBoolOrDefault("USE_NSENTER", c.Network.UseNsenter)
}

// fillDerived places unset state paths below the state directory
func fillDerived(c *Config) {
	if c.Storage.SnapshotDir == "" {
		c.Storage.SnapshotDir = filepath.Join(c.Storage.StateDir, "snapshots")
	}
	if c.Storage.CertDir == "" {
		c.Storage.CertDir = filepath.Join(c.Storage.StateDir, "certs")
	}
	if c.Firewall.SQLitePath == "" {
		c.Firewall.SQLitePath = filepath.Join(c.Storage.StateDir, "firewall.db")
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.NewValidationError("console port not configured", nil)
	}

	switch config.Firewall.Backend {
	case FirewallBackendMemory, FirewallBackendSQLite:
	case FirewallBackendMySQL:
		if config.Database.Host == "" {
			return errors.NewValidationError("database host not configured", nil)
		}
		if config.Database.Port == "" {
			return errors.NewValidationError("database port not configured", nil)
		}
		if config.Database.User == "" {
			return errors.NewValidationError("database user not configured", nil)
		}
		if config.Database.Database == "" {
			return errors.NewValidationError("database name not configured", nil)
		}
		if config.Database.ConnectAttempts <= 0 {
			return errors.NewValidationError("invalid database connect attempts", nil)
		}
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown firewall backend: %s", config.Firewall.Backend), nil)
	}

	if config.Storage.StateDir == "" {
		return errors.NewValidationError("state directory not configured", nil)
	}
	if config.Storage.MaxSnapshots <= 0 {
		return errors.NewValidationError("invalid max snapshot count", nil)
	}
	if config.Storage.RollbackSettleDelay < 0 {
		return errors.NewValidationError("invalid rollback settle delay", nil)
	}

	switch config.Network.NATBackend {
	case "nftables", "none":
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown NAT backend: %s", config.Network.NATBackend), nil)
	}
	if config.Network.CommandTimeout <= 0 {
		return errors.NewValidationError("invalid command timeout", nil)
	}

	switch config.Log.Format {
	case "json", "text":
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown log format: %s", config.Log.Format), nil)
	}

	return nil
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
