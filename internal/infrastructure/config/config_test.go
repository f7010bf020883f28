package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gateway-console/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONSOLE_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_CONNECT_ATTEMPTS", "DB_CONNECT_BACKOFF",
	"FIREWALL_BACKEND", "FIREWALL_SQLITE_PATH",
	"STATE_DIR", "SNAPSHOT_DIR", "MAX_SNAPSHOTS", "ROLLBACK_SETTLE_DELAY", "CERT_DIR",
	"NETPLAN_DIR", "DNSMASQ_DIR", "NAT_BACKEND", "OS_RELEASE_FILE", "COMMAND_TIMEOUT", "USE_NSENTER",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestEnvironmentConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, FirewallBackendMemory, cfg.Firewall.Backend)
				assert.Equal(t, "/var/lib/gateway-console", cfg.Storage.StateDir)
				assert.Equal(t, "/var/lib/gateway-console/snapshots", cfg.Storage.SnapshotDir)
				assert.Equal(t, "/var/lib/gateway-console/certs", cfg.Storage.CertDir)
				assert.Equal(t, 10, cfg.Storage.MaxSnapshots)
				assert.Equal(t, 5*time.Second, cfg.Storage.RollbackSettleDelay)
				assert.Equal(t, 30*time.Second, cfg.Network.CommandTimeout)
				assert.Equal(t, "nftables", cfg.Network.NATBackend)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
		{
			name: "environment overrides",
			envVars: map[string]string{
				"CONSOLE_PORT":          "9090",
				"FIREWALL_BACKEND":      "mysql",
				"DB_HOST":               "db.local",
				"DB_CONNECT_ATTEMPTS":   "7",
				"DB_CONNECT_BACKOFF":    "500ms",
				"STATE_DIR":             "/tmp/console",
				"MAX_SNAPSHOTS":         "3",
				"ROLLBACK_SETTLE_DELAY": "1500ms",
				"NAT_BACKEND":           "none",
				"USE_NSENTER":           "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Server.Port)
				assert.Equal(t, FirewallBackendMySQL, cfg.Firewall.Backend)
				assert.Equal(t, "db.local", cfg.Database.Host)
				assert.Equal(t, 7, cfg.Database.ConnectAttempts)
				assert.Equal(t, 500*time.Millisecond, cfg.Database.ConnectBackoff)
				assert.Equal(t, "/tmp/console/snapshots", cfg.Storage.SnapshotDir)
				assert.Equal(t, "/tmp/console/firewall.db", cfg.Firewall.SQLitePath)
				assert.Equal(t, 3, cfg.Storage.MaxSnapshots)
				assert.Equal(t, 1500*time.Millisecond, cfg.Storage.RollbackSettleDelay)
				assert.Equal(t, "none", cfg.Network.NATBackend)
				assert.True(t, cfg.Network.UseNsenter)
			},
		},
		{
			name:    "invalid duration falls back to default",
			envVars: map[string]string{"COMMAND_TIMEOUT": "soon"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.Network.CommandTimeout)
			},
		},
		{
			name:      "unknown firewall backend",
			envVars:   map[string]string{"FIREWALL_BACKEND": "redis"},
			wantError: true,
		},
		{
			name:      "unknown NAT backend",
			envVars:   map[string]string{"NAT_BACKEND": "iptables"},
			wantError: true,
		},
		{
			name:      "mysql without connect attempts",
			envVars:   map[string]string{"FIREWALL_BACKEND": "mysql", "DB_CONNECT_ATTEMPTS": "0"},
			wantError: true,
		},
		{
			name:      "zero snapshots",
			envVars:   map[string]string{"MAX_SNAPSHOTS": "0"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config, err := NewEnvironmentConfigLoader().Load()

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			tt.validate(t, config)
		})
	}
}

func TestFileConfigLoader_Load(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "console.yaml")
	content := `
server:
  port: "8443"
log:
  level: debug
  format: text
firewall:
  backend: sqlite
storage:
  stateDir: /srv/console
  rollbackSettleDelay: 2s
network:
  natBackend: none
  commandTimeout: 45s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := NewConfigLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "8443", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level, "environment wins over the file")
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, FirewallBackendSQLite, cfg.Firewall.Backend)
	assert.Equal(t, "/srv/console/firewall.db", cfg.Firewall.SQLitePath)
	assert.Equal(t, 2*time.Second, cfg.Storage.RollbackSettleDelay)
	assert.Equal(t, 45*time.Second, cfg.Network.CommandTimeout)
	assert.Equal(t, "/etc/netplan", cfg.Network.NetplanDir, "unset keys keep defaults")
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestFileConfigLoader_Errors(t *testing.T) {
	clearEnv(t)

	_, err := NewFileConfigLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [:"), 0600))
	_, err = NewFileConfigLoader(path).Load()
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestNewConfigLoader_WithoutPath(t *testing.T) {
	assert.IsType(t, &EnvironmentConfigLoader{}, NewConfigLoader(""))
}

func TestGetEnvHelpers(t *testing.T) {
	t.Run("getEnvOrDefault", func(t *testing.T) {
		assert.Equal(t, "default", getEnvOrDefault("NON_EXISTENT_VAR", "default"))

		t.Setenv("TEST_VAR", "test_value")
		assert.Equal(t, "test_value", getEnvOrDefault("TEST_VAR", "default"))
	})

	t.Run("getEnvIntOrDefault", func(t *testing.T) {
		assert.Equal(t, 42, getEnvIntOrDefault("NON_EXISTENT_INT", 42))

		t.Setenv("TEST_INT", "123")
		assert.Equal(t, 123, getEnvIntOrDefault("TEST_INT", 42))

		t.Setenv("TEST_BAD_INT", "not_a_number")
		assert.Equal(t, 42, getEnvIntOrDefault("TEST_BAD_INT", 42))
	})

	t.Run("getEnvDurationOrDefault", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, getEnvDurationOrDefault("NON_EXISTENT_DURATION", 30*time.Second))

		t.Setenv("TEST_DURATION", "1m30s")
		assert.Equal(t, 90*time.Second, getEnvDurationOrDefault("TEST_DURATION", 30*time.Second))

		t.Setenv("TEST_BAD_DURATION", "invalid")
		assert.Equal(t, 30*time.Second, getEnvDurationOrDefault("TEST_BAD_DURATION", 30*time.Second))
	})

	t.Run("getEnvBoolOrDefault", func(t *testing.T) {
		assert.False(t, getEnvBoolOrDefault("NON_EXISTENT_BOOL", false))

		t.Setenv("TEST_BOOL", "1")
		assert.True(t, getEnvBoolOrDefault("TEST_BOOL", false))
	})
}
