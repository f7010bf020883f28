package constants

// Host paths
const (
	NetplanConfigDir = "/etc/netplan"
	DnsmasqConfigDir = "/etc/dnsmasq.d"
	OSReleaseFile    = "/etc/os-release"
	SysClassNet      = "/sys/class/net"
	ProcRoot         = "/proc"

	DefaultStateDir = "/var/lib/gateway-console"
)

// File permissions
const (
	ConfigFilePermission = 0644
	SecretFilePermission = 0600
)

// Defaults
const (
	DefaultConsolePort  = "8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultMaxSnapshots = 10
)
