package network

import (
	"context"
	"time"

	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"
)

// HostRenderer writes an interface state into the host's network
// configuration and applies it. A failed Render leaves the previous host
// configuration of the interface in place.
type HostRenderer interface {
	// Backend names the host network stack, e.g. "netplan"
	Backend() string

	// Render configures the interface described by state
	Render(ctx context.Context, state netconf.InterfaceState) error
}

// hostCommand runs a host command, optionally inside PID 1's namespaces
// when the console itself runs in a container
type hostCommand struct {
	executor interfaces.CommandExecutor
	timeout  time.Duration
	nsenter  bool
}

func (c hostCommand) run(ctx context.Context, command string, args ...string) ([]byte, error) {
	if c.nsenter {
		args = append([]string{"--target", "1", "--mount", "--uts", "--ipc", "--net", "--pid", command}, args...)
		command = "nsenter"
	}
	return c.executor.ExecuteWithTimeout(ctx, c.timeout, command, args...)
}
