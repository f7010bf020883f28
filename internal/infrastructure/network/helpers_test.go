package network

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gateway-console/internal/domain/entities"
	"gateway-console/internal/domain/netconf"

	"github.com/google/nftables"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// recordingExecutor records every command line and fails the ones whose
// joined text starts with a registered prefix
type recordingExecutor struct {
	mu       sync.Mutex
	commands []string
	failures map[string]error
	outputs  map[string][]byte
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{
		failures: map[string]error{},
		outputs:  map[string][]byte{},
	}
}

func (e *recordingExecutor) failOn(prefix string) {
	e.failures[prefix] = fmt.Errorf("%s: exit status 1", prefix)
}

func (e *recordingExecutor) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	return e.ExecuteWithTimeout(ctx, 0, command, args...)
}

func (e *recordingExecutor) ExecuteWithTimeout(_ context.Context, _ time.Duration, command string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := strings.TrimSpace(command + " " + strings.Join(args, " "))
	e.commands = append(e.commands, line)
	for prefix, err := range e.failures {
		if strings.HasPrefix(line, prefix) {
			return nil, err
		}
	}
	return e.outputs[line], nil
}

func (e *recordingExecutor) lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.commands...)
}

// fakeConn stands in for a netlink nftables connection
type fakeConn struct {
	tables   []*nftables.Table
	chains   []*nftables.Chain
	pending  []*nftables.Rule
	rules    []*nftables.Rule
	flushes  int
	flushErr error
}

func (c *fakeConn) AddTable(t *nftables.Table) *nftables.Table {
	c.tables = append(c.tables, t)
	return t
}

func (c *fakeConn) AddChain(ch *nftables.Chain) *nftables.Chain {
	c.chains = append(c.chains, ch)
	return ch
}

func (c *fakeConn) AddRule(r *nftables.Rule) *nftables.Rule {
	c.pending = append(c.pending, r)
	return r
}

func (c *fakeConn) FlushTable(*nftables.Table) {}

func (c *fakeConn) Flush() error {
	c.flushes++
	if c.flushErr != nil {
		c.pending = nil
		return c.flushErr
	}
	c.rules = c.pending
	c.pending = nil
	return nil
}

// fakeRenderer records rendered states
type fakeRenderer struct {
	rendered []netconf.InterfaceState
	err      error
}

func (r *fakeRenderer) Backend() string { return "fake" }

func (r *fakeRenderer) Render(_ context.Context, state netconf.InterfaceState) error {
	if r.err != nil {
		return r.err
	}
	r.rendered = append(r.rendered, state)
	return nil
}

type fakeNAT struct {
	calls map[string][]netconf.NATConfig
}

func (n *fakeNAT) ApplyNAT(_ context.Context, iface string, rules []netconf.NATConfig) error {
	if n.calls == nil {
		n.calls = map[string][]netconf.NATConfig{}
	}
	n.calls[iface] = rules
	return nil
}

// fakeDHCP fails the next len(errs) writes with errs in order
type fakeDHCP struct {
	configs map[string]*netconf.DHCPServerConfig
	errs    []error
}

func (d *fakeDHCP) WriteDHCPServer(_ context.Context, iface string, cfg *netconf.DHCPServerConfig) error {
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		return err
	}
	if d.configs == nil {
		d.configs = map[string]*netconf.DHCPServerConfig{}
	}
	d.configs[iface] = cfg
	return nil
}

type fakeLinks struct {
	links []entities.LinkInfo
	err   error
}

func (l *fakeLinks) ListLinks(context.Context) ([]entities.LinkInfo, error) {
	return l.links, l.err
}
