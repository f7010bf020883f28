package network

import (
	"context"
	"sort"
	"sync"
	"time"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"
	"gateway-console/internal/domain/netconf"

	"github.com/google/nftables"
	"github.com/google/nftables/expr"
	"github.com/sirupsen/logrus"
)

const (
	natTableName = "gateway_console_nat"
	natChainName = "postrouting"
)

// NFTablesConn is the subset of *nftables.Conn used to program NAT rules
type NFTablesConn interface {
	AddTable(t *nftables.Table) *nftables.Table
	AddChain(c *nftables.Chain) *nftables.Chain
	AddRule(r *nftables.Rule) *nftables.Rule
	FlushTable(t *nftables.Table)
	Flush() error
}

// NFTablesNATApplier owns one nftables table and rebuilds its masquerade
// rules from the NAT configs of every interface on each change
type NFTablesNATApplier struct {
	mu       sync.Mutex
	conn     NFTablesConn
	executor interfaces.CommandExecutor
	timeout  time.Duration
	logger   *logrus.Logger
	rules    map[string][]netconf.NATConfig
}

// NewNFTablesNATApplier creates an applier on conn. IP forwarding is
// switched on through executor when the first masquerade rule appears.
func NewNFTablesNATApplier(conn NFTablesConn, executor interfaces.CommandExecutor, timeout time.Duration, logger *logrus.Logger) *NFTablesNATApplier {
	return &NFTablesNATApplier{
		conn:     conn,
		executor: executor,
		timeout:  timeout,
		logger:   logger,
		rules:    make(map[string][]netconf.NATConfig),
	}
}

// ApplyNAT replaces the rules sourced from iface and commits the whole table
func (a *NFTablesNATApplier) ApplyNAT(ctx context.Context, iface string, rules []netconf.NATConfig) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	previous, hadPrevious := a.rules[iface]
	if len(rules) == 0 {
		delete(a.rules, iface)
	} else {
		a.rules[iface] = append([]netconf.NATConfig(nil), rules...)
	}

	if err := a.commit(); err != nil {
		if hadPrevious {
			a.rules[iface] = previous
		} else {
			delete(a.rules, iface)
		}
		return errors.NewNetworkError("failed to program NAT rules", err)
	}

	if a.masqueradeCount() > 0 && a.executor != nil {
		if _, err := a.executor.ExecuteWithTimeout(ctx, a.timeout, "sysctl", "-w", "net.ipv4.ip_forward=1"); err != nil {
			return errors.NewNetworkError("failed to enable IPv4 forwarding", err)
		}
	}

	a.logger.WithFields(logrus.Fields{
		"interface":  iface,
		"rule_count": len(rules),
	}).Info("NAT rules applied")
	return nil
}

func (a *NFTablesNATApplier) commit() error {
	table := a.conn.AddTable(&nftables.Table{
		Family: nftables.TableFamilyIPv4,
		Name:   natTableName,
	})
	a.conn.FlushTable(table)

	chain := a.conn.AddChain(&nftables.Chain{
		Name:     natChainName,
		Table:    table,
		Type:     nftables.ChainTypeNAT,
		Hooknum:  nftables.ChainHookPostrouting,
		Priority: nftables.ChainPriorityNATSource,
	})

	sources := make([]string, 0, len(a.rules))
	for iface := range a.rules {
		sources = append(sources, iface)
	}
	sort.Strings(sources)

	for _, iface := range sources {
		for _, rule := range a.rules[iface] {
			if !rule.Masquerade {
				continue
			}
			a.conn.AddRule(&nftables.Rule{
				Table: table,
				Chain: chain,
				Exprs: masqueradeExprs(rule),
			})
		}
	}

	return a.conn.Flush()
}

func (a *NFTablesNATApplier) masqueradeCount() int {
	n := 0
	for _, rules := range a.rules {
		for _, r := range rules {
			if r.Masquerade {
				n++
			}
		}
	}
	return n
}

// masqueradeExprs matches packets that entered on the source interface and,
// when the destination is known, leave on the destination interface
func masqueradeExprs(rule netconf.NATConfig) []expr.Any {
	exprs := []expr.Any{
		&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
		&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(rule.SourceInterface)},
	}
	if dst := rule.DestinationInterface; dst != "" && dst != netconf.UnknownInterface {
		exprs = append(exprs,
			&expr.Meta{Key: expr.MetaKeyOIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(dst)},
		)
	}
	return append(exprs, &expr.Masq{})
}

// ifname pads an interface name to IFNAMSIZ the way the kernel compares it
func ifname(name string) []byte {
	b := make([]byte, 16)
	copy(b, name)
	return b
}

// NoopNATApplier records NAT configs without touching the host
type NoopNATApplier struct {
	logger *logrus.Logger
}

// NewNoopNATApplier creates a NoopNATApplier
func NewNoopNATApplier(logger *logrus.Logger) *NoopNATApplier {
	return &NoopNATApplier{logger: logger}
}

// ApplyNAT logs the request only
func (n *NoopNATApplier) ApplyNAT(ctx context.Context, iface string, rules []netconf.NATConfig) error {
	n.logger.WithFields(logrus.Fields{
		"interface":  iface,
		"rule_count": len(rules),
	}).Debug("NAT backend disabled, skipping rules")
	return nil
}
