package resolve

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hmgle/loganalyzer/pkg/logger"
	"github.com/miekg/dns"
)

const resolvConf = "/etc/resolv.conf"

// Resolver performs PTR lookups for client addresses
type Resolver struct {
	server string
	client *dns.Client
	logger logger.Logger
}

// NewResolver creates a resolver that queries server (host:port).
// An empty server selects the first nameserver in /etc/resolv.conf.
func NewResolver(server string, timeout time.Duration, log logger.Logger) (*Resolver, error) {
	if server == "" {
		cc, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", resolvConf, err)
		}
		if len(cc.Servers) == 0 {
			return nil, fmt.Errorf("no nameservers in %s", resolvConf)
		}
		server = net.JoinHostPort(cc.Servers[0], cc.Port)
	}

	return &Resolver{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
		logger: log,
	}, nil
}

// Server returns the DNS server queried by the resolver
func (r *Resolver) Server() string {
	return r.server
}

// LookupAddr returns the host names pointing at addr
func (r *Resolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	arpa, err := dns.ReverseAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("PTR query for %s failed: %w", addr, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("PTR query for %s: %s", addr, dns.RcodeToString[resp.Rcode])
	}

	var names []string
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, strings.TrimSuffix(ptr.Ptr, "."))
		}
	}
	return names, nil
}

// LookupAll resolves each address in turn. Addresses that fail to resolve
// are logged and left out of the result.
func (r *Resolver) LookupAll(ctx context.Context, addrs []string) map[string][]string {
	result := make(map[string][]string, len(addrs))
	for _, addr := range addrs {
		if _, done := result[addr]; done {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		names, err := r.LookupAddr(ctx, addr)
		if err != nil {
			r.logger.Debug("Reverse lookup failed: %v", err)
			continue
		}
		result[addr] = names
	}
	return result
}
