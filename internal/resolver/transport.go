package resolver

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/dnscache"
	"k8s.io/klog/v2"
)

// Transport is the network capability the probes need.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

type TransportOptions struct {
	// InsecureSkipVerify disables TLS verification on HTTPS probes.
	InsecureSkipVerify bool
	// DNSRefreshInterval controls how often cached DNS entries are refreshed. Zero disables caching.
	DNSRefreshInterval time.Duration
	// MaxRedirects caps followed redirects. Zero returns the redirect response itself.
	MaxRedirects int
}

type netTransport struct {
	client   *http.Client
	resolver *dnscache.Resolver
	dialer   *net.Dialer
}

var _ Transport = (*netTransport)(nil)

// NewTransport builds the default Transport. The refresh loop of the DNS cache stops when ctx is done.
func NewTransport(ctx context.Context, opts TransportOptions) Transport {
	t := &netTransport{
		dialer: &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		},
	}

	if opts.DNSRefreshInterval > 0 {
		t.resolver = &dnscache.Resolver{}
		go t.refreshDNS(ctx, opts.DNSRefreshInterval)
	}

	maxRedirects := opts.MaxRedirects

	t.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         t.DialContext,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify}, //nolint:gosec
			MaxIdleConns:        100,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if maxRedirects <= 0 {
				return http.ErrUseLastResponse
			}

			if len(via) >= maxRedirects {
				return errors.Errorf("stopped after %d redirects", maxRedirects)
			}

			return nil
		},
	}

	return t
}

func (t *netTransport) refreshDNS(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.resolver.Refresh(true)
			klog.V(4).Infof("Refreshed probe DNS cache")
		}
	}
}

func (t *netTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

func (t *netTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if t.resolver == nil {
		return t.dialer.DialContext(ctx, network, address)
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}

	if net.ParseIP(host) != nil {
		return t.dialer.DialContext(ctx, network, address)
	}

	ips, err := t.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	if len(ips) == 0 {
		return nil, &net.DNSError{Err: "no IP addresses found", Name: host}
	}

	return t.dialer.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
}
