package options

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/neutree-ai/obsprobe/internal/resolver"
)

type ResolverOptions struct {
	Mode        string
	Parallelism int

	PrometheusTimeout time.Duration
	OTLPTimeout       time.Duration
	TCPTimeout        time.Duration
	HeaderTimeout     time.Duration
	BlackboxTimeout   time.Duration

	InsecureSkipVerify bool
	DNSRefreshInterval time.Duration
	MaxRedirects       int
}

func NewResolverOptions() *ResolverOptions {
	defaults := resolver.DefaultConfig()

	return &ResolverOptions{
		Mode:               string(defaults.Mode),
		Parallelism:        defaults.Parallelism,
		PrometheusTimeout:  defaults.Timeouts.Prometheus,
		OTLPTimeout:        defaults.Timeouts.OTLP,
		TCPTimeout:         defaults.Timeouts.TCP,
		HeaderTimeout:      defaults.Timeouts.Headers,
		BlackboxTimeout:    defaults.Timeouts.Blackbox,
		DNSRefreshInterval: 5 * time.Minute,
		MaxRedirects:       5,
	}
}

func (o *ResolverOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Mode, "resolver-mode", o.Mode, "probe scheduling: sequential or parallel")
	fs.IntVar(&o.Parallelism, "resolver-parallelism", o.Parallelism, "max concurrent probes in parallel mode")
	fs.DurationVar(&o.PrometheusTimeout, "prometheus-probe-timeout", o.PrometheusTimeout, "timeout of the /metrics probe")
	fs.DurationVar(&o.OTLPTimeout, "otlp-probe-timeout", o.OTLPTimeout, "timeout of each OTLP HTTP probe")
	fs.DurationVar(&o.TCPTimeout, "tcp-probe-timeout", o.TCPTimeout, "timeout of the OTLP gRPC and StatsD port probes")
	fs.DurationVar(&o.HeaderTimeout, "header-probe-timeout", o.HeaderTimeout, "timeout of the header fetch")
	fs.DurationVar(&o.BlackboxTimeout, "blackbox-probe-timeout", o.BlackboxTimeout, "timeout of the blackbox probe")
	fs.BoolVar(&o.InsecureSkipVerify, "probe-insecure-skip-verify", o.InsecureSkipVerify, "skip TLS verification when probing targets")
	fs.DurationVar(&o.DNSRefreshInterval, "probe-dns-refresh-interval", o.DNSRefreshInterval, "refresh interval of the probe DNS cache, 0 disables caching")
	fs.IntVar(&o.MaxRedirects, "probe-max-redirects", o.MaxRedirects, "redirects followed by a probe, 0 to not follow redirects")
}

func (o *ResolverOptions) Validate() error {
	switch resolver.Mode(o.Mode) {
	case resolver.ModeSequential, resolver.ModeParallel:
	default:
		return errors.Errorf("unknown resolver mode %q", o.Mode)
	}

	if o.Parallelism < 1 {
		return errors.New("resolver-parallelism must be at least 1")
	}

	for name, timeout := range map[string]time.Duration{
		"prometheus-probe-timeout": o.PrometheusTimeout,
		"otlp-probe-timeout":       o.OTLPTimeout,
		"tcp-probe-timeout":        o.TCPTimeout,
		"header-probe-timeout":     o.HeaderTimeout,
		"blackbox-probe-timeout":   o.BlackboxTimeout,
	} {
		if timeout <= 0 {
			return errors.Errorf("%s must be positive", name)
		}
	}

	if o.MaxRedirects < 0 {
		return errors.New("probe-max-redirects must not be negative")
	}

	return nil
}

func (o *ResolverOptions) ResolverConfig() resolver.Config {
	c := resolver.DefaultConfig()

	c.Mode = resolver.Mode(o.Mode)
	c.Parallelism = o.Parallelism
	c.Timeouts = resolver.Timeouts{
		Prometheus: o.PrometheusTimeout,
		OTLP:       o.OTLPTimeout,
		TCP:        o.TCPTimeout,
		Headers:    o.HeaderTimeout,
		Blackbox:   o.BlackboxTimeout,
	}

	return c
}

func (o *ResolverOptions) TransportOptions() resolver.TransportOptions {
	return resolver.TransportOptions{
		InsecureSkipVerify: o.InsecureSkipVerify,
		DNSRefreshInterval: o.DNSRefreshInterval,
		MaxRedirects:       o.MaxRedirects,
	}
}
