package options

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-api/app/config"
	"github.com/neutree-ai/obsprobe/internal/activator"
	"github.com/neutree-ai/obsprobe/internal/middleware"
	"github.com/neutree-ai/obsprobe/internal/observability/manager"
	"github.com/neutree-ai/obsprobe/internal/resolver"
	"github.com/neutree-ai/obsprobe/pkg/storage"
)

// Options holds all configuration options for the API server
type Options struct {
	Server        *ServerOptions
	Storage       *StorageOptions
	Resolver      *ResolverOptions
	Observability *ObservabilityOptions
	Auth          *AuthOptions
	Refresh       *RefreshOptions
}

// NewOptions creates new options with default values
func NewOptions() *Options {
	return &Options{
		Server:        NewServerOptions(),
		Storage:       NewStorageOptions(),
		Resolver:      NewResolverOptions(),
		Observability: NewObservabilityOptions(),
		Auth:          NewAuthOptions(),
		Refresh:       NewRefreshOptions(),
	}
}

// AddFlags adds flags for all options structs to the given FlagSet
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.Storage.AddFlags(fs)
	o.Resolver.AddFlags(fs)
	o.Observability.AddFlags(fs)
	o.Auth.AddFlags(fs)
	o.Refresh.AddFlags(fs)
}

// Validate validates all options
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return errors.Wrap(err, "server options validation failed")
	}

	if err := o.Storage.Validate(); err != nil {
		return errors.Wrap(err, "storage options validation failed")
	}

	if err := o.Resolver.Validate(); err != nil {
		return errors.Wrap(err, "resolver options validation failed")
	}

	if err := o.Observability.Validate(); err != nil {
		return errors.Wrap(err, "observability options validation failed")
	}

	if err := o.Auth.Validate(); err != nil {
		return errors.Wrap(err, "auth options validation failed")
	}

	if err := o.Refresh.Validate(); err != nil {
		return errors.Wrap(err, "refresh options validation failed")
	}

	return nil
}

// Config converts options to API configuration. ctx bounds background work started for the
// config, such as the probe DNS cache refresh.
func (o *Options) Config(ctx context.Context) (*config.APIConfig, error) {
	s, err := storage.New(o.Storage.StorageOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init storage")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	transport := resolver.NewTransport(ctx, o.Resolver.TransportOptions())

	r := resolver.New(transport,
		resolver.WithConfig(o.Resolver.ResolverConfig()),
		resolver.WithMetrics(resolver.NewMetrics(registry)),
	)

	scrapeConfigManager, err := manager.NewScrapeConfigManager(o.Observability.ScrapeConfigOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init scrape config manager")
	}

	gin.SetMode(o.Server.GinMode)

	klog.Infof("Using %s storage, %s resolver", o.Storage.Type, o.Resolver.Mode)

	return &config.APIConfig{
		Storage:             s,
		Resolver:            r,
		Activator:           activator.New(scrapeConfigManager, transport, activator.WithStorage(s)),
		ScrapeConfigManager: scrapeConfigManager,
		GinEngine:           gin.Default(),
		MetricsRegistry:     registry,
		AuthConfig: middleware.AuthConfig{
			JwtSecret: o.Auth.JwtSecret,
		},

		ServerConfig: &config.ServerConfig{
			Port: o.Server.Port,
			Host: o.Server.Host,
		},

		RefreshInterval: o.Refresh.Interval,

		StorageType:   o.Storage.Type,
		ResolverMode:  o.Resolver.Mode,
		PrometheusURL: o.Observability.PrometheusURL,
	}, nil
}
