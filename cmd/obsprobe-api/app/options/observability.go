package options

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/internal/observability/config"
	"github.com/neutree-ai/obsprobe/internal/observability/manager"
	"github.com/neutree-ai/obsprobe/internal/util"
)

type ObservabilityOptions struct {
	LocalScrapeConfigPath           string
	KubernetesScrapeConfigMap       string
	KubernetesScrapeConfigNamespace string
	KubernetesScrapeConfigKey       string
	PrometheusURL                   string
	DisableReload                   bool
	ResyncInterval                  time.Duration
}

func NewObservabilityOptions() *ObservabilityOptions {
	return &ObservabilityOptions{
		LocalScrapeConfigPath:           "/etc/prometheus/prometheus.yml",
		KubernetesScrapeConfigMap:       "prometheus-config",
		KubernetesScrapeConfigNamespace: "monitoring",
		KubernetesScrapeConfigKey:       config.DefaultConfigMapKey,
		PrometheusURL:                   v1.DefaultPrometheusURL,
		ResyncInterval:                  5 * time.Minute,
	}
}

func (o *ObservabilityOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.LocalScrapeConfigPath, "local-scrape-config-path", o.LocalScrapeConfigPath, "prometheus.yml edited when running outside kubernetes")
	fs.StringVar(&o.KubernetesScrapeConfigMap, "kubernetes-scrape-configmap", o.KubernetesScrapeConfigMap, "configmap holding prometheus.yml")
	fs.StringVar(&o.KubernetesScrapeConfigNamespace, "kubernetes-scrape-config-namespace", o.KubernetesScrapeConfigNamespace, "namespace of the prometheus configmap")
	fs.StringVar(&o.KubernetesScrapeConfigKey, "kubernetes-scrape-config-key", o.KubernetesScrapeConfigKey, "configmap key holding prometheus.yml")
	fs.StringVar(&o.PrometheusURL, "prometheus-url", o.PrometheusURL, "prometheus url used for config reloads")
	fs.BoolVar(&o.DisableReload, "disable-prometheus-reload", o.DisableReload, "do not call /-/reload after editing the config")
	fs.DurationVar(&o.ResyncInterval, "scrape-config-resync-interval", o.ResyncInterval, "how often registered scrape jobs are re-applied, 0 disables it")
}

func (o *ObservabilityOptions) Validate() error {
	if !o.DisableReload && !util.IsHTTPOrHTTPSURL(o.PrometheusURL) {
		return errors.Errorf("invalid prometheus url %q", o.PrometheusURL)
	}

	if o.ResyncInterval < 0 {
		return errors.New("scrape-config-resync-interval must not be negative")
	}

	return nil
}

func (o *ObservabilityOptions) ScrapeConfigOptions() manager.ScrapeConfigOptions {
	return manager.ScrapeConfigOptions{
		LocalConfigPath:              o.LocalScrapeConfigPath,
		KubernetesConfigMapName:      o.KubernetesScrapeConfigMap,
		KubernetesConfigMapNamespace: o.KubernetesScrapeConfigNamespace,
		KubernetesConfigMapKey:       o.KubernetesScrapeConfigKey,
		PrometheusURL:                o.PrometheusURL,
		DisableReload:                o.DisableReload,
		ResyncInterval:               o.ResyncInterval,
	}
}
