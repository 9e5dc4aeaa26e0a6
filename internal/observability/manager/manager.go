package manager

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/observability/config"
	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

type ScrapeConfigOptions struct {
	// LocalConfigPath is the prometheus.yml edited when running outside a cluster.
	LocalConfigPath string

	KubernetesConfigMapName      string
	KubernetesConfigMapNamespace string
	KubernetesConfigMapKey       string

	PrometheusURL string
	DisableReload bool

	// ResyncInterval controls how often registered jobs are checked against the config. Zero disables it.
	ResyncInterval time.Duration
}

// NewScrapeConfigManager picks the ConfigMap syncer when running in a cluster and the local file
// syncer otherwise.
func NewScrapeConfigManager(options ScrapeConfigOptions) (ScrapeConfigManager, error) {
	var syncer config.ScrapeConfigSyncer

	restConfig, err := rest.InClusterConfig()
	if err != nil && !errors.Is(err, rest.ErrNotInCluster) {
		return nil, err
	}

	if errors.Is(err, rest.ErrNotInCluster) {
		klog.Infof("Using local prometheus config %s", options.LocalConfigPath)
		syncer = config.NewLocalConfigSync(options.LocalConfigPath)
	} else {
		kubeClient, err := kubernetes.NewForConfig(restConfig)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create kubeclient")
		}

		klog.Infof("Using prometheus config map %s/%s", options.KubernetesConfigMapNamespace, options.KubernetesConfigMapName)
		syncer = config.NewKubernetesConfigSync(kubeClient, options.KubernetesConfigMapName,
			options.KubernetesConfigMapNamespace, options.KubernetesConfigMapKey)
	}

	var reloader config.Reloader = config.NoopReloader{}
	if !options.DisableReload {
		reloader = config.NewHTTPReloader(options.PrometheusURL, nil)
	}

	return newScrapeConfigManager(syncer, reloader, options.ResyncInterval), nil
}

// ScrapeConfigManager registers scrape jobs and keeps them present in the Prometheus config.
type ScrapeConfigManager interface {
	Register(ctx context.Context, job monitoring.ScrapeJob) RegisterResult
	Unregister(ctx context.Context, jobName string) (bool, error)
	Start(ctx context.Context)
}
