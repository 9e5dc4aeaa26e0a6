package config

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

const DefaultConfigMapKey = "prometheus.yml"

// KubernetesConfigSync edits the prometheus.yml key of a ConfigMap.
type KubernetesConfigSync struct {
	configMapName      string
	configMapNamespace string
	configMapKey       string

	kubeClient kubernetes.Interface
	lock       sync.Mutex
}

var _ ScrapeConfigSyncer = (*KubernetesConfigSync)(nil)

func NewKubernetesConfigSync(kubeClient kubernetes.Interface, configMapName, configMapNamespace, configMapKey string) *KubernetesConfigSync {
	if configMapKey == "" {
		configMapKey = DefaultConfigMapKey
	}

	return &KubernetesConfigSync{
		configMapName:      configMapName,
		configMapNamespace: configMapNamespace,
		configMapKey:       configMapKey,
		kubeClient:         kubeClient,
	}
}

func (s *KubernetesConfigSync) AddScrapeJob(ctx context.Context, job monitoring.ScrapeJob) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.mutate(ctx, func(raw []byte) ([]byte, bool, error) {
		return appendScrapeJob(raw, job)
	})
}

func (s *KubernetesConfigSync) RemoveScrapeJob(ctx context.Context, jobName string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.mutate(ctx, func(raw []byte) ([]byte, bool, error) {
		return removeScrapeJob(raw, jobName)
	})
}

func (s *KubernetesConfigSync) ListScrapeJobs(ctx context.Context) ([]string, error) {
	configMap, err := s.kubeClient.CoreV1().ConfigMaps(s.configMapNamespace).Get(ctx, s.configMapName, metav1.GetOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get prometheus config map: %s", s.configMapName)
	}

	return listJobNames([]byte(configMap.Data[s.configMapKey]))
}

// mutate applies fn to the config map key and updates the config map when fn reports a change.
// An update conflict is returned to the caller as is.
func (s *KubernetesConfigSync) mutate(ctx context.Context, fn func(raw []byte) ([]byte, bool, error)) (bool, error) {
	configMaps := s.kubeClient.CoreV1().ConfigMaps(s.configMapNamespace)

	configMap, err := configMaps.Get(ctx, s.configMapName, metav1.GetOptions{})
	if err != nil {
		return false, errors.Wrapf(err, "failed to get prometheus config map: %s", s.configMapName)
	}

	updated, changed, err := fn([]byte(configMap.Data[s.configMapKey]))
	if err != nil {
		return false, err
	}

	if !changed {
		klog.V(4).Infof("Prometheus config map %s/%s unchanged", s.configMapNamespace, s.configMapName)
		return false, nil
	}

	if configMap.Data == nil {
		configMap.Data = map[string]string{}
	}

	configMap.Data[s.configMapKey] = string(updated)

	if _, err = configMaps.Update(ctx, configMap, metav1.UpdateOptions{}); err != nil {
		return false, errors.Wrapf(err, "failed to update prometheus config map: %s", s.configMapName)
	}

	klog.Infof("Updated prometheus config map %s/%s", s.configMapNamespace, s.configMapName)

	return true, nil
}
