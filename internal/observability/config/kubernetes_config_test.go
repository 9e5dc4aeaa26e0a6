package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

func newPrometheusConfigMap(data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "prometheus-config",
			Namespace: "monitoring",
		},
		Data: data,
	}
}

func TestKubernetesConfigSync_AddScrapeJob(t *testing.T) {
	client := fake.NewSimpleClientset(newPrometheusConfigMap(map[string]string{
		"prometheus.yml": basePrometheusConfig,
		"rules.yml":      "groups: []",
	}))

	syncer := NewKubernetesConfigSync(client, "prometheus-config", "monitoring", "")

	added, err := syncer.AddScrapeJob(context.Background(), monitoring.NewScrapeJob("shop", "shop:8080", "http", false, nil))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = syncer.AddScrapeJob(context.Background(), monitoring.NewScrapeJob("shop", "shop:8080", "http", false, nil))
	require.NoError(t, err)
	assert.False(t, added)

	names, err := syncer.ListScrapeJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"prometheus", "auto_shop"}, names)

	cm, err := client.CoreV1().ConfigMaps("monitoring").Get(context.Background(), "prometheus-config", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "groups: []", cm.Data["rules.yml"])
}

func TestKubernetesConfigSync_EmptyConfigMap(t *testing.T) {
	client := fake.NewSimpleClientset(newPrometheusConfigMap(nil))
	syncer := NewKubernetesConfigSync(client, "prometheus-config", "monitoring", "config.yml")

	added, err := syncer.AddScrapeJob(context.Background(), monitoring.NewScrapeJob("shop", "shop", "http", true, nil))
	require.NoError(t, err)
	assert.True(t, added)

	cm, err := client.CoreV1().ConfigMaps("monitoring").Get(context.Background(), "prometheus-config", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Contains(t, cm.Data["config.yml"], "auto_shop")
	assert.Contains(t, cm.Data["config.yml"], "PROM_USER")
}

func TestKubernetesConfigSync_RemoveScrapeJob(t *testing.T) {
	client := fake.NewSimpleClientset(newPrometheusConfigMap(map[string]string{"prometheus.yml": basePrometheusConfig}))
	syncer := NewKubernetesConfigSync(client, "prometheus-config", "monitoring", "")

	removed, err := syncer.RemoveScrapeJob(context.Background(), "auto_missing")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = syncer.RemoveScrapeJob(context.Background(), "prometheus")
	require.NoError(t, err)
	assert.True(t, removed)

	names, err := syncer.ListScrapeJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestKubernetesConfigSync_MissingConfigMap(t *testing.T) {
	syncer := NewKubernetesConfigSync(fake.NewSimpleClientset(), "prometheus-config", "monitoring", "")

	_, err := syncer.AddScrapeJob(context.Background(), monitoring.NewScrapeJob("shop", "shop", "http", false, nil))
	assert.Error(t, err)

	_, err = syncer.ListScrapeJobs(context.Background())
	assert.Error(t, err)
}
