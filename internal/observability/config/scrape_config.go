package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

const scrapeConfigsKey = "scrape_configs"

// prometheusConfig is a loosely typed prometheus.yml. Keys other than scrape_configs are kept as-is.
type prometheusConfig map[string]interface{}

func parsePrometheusConfig(raw []byte) (prometheusConfig, error) {
	cfg := prometheusConfig{}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse prometheus config")
	}

	if cfg == nil {
		cfg = prometheusConfig{}
	}

	return cfg, nil
}

func (c prometheusConfig) scrapeConfigs() ([]interface{}, error) {
	raw, ok := c[scrapeConfigsKey]
	if !ok || raw == nil {
		return []interface{}{}, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Errorf("%s is %T, expected a list", scrapeConfigsKey, raw)
	}

	return list, nil
}

func jobNameOf(entry interface{}) string {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return ""
	}

	name, _ := m["job_name"].(string)

	return name
}

func listJobNames(raw []byte) ([]string, error) {
	cfg, err := parsePrometheusConfig(raw)
	if err != nil {
		return nil, err
	}

	jobs, err := cfg.scrapeConfigs()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if name := jobNameOf(job); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// appendScrapeJob returns raw with job appended. When a job with the same name exists raw is
// returned unchanged and added is false.
func appendScrapeJob(raw []byte, job monitoring.ScrapeJob) (out []byte, added bool, err error) {
	cfg, err := parsePrometheusConfig(raw)
	if err != nil {
		return nil, false, err
	}

	jobs, err := cfg.scrapeConfigs()
	if err != nil {
		return nil, false, err
	}

	for _, existing := range jobs {
		if jobNameOf(existing) == job.JobName {
			return raw, false, nil
		}
	}

	cfg[scrapeConfigsKey] = append(jobs, job)

	out, err = yaml.Marshal(map[string]interface{}(cfg))
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to marshal prometheus config")
	}

	return out, true, nil
}

// removeScrapeJob returns raw without the job named jobName.
func removeScrapeJob(raw []byte, jobName string) (out []byte, removed bool, err error) {
	cfg, err := parsePrometheusConfig(raw)
	if err != nil {
		return nil, false, err
	}

	jobs, err := cfg.scrapeConfigs()
	if err != nil {
		return nil, false, err
	}

	kept := make([]interface{}, 0, len(jobs))
	for _, existing := range jobs {
		if jobNameOf(existing) == jobName {
			removed = true
			continue
		}

		kept = append(kept, existing)
	}

	if !removed {
		return raw, false, nil
	}

	cfg[scrapeConfigsKey] = kept

	out, err = yaml.Marshal(map[string]interface{}(cfg))
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to marshal prometheus config")
	}

	return out, true, nil
}
