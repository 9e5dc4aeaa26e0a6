package monitoring

import (
	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

// Placeholder credentials written for targets whose /metrics requires auth.
// Operators replace them in the scrape config.
const (
	BasicAuthUserPlaceholder     = "PROM_USER"
	BasicAuthPasswordPlaceholder = "PROM_PASS"
)

type StaticConfig struct {
	Targets []string          `yaml:"targets" json:"targets"`
	Labels  map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

type BasicAuth struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// ScrapeJob is one entry of the scrape_configs list in prometheus.yml.
type ScrapeJob struct {
	JobName       string         `yaml:"job_name" json:"job_name"`
	MetricsPath   string         `yaml:"metrics_path" json:"metrics_path"`
	Scheme        string         `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	StaticConfigs []StaticConfig `yaml:"static_configs" json:"static_configs"`
	BasicAuth     *BasicAuth     `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// AuthRequired reports whether the job carries basic auth credentials.
func (j ScrapeJob) AuthRequired() bool {
	return j.BasicAuth != nil
}

// JobName is the scrape job name registered for a host.
func JobName(host string) string {
	return v1.ScrapeJobPrefix + host
}

// NewScrapeJob builds the job for an onboarded target. address is host[:port]; scheme is only
// written when it differs from Prometheus' http default.
func NewScrapeJob(host, address, scheme string, authRequired bool, labels map[string]string) ScrapeJob {
	job := ScrapeJob{
		JobName:     JobName(host),
		MetricsPath: v1.MetricsPath,
		StaticConfigs: []StaticConfig{
			{
				Targets: []string{address},
				Labels:  labels,
			},
		},
	}

	if scheme != "" && scheme != "http" {
		job.Scheme = scheme
	}

	if authRequired {
		job.BasicAuth = &BasicAuth{
			Username: BasicAuthUserPlaceholder,
			Password: BasicAuthPasswordPlaceholder,
		}
	}

	return job
}
