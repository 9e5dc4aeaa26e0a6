package v1

import "time"

const (
	DefaultEnvironment = "prod"

	MetricsPath     = "/metrics"
	OTLPTracesPath  = "/v1/traces"
	OTLPMetricsPath = "/v1/metrics"

	OTLPGRPCPort = 4317
	StatsDPort   = 8125

	LokiLabelsPath  = "/loki/api/v1/labels"
	TempoTracesPath = "/tempo/api/traces"

	DefaultLokiURL       = "http://localhost:3100"
	DefaultTempoURL      = "http://localhost:3200"
	DefaultPrometheusURL = "http://localhost:9090"

	// Prefix of scrape job names registered for onboarded targets.
	ScrapeJobPrefix = "auto_"
)

// Per-probe timeouts.
const (
	PrometheusProbeTimeout = 3 * time.Second
	OTLPProbeTimeout       = 2 * time.Second
	TCPProbeTimeout        = 2 * time.Second
	HeaderProbeTimeout     = 2 * time.Second
	BlackboxProbeTimeout   = 5 * time.Second
	BackendProbeTimeout    = 3 * time.Second
)

const NoTelemetryDetails = "No metrics or telemetry endpoints detected"

// DefaultNextSteps returns the remediation hints attached to unmonitorable decisions.
func DefaultNextSteps() []string {
	return []string{
		"Expose /metrics",
		"Enable OpenTelemetry SDK",
		"Deploy OpenTelemetry Collector",
		"Use blackbox exporter",
	}
}
