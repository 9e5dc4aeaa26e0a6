package v1

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Strategy names the observability integration selected for a target.
type Strategy string

const (
	StrategyPrometheus        Strategy = "prometheus"
	StrategyPrometheusAuth    Strategy = "prometheus-auth"
	StrategyOpenTelemetryHTTP Strategy = "opentelemetry-http"
	StrategyOpenTelemetryGRPC Strategy = "opentelemetry-grpc"
	StrategyStatsD            Strategy = "statsd"
	StrategyKubernetesAuto    Strategy = "kubernetes-auto"
	StrategyAWSCloudMetrics   Strategy = "aws-cloud-metrics"
	StrategyGCPCloudMetrics   Strategy = "gcp-cloud-metrics"
	StrategyAzureCloudMetrics Strategy = "azure-cloud-metrics"
	StrategyBlackboxHTTP      Strategy = "blackbox-http"
)

var knownStrategies = map[Strategy]struct{}{
	StrategyPrometheus:        {},
	StrategyPrometheusAuth:    {},
	StrategyOpenTelemetryHTTP: {},
	StrategyOpenTelemetryGRPC: {},
	StrategyStatsD:            {},
	StrategyKubernetesAuto:    {},
	StrategyAWSCloudMetrics:   {},
	StrategyGCPCloudMetrics:   {},
	StrategyAzureCloudMetrics: {},
	StrategyBlackboxHTTP:      {},
}

func (s Strategy) IsValid() bool {
	_, ok := knownStrategies[s]
	return ok
}

// IsPrometheus reports whether the strategy is fulfilled by a Prometheus scrape job.
func (s Strategy) IsPrometheus() bool {
	return s == StrategyPrometheus || s == StrategyPrometheusAuth
}

// CloudProvider returns the provider segment of a cloud metrics strategy, or "" for others.
func (s Strategy) CloudProvider() string {
	switch s {
	case StrategyAWSCloudMetrics, StrategyGCPCloudMetrics, StrategyAzureCloudMetrics:
		return strings.TrimSuffix(string(s), "-cloud-metrics")
	default:
		return ""
	}
}

// CloudStrategy maps a provider name (aws, gcp, azure) to its strategy.
func CloudStrategy(provider string) (Strategy, bool) {
	s := Strategy(provider + "-cloud-metrics")
	if s.CloudProvider() == "" {
		return "", false
	}

	return s, true
}

// Confidence is an ordered label: none < low < medium < high.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

var confidenceNames = []string{"none", "low", "medium", "high"}

func (c Confidence) String() string {
	if c < ConfidenceNone || c > ConfidenceHigh {
		return fmt.Sprintf("Confidence(%d)", int(c))
	}

	return confidenceNames[c]
}

func (c Confidence) Less(other Confidence) bool {
	return c < other
}

func ParseConfidence(s string) (Confidence, error) {
	for i, name := range confidenceNames {
		if strings.EqualFold(s, name) {
			return Confidence(i), nil
		}
	}

	return ConfidenceNone, errors.Errorf("unknown confidence %q", s)
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	if c < ConfidenceNone || c > ConfidenceHigh {
		return nil, errors.Errorf("invalid confidence %d", int(c))
	}

	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "confidence must be a string")
	}

	parsed, err := ParseConfidence(s)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// Target is the endpoint under evaluation. Only URL is consulted by the resolver.
type Target struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	Environment string `json:"environment,omitempty"`
	Type        string `json:"type,omitempty"`
	Framework   string `json:"framework,omitempty"`
}

// Key is the persistence key of the target: its name when given, otherwise the URL.
func (t Target) Key() string {
	if t.Name != "" {
		return t.Name
	}

	return strings.TrimRight(t.URL, "/")
}

type LogsSpec struct {
	Enabled  bool   `json:"enabled"`
	LokiURL  string `json:"loki_url,omitempty"`
	TempoURL string `json:"tempo_url,omitempty"`
}

type OnboardRequest struct {
	Type      string    `json:"type"`
	Framework string    `json:"framework,omitempty"`
	URL       string    `json:"url"`
	Env       string    `json:"env,omitempty"`
	Name      string    `json:"name,omitempty"`
	Logs      *LogsSpec `json:"logs,omitempty"`
}

func (r *OnboardRequest) Target() Target {
	env := r.Env
	if env == "" {
		env = DefaultEnvironment
	}

	return Target{
		URL:         r.URL,
		Name:        r.Name,
		Environment: env,
		Type:        r.Type,
		Framework:   r.Framework,
	}
}

// MonitoringDecision is the outcome of a strategy resolution.
type MonitoringDecision struct {
	Monitorable bool       `json:"monitorable"`
	Strategy    *Strategy  `json:"strategy"`
	Confidence  Confidence `json:"confidence"`
	Details     string     `json:"details"`
	NextSteps   []string   `json:"next_steps,omitempty"`
}

// Validate checks the pairing of monitorable, strategy, confidence and next steps.
func (d *MonitoringDecision) Validate() error {
	if d.Monitorable != (d.Strategy != nil) {
		return errors.New("strategy must be set if and only if the target is monitorable")
	}

	if d.Strategy != nil && !d.Strategy.IsValid() {
		return errors.Errorf("unknown strategy %q", *d.Strategy)
	}

	if (d.Confidence == ConfidenceNone) != (d.Strategy == nil) {
		return errors.Errorf("confidence %s does not match strategy presence", d.Confidence)
	}

	if d.Monitorable && len(d.NextSteps) > 0 {
		return errors.New("next steps are only given for unmonitorable targets")
	}

	return nil
}

func (d *MonitoringDecision) StrategyName() string {
	if d.Strategy == nil {
		return ""
	}

	return string(*d.Strategy)
}

// NotFoundDecision is returned to callers when no decision has been stored for a key.
func NotFoundDecision() *MonitoringDecision {
	return &MonitoringDecision{
		Monitorable: false,
		Confidence:  ConfidenceNone,
		Details:     "No strategy found",
	}
}

// DecisionRecord is the persisted form of a decision.
type DecisionRecord struct {
	Key       string             `json:"key"`
	Target    Target             `json:"target"`
	Decision  MonitoringDecision `json:"decision"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
