package activator

import (
	"context"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/internal/observability/manager"
	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
	"github.com/neutree-ai/obsprobe/internal/resolver"
	"github.com/neutree-ai/obsprobe/pkg/storage"
)

type Status string

const (
	StatusApplied    Status = "applied"
	StatusConfigured Status = "configured"
	StatusExists     Status = "exists"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

const skippedReason = "No actionable strategy found"

// ActivationResult reports what activating a decision did. It never carries a Go error;
// failures are described by Status and Message.
type ActivationResult struct {
	Strategy string `json:"strategy,omitempty"`
	Status   Status `json:"status"`
	// Applied is true when the integration is in effect: a new scrape job was written and reloaded,
	// or a pipeline config was produced.
	Applied   bool                  `json:"applied"`
	Message   string                `json:"message,omitempty"`
	ScrapeJob *monitoring.ScrapeJob `json:"scrape_job,omitempty"`
	Pipeline  interface{}           `json:"pipeline,omitempty"`
	Loki      *LokiPipeline         `json:"loki,omitempty"`
	Tempo     *TempoPipeline        `json:"tempo,omitempty"`
}

type Activator interface {
	Activate(ctx context.Context, target v1.Target, decision *v1.MonitoringDecision, logs *v1.LogsSpec) *ActivationResult
	// Deactivate undoes what Activate registered outside the process. Only scrape jobs need undoing.
	Deactivate(ctx context.Context, target v1.Target, decision *v1.MonitoringDecision) error
}

type strategyActivator struct {
	scrapeManager manager.ScrapeConfigManager
	transport     resolver.Transport
	storage       storage.Storage
}

var _ Activator = (*strategyActivator)(nil)

type Option func(a *strategyActivator)

// WithStorage lets Deactivate keep scrape jobs that other stored decisions still rely on.
func WithStorage(s storage.Storage) Option {
	return func(a *strategyActivator) {
		a.storage = s
	}
}

// New returns an Activator. transport is used to check Loki and Tempo reachability.
func New(scrapeManager manager.ScrapeConfigManager, transport resolver.Transport, opts ...Option) Activator {
	a := &strategyActivator{
		scrapeManager: scrapeManager,
		transport:     transport,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *strategyActivator) Activate(ctx context.Context, target v1.Target, decision *v1.MonitoringDecision,
	logs *v1.LogsSpec) *ActivationResult {
	result := a.activateStrategy(ctx, target, decision)

	if logs != nil && logs.Enabled {
		a.activateLogs(ctx, target, logs, result)
	}

	klog.Infof("Activation for %s: strategy=%q status=%s applied=%t %s",
		target.Key(), result.Strategy, result.Status, result.Applied, result.Message)

	return result
}

func (a *strategyActivator) activateStrategy(ctx context.Context, target v1.Target, decision *v1.MonitoringDecision) *ActivationResult {
	if decision == nil || decision.Strategy == nil {
		return &ActivationResult{Status: StatusSkipped, Message: skippedReason}
	}

	parsed, err := resolver.ParseTarget(target)
	if err != nil {
		return &ActivationResult{Strategy: decision.StrategyName(), Status: StatusFailed, Message: err.Error()}
	}

	strategy := *decision.Strategy
	result := &ActivationResult{Strategy: string(strategy), Status: StatusConfigured, Applied: true}

	switch {
	case strategy.IsPrometheus():
		return a.activatePrometheus(ctx, target, parsed, strategy == v1.StrategyPrometheusAuth)
	case strategy == v1.StrategyOpenTelemetryHTTP:
		result.Pipeline = &OTelPipeline{Protocol: "http", Endpoint: parsed.BaseURL, Metrics: otelMetrics()}
	case strategy == v1.StrategyOpenTelemetryGRPC:
		result.Pipeline = &OTelPipeline{Protocol: "grpc", Endpoint: parsed.Host, Metrics: otelMetrics()}
	case strategy == v1.StrategyStatsD:
		result.Pipeline = &StatsDPipeline{Host: parsed.Host, Port: v1.StatsDPort, Metrics: statsdMetrics()}
	case strategy == v1.StrategyKubernetesAuto:
		result.Pipeline = &KubernetesPipeline{Strategy: "k8s-autodiscovery", Metrics: kubernetesMetrics()}
	case strategy.CloudProvider() != "":
		provider := strategy.CloudProvider()
		result.Pipeline = &CloudPipeline{CloudProvider: provider, Metrics: cloudMetrics(provider)}
	case strategy == v1.StrategyBlackboxHTTP:
		result.Pipeline = &BlackboxPipeline{URL: parsed.BaseURL, Metrics: blackboxMetrics()}
	default:
		return &ActivationResult{Strategy: string(strategy), Status: StatusSkipped, Message: skippedReason}
	}

	return result
}

func (a *strategyActivator) activatePrometheus(ctx context.Context, target v1.Target, parsed *resolver.ParsedTarget,
	authRequired bool) *ActivationResult {
	job := monitoring.NewScrapeJob(parsed.Host, parsed.HostPort, parsed.Scheme, authRequired, scrapeLabels(target))

	strategy := v1.StrategyPrometheus
	if authRequired {
		strategy = v1.StrategyPrometheusAuth
	}

	result := &ActivationResult{Strategy: string(strategy), ScrapeJob: &job}

	registered := a.scrapeManager.Register(ctx, job)

	switch {
	case registered.Err != nil:
		result.Status = StatusFailed
		result.Message = registered.Err.Error()
	case !registered.Added:
		result.Status = StatusExists
		result.Message = "scrape job " + job.JobName + " already exists"
	case !registered.Reloaded:
		result.Status = StatusFailed
		result.Message = "scrape job " + job.JobName + " written but prometheus reload failed"
	default:
		result.Status = StatusApplied
		result.Applied = true
	}

	return result
}

func (a *strategyActivator) activateLogs(ctx context.Context, target v1.Target, logs *v1.LogsSpec, result *ActivationResult) {
	app := target.Key()

	result.Loki = newLokiPipeline(app, logs.LokiURL)
	result.Tempo = newTempoPipeline(app, logs.TempoURL)

	if a.transport == nil {
		return
	}

	result.Loki.Reachable = resolver.CheckLoki(ctx, a.transport, result.Loki.LokiEndpoint)
	result.Tempo.Reachable = resolver.CheckTempo(ctx, a.transport, result.Tempo.TempoEndpoint)

	if !result.Loki.Reachable {
		klog.Warningf("Loki at %s is not reachable, pipeline for %s written anyway", result.Loki.LokiEndpoint, app)
	}

	if !result.Tempo.Reachable {
		klog.Warningf("Tempo at %s is not reachable, pipeline for %s written anyway", result.Tempo.TempoEndpoint, app)
	}
}

func (a *strategyActivator) Deactivate(ctx context.Context, target v1.Target, decision *v1.MonitoringDecision) error {
	if decision == nil || decision.Strategy == nil || !decision.Strategy.IsPrometheus() {
		return nil
	}

	parsed, err := resolver.ParseTarget(target)
	if err != nil {
		return err
	}

	jobName := monitoring.JobName(parsed.Host)

	inUse, err := a.jobInUse(target.Key(), parsed.Host)
	if err != nil {
		return err
	}

	if inUse {
		klog.Infof("Scrape job %s is kept, other targets on %s still use it", jobName, parsed.Host)
		return nil
	}

	_, err = a.scrapeManager.Unregister(ctx, jobName)

	return err
}

// jobInUse reports whether a stored Prometheus decision other than key scrapes host.
func (a *strategyActivator) jobInUse(key, host string) (bool, error) {
	if a.storage == nil {
		return false, nil
	}

	records, err := a.storage.ListDecisions(storage.ListOption{})
	if err != nil {
		return false, errors.Wrap(err, "failed to list decisions sharing the scrape job")
	}

	for i := range records {
		record := &records[i]
		if record.Key == key || record.Decision.Strategy == nil || !record.Decision.Strategy.IsPrometheus() {
			continue
		}

		other, err := resolver.ParseTarget(record.Target)
		if err != nil {
			continue
		}

		if other.Host == host {
			return true, nil
		}
	}

	return false, nil
}

func scrapeLabels(target v1.Target) map[string]string {
	labels := map[string]string{}

	if target.Name != "" {
		labels["app"] = target.Name
	}

	if target.Environment != "" {
		labels["env"] = target.Environment
	}

	if len(labels) == 0 {
		return nil
	}

	return labels
}
