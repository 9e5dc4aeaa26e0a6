package resolver

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

type Mode string

const (
	// ModeSequential runs probes one by one and stops at the first success.
	ModeSequential Mode = "sequential"
	// ModeParallel runs every probe concurrently and keeps the highest-priority success.
	ModeParallel Mode = "parallel"
)

type Timeouts struct {
	Prometheus time.Duration
	OTLP       time.Duration
	TCP        time.Duration
	Headers    time.Duration
	Blackbox   time.Duration
}

type Config struct {
	Timeouts     Timeouts
	MetricsPath  string
	OTLPGRPCPort int
	StatsDPort   int
	Mode         Mode
	// Parallelism bounds concurrent probes in ModeParallel.
	Parallelism int
}

func DefaultConfig() Config {
	return Config{
		Timeouts: Timeouts{
			Prometheus: v1.PrometheusProbeTimeout,
			OTLP:       v1.OTLPProbeTimeout,
			TCP:        v1.TCPProbeTimeout,
			Headers:    v1.HeaderProbeTimeout,
			Blackbox:   v1.BlackboxProbeTimeout,
		},
		MetricsPath:  v1.MetricsPath,
		OTLPGRPCPort: v1.OTLPGRPCPort,
		StatsDPort:   v1.StatsDPort,
		Mode:         ModeSequential,
		Parallelism:  4,
	}
}

// Resolver maps a target to a monitoring decision.
type Resolver interface {
	Resolve(ctx context.Context, target v1.Target) (*v1.MonitoringDecision, error)
}

// ChainResolver runs an ordered probe chain against a target. It holds no per-call state and is safe
// for concurrent use.
type ChainResolver struct {
	config    Config
	transport Transport
	matcher   HeaderMatcher
	chain     []Probe
	metrics   *Metrics
}

var _ Resolver = (*ChainResolver)(nil)

type Option func(r *ChainResolver)

func WithConfig(cfg Config) Option {
	return func(r *ChainResolver) {
		r.config = cfg
	}
}

func WithHeaderMatcher(m HeaderMatcher) Option {
	return func(r *ChainResolver) {
		r.matcher = m
	}
}

// WithChain replaces the probe chain. Order is priority order.
func WithChain(chain []Probe) Option {
	return func(r *ChainResolver) {
		r.chain = chain
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *ChainResolver) {
		r.metrics = m
	}
}

func New(transport Transport, opts ...Option) *ChainResolver {
	r := &ChainResolver{
		config:    DefaultConfig(),
		transport: transport,
		matcher:   SubstringMatcher{},
		chain:     DefaultChain(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.config.Parallelism <= 0 {
		r.config.Parallelism = 1
	}

	return r
}

// Resolve returns the decision for target. Probe failures never surface as errors; only an
// unusable target or a cancelled ctx does.
func (r *ChainResolver) Resolve(ctx context.Context, target v1.Target) (*v1.MonitoringDecision, error) {
	parsed, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	session := newSession(parsed, r.transport, r.matcher, r.config)

	var decision *v1.MonitoringDecision
	if r.config.Mode == ModeParallel {
		decision, err = r.resolveParallel(ctx, session)
	} else {
		decision, err = r.resolveSequential(ctx, session)
	}

	if err != nil {
		return nil, err
	}

	r.metrics.observeResolution(decision.StrategyName(), decision.Confidence.String(), time.Since(start))
	klog.Infof("Resolved %s to strategy %q (confidence %s)", parsed.BaseURL, decision.StrategyName(), decision.Confidence)

	return decision, nil
}

func (r *ChainResolver) resolveSequential(ctx context.Context, s *Session) (*v1.MonitoringDecision, error) {
	for _, probe := range r.chain {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "resolution cancelled")
		}

		result := r.attempt(ctx, probe, s)
		if result.Outcome == OutcomeSuccess {
			return result.Decision, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "resolution cancelled")
	}

	return fallbackDecision(), nil
}

func (r *ChainResolver) resolveParallel(ctx context.Context, s *Session) (*v1.MonitoringDecision, error) {
	results := make([]Result, len(r.chain))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Parallelism)

	for i, probe := range r.chain {
		i, probe := i, probe
		g.Go(func() error {
			results[i] = r.attempt(gctx, probe, s)
			return nil
		})
	}

	_ = g.Wait()

	for _, result := range results {
		if result.Outcome == OutcomeSuccess {
			return result.Decision, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "resolution cancelled")
	}

	return fallbackDecision(), nil
}

func (r *ChainResolver) attempt(ctx context.Context, probe Probe, s *Session) Result {
	start := time.Now()
	result := probe.Attempt(ctx, s)
	took := time.Since(start)

	r.metrics.observeProbe(probe.Name(), result.Outcome, took)
	klog.V(4).Infof("Probe %s on %s: %s (%s) %s", probe.Name(), s.Target.BaseURL, result.Outcome, took, result.Message)

	return result
}
