package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.openly.dev/pointy"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

const userAgent = "obsprobe-resolver"

// Outcome is the tri-state result of a single probe.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	// OutcomeInconclusive means the probe could not get an answer, e.g. the transport failed.
	OutcomeInconclusive Outcome = "inconclusive"
)

// Result is what a probe reports. Decision is only set on success.
type Result struct {
	Outcome  Outcome
	Decision *v1.MonitoringDecision
	Message  string
}

// Probe is one step of the resolution chain.
type Probe interface {
	Name() string
	Attempt(ctx context.Context, s *Session) Result
}

var exposition = [][]byte{[]byte("# HELP"), []byte("# TYPE")}

func monitorable(strategy v1.Strategy, confidence v1.Confidence, details string) Result {
	return Result{
		Outcome: OutcomeSuccess,
		Decision: &v1.MonitoringDecision{
			Monitorable: true,
			Strategy:    pointy.Pointer(strategy),
			Confidence:  confidence,
			Details:     details,
		},
	}
}

func failed(format string, args ...interface{}) Result {
	return Result{Outcome: OutcomeFailure, Message: fmt.Sprintf(format, args...)}
}

func inconclusive(err error) Result {
	return Result{Outcome: OutcomeInconclusive, Message: err.Error()}
}

type prometheusProbe struct{}

func (prometheusProbe) Name() string { return "prometheus" }

func (prometheusProbe) Attempt(ctx context.Context, s *Session) Result {
	snap := s.Metrics(ctx)
	if snap.Err != nil {
		return inconclusive(snap.Err)
	}

	if snap.Status != http.StatusOK {
		return failed("status %d", snap.Status)
	}

	for _, marker := range exposition {
		if bytes.Contains(snap.Body, marker) {
			return monitorable(v1.StrategyPrometheus, v1.ConfidenceHigh, "/metrics endpoint detected")
		}
	}

	return failed("no exposition marker in body")
}

type prometheusAuthProbe struct{}

func (prometheusAuthProbe) Name() string { return "prometheus-auth" }

func (prometheusAuthProbe) Attempt(ctx context.Context, s *Session) Result {
	snap := s.Metrics(ctx)
	if snap.Err != nil {
		return inconclusive(snap.Err)
	}

	if snap.Status == http.StatusUnauthorized || snap.Status == http.StatusForbidden {
		return monitorable(v1.StrategyPrometheusAuth, v1.ConfidenceMedium, "/metrics exists but requires auth")
	}

	return failed("status %d", snap.Status)
}

type otlpHTTPProbe struct{}

func (otlpHTTPProbe) Name() string { return "opentelemetry-http" }

// Attempt posts an empty body to the OTLP paths. 404 and 415 count as a listener being present.
func (otlpHTTPProbe) Attempt(ctx context.Context, s *Session) Result {
	var lastErr error

	for _, path := range []string{v1.OTLPTracesPath, v1.OTLPMetricsPath} {
		snap, err := doRequest(ctx, s.Transport, http.MethodPost, s.Target.Endpoint(path), s.Config.Timeouts.OTLP, false)
		if err != nil {
			lastErr = err
			continue
		}

		switch snap.Status {
		case http.StatusOK, http.StatusNotFound, http.StatusUnsupportedMediaType:
			return monitorable(v1.StrategyOpenTelemetryHTTP, v1.ConfidenceHigh, "OTLP HTTP endpoint detected")
		}
	}

	if lastErr != nil {
		return inconclusive(lastErr)
	}

	return failed("no OTLP HTTP listener")
}

// tcpProbe succeeds when a TCP connection to a well-known port on the target host can be opened.
type tcpProbe struct {
	name       string
	port       func(cfg Config) int
	strategy   v1.Strategy
	confidence v1.Confidence
	details    func(port int) string
}

func (p tcpProbe) Name() string { return p.name }

func (p tcpProbe) Attempt(ctx context.Context, s *Session) Result {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Timeouts.TCP)
	defer cancel()

	port := p.port(s.Config)
	address := s.Target.Address(port)

	conn, err := s.Transport.DialContext(ctx, "tcp", address)
	if err != nil {
		return failed("dial %s: %v", address, err)
	}

	_ = conn.Close()

	return monitorable(p.strategy, p.confidence, p.details(port))
}

func otlpGRPCProbe() Probe {
	return tcpProbe{
		name:       "opentelemetry-grpc",
		port:       func(cfg Config) int { return cfg.OTLPGRPCPort },
		strategy:   v1.StrategyOpenTelemetryGRPC,
		confidence: v1.ConfidenceHigh,
		details:    func(port int) string { return fmt.Sprintf("OTLP gRPC endpoint detected on port %d", port) },
	}
}

func statsdProbe() Probe {
	return tcpProbe{
		name:       "statsd",
		port:       func(cfg Config) int { return cfg.StatsDPort },
		strategy:   v1.StrategyStatsD,
		confidence: v1.ConfidenceMedium,
		details:    func(int) string { return "StatsD-compatible agent detected" },
	}
}

type kubernetesProbe struct{}

func (kubernetesProbe) Name() string { return "kubernetes-auto" }

func (kubernetesProbe) Attempt(ctx context.Context, s *Session) Result {
	snap := s.Headers(ctx)
	if snap.Err != nil {
		return inconclusive(snap.Err)
	}

	if s.Matcher.Match(snap.Header, "x-kubernetes") {
		return monitorable(v1.StrategyKubernetesAuto, v1.ConfidenceMedium, "Kubernetes environment detected")
	}

	return failed("no kubernetes headers")
}

// cloudMarkers are checked in order; the first hit wins.
var cloudMarkers = []struct {
	provider string
	marker   string
}{
	{provider: "aws", marker: "x-amzn"},
	{provider: "gcp", marker: "x-goog"},
	{provider: "azure", marker: "x-ms"},
}

type cloudProbe struct{}

func (cloudProbe) Name() string { return "cloud" }

func (cloudProbe) Attempt(ctx context.Context, s *Session) Result {
	snap := s.Headers(ctx)
	if snap.Err != nil {
		return inconclusive(snap.Err)
	}

	for _, c := range cloudMarkers {
		if !s.Matcher.Match(snap.Header, c.marker) {
			continue
		}

		strategy, _ := v1.CloudStrategy(c.provider)

		return monitorable(strategy, v1.ConfidenceLow, strings.ToUpper(c.provider)+" headers detected")
	}

	return failed("no cloud provider headers")
}

type blackboxProbe struct{}

func (blackboxProbe) Name() string { return "blackbox-http" }

func (blackboxProbe) Attempt(ctx context.Context, s *Session) Result {
	snap, err := doRequest(ctx, s.Transport, http.MethodGet, s.Target.BaseURL, s.Config.Timeouts.Blackbox, false)
	if err != nil {
		return inconclusive(err)
	}

	if snap.Status < http.StatusInternalServerError {
		return monitorable(v1.StrategyBlackboxHTTP, v1.ConfidenceLow, "Only uptime / latency monitoring possible")
	}

	return failed("status %d", snap.Status)
}

// DefaultChain returns the probes in priority order.
func DefaultChain() []Probe {
	return []Probe{
		prometheusProbe{},
		prometheusAuthProbe{},
		otlpHTTPProbe{},
		otlpGRPCProbe(),
		statsdProbe(),
		kubernetesProbe{},
		cloudProbe{},
		blackboxProbe{},
	}
}

// fallbackDecision is returned when no probe succeeds.
func fallbackDecision() *v1.MonitoringDecision {
	return &v1.MonitoringDecision{
		Monitorable: false,
		Confidence:  v1.ConfidenceNone,
		Details:     v1.NoTelemetryDetails,
		NextSteps:   v1.DefaultNextSteps(),
	}
}
