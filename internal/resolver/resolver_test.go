package resolver

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

var shopTarget = v1.Target{URL: "http://shop.internal:8080"}

func strategyOf(d *v1.MonitoringDecision) string {
	return d.StrategyName()
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name               string
		fixture            fixture
		openPorts          map[int]bool
		expectedStrategy   v1.Strategy
		expectedConfidence v1.Confidence
		expectedDetails    string
	}{
		{
			name:               "metrics endpoint with HELP marker",
			fixture:            fixture{metricsStatus: 200, metricsBody: "# HELP foo counter\nfoo 1\n"},
			expectedStrategy:   v1.StrategyPrometheus,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "/metrics endpoint detected",
		},
		{
			name:               "metrics endpoint with TYPE marker only",
			fixture:            fixture{metricsStatus: 200, metricsBody: "# TYPE foo gauge\nfoo 1\n"},
			expectedStrategy:   v1.StrategyPrometheus,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "/metrics endpoint detected",
		},
		{
			name:               "metrics forbidden",
			fixture:            fixture{metricsStatus: 403},
			expectedStrategy:   v1.StrategyPrometheusAuth,
			expectedConfidence: v1.ConfidenceMedium,
			expectedDetails:    "/metrics exists but requires auth",
		},
		{
			name:               "metrics unauthorized",
			fixture:            fixture{metricsStatus: 401},
			expectedStrategy:   v1.StrategyPrometheusAuth,
			expectedConfidence: v1.ConfidenceMedium,
			expectedDetails:    "/metrics exists but requires auth",
		},
		{
			name: "metrics without marker falls through to blackbox",
			fixture: fixture{
				metricsStatus: 200,
				metricsBody:   "<html>hello</html>",
				baseStatus:    200,
			},
			expectedStrategy:   v1.StrategyBlackboxHTTP,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "Only uptime / latency monitoring possible",
		},
		{
			name:               "otlp traces answers 415",
			fixture:            fixture{otlpStatus: map[string]int{"/v1/traces": 415}},
			expectedStrategy:   v1.StrategyOpenTelemetryHTTP,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "OTLP HTTP endpoint detected",
		},
		{
			name:               "otlp metrics answers 200 after traces 405",
			fixture:            fixture{otlpStatus: map[string]int{"/v1/traces": 405, "/v1/metrics": 200}},
			expectedStrategy:   v1.StrategyOpenTelemetryHTTP,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "OTLP HTTP endpoint detected",
		},
		{
			name:               "otlp traces answers 404",
			fixture:            fixture{otlpStatus: map[string]int{"/v1/traces": 404}},
			expectedStrategy:   v1.StrategyOpenTelemetryHTTP,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "OTLP HTTP endpoint detected",
		},
		{
			name:               "otlp grpc port open",
			openPorts:          map[int]bool{4317: true, 8125: true},
			expectedStrategy:   v1.StrategyOpenTelemetryGRPC,
			expectedConfidence: v1.ConfidenceHigh,
			expectedDetails:    "OTLP gRPC endpoint detected on port 4317",
		},
		{
			name:               "statsd port open",
			openPorts:          map[int]bool{8125: true},
			expectedStrategy:   v1.StrategyStatsD,
			expectedConfidence: v1.ConfidenceMedium,
			expectedDetails:    "StatsD-compatible agent detected",
		},
		{
			name:               "kubernetes header",
			fixture:            fixture{baseHeaders: map[string]string{"X-Kubernetes-Pod": "shop-7d9f"}},
			expectedStrategy:   v1.StrategyKubernetesAuto,
			expectedConfidence: v1.ConfidenceMedium,
			expectedDetails:    "Kubernetes environment detected",
		},
		{
			name:               "kubernetes marker in header value",
			fixture:            fixture{baseHeaders: map[string]string{"Via": "x-kubernetes-ingress"}},
			expectedStrategy:   v1.StrategyKubernetesAuto,
			expectedConfidence: v1.ConfidenceMedium,
			expectedDetails:    "Kubernetes environment detected",
		},
		{
			name:               "aws request id header",
			fixture:            fixture{baseHeaders: map[string]string{"X-Amzn-RequestId": "abc"}},
			expectedStrategy:   v1.StrategyAWSCloudMetrics,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "AWS headers detected",
		},
		{
			name:               "gcp header",
			fixture:            fixture{baseHeaders: map[string]string{"X-Goog-Generation": "1"}},
			expectedStrategy:   v1.StrategyGCPCloudMetrics,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "GCP headers detected",
		},
		{
			name:               "azure header",
			fixture:            fixture{baseHeaders: map[string]string{"X-Ms-Request-Id": "abc"}},
			expectedStrategy:   v1.StrategyAzureCloudMetrics,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "AZURE headers detected",
		},
		{
			name: "aws wins over gcp",
			fixture: fixture{baseHeaders: map[string]string{
				"X-Goog-Generation": "1",
				"X-Amzn-Trace-Id":   "Root=1",
			}},
			expectedStrategy:   v1.StrategyAWSCloudMetrics,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "AWS headers detected",
		},
		{
			name:               "plain reachable site",
			fixture:            fixture{baseStatus: 302},
			expectedStrategy:   v1.StrategyBlackboxHTTP,
			expectedConfidence: v1.ConfidenceLow,
			expectedDetails:    "Only uptime / latency monitoring possible",
		},
	}

	for _, tt := range tests {
		for _, mode := range []Mode{ModeSequential, ModeParallel} {
			t.Run(tt.name+"/"+string(mode), func(t *testing.T) {
				cfg := DefaultConfig()
				cfg.Mode = mode

				transport := &fakeTransport{handler: tt.fixture.handler(), openPorts: tt.openPorts}
				r := New(transport, WithConfig(cfg))

				decision, err := r.Resolve(context.Background(), shopTarget)
				require.NoError(t, err)
				require.NoError(t, decision.Validate())

				assert.True(t, decision.Monitorable)
				assert.Equal(t, string(tt.expectedStrategy), strategyOf(decision))
				assert.Equal(t, tt.expectedConfidence, decision.Confidence)
				assert.Equal(t, tt.expectedDetails, decision.Details)
				assert.Empty(t, decision.NextSteps)
			})
		}
	}
}

func TestResolver_Unmonitorable(t *testing.T) {
	tests := []struct {
		name      string
		transport *fakeTransport
	}{
		{
			name:      "every endpoint errors",
			transport: &fakeTransport{handler: fixture{}.handler()},
		},
		{
			name:      "transport fails",
			transport: &fakeTransport{doErr: errors.New("no route to host")},
		},
		{
			name:      "nothing listening",
			transport: &fakeTransport{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.transport)

			decision, err := r.Resolve(context.Background(), shopTarget)
			require.NoError(t, err)
			require.NoError(t, decision.Validate())

			assert.False(t, decision.Monitorable)
			assert.Nil(t, decision.Strategy)
			assert.Equal(t, v1.ConfidenceNone, decision.Confidence)
			assert.Equal(t, "No metrics or telemetry endpoints detected", decision.Details)
			assert.Equal(t, []string{
				"Expose /metrics",
				"Enable OpenTelemetry SDK",
				"Deploy OpenTelemetry Collector",
				"Use blackbox exporter",
			}, decision.NextSteps)
		})
	}
}

func TestResolver_PriorityDominance(t *testing.T) {
	fx := fixture{
		metricsStatus: 200,
		metricsBody:   "# HELP up whether the target is up\nup 1\n",
		otlpStatus:    map[string]int{"/v1/traces": 200, "/v1/metrics": 200},
		baseStatus:    200,
		baseHeaders:   map[string]string{"X-Kubernetes-Pod": "p", "X-Amzn-RequestId": "r"},
	}

	for _, mode := range []Mode{ModeSequential, ModeParallel} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode

			transport := &fakeTransport{handler: fx.handler(), openPorts: map[int]bool{4317: true, 8125: true}}
			decision, err := New(transport, WithConfig(cfg)).Resolve(context.Background(), shopTarget)
			require.NoError(t, err)

			assert.Equal(t, string(v1.StrategyPrometheus), strategyOf(decision))
			assert.Equal(t, v1.ConfidenceHigh, decision.Confidence)
		})
	}
}

func TestResolver_ShortCircuits(t *testing.T) {
	transport := &fakeTransport{
		handler:   fixture{metricsStatus: 403}.handler(),
		openPorts: map[int]bool{4317: true},
	}

	_, err := New(transport).Resolve(context.Background(), shopTarget)
	require.NoError(t, err)

	assert.Equal(t, 1, transport.count("GET /metrics"))
	assert.Zero(t, transport.count("POST /v1/traces"))
	assert.Empty(t, transport.dials)
}

func TestResolver_SharedFetches(t *testing.T) {
	transport := &fakeTransport{handler: fixture{}.handler()}

	_, err := New(transport).Resolve(context.Background(), shopTarget)
	require.NoError(t, err)

	// One /metrics fetch serves both prometheus probes, one header fetch serves both platform probes,
	// and the blackbox probe issues its own GET.
	assert.Equal(t, 1, transport.count("GET /metrics"))
	assert.Equal(t, 2, transport.count("GET "))
	assert.Equal(t, 1, transport.count("POST /v1/traces"))
	assert.Equal(t, 1, transport.count("POST /v1/metrics"))
	assert.ElementsMatch(t, []string{"shop.internal:4317", "shop.internal:8125"}, transport.dials)
}

func TestResolver_Idempotent(t *testing.T) {
	transport := &fakeTransport{handler: fixture{baseHeaders: map[string]string{"X-Goog-Meta": "1"}}.handler()}
	r := New(transport)

	first, err := r.Resolve(context.Background(), shopTarget)
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), shopTarget)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolver_InvalidTarget(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no scheme", url: "shop.internal:8080"},
		{name: "unsupported scheme", url: "ftp://shop.internal"},
		{name: "missing host", url: "http://"},
		{name: "unparseable", url: "http://shop internal:80%zz"},
	}

	transport := &fakeTransport{handler: fixture{}.handler()}
	r := New(transport)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := r.Resolve(context.Background(), v1.Target{URL: tt.url})
			assert.Nil(t, decision)
			assert.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)
		})
	}

	assert.Empty(t, transport.requests)
}

func TestResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, mode := range []Mode{ModeSequential, ModeParallel} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode

			r := New(&fakeTransport{handler: fixture{baseStatus: 200}.handler()}, WithConfig(cfg))

			decision, err := r.Resolve(ctx, shopTarget)
			assert.Nil(t, decision)
			assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
		})
	}
}

func TestResolver_CustomMatcher(t *testing.T) {
	// The value mentions x-amzn but no header key starts with it.
	fx := fixture{baseStatus: 200, baseHeaders: map[string]string{"Via": "proxy x-amzn-gateway"}}

	decision, err := New(&fakeTransport{handler: fx.handler()}).Resolve(context.Background(), shopTarget)
	require.NoError(t, err)
	assert.Equal(t, string(v1.StrategyAWSCloudMetrics), strategyOf(decision))

	decision, err = New(&fakeTransport{handler: fx.handler()}, WithHeaderMatcher(ExactHeaderKeyMatcher{})).
		Resolve(context.Background(), shopTarget)
	require.NoError(t, err)
	assert.Equal(t, string(v1.StrategyBlackboxHTTP), strategyOf(decision))
}

func TestResolver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	transport := &fakeTransport{handler: fixture{metricsStatus: 403}.handler()}
	_, err := New(transport, WithMetrics(m)).Resolve(context.Background(), shopTarget)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("prometheus-auth", "medium")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.probeAttempts.WithLabelValues("prometheus", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.probeAttempts.WithLabelValues("prometheus-auth", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.probeAttempts.WithLabelValues("blackbox-http", "success")))
}

func TestResolver_RealNetwork(t *testing.T) {
	appMetrics := prometheus.NewRegistry()
	requests := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_requests_total", Help: "Requests served"})
	appMetrics.MustRegister(requests)
	requests.Inc()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(appMetrics, promhttp.HandlerOpts{}))
	app := httptest.NewServer(mux)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := NewTransport(ctx, TransportOptions{DNSRefreshInterval: time.Minute})

	decision, err := New(transport).Resolve(ctx, v1.Target{URL: app.URL})
	require.NoError(t, err)
	assert.Equal(t, string(v1.StrategyPrometheus), strategyOf(decision))
}

func TestResolver_RealNetworkTCP(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	statsd, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer statsd.Close()

	go func() {
		for {
			conn, err := statsd.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closed.Addr().(*net.TCPAddr).Port
	require.NoError(t, closed.Close())

	cfg := DefaultConfig()
	cfg.OTLPGRPCPort = closedPort
	cfg.StatsDPort = statsd.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	decision, err := New(NewTransport(ctx, TransportOptions{}), WithConfig(cfg)).Resolve(ctx, v1.Target{URL: failing.URL})
	require.NoError(t, err)
	assert.Equal(t, string(v1.StrategyStatsD), strategyOf(decision))
}

func TestResolver_HangingEndpoint(t *testing.T) {
	hanging := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hanging.Close()

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closed.Addr().(*net.TCPAddr).Port
	require.NoError(t, closed.Close())

	for _, mode := range []Mode{ModeSequential, ModeParallel} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode
			cfg.OTLPGRPCPort = closedPort
			cfg.StatsDPort = closedPort
			cfg.Timeouts = Timeouts{
				Prometheus: 200 * time.Millisecond,
				OTLP:       200 * time.Millisecond,
				TCP:        200 * time.Millisecond,
				Headers:    200 * time.Millisecond,
				Blackbox:   200 * time.Millisecond,
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			start := time.Now()
			decision, err := New(NewTransport(ctx, TransportOptions{}), WithConfig(cfg)).Resolve(ctx, v1.Target{URL: hanging.URL})
			took := time.Since(start)

			require.NoError(t, err)
			assert.False(t, decision.Monitorable)
			assert.Nil(t, decision.Strategy)
			assert.Equal(t, v1.DefaultNextSteps(), decision.NextSteps)
			assert.Less(t, took, 3*time.Second)
		})
	}
}

func TestParseTarget(t *testing.T) {
	parsed, err := ParseTarget(v1.Target{URL: " https://shop.internal:8443/app/ "})
	require.NoError(t, err)

	assert.Equal(t, "https://shop.internal:8443/app", parsed.BaseURL)
	assert.Equal(t, "shop.internal", parsed.Host)
	assert.Equal(t, "shop.internal:8443", parsed.HostPort)
	assert.Equal(t, "https://shop.internal:8443/app/metrics", parsed.Endpoint("/metrics"))
	assert.Equal(t, "shop.internal:"+strconv.Itoa(4317), parsed.Address(4317))
}
