package activator

import (
	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

type OTelPipeline struct {
	Protocol string   `json:"protocol"`
	Endpoint string   `json:"endpoint"`
	Metrics  []string `json:"metrics"`
}

type StatsDPipeline struct {
	Host    string   `json:"host"`
	Port    int      `json:"port"`
	Metrics []string `json:"metrics"`
}

type KubernetesPipeline struct {
	Strategy string   `json:"strategy"`
	Metrics  []string `json:"metrics"`
}

type CloudPipeline struct {
	CloudProvider string   `json:"cloud_provider"`
	Metrics       []string `json:"metrics"`
}

type BlackboxPipeline struct {
	URL     string   `json:"url"`
	Metrics []string `json:"metrics"`
}

type LokiPipeline struct {
	App          string            `json:"app"`
	LokiEndpoint string            `json:"loki_endpoint"`
	LogStreams   []string          `json:"log_streams"`
	Labels       map[string]string `json:"labels"`
	Reachable    bool              `json:"reachable"`
}

type TempoPipeline struct {
	App           string   `json:"app"`
	TempoEndpoint string   `json:"tempo_endpoint"`
	TraceIDs      []string `json:"trace_ids"`
	SampleRate    float64  `json:"sample_rate"`
	Reachable     bool     `json:"reachable"`
}

func otelMetrics() []string {
	return []string{
		"trace_duration_seconds",
		"span_errors_total",
		"http_client_duration_seconds",
		"http_server_requests_total",
		"process_cpu_usage",
		"process_memory_rss",
		"custom_app_metrics",
	}
}

func statsdMetrics() []string {
	return []string{
		"requests.count",
		"requests.duration",
		"memory.usage",
		"cpu.usage",
		"queue.size",
	}
}

func blackboxMetrics() []string {
	return []string{
		"probe_success",
		"probe_duration_seconds",
		"http_status_code",
		"dns_lookup_duration_seconds",
		"tcp_connection_duration_seconds",
	}
}

func kubernetesMetrics() []string {
	return []string{
		"kube_pod_info",
		"kube_pod_status_phase",
		"kube_deployment_status_replicas",
		"container_cpu_usage_seconds_total",
		"container_memory_usage_bytes",
		"kube_node_status_condition",
	}
}

func cloudMetrics(provider string) []string {
	switch provider {
	case "aws":
		return []string{"EC2_CPUUtilization", "EC2_MemoryUtilization", "ELB_RequestCount", "RDS_CPUUtilization"}
	case "gcp":
		return []string{
			"compute.googleapis.com/instance/cpu/utilization",
			"compute.googleapis.com/instance/disk/write_bytes_count",
		}
	case "azure":
		return []string{"Percentage CPU", "Network In Total", "Disk Read Bytes/Sec"}
	default:
		return []string{}
	}
}

func newLokiPipeline(app, endpoint string) *LokiPipeline {
	if endpoint == "" {
		endpoint = v1.DefaultLokiURL
	}

	return &LokiPipeline{
		App:          app,
		LokiEndpoint: endpoint,
		LogStreams:   []string{"app_logs", "error_logs"},
		Labels:       map[string]string{"app": app},
	}
}

func newTempoPipeline(app, endpoint string) *TempoPipeline {
	if endpoint == "" {
		endpoint = v1.DefaultTempoURL
	}

	return &TempoPipeline{
		App:           app,
		TempoEndpoint: endpoint,
		TraceIDs:      []string{},
		SampleRate:    1.0,
	}
}
