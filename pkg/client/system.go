package client

import (
	"context"
	"net/http"
)

type SystemService struct {
	client *Client
}

func NewSystemService(client *Client) *SystemService {
	return &SystemService{client: client}
}

type SystemInfo struct {
	Version       string `json:"version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
	PrometheusURL string `json:"prometheus_url,omitempty"`
	StorageType   string `json:"storage_type,omitempty"`
	ResolverMode  string `json:"resolver_mode,omitempty"`
}

func (s *SystemService) Info(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := s.client.call(ctx, http.MethodGet, "/api/v1/system/info", nil, nil, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *SystemService) Health(ctx context.Context) error {
	return s.client.call(ctx, http.MethodGet, "/health", nil, nil, nil)
}
