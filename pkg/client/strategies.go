package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

// StrategiesService handles communication with the onboarding and strategy endpoints
type StrategiesService struct {
	client *Client
}

func NewStrategiesService(client *Client) *StrategiesService {
	return &StrategiesService{client: client}
}

// Activation is the summary of what the server did with an onboarded decision.
type Activation struct {
	Strategy  string          `json:"strategy,omitempty"`
	Status    string          `json:"status"`
	Applied   bool            `json:"applied"`
	Message   string          `json:"message,omitempty"`
	ScrapeJob json.RawMessage `json:"scrape_job,omitempty"`
	Pipeline  json.RawMessage `json:"pipeline,omitempty"`
	Loki      json.RawMessage `json:"loki,omitempty"`
	Tempo     json.RawMessage `json:"tempo,omitempty"`
}

type OnboardResult struct {
	Key string `json:"key"`
	v1.MonitoringDecision
	Activation *Activation `json:"activation"`
}

// Strategy is a stored decision. Target is nil when nothing is stored for the key.
type Strategy struct {
	Key string `json:"key"`
	v1.MonitoringDecision
	Target    *v1.Target `json:"target,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type StrategyListOptions struct {
	Environment string
	Strategy    string
}

// Onboard resolves, activates and stores the decision for a target
func (s *StrategiesService) Onboard(ctx context.Context, req *v1.OnboardRequest) (*OnboardResult, error) {
	var result OnboardResult
	if err := s.client.call(ctx, http.MethodPost, "/api/v1/onboard", nil, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Resolve runs the strategy resolution without activating or storing anything
func (s *StrategiesService) Resolve(ctx context.Context, req *v1.OnboardRequest) (*v1.MonitoringDecision, error) {
	var decision v1.MonitoringDecision
	if err := s.client.call(ctx, http.MethodPost, "/api/v1/resolve", nil, req, &decision); err != nil {
		return nil, err
	}

	return &decision, nil
}

func (s *StrategiesService) Get(ctx context.Context, key string) (*Strategy, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	var strategy Strategy
	if err := s.client.call(ctx, http.MethodGet, "/api/v1/strategy", url.Values{"key": {key}}, nil, &strategy); err != nil {
		return nil, err
	}

	return &strategy, nil
}

func (s *StrategiesService) List(ctx context.Context, opts StrategyListOptions) ([]v1.DecisionRecord, error) {
	params := url.Values{}

	if opts.Environment != "" {
		params.Set("env", opts.Environment)
	}

	if opts.Strategy != "" {
		params.Set("strategy", opts.Strategy)
	}

	var records []v1.DecisionRecord
	if err := s.client.call(ctx, http.MethodGet, "/api/v1/strategies", params, nil, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *StrategiesService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	return s.client.call(ctx, http.MethodDelete, "/api/v1/strategy", url.Values{"key": {key}}, nil, nil)
}
