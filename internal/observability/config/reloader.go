package config

import (
	"context"
	"io"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/util"
)

const reloadPath = "/-/reload"

// Reloader asks Prometheus to re-read its configuration.
type Reloader interface {
	Reload(ctx context.Context) bool
}

// HTTPReloader calls the lifecycle reload endpoint of a Prometheus server.
// Prometheus must run with --web.enable-lifecycle.
type HTTPReloader struct {
	reloadURL string
	client    util.HTTPClient
	timeout   time.Duration
}

var _ Reloader = (*HTTPReloader)(nil)

func NewHTTPReloader(prometheusURL string, client util.HTTPClient) *HTTPReloader {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPReloader{
		reloadURL: util.TrimBaseURL(prometheusURL) + reloadPath,
		client:    client,
		timeout:   10 * time.Second,
	}
}

// Reload reports whether Prometheus answered the reload request with 200.
func (r *HTTPReloader) Reload(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.reloadURL, nil)
	if err != nil {
		klog.Errorf("Failed to build prometheus reload request: %v", err)
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		klog.Errorf("Failed to reload prometheus at %s: %v", r.reloadURL, err)
		return false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		klog.Errorf("Failed to reload prometheus at %s, status code: %d", r.reloadURL, resp.StatusCode)
		return false
	}

	klog.Infof("Prometheus reload successful")

	return true
}

// NoopReloader never contacts Prometheus and always reports success. Used when reloading is disabled.
type NoopReloader struct{}

func (NoopReloader) Reload(context.Context) bool { return true }
