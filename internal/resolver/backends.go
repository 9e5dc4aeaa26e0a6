package resolver

import (
	"context"
	"net/http"

	"k8s.io/klog/v2"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/internal/util"
)

// CheckLoki reports whether a Loki instance answers its labels API at lokiURL.
func CheckLoki(ctx context.Context, transport Transport, lokiURL string) bool {
	return checkBackend(ctx, transport, lokiURL, v1.LokiLabelsPath, http.StatusOK)
}

// CheckTempo reports whether a Tempo instance is reachable at tempoURL. 404 counts as reachable.
func CheckTempo(ctx context.Context, transport Transport, tempoURL string) bool {
	return checkBackend(ctx, transport, tempoURL, v1.TempoTracesPath, http.StatusOK, http.StatusNotFound)
}

func checkBackend(ctx context.Context, transport Transport, baseURL, path string, accepted ...int) bool {
	url := util.TrimBaseURL(baseURL) + path

	snap, err := doRequest(ctx, transport, http.MethodGet, url, v1.BackendProbeTimeout, false)
	if err != nil {
		klog.V(4).Infof("Backend check %s failed: %v", url, err)
		return false
	}

	for _, status := range accepted {
		if snap.Status == status {
			return true
		}
	}

	klog.V(4).Infof("Backend check %s returned status %d", url, snap.Status)

	return false
}
