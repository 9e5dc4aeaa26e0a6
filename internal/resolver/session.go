package resolver

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const maxProbeBodyBytes = 1 << 20

// Snapshot is a fully read response, or the transport error that prevented it.
type Snapshot struct {
	Status int
	Header http.Header
	Body   []byte
	Err    error
}

// Session holds per-resolution state shared by the probes of one chain.
// The /metrics response and the exploratory header fetch are each issued at most once.
type Session struct {
	Target    *ParsedTarget
	Transport Transport
	Matcher   HeaderMatcher
	Config    Config

	metricsOnce sync.Once
	metrics     Snapshot

	headersOnce sync.Once
	headers     Snapshot
}

func newSession(target *ParsedTarget, transport Transport, matcher HeaderMatcher, cfg Config) *Session {
	return &Session{
		Target:    target,
		Transport: transport,
		Matcher:   matcher,
		Config:    cfg,
	}
}

// Metrics returns the memoized GET {base}/metrics response.
func (s *Session) Metrics(ctx context.Context) Snapshot {
	s.metricsOnce.Do(func() {
		s.metrics = s.fetch(ctx, http.MethodGet, s.Target.Endpoint(s.Config.MetricsPath), s.Config.Timeouts.Prometheus, true)
	})

	return s.metrics
}

// Headers returns the memoized response headers of a plain GET on the base URL.
func (s *Session) Headers(ctx context.Context) Snapshot {
	s.headersOnce.Do(func() {
		s.headers = s.fetch(ctx, http.MethodGet, s.Target.BaseURL, s.Config.Timeouts.Headers, false)
	})

	return s.headers
}

func (s *Session) fetch(ctx context.Context, method, url string, timeout time.Duration, readBody bool) Snapshot {
	resp, err := doRequest(ctx, s.Transport, method, url, timeout, readBody)
	if err != nil {
		return Snapshot{Err: err}
	}

	return *resp
}

// doRequest issues a bodyless request with its own timeout. Credentials are never attached.
func doRequest(ctx context.Context, transport Transport, method, url string, timeout time.Duration, readBody bool) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request for %s", method, url)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := transport.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	snap := &Snapshot{Status: resp.StatusCode, Header: resp.Header}

	if readBody {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBodyBytes))
		if err != nil {
			return nil, errors.Wrapf(err, "read body of %s", url)
		}

		snap.Body = body
	} else {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBodyBytes))
	}

	return snap, nil
}
