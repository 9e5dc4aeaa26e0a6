package resolver

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

var errConnRefused = errors.New("connection refused")

// fakeTransport serves HTTP requests from an in-process handler and dials only the listed ports.
type fakeTransport struct {
	handler   http.Handler
	doErr     error
	openPorts map[int]bool

	mu       sync.Mutex
	requests []string
	dials    []string
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req.Method+" "+req.URL.Path)
	f.mu.Unlock()

	if f.doErr != nil {
		return nil, f.doErr
	}

	if f.handler == nil {
		return nil, errConnRefused
	}

	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec.Result(), nil
}

func (f *fakeTransport) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	f.mu.Lock()
	f.dials = append(f.dials, address)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}

	port, _ := strconv.Atoi(portStr)
	if !f.openPorts[port] {
		return nil, errConnRefused
	}

	client, server := net.Pipe()
	_ = server.Close()

	return client, nil
}

func (f *fakeTransport) count(request string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, r := range f.requests {
		if r == request {
			n++
		}
	}

	return n
}

// fixture describes how a fake target answers. Unlisted paths answer 500.
type fixture struct {
	metricsStatus int
	metricsBody   string
	otlpStatus    map[string]int
	baseStatus    int
	baseHeaders   map[string]string
}

func (fx fixture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/metrics" && fx.metricsStatus != 0:
			w.WriteHeader(fx.metricsStatus)
			_, _ = w.Write([]byte(fx.metricsBody))
		case r.Method == http.MethodPost && fx.otlpStatus[r.URL.Path] != 0:
			w.WriteHeader(fx.otlpStatus[r.URL.Path])
		case r.URL.Path == "" || r.URL.Path == "/":
			for k, v := range fx.baseHeaders {
				w.Header().Set(k, v)
			}

			status := fx.baseStatus
			if status == 0 {
				status = http.StatusInternalServerError
			}

			w.WriteHeader(status)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}
