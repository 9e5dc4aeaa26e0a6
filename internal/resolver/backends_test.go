package resolver

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func statusHandler(path string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == path {
			w.WriteHeader(status)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})
}

func TestCheckLoki(t *testing.T) {
	tests := []struct {
		name      string
		transport *fakeTransport
		expected  bool
	}{
		{
			name:      "labels api answers",
			transport: &fakeTransport{handler: statusHandler("/loki/api/v1/labels", http.StatusOK)},
			expected:  true,
		},
		{
			name:      "labels api missing",
			transport: &fakeTransport{handler: statusHandler("/ready", http.StatusOK)},
			expected:  false,
		},
		{
			name:      "unreachable",
			transport: &fakeTransport{doErr: errors.New("dial tcp: i/o timeout")},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckLoki(context.Background(), tt.transport, "http://loki:3100/"))
		})
	}
}

func TestCheckTempo(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{name: "ok", status: http.StatusOK, expected: true},
		{name: "not found still reachable", status: http.StatusNotFound, expected: true},
		{name: "server error", status: http.StatusBadGateway, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{handler: statusHandler("/tempo/api/traces", tt.status)}
			assert.Equal(t, tt.expected, CheckTempo(context.Background(), transport, "http://tempo:3200"))
		})
	}
}
