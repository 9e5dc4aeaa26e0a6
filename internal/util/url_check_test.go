package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPOrHTTPSURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"http://prometheus:9090", true},
		{"https://loki.example.com", true},
		{"ftp://example.com", false},
		{"prometheus:9090", false},
		{"", false},
		{"   https://example.com   ", true},
		{"http:/example.com", false},
		{"http://:9090", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHTTPOrHTTPSURL(tt.input), "IsHTTPOrHTTPSURL(%q)", tt.input)
	}
}

func TestTrimBaseURL(t *testing.T) {
	assert.Equal(t, "http://prometheus:9090", TrimBaseURL(" http://prometheus:9090// "))
	assert.Equal(t, "http://tempo:3200/api", TrimBaseURL("http://tempo:3200/api"))
}
