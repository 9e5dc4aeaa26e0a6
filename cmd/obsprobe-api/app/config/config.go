package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/neutree-ai/obsprobe/internal/activator"
	"github.com/neutree-ai/obsprobe/internal/middleware"
	"github.com/neutree-ai/obsprobe/internal/observability/manager"
	"github.com/neutree-ai/obsprobe/internal/resolver"
	"github.com/neutree-ai/obsprobe/pkg/storage"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
	Host string
}

// APIConfig holds the main API configuration
type APIConfig struct {
	// Core dependencies
	Storage             storage.Storage
	Resolver            resolver.Resolver
	Activator           activator.Activator
	ScrapeConfigManager manager.ScrapeConfigManager
	GinEngine           *gin.Engine
	MetricsRegistry     *prometheus.Registry
	AuthConfig          middleware.AuthConfig

	ServerConfig *ServerConfig

	// RefreshInterval is the period of the stored decision refresh. Zero disables it.
	RefreshInterval time.Duration

	// Reported by the system info API
	StorageType   string
	ResolverMode  string
	PrometheusURL string
}
