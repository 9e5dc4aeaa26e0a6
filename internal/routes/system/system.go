package system

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/version"
)

// Dependencies defines the dependencies for system handlers
type Dependencies struct {
	// PrometheusURL is the Prometheus instance receiving scrape jobs
	PrometheusURL string
	StorageType   string
	ResolverMode  string
}

// SystemInfo represents the system information response
type SystemInfo struct {
	Version       string `json:"version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
	PrometheusURL string `json:"prometheus_url,omitempty"`
	StorageType   string `json:"storage_type,omitempty"`
	ResolverMode  string `json:"resolver_mode,omitempty"`
}

// RegisterSystemRoutes registers system-related routes
func RegisterSystemRoutes(group *gin.RouterGroup, middlewares []gin.HandlerFunc, deps *Dependencies) {
	systemGroup := group.Group("/system")
	systemGroup.Use(middlewares...)

	systemGroup.GET("/info", handleSystemInfo(deps))
}

func handleSystemInfo(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()

		info := &SystemInfo{
			Version:      v.AppVersion,
			GitCommit:    v.GitCommit,
			BuildTime:    v.BuildTime,
			StorageType:  deps.StorageType,
			ResolverMode: deps.ResolverMode,
		}

		if deps.PrometheusURL != "" {
			if prometheusURL, err := validateAndCleanURL(deps.PrometheusURL); err == nil {
				info.PrometheusURL = prometheusURL
			} else {
				klog.Warningf("Invalid Prometheus URL configured: %v", err)
			}
		}

		c.JSON(http.StatusOK, info)
	}
}

func validateAndCleanURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("URL must start with http:// or https://: %s", rawURL)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(parsedURL.String(), "/"), nil
}

// HandleHealth reports liveness.
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
