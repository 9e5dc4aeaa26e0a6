package app

import (
	"context"
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-api/app/config"
	"github.com/neutree-ai/obsprobe/internal/cron"
)

// App represents the main API application
type App struct {
	config *config.APIConfig
}

// NewApp creates a new API application instance
func NewApp(c *config.APIConfig) *App {
	return &App{
		config: c,
	}
}

// Run starts the API application and blocks until ctx is done
func (a *App) Run(ctx context.Context) error {
	klog.Infof("Starting obsprobe API Application")

	if a.config.ScrapeConfigManager != nil {
		go a.config.ScrapeConfigManager.Start(ctx)
	}

	if err := cron.StartCrons(ctx, a.config.Storage, a.config.Resolver, a.config.Activator,
		a.config.RefreshInterval); err != nil {
		return err
	}

	serverAddr := fmt.Sprintf("%s:%d", a.config.ServerConfig.Host, a.config.ServerConfig.Port)
	klog.Infof("Starting API server on %s", serverAddr)

	go func() {
		if err := a.config.GinEngine.Run(serverAddr); err != nil {
			klog.Fatalf("Failed to start API server: %s", err.Error())
		}
	}()

	<-ctx.Done()

	if closer, ok := a.config.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			klog.Errorf("Failed to close storage: %v", err)
		}
	}

	return nil
}
