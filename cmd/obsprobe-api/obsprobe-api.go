package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/cmd/obsprobe-api/app"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-api/app/options"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		klog.Info("Received shutdown signal")
		cancel()
	}()

	opts := options.NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	if err := opts.Validate(); err != nil {
		klog.Fatalf("Invalid options: %v", err)
	}

	c, err := opts.Config(ctx)
	if err != nil {
		klog.Fatalf("Failed to create config: %v", err)
	}

	a, err := app.NewBuilder().
		WithConfig(c).
		Build()
	if err != nil {
		klog.Fatalf("Failed to build application: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		klog.Fatalf("Application failed: %v", err)
	}
}
