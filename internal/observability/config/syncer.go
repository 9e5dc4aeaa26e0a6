package config

import (
	"context"

	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

// ScrapeConfigSyncer edits the scrape job list of a Prometheus configuration.
// Writers within one process are serialized; concurrent writers in other processes may still race.
type ScrapeConfigSyncer interface {
	// AddScrapeJob appends job unless a job with the same name exists. added is false for the no-op case.
	AddScrapeJob(ctx context.Context, job monitoring.ScrapeJob) (added bool, err error)
	// RemoveScrapeJob drops the job named jobName. removed is false when it was absent.
	RemoveScrapeJob(ctx context.Context, jobName string) (removed bool, err error)
	// ListScrapeJobs returns the job names currently configured.
	ListScrapeJobs(ctx context.Context) ([]string, error)
}
