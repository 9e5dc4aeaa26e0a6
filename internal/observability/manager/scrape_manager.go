package manager

import (
	"context"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/observability/config"
	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

// RegisterResult describes what registering a scrape job changed.
type RegisterResult struct {
	// Added is false when a job with the same name was already configured.
	Added bool
	// Reloaded is true when Prometheus accepted a reload after the job was added.
	Reloaded bool
	Err      error
}

// Applied reports whether the job is new and live in Prometheus.
func (r RegisterResult) Applied() bool {
	return r.Err == nil && r.Added && r.Reloaded
}

type scrapeConfigManager struct {
	syncer   config.ScrapeConfigSyncer
	reloader config.Reloader
	interval time.Duration

	// jobs registered by this process, re-added by resync if they disappear from the config.
	jobs map[string]monitoring.ScrapeJob
	lock sync.Locker
}

func newScrapeConfigManager(syncer config.ScrapeConfigSyncer, reloader config.Reloader, interval time.Duration) *scrapeConfigManager {
	return &scrapeConfigManager{
		syncer:   syncer,
		reloader: reloader,
		interval: interval,
		jobs:     make(map[string]monitoring.ScrapeJob),
		lock:     &sync.Mutex{},
	}
}

func (m *scrapeConfigManager) Register(ctx context.Context, job monitoring.ScrapeJob) RegisterResult {
	added, err := m.syncer.AddScrapeJob(ctx, job)
	if err != nil {
		return RegisterResult{Err: err}
	}

	m.lock.Lock()
	m.jobs[job.JobName] = job
	m.lock.Unlock()

	if !added {
		return RegisterResult{}
	}

	return RegisterResult{Added: true, Reloaded: m.reloader.Reload(ctx)}
}

func (m *scrapeConfigManager) Unregister(ctx context.Context, jobName string) (bool, error) {
	m.lock.Lock()
	delete(m.jobs, jobName)
	m.lock.Unlock()

	removed, err := m.syncer.RemoveScrapeJob(ctx, jobName)
	if err != nil {
		return false, err
	}

	if removed {
		m.reloader.Reload(ctx)
	}

	return removed, nil
}

// resync re-adds registered jobs that are missing from the config.
func (m *scrapeConfigManager) resync(ctx context.Context) error {
	m.lock.Lock()
	jobs := make([]monitoring.ScrapeJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.lock.Unlock()

	if len(jobs) == 0 {
		return nil
	}

	present, err := m.syncer.ListScrapeJobs(ctx)
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(present))
	for _, name := range present {
		existing[name] = struct{}{}
	}

	restored := 0

	for _, job := range jobs {
		if _, ok := existing[job.JobName]; ok {
			continue
		}

		added, err := m.syncer.AddScrapeJob(ctx, job)
		if err != nil {
			return err
		}

		if added {
			klog.Warningf("Scrape job %s was missing from prometheus config, restored", job.JobName)
			restored++
		}
	}

	if restored > 0 {
		m.reloader.Reload(ctx)
	}

	return nil
}

func (m *scrapeConfigManager) Start(ctx context.Context) {
	if m.interval <= 0 {
		return
	}

	wait.UntilWithContext(ctx, func(ctx context.Context) {
		if err := m.resync(ctx); err != nil {
			klog.Errorf("failed to resync prometheus scrape config: %s", err.Error())
		}
	}, m.interval)
}
