package cron

import (
	"context"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/activator"
	"github.com/neutree-ai/obsprobe/internal/resolver"
	"github.com/neutree-ai/obsprobe/pkg/storage"
)

// StartCrons starts the periodic refresh of stored decisions. A zero interval disables it.
func StartCrons(ctx context.Context, s storage.Storage, r resolver.Resolver, a activator.Activator,
	interval time.Duration) error {
	if interval <= 0 {
		klog.Infof("Decision refresh is disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrapf(err, "failed to init cron scheduler")
	}

	_, err = scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(func() {
		klog.V(4).Infof("Start to refresh stored decisions")

		refreshed, jobErr := RefreshDecisions(ctx, s, r, a)
		if jobErr != nil {
			klog.Errorf("Failed to refresh decisions: %v", jobErr)
			return
		}

		klog.V(4).Infof("Refreshed %d decisions", refreshed)
	}), gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return errors.Wrapf(err, "failed to add refresh decisions cron job")
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()

		if err := scheduler.Shutdown(); err != nil {
			klog.Errorf("Failed to shutdown cron scheduler: %v", err)
		}
	}()

	return nil
}

// RefreshDecisions resolves every stored target again and overwrites its decision.
// A target that fails to resolve keeps its previous decision. When the strategy changes the
// previous integration is deactivated and the new one activated before the decision is saved.
func RefreshDecisions(ctx context.Context, s storage.Storage, r resolver.Resolver, a activator.Activator) (int, error) {
	records, err := s.ListDecisions(storage.ListOption{})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list decisions")
	}

	refreshed := 0

	for i := range records {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}

		record := &records[i]

		decision, err := r.Resolve(ctx, record.Target)
		if err != nil {
			klog.Warningf("Failed to refresh decision %s: %v", record.Key, err)
			continue
		}

		if previous := record.Decision.StrategyName(); previous != decision.StrategyName() {
			klog.Infof("Strategy of %s changed from %q to %q", record.Key, previous, decision.StrategyName())

			if err = a.Deactivate(ctx, record.Target, &record.Decision); err != nil {
				klog.Warningf("Failed to deactivate %q for %s, decision kept: %v", previous, record.Key, err)
				continue
			}

			a.Activate(ctx, record.Target, decision, nil)
		}

		record.Decision = *decision
		record.UpdatedAt = time.Now().UTC()

		if err = s.SaveDecision(record); err != nil {
			klog.Errorf("Failed to save refreshed decision %s: %v", record.Key, err)
			continue
		}

		refreshed++
	}

	return refreshed, nil
}
