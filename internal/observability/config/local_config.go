package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/obsprobe/internal/observability/monitoring"
)

// LocalConfigSync edits a prometheus.yml on the local filesystem.
type LocalConfigSync struct {
	configFilePath string
	lock           sync.Mutex
}

var _ ScrapeConfigSyncer = (*LocalConfigSync)(nil)

func NewLocalConfigSync(configFilePath string) *LocalConfigSync {
	return &LocalConfigSync{
		configFilePath: configFilePath,
	}
}

func (s *LocalConfigSync) AddScrapeJob(_ context.Context, job monitoring.ScrapeJob) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	raw, err := s.read()
	if err != nil {
		return false, err
	}

	updated, added, err := appendScrapeJob(raw, job)
	if err != nil {
		return false, errors.Wrapf(err, "failed to add scrape job %s", job.JobName)
	}

	if !added {
		klog.Warningf("Scrape job %s already exists in %s, skipping", job.JobName, s.configFilePath)
		return false, nil
	}

	if err = s.write(updated); err != nil {
		return false, err
	}

	klog.Infof("Added scrape job %s to %s", job.JobName, s.configFilePath)

	return true, nil
}

func (s *LocalConfigSync) RemoveScrapeJob(_ context.Context, jobName string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	raw, err := s.read()
	if err != nil {
		return false, err
	}

	updated, removed, err := removeScrapeJob(raw, jobName)
	if err != nil {
		return false, errors.Wrapf(err, "failed to remove scrape job %s", jobName)
	}

	if !removed {
		return false, nil
	}

	if err = s.write(updated); err != nil {
		return false, err
	}

	klog.Infof("Removed scrape job %s from %s", jobName, s.configFilePath)

	return true, nil
}

func (s *LocalConfigSync) ListScrapeJobs(_ context.Context) ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	raw, err := s.read()
	if err != nil {
		return nil, err
	}

	return listJobNames(raw)
}

// read returns the file content, or nothing when the file does not exist yet.
func (s *LocalConfigSync) read() ([]byte, error) {
	raw, err := os.ReadFile(s.configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to read prometheus config: %s", s.configFilePath)
	}

	return raw, nil
}

// write replaces the file atomically through a rename.
func (s *LocalConfigSync) write(content []byte) error {
	dir := filepath.Dir(s.configFilePath)

	tmp, err := os.CreateTemp(dir, ".prometheus-*.yml")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write temp file %s", tmp.Name())
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close temp file %s", tmp.Name())
	}

	if err = os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gosec
		return errors.Wrapf(err, "failed to chmod %s", tmp.Name())
	}

	if err = os.Rename(tmp.Name(), s.configFilePath); err != nil {
		return errors.Wrapf(err, "failed to write prometheus config: %s", s.configFilePath)
	}

	return nil
}
