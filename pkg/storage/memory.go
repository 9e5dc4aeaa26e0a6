package storage

import (
	"sync"
	"time"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

var _ Storage = (*memoryStorage)(nil)

type memoryStorage struct {
	lock    sync.RWMutex
	records map[string]v1.DecisionRecord
}

func NewMemoryStorage() Storage {
	return &memoryStorage{records: map[string]v1.DecisionRecord{}}
}

func (s *memoryStorage) SaveDecision(data *v1.DecisionRecord) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	record := *data
	stampRecord(&record)

	if existing, ok := s.records[record.Key]; ok {
		record.CreatedAt = existing.CreatedAt
	}

	s.records[record.Key] = record
	*data = record

	return nil
}

func (s *memoryStorage) GetDecision(key string) (*v1.DecisionRecord, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, ErrResourceNotFound
	}

	return &record, nil
}

func (s *memoryStorage) DeleteDecision(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.records[key]; !ok {
		return ErrResourceNotFound
	}

	delete(s.records, key)

	return nil
}

func (s *memoryStorage) ListDecisions(option ListOption) ([]v1.DecisionRecord, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	response := []v1.DecisionRecord{}

	for key := range s.records {
		record := s.records[key]

		matched, err := matchRecord(&record, option)
		if err != nil {
			return nil, err
		}

		if matched {
			response = append(response, record)
		}
	}

	sortRecords(response)

	return response, nil
}

// stampRecord fills the timestamps a caller left empty.
func stampRecord(record *v1.DecisionRecord) {
	now := time.Now().UTC()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
}
