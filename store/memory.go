package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// MemoryStore keeps records in an in-process map. Used for tests and demo
// runs; contents do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.TruckRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.TruckRecord),
	}
}

// ListAll returns records ordered by id so iteration is stable across calls.
func (s *MemoryStore) ListAll(ctx context.Context) ([]models.TruckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]models.TruckRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.records[id])
	}
	return records, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.TruckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return models.TruckRecord{}, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) Create(ctx context.Context, record models.TruckRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	record.ID = id
	s.records[id] = record
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, record models.TruckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = id
	s.records[id] = record
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
