package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// FileStore persists the board as a single JSON file of wire field maps,
// rewritten atomically on every mutation. Suited to single-host deployments
// where the record set stays small.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or creates) the board file at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(map[string]map[string]string{}); err != nil {
			return nil, fmt.Errorf("failed to initialize board file: %w", err)
		}
	}
	// Fail now rather than on first request if the file is unreadable.
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) read() (map[string]map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	byID := make(map[string]map[string]string)
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("failed to parse board file: %w", err)
	}
	return byID, nil
}

// write replaces the board file via a temp file and rename so a crash mid
// write never leaves a torn file behind.
func (s *FileStore) write(byID map[string]map[string]string) error {
	data, err := json.MarshalIndent(byID, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode board file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".trucks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp board file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close board file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace board file: %w", err)
	}
	return nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]models.TruckRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.read()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]models.TruckRecord, 0, len(ids))
	for _, id := range ids {
		record, err := models.RecordFromFields(id, byID[id])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (models.TruckRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.read()
	if err != nil {
		return models.TruckRecord{}, err
	}
	fields, ok := byID[id]
	if !ok {
		return models.TruckRecord{}, ErrNotFound
	}
	return models.RecordFromFields(id, fields)
}

func (s *FileStore) Create(ctx context.Context, record models.TruckRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.read()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	byID[id] = record.Fields()
	if err := s.write(byID); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) Update(ctx context.Context, id string, record models.TruckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.read()
	if err != nil {
		return err
	}
	byID[id] = record.Fields()
	return s.write(byID)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := byID[id]; !ok {
		return nil
	}
	delete(byID, id)
	return s.write(byID)
}

func (s *FileStore) Close() error {
	return nil
}
