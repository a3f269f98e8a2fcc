package repository

import (
	"context"
	"sync"
	"time"

	"github.com/obsicat/obsicat-api/internal/model"
)

// UploadStore keeps upload records. The queue consumer marks records
// completed out of band, so MarkCompleted tolerates racing with reads.
type UploadStore interface {
	Insert(ctx context.Context, rec model.UploadRecord) error
	GetByID(ctx context.Context, id string) (model.UploadRecord, error)
	MarkCompleted(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// MemoryUploadStore keeps upload records in process memory behind a mutex.
type MemoryUploadStore struct {
	mu      sync.RWMutex
	records map[string]model.UploadRecord
}

func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{records: make(map[string]model.UploadRecord)}
}

func (s *MemoryUploadStore) Insert(ctx context.Context, rec model.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryUploadStore) GetByID(ctx context.Context, id string) (model.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return model.UploadRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryUploadStore) MarkCompleted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	rec.Status = model.UploadCompleted
	rec.CompletedAt = &now
	s.records[id] = rec
	return nil
}

func (s *MemoryUploadStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
