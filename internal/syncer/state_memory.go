package syncer

import (
	"context"
	"sync"
	"time"
)

// MemoryStateStore is an in-memory StateStore for tests and local runs.
type MemoryStateStore struct {
	mu         sync.RWMutex
	watermarks map[Entity]time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{watermarks: make(map[Entity]time.Time)}
}

func (s *MemoryStateStore) Watermark(ctx context.Context, entity Entity) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watermarks[entity], nil
}

func (s *MemoryStateStore) SetWatermark(ctx context.Context, entity Entity, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermarks[entity] = t
	return nil
}
