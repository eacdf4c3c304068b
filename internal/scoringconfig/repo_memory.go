package scoringconfig

import (
	"context"
	"sync"

	"matching-backend/internal/matching"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	weights matching.ScoringWeights
	saved   bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Load(ctx context.Context) (matching.ScoringWeights, error) {
	if err := ctx.Err(); err != nil {
		return matching.ScoringWeights{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.saved {
		return matching.ScoringWeights{}, ErrNotFound
	}
	return r.weights, nil
}

func (r *MemoryRepo) Save(ctx context.Context, w matching.ScoringWeights) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weights = w
	r.saved = true
	return nil
}
