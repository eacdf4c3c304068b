package cache

import (
	"context"
	"sync"

	"matching-backend/internal/matching"
)

// MemoryEmbeddingCache is a concurrency-safe in-memory EmbeddingCache used
// in tests and single-process runs.
type MemoryEmbeddingCache struct {
	mu   sync.RWMutex
	data map[string][]float32
}

func NewMemoryEmbeddingCache() *MemoryEmbeddingCache {
	return &MemoryEmbeddingCache{data: make(map[string][]float32)}
}

func (c *MemoryEmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.data[TextHash(text)]
	if !ok {
		return nil, false, nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true, nil
}

func (c *MemoryEmbeddingCache) Put(ctx context.Context, text string, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[TextHash(text)] = stored
	return nil
}

func (c *MemoryEmbeddingCache) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]float32)
	return nil
}

// MemoryTitleCache is a concurrency-safe in-memory TitleCache.
type MemoryTitleCache struct {
	mu   sync.RWMutex
	data map[string]matching.TitleMapping
}

func NewMemoryTitleCache() *MemoryTitleCache {
	return &MemoryTitleCache{data: make(map[string]matching.TitleMapping)}
}

func (c *MemoryTitleCache) Get(ctx context.Context, rawTitle string) (matching.TitleMapping, bool, error) {
	if err := ctx.Err(); err != nil {
		return matching.TitleMapping{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	mapping, ok := c.data[NormalizeKey(rawTitle)]
	return mapping, ok, nil
}

func (c *MemoryTitleCache) Put(ctx context.Context, rawTitle string, mapping matching.TitleMapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[NormalizeKey(rawTitle)] = mapping
	return nil
}

func (c *MemoryTitleCache) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]matching.TitleMapping)
	return nil
}
