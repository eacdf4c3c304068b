package embedding

import (
	"context"

	"matching-backend/internal/cache"
)

// CachedEmbedder consults the embedding cache before calling the provider
// and writes every freshly computed vector back. Cache writes only happen
// for fully computed values, so a cancelled run can leave the cache
// partially populated but never corrupt.
type CachedEmbedder struct {
	Provider Embedder
	Cache    cache.EmbeddingCache
}

func NewCachedEmbedder(provider Embedder, store cache.EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{Provider: provider, Cache: store}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, ok, err := e.Cache.Get(ctx, text)
	if err != nil {
		return nil, err
	}
	if ok {
		return vec, nil
	}
	vec, err = e.Provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.Cache.Put(ctx, text, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch resolves cached texts locally and sends only the misses to the
// provider in one call.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))
	for i, text := range texts {
		vec, ok, err := e.Cache.Get(ctx, text)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := e.Provider.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, idx := range missingIdx {
		out[idx] = vecs[j]
		if err := e.Cache.Put(ctx, missing[j], vecs[j]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var _ Embedder = (*CachedEmbedder)(nil)
