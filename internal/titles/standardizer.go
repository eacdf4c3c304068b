// Package titles maps raw free-text job titles onto the fixed canonical
// vocabulary using embedding similarity.
package titles

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"matching-backend/internal/cache"
	"matching-backend/internal/embedding"
	"matching-backend/internal/matching"
)

// similarityEpsilon bounds float noise when comparing candidate maxima;
// titles within epsilon of the best similarity count as tied.
const similarityEpsilon = 1e-9

type canonicalEntry struct {
	title  string
	vector []float32
}

// Standardizer resolves raw titles to canonical ones. The vocabulary and its
// embeddings are fixed at construction; Standardize is safe for concurrent
// use because per-call state lives in the caches, which are themselves
// concurrency-safe.
type Standardizer struct {
	embedder embedding.Embedder
	cache    cache.TitleCache
	vocab    []canonicalEntry
}

// NewStandardizer embeds the whole canonical vocabulary up front. An
// embedding failure here is returned to the caller and is expected to be
// fatal at startup; the vocabulary must be complete before the first
// Standardize call.
func NewStandardizer(ctx context.Context, embedder embedding.Embedder, titleCache cache.TitleCache, vocabulary []string) (*Standardizer, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("canonical vocabulary is empty")
	}
	titles := make([]string, len(vocabulary))
	copy(titles, vocabulary)
	sort.Strings(titles)

	vectors, err := embedder.EmbedBatch(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("embed vocabulary: %w", err)
	}
	if len(vectors) != len(titles) {
		return nil, fmt.Errorf("embedded %d of %d vocabulary titles", len(vectors), len(titles))
	}
	vocab := make([]canonicalEntry, len(titles))
	for i := range titles {
		vocab[i] = canonicalEntry{title: titles[i], vector: vectors[i]}
	}
	return &Standardizer{embedder: embedder, cache: titleCache, vocab: vocab}, nil
}

// Standardize maps a raw title to the closest canonical title and the cosine
// similarity of the match. Empty or whitespace-only input short-circuits to
// the Unspecified sentinel without touching the provider. Results are cached
// by normalized raw title; nothing is cached on failure.
func (s *Standardizer) Standardize(ctx context.Context, rawTitle string) (matching.TitleMapping, error) {
	if strings.TrimSpace(rawTitle) == "" {
		return matching.TitleMapping{Canonical: matching.UnspecifiedTitle, Similarity: 0}, nil
	}

	if mapping, ok, err := s.cache.Get(ctx, rawTitle); err != nil {
		return matching.TitleMapping{}, err
	} else if ok {
		return mapping, nil
	}

	vec, err := s.embedder.Embed(ctx, rawTitle)
	if err != nil {
		return matching.TitleMapping{}, err
	}

	mapping := s.closest(vec)
	if err := s.cache.Put(ctx, rawTitle, mapping); err != nil {
		return matching.TitleMapping{}, err
	}
	return mapping, nil
}

// CanonicalEmbedding returns the precomputed vector for a canonical title.
func (s *Standardizer) CanonicalEmbedding(canonical string) ([]float32, bool) {
	i := sort.Search(len(s.vocab), func(i int) bool { return s.vocab[i].title >= canonical })
	if i < len(s.vocab) && s.vocab[i].title == canonical {
		return s.vocab[i].vector, true
	}
	return nil, false
}

// closest scans the vocabulary for the highest cosine similarity. The vocab
// is sorted, so keeping the first entry within epsilon of the running best
// makes ties resolve to the lexicographically first title.
func (s *Standardizer) closest(vec []float32) matching.TitleMapping {
	best := s.vocab[0]
	bestSim := cosine(vec, best.vector)
	for _, entry := range s.vocab[1:] {
		sim := cosine(vec, entry.vector)
		if sim > bestSim+similarityEpsilon {
			best = entry
			bestSim = sim
		}
	}
	return matching.TitleMapping{Canonical: best.title, Similarity: bestSim}
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
