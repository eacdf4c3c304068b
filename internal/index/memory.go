package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"matching-backend/internal/matching"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	candidates map[string]matching.CandidateProfile
	jobs       map[string]matching.JobRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates: make(map[string]matching.CandidateProfile),
		jobs:       make(map[string]matching.JobRequest),
	}
}

func (s *MemoryStore) UpsertCandidates(ctx context.Context, profiles []matching.CandidateProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.candidates[p.ID] = p
	}
	return nil
}

func (s *MemoryStore) UpsertJob(ctx context.Context, job matching.JobRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.PostID] = job
	return nil
}

func (s *MemoryStore) Candidates(ctx context.Context, f Filter) ([]matching.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := make([]matching.CandidateProfile, 0, len(s.candidates))
	for _, p := range s.candidates {
		if f.Location != "" && p.Location != f.Location {
			continue
		}
		if f.MinSeniority != nil && p.Seniority < *f.MinSeniority {
			continue
		}
		if f.MaxSeniority != nil && p.Seniority > *f.MaxSeniority {
			continue
		}
		pool = append(pool, p)
	}

	if len(f.NearTitle) > 0 {
		sort.Slice(pool, func(i, j int) bool {
			si := cosine(pool[i].TitleEmbedding, f.NearTitle)
			sj := cosine(pool[j].TitleEmbedding, f.NearTitle)
			if si != sj {
				return si > sj
			}
			return pool[i].ID < pool[j].ID
		})
	} else {
		sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPoolLimit
	}
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

func (s *MemoryStore) Job(ctx context.Context, postID string) (matching.JobRequest, error) {
	if err := ctx.Err(); err != nil {
		return matching.JobRequest{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[postID]
	if !ok {
		return matching.JobRequest{}, ErrNotFound
	}
	return job, nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = make(map[string]matching.CandidateProfile)
	s.jobs = make(map[string]matching.JobRequest)
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
