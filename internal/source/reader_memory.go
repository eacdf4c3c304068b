package source

import (
	"context"
	"sort"
	"sync"
	"time"

	"matching-backend/internal/matching"
)

// MemoryReader is an in-memory Reader for tests and local development.
type MemoryReader struct {
	mu         sync.RWMutex
	candidates []matching.CandidateProfile
	jobs       []JobRecord
	err        error
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{}
}

// SetCandidates replaces the candidate set.
func (r *MemoryReader) SetCandidates(profiles []matching.CandidateProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates = append([]matching.CandidateProfile(nil), profiles...)
}

// SetJobs replaces the job set.
func (r *MemoryReader) SetJobs(jobs []JobRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append([]JobRecord(nil), jobs...)
}

// Fail makes every subsequent read return err, nil to recover.
func (r *MemoryReader) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *MemoryReader) CandidatesModifiedSince(ctx context.Context, since time.Time) ([]matching.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []matching.CandidateProfile
	for _, p := range r.candidates {
		if p.LastModified.After(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.Before(out[j].LastModified) })
	return out, nil
}

func (r *MemoryReader) JobsModifiedSince(ctx context.Context, since time.Time) ([]JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []JobRecord
	for _, j := range r.jobs {
		if j.LastModified.After(since) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.Before(out[j].LastModified) })
	return out, nil
}
