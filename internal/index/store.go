// Package index is the read-optimized search layer the matcher queries for
// its candidate pool. Sync upserts processed candidate and job documents
// here; match requests never touch the source of truth directly.
package index

import (
	"context"

	"matching-backend/internal/matching"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "index document not found" }

// defaultPoolLimit caps the candidate pool handed to the scoring engine
// when the caller does not set one.
const defaultPoolLimit = 500

// Filter narrows the candidate pool before scoring. Zero values mean no
// constraint; a non-empty NearTitle orders the pool by embedding proximity
// to the job title instead of by id.
type Filter struct {
	Location     string
	MinSeniority *matching.SeniorityLevel
	MaxSeniority *matching.SeniorityLevel
	NearTitle    []float32
	Limit        int
}

// Store holds indexed candidate and job documents. Implementations report
// an unreachable backend by wrapping matching.ErrSourceUnavailable.
type Store interface {
	UpsertCandidates(ctx context.Context, profiles []matching.CandidateProfile) error
	UpsertJob(ctx context.Context, job matching.JobRequest) error
	Candidates(ctx context.Context, f Filter) ([]matching.CandidateProfile, error)
	Job(ctx context.Context, postID string) (matching.JobRequest, error)
	Reset(ctx context.Context) error
}
