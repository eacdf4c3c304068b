// Package source reads candidate and job records from the system of record.
// Sync is the only consumer: it pulls records modified after a watermark and
// never writes back.
package source

import (
	"context"
	"time"

	"matching-backend/internal/matching"
)

// JobRecord pairs a job posting with its modification watermark. Candidate
// profiles carry their own LastModified; job requests do not, since the same
// type is also used for ad-hoc match calls.
type JobRecord struct {
	Job          matching.JobRequest
	LastModified time.Time
}

// Reader lists records changed after the given watermark, oldest first.
// A zero since means everything (full load).
type Reader interface {
	CandidatesModifiedSince(ctx context.Context, since time.Time) ([]matching.CandidateProfile, error)
	JobsModifiedSince(ctx context.Context, since time.Time) ([]JobRecord, error)
}
