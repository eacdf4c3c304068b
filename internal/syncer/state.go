// Package syncer keeps the search index aligned with the system of record.
// It pulls changed records, rebuilds their derived fields (standardized
// titles, embeddings, seniority) and upserts them into the index, advancing
// a per-entity watermark only for fully committed work.
package syncer

import (
	"context"
	"time"
)

// Entity names the two record streams that sync independently.
type Entity string

const (
	EntityCandidates Entity = "candidates"
	EntityJobs       Entity = "jobs"
)

// StateStore persists the last-successful-sync watermark per entity.
// A missing entity reads as the zero time, which makes the next run a
// full load.
type StateStore interface {
	Watermark(ctx context.Context, entity Entity) (time.Time, error)
	SetWatermark(ctx context.Context, entity Entity, t time.Time) error
}
