package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"matching-backend/internal/matching"
)

// SQLReader reads the system of record over database/sql. The source tables
// hold one JSON document per record plus a last_modified column; this reader
// deliberately knows nothing about how those rows are produced.
type SQLReader struct {
	DB *sql.DB
}

const candidatesSinceQuery = `
SELECT id, profile, last_modified
FROM source_candidates
WHERE last_modified > $1
ORDER BY last_modified, id`

func (r *SQLReader) CandidatesModifiedSince(ctx context.Context, since time.Time) ([]matching.CandidateProfile, error) {
	rows, err := r.DB.QueryContext(ctx, candidatesSinceQuery, since)
	if err != nil {
		return nil, fmt.Errorf("%w: listing candidates: %v", matching.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var out []matching.CandidateProfile
	for rows.Next() {
		var id string
		var doc []byte
		var modified time.Time
		if err := rows.Scan(&id, &doc, &modified); err != nil {
			return nil, fmt.Errorf("%w: scanning candidate: %v", matching.ErrSourceUnavailable, err)
		}
		var p matching.CandidateProfile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("unmarshal candidate %s: %w", id, err)
		}
		p.ID = id
		p.LastModified = modified
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing candidates: %v", matching.ErrSourceUnavailable, err)
	}
	return out, nil
}

const jobsSinceQuery = `
SELECT post_id, document, last_modified
FROM source_jobs
WHERE last_modified > $1
ORDER BY last_modified, post_id`

func (r *SQLReader) JobsModifiedSince(ctx context.Context, since time.Time) ([]JobRecord, error) {
	rows, err := r.DB.QueryContext(ctx, jobsSinceQuery, since)
	if err != nil {
		return nil, fmt.Errorf("%w: listing jobs: %v", matching.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var out []JobRecord
	for rows.Next() {
		var postID string
		var doc []byte
		var modified time.Time
		if err := rows.Scan(&postID, &doc, &modified); err != nil {
			return nil, fmt.Errorf("%w: scanning job: %v", matching.ErrSourceUnavailable, err)
		}
		var job matching.JobRequest
		if err := json.Unmarshal(doc, &job); err != nil {
			return nil, fmt.Errorf("unmarshal job %s: %w", postID, err)
		}
		job.PostID = postID
		out = append(out, JobRecord{Job: job, LastModified: modified})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing jobs: %v", matching.ErrSourceUnavailable, err)
	}
	return out, nil
}
