package index

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"matching-backend/internal/matching"
)

// PGStore persists index documents in Postgres. The full document is kept
// as JSONB; location, seniority and the title embedding are broken out into
// columns so the pool query can filter and order without unpacking JSON.
// The embedding column is pgvector's vector(1536).
type PGStore struct {
	DB *sql.DB
}

// nullVector adapts pgvector.Vector to a nullable column. Documents that
// have not been embedded yet carry SQL NULL, not a zero vector.
type nullVector struct {
	Vector pgvector.Vector
	Valid  bool
}

func (v *nullVector) Scan(src any) error {
	if src == nil {
		v.Valid = false
		return nil
	}
	v.Valid = true
	return v.Vector.Scan(src)
}

func (v nullVector) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Vector.Value()
}

func embeddingValue(emb []float32) nullVector {
	if len(emb) == 0 {
		return nullVector{}
	}
	return nullVector{Vector: pgvector.NewVector(emb), Valid: true}
}

const upsertCandidateQuery = `
INSERT INTO candidate_index (id, profile, location, seniority, last_modified, title_embedding, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
  profile = EXCLUDED.profile,
  location = EXCLUDED.location,
  seniority = EXCLUDED.seniority,
  last_modified = EXCLUDED.last_modified,
  title_embedding = EXCLUDED.title_embedding,
  updated_at = now()`

func (s *PGStore) UpsertCandidates(ctx context.Context, profiles []matching.CandidateProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: upserting candidates: %v", matching.ErrSourceUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range profiles {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal candidate %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, upsertCandidateQuery,
			p.ID,
			doc,
			p.Location,
			int(p.Seniority),
			p.LastModified,
			embeddingValue(p.TitleEmbedding),
		)
		if err != nil {
			return fmt.Errorf("%w: upserting candidate %s: %v", matching.ErrSourceUnavailable, p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: upserting candidates: %v", matching.ErrSourceUnavailable, err)
	}
	return nil
}

const upsertJobQuery = `
INSERT INTO job_index (post_id, document, title_embedding, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (post_id) DO UPDATE SET
  document = EXCLUDED.document,
  title_embedding = EXCLUDED.title_embedding,
  updated_at = now()`

func (s *PGStore) UpsertJob(ctx context.Context, job matching.JobRequest) error {
	if job.PostID == "" {
		return errors.New("job post id is required")
	}
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.PostID, err)
	}
	_, err = s.DB.ExecContext(ctx, upsertJobQuery, job.PostID, doc, embeddingValue(job.TitleEmbedding))
	if err != nil {
		return fmt.Errorf("%w: upserting job %s: %v", matching.ErrSourceUnavailable, job.PostID, err)
	}
	return nil
}

// The two pool queries differ only in ordering: by id for plain listing,
// by cosine distance to the job title embedding when one is supplied.
const candidatePoolQuery = `
SELECT profile, title_embedding
FROM candidate_index
WHERE ($1 = '' OR location = $1)
  AND seniority BETWEEN $2 AND $3
ORDER BY id
LIMIT $4`

const candidatePoolByTitleQuery = `
SELECT profile, title_embedding
FROM candidate_index
WHERE ($1 = '' OR location = $1)
  AND seniority BETWEEN $2 AND $3
  AND title_embedding IS NOT NULL
ORDER BY title_embedding <=> $4, id
LIMIT $5`

func (s *PGStore) Candidates(ctx context.Context, f Filter) ([]matching.CandidateProfile, error) {
	minLevel := int(matching.SeniorityJunior)
	maxLevel := int(matching.SeniorityExecutive)
	if f.MinSeniority != nil {
		minLevel = int(*f.MinSeniority)
	}
	if f.MaxSeniority != nil {
		maxLevel = int(*f.MaxSeniority)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPoolLimit
	}

	var rows *sql.Rows
	var err error
	if len(f.NearTitle) > 0 {
		rows, err = s.DB.QueryContext(ctx, candidatePoolByTitleQuery,
			f.Location, minLevel, maxLevel, pgvector.NewVector(f.NearTitle), limit)
	} else {
		rows, err = s.DB.QueryContext(ctx, candidatePoolQuery,
			f.Location, minLevel, maxLevel, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing candidate pool: %v", matching.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var pool []matching.CandidateProfile
	for rows.Next() {
		var doc []byte
		var emb nullVector
		if err := rows.Scan(&doc, &emb); err != nil {
			return nil, fmt.Errorf("%w: scanning candidate pool: %v", matching.ErrSourceUnavailable, err)
		}
		var p matching.CandidateProfile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("unmarshal candidate document: %w", err)
		}
		if emb.Valid {
			p.TitleEmbedding = emb.Vector.Slice()
		}
		pool = append(pool, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing candidate pool: %v", matching.ErrSourceUnavailable, err)
	}
	return pool, nil
}

const jobQuery = `
SELECT document, title_embedding
FROM job_index
WHERE post_id = $1
LIMIT 1`

func (s *PGStore) Job(ctx context.Context, postID string) (matching.JobRequest, error) {
	var doc []byte
	var emb nullVector
	err := s.DB.QueryRowContext(ctx, jobQuery, postID).Scan(&doc, &emb)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matching.JobRequest{}, ErrNotFound
		}
		return matching.JobRequest{}, fmt.Errorf("%w: reading job %s: %v", matching.ErrSourceUnavailable, postID, err)
	}
	var job matching.JobRequest
	if err := json.Unmarshal(doc, &job); err != nil {
		return matching.JobRequest{}, fmt.Errorf("unmarshal job document: %w", err)
	}
	if emb.Valid {
		job.TitleEmbedding = emb.Vector.Slice()
	}
	return job, nil
}

func (s *PGStore) Reset(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: resetting index: %v", matching.ErrSourceUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_index`); err != nil {
		return fmt.Errorf("%w: resetting index: %v", matching.ErrSourceUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM job_index`); err != nil {
		return fmt.Errorf("%w: resetting index: %v", matching.ErrSourceUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: resetting index: %v", matching.ErrSourceUnavailable, err)
	}
	return nil
}
