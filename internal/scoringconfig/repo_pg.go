package scoringconfig

import (
	"context"
	"database/sql"
	"errors"

	"matching-backend/internal/matching"
)

// PGRepo stores the weights as a single-row table so reads and writes stay
// one round trip each.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Load(ctx context.Context) (matching.ScoringWeights, error) {
	const query = `
SELECT title_weight, industry_weight, experience_weight, skills_weight,
       seniority_weight, education_weight, min_score
FROM scoring_config
WHERE id = 1
LIMIT 1`
	var w matching.ScoringWeights
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&w.Title,
		&w.Industry,
		&w.Experience,
		&w.Skills,
		&w.Seniority,
		&w.Education,
		&w.MinScore,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matching.ScoringWeights{}, ErrNotFound
		}
		return matching.ScoringWeights{}, err
	}
	return w, nil
}

func (r *PGRepo) Save(ctx context.Context, w matching.ScoringWeights) error {
	const query = `
INSERT INTO scoring_config (id, title_weight, industry_weight, experience_weight,
  skills_weight, seniority_weight, education_weight, min_score, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE SET
  title_weight = EXCLUDED.title_weight,
  industry_weight = EXCLUDED.industry_weight,
  experience_weight = EXCLUDED.experience_weight,
  skills_weight = EXCLUDED.skills_weight,
  seniority_weight = EXCLUDED.seniority_weight,
  education_weight = EXCLUDED.education_weight,
  min_score = EXCLUDED.min_score,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		w.Title,
		w.Industry,
		w.Experience,
		w.Skills,
		w.Seniority,
		w.Education,
		w.MinScore,
	)
	return err
}
