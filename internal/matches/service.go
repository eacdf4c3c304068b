// Package matches serves match requests: it prepares the job side of a
// request, pulls a narrowed candidate pool from the index and hands both to
// the scoring engine under one weights snapshot.
package matches

import (
	"context"
	"errors"
	"time"

	"matching-backend/internal/index"
	"matching-backend/internal/matching"
	"matching-backend/internal/scoringconfig"
	"matching-backend/internal/shared/metrics"
)

// DefaultMaxResults caps a match response when the caller does not ask for
// a specific limit.
const DefaultMaxResults = 20

// TitleStandardizer is the slice of the titles package this service needs.
type TitleStandardizer interface {
	Standardize(ctx context.Context, rawTitle string) (matching.TitleMapping, error)
	CanonicalEmbedding(canonical string) ([]float32, bool)
}

// Response is one completed match call. The standardized title is echoed so
// callers can see what the request was actually scored against.
type Response struct {
	JobTitle          string                 `json:"jobTitle"`
	StandardizedTitle string                 `json:"standardizedTitle"`
	Threshold         float64                `json:"threshold"`
	Total             int                    `json:"total"`
	Results           []matching.MatchResult `json:"results"`
}

type Service struct {
	Titles TitleStandardizer
	Index  index.Store
	Config *scoringconfig.Service
	Engine *matching.Engine
	// MaxResults caps responses when the request carries no limit of its
	// own. Zero falls back to DefaultMaxResults.
	MaxResults int
}

func NewService(titles TitleStandardizer, idx index.Store, cfg *scoringconfig.Service, engine *matching.Engine) *Service {
	return &Service{Titles: titles, Index: idx, Config: cfg, Engine: engine}
}

// Match scores the indexed candidate pool against one job request. The pool
// is narrowed by location and a one-level seniority band before scoring;
// ranking itself happens in the engine under the active weights snapshot.
func (s *Service) Match(ctx context.Context, job matching.JobRequest, maxResults int) (Response, error) {
	if s.Titles == nil || s.Index == nil || s.Config == nil || s.Engine == nil {
		return Response{}, errors.New("match service is not fully configured")
	}
	metrics.IncMatchRequest()
	started := time.Now()

	mapping, err := s.Titles.Standardize(ctx, job.Title)
	if err != nil {
		metrics.IncMatchFailed()
		return Response{}, err
	}
	job.StandardizedTitle = mapping.Canonical
	if mapping.Canonical != matching.UnspecifiedTitle {
		if emb, ok := s.Titles.CanonicalEmbedding(mapping.Canonical); ok {
			job.TitleEmbedding = emb
		}
	}

	pool, err := s.Index.Candidates(ctx, s.poolFilter(job))
	if err != nil {
		metrics.IncMatchFailed()
		return Response{}, err
	}

	weights := s.Config.Current()
	results, err := s.Engine.Rank(job, pool, weights)
	if err != nil {
		metrics.IncMatchFailed()
		return Response{}, err
	}
	if maxResults <= 0 {
		maxResults = s.MaxResults
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	total := len(results)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	metrics.ObserveMatchDurationMs(float64(time.Since(started)) / float64(time.Millisecond))
	return Response{
		JobTitle:          job.Title,
		StandardizedTitle: job.StandardizedTitle,
		Threshold:         weights.MinScore,
		Total:             total,
		Results:           results,
	}, nil
}

// MatchJob runs a match for a job document already in the index.
func (s *Service) MatchJob(ctx context.Context, postID string, maxResults int) (Response, error) {
	job, err := s.Index.Job(ctx, postID)
	if err != nil {
		return Response{}, err
	}
	return s.Match(ctx, job, maxResults)
}

// poolFilter narrows the candidate pool with the hard criteria: same
// location when the job names one, and seniority within one level of the
// job's. Soft signals stay with the scorers.
func (s *Service) poolFilter(job matching.JobRequest) index.Filter {
	minLevel := job.Seniority - 1
	if minLevel < matching.SeniorityJunior {
		minLevel = matching.SeniorityJunior
	}
	maxLevel := job.Seniority + 1
	if maxLevel > matching.SeniorityExecutive {
		maxLevel = matching.SeniorityExecutive
	}
	return index.Filter{
		Location:     job.Location,
		MinSeniority: &minLevel,
		MaxSeniority: &maxLevel,
		NearTitle:    job.TitleEmbedding,
	}
}
