package scoringconfig

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"matching-backend/internal/matching"
)

// Service is the live scoring config. The active weights sit behind an
// atomic pointer: every match request takes one immutable snapshot, and an
// update swaps in a fully validated replacement, so no reader can observe a
// partially applied set. Writers serialize on a mutex so a patch's
// read-merge-write cannot interleave with a concurrent update.
type Service struct {
	Repo    Repo
	writeMu sync.Mutex
	active  atomic.Pointer[matching.ScoringWeights]
}

// NewService loads the persisted config, falling back to defaults when no
// record exists yet (first boot). A corrupt persisted record is kept as-is:
// the engine re-validates per request, so every match against it fails whole
// until a valid update lands, instead of serving partially-weighted results.
func NewService(ctx context.Context, repo Repo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("scoring config repo is required")
	}
	w, err := repo.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		w = matching.DefaultWeights()
		if err := repo.Save(ctx, w); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		log.Printf("scoring config invalid at load, match requests will fail until updated: %v", err)
	}
	s := &Service{Repo: repo}
	s.active.Store(&w)
	return s, nil
}

// Current returns the active weights snapshot by value; callers can hold it
// for a whole ranking pass without further synchronization.
func (s *Service) Current() matching.ScoringWeights {
	return *s.active.Load()
}

// Update validates, persists, then swaps the active snapshot, in that
// order. A failure at any step leaves the previous snapshot in place.
func (s *Service) Update(ctx context.Context, w matching.ScoringWeights) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.update(ctx, w)
}

func (s *Service) update(ctx context.Context, w matching.ScoringWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := s.Repo.Save(ctx, w); err != nil {
		return err
	}
	s.active.Store(&w)
	return nil
}

// Patch applies a partial update: fields set in the patch override the
// current snapshot, the merged result is validated as a whole.
type Patch struct {
	Title      *float64 `json:"title,omitempty"`
	Industry   *float64 `json:"industry,omitempty"`
	Experience *float64 `json:"experience,omitempty"`
	Skills     *float64 `json:"skills,omitempty"`
	Seniority  *float64 `json:"seniority,omitempty"`
	Education  *float64 `json:"education,omitempty"`
	MinScore   *float64 `json:"minScore,omitempty"`
}

// ApplyPatch merges the patch into the current snapshot and applies the
// result as one write; the write lock keeps concurrent patches from losing
// each other's fields.
func (s *Service) ApplyPatch(ctx context.Context, p Patch) (matching.ScoringWeights, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	w := s.Current()
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Industry != nil {
		w.Industry = *p.Industry
	}
	if p.Experience != nil {
		w.Experience = *p.Experience
	}
	if p.Skills != nil {
		w.Skills = *p.Skills
	}
	if p.Seniority != nil {
		w.Seniority = *p.Seniority
	}
	if p.Education != nil {
		w.Education = *p.Education
	}
	if p.MinScore != nil {
		w.MinScore = *p.MinScore
	}
	if err := s.update(ctx, w); err != nil {
		return matching.ScoringWeights{}, err
	}
	return w, nil
}
