package matches

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"matching-backend/internal/index"
	"matching-backend/internal/matching"
	"matching-backend/internal/scoringconfig"
)

var matchTestNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// fixtureStandardizer echoes raw titles as canonical and serves fixed unit
// vectors per canonical title.
type fixtureStandardizer struct {
	mu         sync.Mutex
	embeddings map[string][]float32
	failing    bool
	calls      int
}

func (s *fixtureStandardizer) Standardize(ctx context.Context, rawTitle string) (matching.TitleMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failing {
		return matching.TitleMapping{}, matching.ErrEmbeddingUnavailable
	}
	if rawTitle == "" {
		return matching.TitleMapping{Canonical: matching.UnspecifiedTitle}, nil
	}
	return matching.TitleMapping{Canonical: rawTitle, Similarity: 1}, nil
}

func (s *fixtureStandardizer) CanonicalEmbedding(canonical string) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emb, ok := s.embeddings[canonical]
	return emb, ok
}

func newTestService(t *testing.T) (*Service, *index.MemoryStore, *fixtureStandardizer) {
	t.Helper()
	cfg, err := scoringconfig.NewService(context.Background(), scoringconfig.NewMemoryRepo())
	if err != nil {
		t.Fatalf("scoringconfig.NewService: %v", err)
	}
	params := matching.DefaultScorerParams()
	params.Now = matchTestNow
	idx := index.NewMemoryStore()
	titles := &fixtureStandardizer{embeddings: map[string][]float32{
		"Senior Accountant": {1, 0, 0},
	}}
	return NewService(titles, idx, cfg, matching.NewEngine(params)), idx, titles
}

func strongAccountant(id string) matching.CandidateProfile {
	start := matchTestNow.AddDate(-10, 0, 0)
	return matching.CandidateProfile{
		ID:       id,
		Location: "Zurich",
		Experiences: []matching.WorkExperience{
			{
				RawTitle:          "Senior Accountant",
				StandardizedTitle: "Senior Accountant",
				Industry:          "Real Estate",
				StartDate:         start,
			},
		},
		Skills:            []string{"IFRS", "Consolidation"},
		Seniority:         matching.SenioritySenior,
		Education:         []matching.EducationRecord{{Level: matching.EducationBachelor}},
		StandardizedTitle: &matching.TitleMapping{Canonical: "Senior Accountant", Similarity: 1},
		TitleEmbedding:    []float32{1, 0, 0},
	}
}

func accountantJob() matching.JobRequest {
	return matching.JobRequest{
		Title:          "Senior Accountant",
		Location:       "Zurich",
		RequiredSkills: []string{"IFRS"},
		Industry:       "Real Estate",
		Seniority:      matching.SenioritySenior,
		MinEducation:   matching.EducationBachelor,
	}
}

func TestMatchRanksStrongCandidateAboveThreshold(t *testing.T) {
	svc, idx, _ := newTestService(t)
	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"),
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	resp, err := svc.Match(context.Background(), accountantJob(), 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if resp.StandardizedTitle != "Senior Accountant" {
		t.Fatalf("standardized title = %q", resp.StandardizedTitle)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	got := resp.Results[0]
	if got.CandidateID != "cand-1" || got.Rank != 1 {
		t.Fatalf("result = %+v", got)
	}
	if got.Score < resp.Threshold {
		t.Fatalf("score %.2f below threshold %.2f", got.Score, resp.Threshold)
	}
	if got.Breakdown.Title != 100 || got.Breakdown.Seniority != 100 {
		t.Fatalf("breakdown = %+v", got.Breakdown)
	}
}

func TestMatchExcludesBelowThreshold(t *testing.T) {
	svc, idx, _ := newTestService(t)
	weak := matching.CandidateProfile{
		ID:        "cand-weak",
		Location:  "Zurich",
		Seniority: matching.SeniorityMid, // inside the pool band, scores low
	}
	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"), weak,
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	resp, err := svc.Match(context.Background(), accountantJob(), 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected weak candidate filtered, got %+v", resp.Results)
	}
	if resp.Results[0].CandidateID != "cand-1" {
		t.Fatalf("results = %+v", resp.Results)
	}
}

func TestMatchPoolHonorsHardFilters(t *testing.T) {
	svc, idx, _ := newTestService(t)
	elsewhere := strongAccountant("cand-basel")
	elsewhere.Location = "Basel"
	junior := strongAccountant("cand-junior")
	junior.Seniority = matching.SeniorityJunior
	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"), elsewhere, junior,
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	resp, err := svc.Match(context.Background(), accountantJob(), 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].CandidateID != "cand-1" {
		t.Fatalf("hard filters leaked: %+v", resp.Results)
	}
}

func TestMatchCapsResults(t *testing.T) {
	svc, idx, _ := newTestService(t)
	var profiles []matching.CandidateProfile
	for _, id := range []string{"cand-1", "cand-2", "cand-3"} {
		profiles = append(profiles, strongAccountant(id))
	}
	if err := idx.UpsertCandidates(context.Background(), profiles); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	resp, err := svc.Match(context.Background(), accountantJob(), 2)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Total)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
}

func TestMatchEmbeddingFailureFailsRequest(t *testing.T) {
	svc, idx, titles := newTestService(t)
	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"),
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}
	titles.failing = true

	if _, err := svc.Match(context.Background(), accountantJob(), 0); err == nil {
		t.Fatal("expected embedding failure to fail the request")
	}
}

func TestMatchInvalidPersistedConfigFailsWholeRequest(t *testing.T) {
	repo := scoringconfig.NewMemoryRepo()
	bad := matching.DefaultWeights()
	bad.Title += 25 // persisted record violating sum-to-100
	if err := repo.Save(context.Background(), bad); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg, err := scoringconfig.NewService(context.Background(), repo)
	if err != nil {
		t.Fatalf("scoringconfig.NewService: %v", err)
	}
	params := matching.DefaultScorerParams()
	params.Now = matchTestNow
	idx := index.NewMemoryStore()
	svc := NewService(&fixtureStandardizer{embeddings: map[string][]float32{}}, idx, cfg, matching.NewEngine(params))

	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"),
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}
	_, err = svc.Match(context.Background(), accountantJob(), 0)
	var invalid matching.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidConfigError", err)
	}
}

func TestMatchJobUsesIndexedDocument(t *testing.T) {
	svc, idx, _ := newTestService(t)
	if err := idx.UpsertCandidates(context.Background(), []matching.CandidateProfile{
		strongAccountant("cand-1"),
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}
	job := accountantJob()
	job.PostID = "job-1"
	if err := idx.UpsertJob(context.Background(), job); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}

	resp, err := svc.MatchJob(context.Background(), "job-1", 0)
	if err != nil {
		t.Fatalf("MatchJob: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].CandidateID != "cand-1" {
		t.Fatalf("response = %+v", resp)
	}

	if _, err := svc.MatchJob(context.Background(), "missing", 0); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMatchUsesConfiguredResultCap(t *testing.T) {
	svc, idx, _ := newTestService(t)
	svc.MaxResults = 2
	var profiles []matching.CandidateProfile
	for _, id := range []string{"cand-1", "cand-2", "cand-3"} {
		profiles = append(profiles, strongAccountant(id))
	}
	if err := idx.UpsertCandidates(context.Background(), profiles); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	resp, err := svc.Match(context.Background(), accountantJob(), 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if resp.Total != 3 || len(resp.Results) != 2 {
		t.Fatalf("configured cap ignored: total=%d results=%d", resp.Total, len(resp.Results))
	}

	// An explicit request limit still wins over the configured cap.
	resp, err = svc.Match(context.Background(), accountantJob(), 3)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("request limit ignored: results=%d", len(resp.Results))
	}
}
