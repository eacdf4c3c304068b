package matching

import "sort"

// Engine computes aggregate scores and the final ranking. It is pure given
// its inputs: the weights snapshot is taken once per call by the caller, so
// a config update mid-request can never split a ranking.
type Engine struct {
	Params ScorerParams
}

func NewEngine(params ScorerParams) *Engine {
	return &Engine{Params: params}
}

// ScoreCandidate computes the six sub-scores and the weighted aggregate for
// one candidate.
func (e *Engine) ScoreCandidate(job JobRequest, cand CandidateProfile, w ScoringWeights) (float64, ScoreBreakdown) {
	breakdown := ScoreBreakdown{
		Title:      TitleScore(job, cand),
		Industry:   IndustryScore(job, cand, e.Params),
		Experience: ExperienceScore(job, cand, e.Params),
		Skills:     SkillsScore(job, cand),
		Seniority:  SeniorityScore(job, cand, e.Params),
		Education:  EducationScore(job, cand, e.Params),
	}
	aggregate := w.Title/100*breakdown.Title +
		w.Industry/100*breakdown.Industry +
		w.Experience/100*breakdown.Experience +
		w.Skills/100*breakdown.Skills +
		w.Seniority/100*breakdown.Seniority +
		w.Education/100*breakdown.Education
	return clampScore(aggregate), breakdown
}

// Rank scores every candidate, drops those below the threshold, and returns
// the remainder ordered by score descending with candidate id ascending as
// the tie-break. An empty candidate slice yields an empty result, not an
// error. Invalid weights fail fast.
func (e *Engine) Rank(job JobRequest, candidates []CandidateProfile, w ScoringWeights) ([]MatchResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	results := make([]MatchResult, 0, len(candidates))
	for _, cand := range candidates {
		score, breakdown := e.ScoreCandidate(job, cand, w)
		if score < w.MinScore {
			continue
		}
		results = append(results, MatchResult{
			CandidateID: cand.ID,
			Score:       score,
			Breakdown:   breakdown,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
