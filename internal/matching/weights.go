package matching

import (
	"fmt"
	"math"
)

const weightSumEpsilon = 1e-6

// ScoringWeights holds the six signal weights plus the minimum aggregate
// score a candidate must reach to appear in results. Weights are expressed
// in points and must sum to exactly 100; they are never renormalized.
type ScoringWeights struct {
	Title      float64 `json:"title"`
	Industry   float64 `json:"industry"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
	Seniority  float64 `json:"seniority"`
	Education  float64 `json:"education"`
	MinScore   float64 `json:"minScore"`
}

// DefaultWeights returns the production defaults.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Title:      40,
		Industry:   20,
		Experience: 15,
		Skills:     10,
		Seniority:  8,
		Education:  7,
		MinScore:   55,
	}
}

// Validate enforces the sum-to-100 invariant and the threshold range.
func (w ScoringWeights) Validate() error {
	for name, v := range map[string]float64{
		"title":      w.Title,
		"industry":   w.Industry,
		"experience": w.Experience,
		"skills":     w.Skills,
		"seniority":  w.Seniority,
		"education":  w.Education,
	} {
		if v < 0 {
			return InvalidConfigError{Reason: fmt.Sprintf("weight %s is negative", name)}
		}
	}
	sum := w.Title + w.Industry + w.Experience + w.Skills + w.Seniority + w.Education
	if math.Abs(sum-100) > weightSumEpsilon {
		return InvalidConfigError{Reason: fmt.Sprintf("weights must sum to 100, got %.3f", sum)}
	}
	if w.MinScore < 0 || w.MinScore > 100 {
		return InvalidConfigError{Reason: fmt.Sprintf("minScore must be between 0 and 100, got %.3f", w.MinScore)}
	}
	return nil
}
