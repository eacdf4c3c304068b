package matching

import (
	"math"
	"strings"
	"time"
)

// UnspecifiedTitle is the sentinel canonical title for profiles or jobs with
// no usable raw title. Title relevance is zero whenever it appears.
const UnspecifiedTitle = "Unspecified"

// ScorerParams holds the tunable constants behind the signal scorers.
// Partial-credit values are deliberately named configuration rather than
// inline literals; product owns the exact numbers.
type ScorerParams struct {
	// RelatedIndustries maps an industry to industries granted partial
	// credit when the job industry does not match exactly.
	RelatedIndustries map[string][]string
	// RelatedIndustryCredit is the industry sub-score for a related match.
	RelatedIndustryCredit float64
	// MaxTenureYears bounds the recency-weighted experience sum; a candidate
	// with this many weighted years scores 100.
	MaxTenureYears float64
	// SeniorityUnderPenalty and SeniorityOverPenalty are the per-level
	// deductions for under- and over-qualified candidates.
	SeniorityUnderPenalty float64
	SeniorityOverPenalty  float64
	// EducationLevelPenalty is deducted per level a candidate falls below
	// the job's minimum education requirement.
	EducationLevelPenalty float64
	// Now anchors role-age computations; tests pin it for determinism.
	// When zero, each scoring call anchors at the current time.
	Now time.Time
}

func (p ScorerParams) anchor() time.Time {
	if p.Now.IsZero() {
		return time.Now().UTC()
	}
	return p.Now
}

// DefaultScorerParams returns the production defaults.
func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		RelatedIndustries:     map[string][]string{},
		RelatedIndustryCredit: 50,
		MaxTenureYears:        10,
		SeniorityUnderPenalty: 20,
		SeniorityOverPenalty:  20,
		EducationLevelPenalty: 35,
	}
}

// TitleScore compares the job's standardized title against the candidate's.
// Exact canonical match scores 100; otherwise cosine similarity of the title
// embeddings scaled from [-1,1] to [0,100]. Either side unspecified scores 0.
func TitleScore(job JobRequest, cand CandidateProfile) float64 {
	jobTitle := strings.TrimSpace(job.StandardizedTitle)
	if jobTitle == "" || jobTitle == UnspecifiedTitle {
		return 0
	}
	if cand.StandardizedTitle == nil || cand.StandardizedTitle.Canonical == UnspecifiedTitle {
		return 0
	}
	if cand.StandardizedTitle.Canonical == jobTitle {
		return 100
	}
	if len(job.TitleEmbedding) == 0 || len(cand.TitleEmbedding) == 0 {
		return 0
	}
	sim := cosineSimilarity(job.TitleEmbedding, cand.TitleEmbedding)
	return clampScore((sim + 1) / 2 * 100)
}

// IndustryScore grants 100 for an exact match on the most recent role's
// industry, configured partial credit for a related industry, else 0.
func IndustryScore(job JobRequest, cand CandidateProfile, p ScorerParams) float64 {
	jobIndustry := normalizeTerm(job.Industry)
	if jobIndustry == "" {
		return 0
	}
	recent := cand.MostRecentExperience()
	if recent == nil {
		return 0
	}
	candIndustry := normalizeTerm(recent.Industry)
	if candIndustry == "" {
		return 0
	}
	if candIndustry == jobIndustry {
		return 100
	}
	for key, related := range p.RelatedIndustries {
		if normalizeTerm(key) != jobIndustry {
			continue
		}
		for _, r := range related {
			if normalizeTerm(r) == candIndustry {
				return clampScore(p.RelatedIndustryCredit)
			}
		}
	}
	return 0
}

// recencyWeight decays a role's contribution by how long ago it ended.
// Ongoing roles weigh 1.0; the curve drops linearly to 0.80 over the first
// five years, ~7%/yr through year fifteen, then steeply toward zero.
func recencyWeight(yearsAgo float64) float64 {
	switch {
	case yearsAgo <= 0:
		return 1.0
	case yearsAgo <= 5:
		return 1.0 - yearsAgo*0.04
	case yearsAgo <= 15:
		return 0.80 * math.Pow(0.93, yearsAgo-5)
	default:
		return 0.40 * math.Pow(0.85, yearsAgo-15)
	}
}

// ExperienceScore sums recency-weighted years across roles relevant to the
// job (same standardized title or same industry), normalized against
// MaxTenureYears and capped at 100. Roles without an end date are ongoing.
func ExperienceScore(job JobRequest, cand CandidateProfile, p ScorerParams) float64 {
	maxTenure := p.MaxTenureYears
	if maxTenure <= 0 {
		maxTenure = 10
	}
	jobTitle := strings.TrimSpace(job.StandardizedTitle)
	jobIndustry := normalizeTerm(job.Industry)

	now := p.anchor()
	total := 0.0
	for _, exp := range cand.Experiences {
		if !roleRelevant(exp, jobTitle, jobIndustry, cand) {
			continue
		}
		end := now
		if exp.EndDate != nil {
			end = *exp.EndDate
		}
		if end.Before(exp.StartDate) {
			continue
		}
		years := end.Sub(exp.StartDate).Hours() / (24 * 365.25)
		yearsAgo := now.Sub(end).Hours() / (24 * 365.25)
		total += years * recencyWeight(yearsAgo)
	}
	return clampScore(total / maxTenure * 100)
}

// roleRelevant reports whether a role counts toward relevant experience:
// standardized title equal to the job's, or same industry. A candidate whose
// overall standardized title matches the job also counts every role, since
// the whole history shaped that title.
func roleRelevant(exp WorkExperience, jobTitle, jobIndustry string, cand CandidateProfile) bool {
	if jobTitle != "" && jobTitle != UnspecifiedTitle {
		if strings.TrimSpace(exp.StandardizedTitle) == jobTitle {
			return true
		}
		if cand.StandardizedTitle != nil && cand.StandardizedTitle.Canonical == jobTitle {
			return true
		}
	}
	if jobIndustry != "" && normalizeTerm(exp.Industry) == jobIndustry {
		return true
	}
	return false
}

// SkillsScore is the fraction of required skills the candidate covers,
// scaled to 100. A job with no required skills matches vacuously at 100.
func SkillsScore(job JobRequest, cand CandidateProfile) float64 {
	required := make(map[string]bool, len(job.RequiredSkills))
	for _, s := range job.RequiredSkills {
		if key := normalizeTerm(s); key != "" {
			required[key] = true
		}
	}
	if len(required) == 0 {
		return 100
	}
	have := 0
	for _, s := range cand.Skills {
		key := normalizeTerm(s)
		if required[key] {
			have++
			delete(required, key)
		}
	}
	return float64(have) / float64(have+len(required)) * 100
}

// SeniorityScore is 100 at the exact level, decreasing per level of distance
// with separate penalties for under- and over-qualification.
func SeniorityScore(job JobRequest, cand CandidateProfile, p ScorerParams) float64 {
	diff := int(cand.Seniority) - int(job.Seniority)
	if diff == 0 {
		return 100
	}
	if diff < 0 {
		return clampScore(100 - float64(-diff)*p.SeniorityUnderPenalty)
	}
	return clampScore(100 - float64(diff)*p.SeniorityOverPenalty)
}

// EducationScore is 100 when the candidate's highest level meets the job's
// minimum, otherwise a partial score shrinking per level of shortfall.
func EducationScore(job JobRequest, cand CandidateProfile, p ScorerParams) float64 {
	highest := cand.HighestEducation()
	if highest >= job.MinEducation {
		return 100
	}
	below := int(job.MinEducation) - int(highest)
	return clampScore(100 - float64(below)*p.EducationLevelPenalty)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func normalizeTerm(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
