package matching

import "time"

// SeniorityLevel is an ordered career level, junior lowest.
type SeniorityLevel int

const (
	SeniorityJunior SeniorityLevel = iota
	SeniorityMid
	SenioritySenior
	SeniorityManager
	SeniorityDirector
	SeniorityExecutive
)

var seniorityNames = [...]string{"junior", "mid", "senior", "manager", "director", "executive"}

func (l SeniorityLevel) String() string {
	if l < SeniorityJunior || l > SeniorityExecutive {
		return "mid"
	}
	return seniorityNames[l]
}

// ParseSeniority maps a level name to its ordered value. Unknown names
// default to mid, matching how profiles with no usable signal are treated.
func ParseSeniority(raw string) SeniorityLevel {
	for i, name := range seniorityNames {
		if name == raw {
			return SeniorityLevel(i)
		}
	}
	return SeniorityMid
}

// EducationLevel is an ordered education attainment level.
type EducationLevel int

const (
	EducationNone EducationLevel = iota
	EducationApprenticeship
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

var educationNames = [...]string{"none", "apprenticeship", "bachelor", "master", "doctorate"}

func (l EducationLevel) String() string {
	if l < EducationNone || l > EducationDoctorate {
		return "none"
	}
	return educationNames[l]
}

func ParseEducation(raw string) EducationLevel {
	for i, name := range educationNames {
		if name == raw {
			return EducationLevel(i)
		}
	}
	return EducationNone
}

// JobRequest describes the job a match call ranks candidates against.
// It is immutable for the duration of one call.
type JobRequest struct {
	PostID            string         `json:"postId,omitempty"`
	Title             string         `json:"title"`
	StandardizedTitle string         `json:"standardizedTitle,omitempty"`
	TitleEmbedding    []float32      `json:"-"`
	Location          string         `json:"location"`
	RequiredSkills    []string       `json:"requiredSkills"`
	Industry          string         `json:"industry"`
	Seniority         SeniorityLevel `json:"seniority"`
	MinEducation      EducationLevel `json:"minEducation"`
}

// WorkExperience is one role in a candidate's title history, most recent first.
type WorkExperience struct {
	RawTitle          string     `json:"rawTitle"`
	StandardizedTitle string     `json:"standardizedTitle,omitempty"`
	Industry          string     `json:"industry,omitempty"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           *time.Time `json:"endDate,omitempty"`
}

// EducationRecord is one degree or certification held by a candidate.
type EducationRecord struct {
	Level EducationLevel `json:"level"`
	Field string         `json:"field,omitempty"`
	Date  time.Time      `json:"date"`
}

// TitleMapping is a cached standardization result for a raw title.
type TitleMapping struct {
	Canonical  string  `json:"canonical"`
	Similarity float64 `json:"similarity"`
}

// CandidateProfile is a candidate record as scored by the engine. The
// standardized title and embedding are derived during sync and may be absent
// for profiles that have not been processed yet.
type CandidateProfile struct {
	ID                string            `json:"id"`
	Experiences       []WorkExperience  `json:"experiences"`
	Skills            []string          `json:"skills"`
	Seniority         SeniorityLevel    `json:"seniority"`
	Education         []EducationRecord `json:"education"`
	Location          string            `json:"location,omitempty"`
	LastModified      time.Time         `json:"lastModified"`
	StandardizedTitle *TitleMapping     `json:"standardizedTitle,omitempty"`
	TitleEmbedding    []float32         `json:"-"`
}

// MostRecentExperience returns the first role in the history, or nil.
func (c CandidateProfile) MostRecentExperience() *WorkExperience {
	if len(c.Experiences) == 0 {
		return nil
	}
	return &c.Experiences[0]
}

// HighestEducation returns the candidate's best attainment level.
func (c CandidateProfile) HighestEducation() EducationLevel {
	best := EducationNone
	for _, rec := range c.Education {
		if rec.Level > best {
			best = rec.Level
		}
	}
	return best
}

// ScoreBreakdown holds the six per-signal sub-scores, each in [0,100].
type ScoreBreakdown struct {
	Title      float64 `json:"title"`
	Industry   float64 `json:"industry"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
	Seniority  float64 `json:"seniority"`
	Education  float64 `json:"education"`
}

// MatchResult is one ranked candidate in a match response. Results are
// recomputed per request and never persisted.
type MatchResult struct {
	CandidateID string         `json:"candidateId"`
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Rank        int            `json:"rank"`
}
