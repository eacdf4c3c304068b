package matching

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testParams() ScorerParams {
	p := DefaultScorerParams()
	p.Now = testNow
	p.RelatedIndustries = map[string][]string{
		"Real Estate": {"Construction", "Property Management"},
	}
	return p
}

func yearsAgo(n float64) time.Time {
	return testNow.Add(-time.Duration(n * 365.25 * 24 * float64(time.Hour)))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestTitleScoreExactMatch(t *testing.T) {
	job := JobRequest{StandardizedTitle: "Accountant"}
	cand := CandidateProfile{StandardizedTitle: &TitleMapping{Canonical: "Accountant", Similarity: 0.91}}
	if got := TitleScore(job, cand); got != 100 {
		t.Fatalf("exact canonical match: got %v, want 100", got)
	}
}

func TestTitleScoreUnspecified(t *testing.T) {
	job := JobRequest{StandardizedTitle: UnspecifiedTitle}
	cand := CandidateProfile{StandardizedTitle: &TitleMapping{Canonical: "Accountant"}}
	if got := TitleScore(job, cand); got != 0 {
		t.Fatalf("unspecified job title: got %v, want 0", got)
	}
	job = JobRequest{StandardizedTitle: "Accountant"}
	cand = CandidateProfile{StandardizedTitle: &TitleMapping{Canonical: UnspecifiedTitle}}
	if got := TitleScore(job, cand); got != 0 {
		t.Fatalf("unspecified candidate title: got %v, want 0", got)
	}
	if got := TitleScore(job, CandidateProfile{}); got != 0 {
		t.Fatalf("missing candidate mapping: got %v, want 0", got)
	}
}

func TestTitleScoreEmbeddingSimilarity(t *testing.T) {
	job := JobRequest{
		StandardizedTitle: "Accountant",
		TitleEmbedding:    []float32{1, 0},
	}
	cand := CandidateProfile{
		StandardizedTitle: &TitleMapping{Canonical: "Controller"},
		TitleEmbedding:    []float32{0, 1},
	}
	// Orthogonal vectors: cosine 0 scales to 50.
	if got := TitleScore(job, cand); math.Abs(got-50) > 1e-9 {
		t.Fatalf("orthogonal embeddings: got %v, want 50", got)
	}
}

func TestIndustryScore(t *testing.T) {
	p := testParams()
	job := JobRequest{Industry: "Real Estate"}
	exact := CandidateProfile{Experiences: []WorkExperience{{Industry: "real estate"}}}
	if got := IndustryScore(job, exact, p); got != 100 {
		t.Fatalf("exact industry: got %v, want 100", got)
	}
	related := CandidateProfile{Experiences: []WorkExperience{{Industry: "Construction"}}}
	if got := IndustryScore(job, related, p); got != 50 {
		t.Fatalf("related industry: got %v, want 50", got)
	}
	other := CandidateProfile{Experiences: []WorkExperience{{Industry: "Gastronomy"}}}
	if got := IndustryScore(job, other, p); got != 0 {
		t.Fatalf("unrelated industry: got %v, want 0", got)
	}
	if got := IndustryScore(job, CandidateProfile{}, p); got != 0 {
		t.Fatalf("no experiences: got %v, want 0", got)
	}
}

func TestRecencyWeightCurve(t *testing.T) {
	cases := []struct {
		yearsAgo float64
		want     float64
	}{
		{0, 1.0},
		{-1, 1.0}, // ongoing
		{5, 0.80},
		{10, 0.80 * math.Pow(0.93, 5)},
		{20, 0.40 * math.Pow(0.85, 5)},
	}
	for _, tc := range cases {
		if got := recencyWeight(tc.yearsAgo); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("recencyWeight(%v) = %v, want %v", tc.yearsAgo, got, tc.want)
		}
	}
	// Monotone non-increasing over the whole range.
	prev := recencyWeight(0)
	for y := 0.5; y < 40; y += 0.5 {
		cur := recencyWeight(y)
		if cur > prev+1e-9 {
			t.Fatalf("recencyWeight not monotone at %v years: %v > %v", y, cur, prev)
		}
		prev = cur
	}
}

func TestExperienceScoreOngoingRole(t *testing.T) {
	p := testParams()
	job := JobRequest{StandardizedTitle: "Accountant", Industry: "Real Estate"}
	cand := CandidateProfile{
		Experiences: []WorkExperience{
			{StandardizedTitle: "Accountant", StartDate: yearsAgo(6)}, // ongoing, 6 years
		},
	}
	got := ExperienceScore(job, cand, p)
	want := 6.0 / 10.0 * 100
	if math.Abs(got-want) > 0.5 {
		t.Fatalf("ongoing role: got %v, want ~%v", got, want)
	}
}

func TestExperienceScoreIgnoresIrrelevantRoles(t *testing.T) {
	p := testParams()
	job := JobRequest{StandardizedTitle: "Accountant", Industry: "Real Estate"}
	cand := CandidateProfile{
		Experiences: []WorkExperience{
			{StandardizedTitle: "Chef", Industry: "Gastronomy", StartDate: yearsAgo(20), EndDate: ptrTime(yearsAgo(1))},
		},
	}
	if got := ExperienceScore(job, cand, p); got != 0 {
		t.Fatalf("irrelevant roles: got %v, want 0", got)
	}
}

func TestExperienceScoreCappedAt100(t *testing.T) {
	p := testParams()
	job := JobRequest{StandardizedTitle: "Accountant"}
	cand := CandidateProfile{
		Experiences: []WorkExperience{
			{StandardizedTitle: "Accountant", StartDate: yearsAgo(30)},
		},
	}
	if got := ExperienceScore(job, cand, p); got != 100 {
		t.Fatalf("long tenure: got %v, want 100", got)
	}
}

func TestSkillsScore(t *testing.T) {
	job := JobRequest{RequiredSkills: []string{"Excel", "SAP", "IFRS", "Abacus"}}
	cand := CandidateProfile{Skills: []string{"excel", "sap", "ifrs", "Cooking"}}
	if got := SkillsScore(job, cand); got != 75 {
		t.Fatalf("3 of 4 skills: got %v, want 75", got)
	}
}

func TestSkillsScoreVacuousMatch(t *testing.T) {
	job := JobRequest{}
	for _, cand := range []CandidateProfile{
		{},
		{Skills: []string{"Excel"}},
	} {
		if got := SkillsScore(job, cand); got != 100 {
			t.Fatalf("no required skills: got %v, want 100", got)
		}
	}
}

func TestSkillsScoreDuplicatesCountOnce(t *testing.T) {
	job := JobRequest{RequiredSkills: []string{"Excel", "excel ", "SAP"}}
	cand := CandidateProfile{Skills: []string{"Excel", "EXCEL"}}
	if got := SkillsScore(job, cand); got != 50 {
		t.Fatalf("duplicate skills: got %v, want 50", got)
	}
}

func TestSeniorityScore(t *testing.T) {
	p := testParams()
	job := JobRequest{Seniority: SenioritySenior}
	cases := []struct {
		level SeniorityLevel
		want  float64
	}{
		{SenioritySenior, 100},
		{SeniorityMid, 80},
		{SeniorityManager, 80},
		{SeniorityJunior, 60},
		{SeniorityExecutive, 40},
	}
	for _, tc := range cases {
		cand := CandidateProfile{Seniority: tc.level}
		if got := SeniorityScore(job, cand, p); got != tc.want {
			t.Fatalf("seniority %s: got %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestSeniorityScoreAsymmetric(t *testing.T) {
	p := testParams()
	p.SeniorityUnderPenalty = 30
	p.SeniorityOverPenalty = 10
	job := JobRequest{Seniority: SenioritySenior}
	under := CandidateProfile{Seniority: SeniorityMid}
	over := CandidateProfile{Seniority: SeniorityManager}
	if got := SeniorityScore(job, under, p); got != 70 {
		t.Fatalf("under-qualified: got %v, want 70", got)
	}
	if got := SeniorityScore(job, over, p); got != 90 {
		t.Fatalf("over-qualified: got %v, want 90", got)
	}
}

func TestEducationScore(t *testing.T) {
	p := testParams()
	job := JobRequest{MinEducation: EducationBachelor}
	meets := CandidateProfile{Education: []EducationRecord{{Level: EducationBachelor}}}
	if got := EducationScore(job, meets, p); got != 100 {
		t.Fatalf("meets requirement: got %v, want 100", got)
	}
	exceeds := CandidateProfile{Education: []EducationRecord{{Level: EducationMaster}}}
	if got := EducationScore(job, exceeds, p); got != 100 {
		t.Fatalf("exceeds requirement: got %v, want 100", got)
	}
	oneBelow := CandidateProfile{Education: []EducationRecord{{Level: EducationApprenticeship}}}
	if got := EducationScore(job, oneBelow, p); got != 65 {
		t.Fatalf("one level below: got %v, want 65", got)
	}
	twoBelow := CandidateProfile{}
	if got := EducationScore(job, twoBelow, p); got != 30 {
		t.Fatalf("two levels below: got %v, want 30", got)
	}
}

func TestAllScorersStayInRange(t *testing.T) {
	p := testParams()
	job := JobRequest{
		StandardizedTitle: "Accountant",
		TitleEmbedding:    []float32{1, 0, 0},
		Industry:          "Real Estate",
		RequiredSkills:    []string{"Excel"},
		Seniority:         SeniorityExecutive,
		MinEducation:      EducationDoctorate,
	}
	cands := []CandidateProfile{
		{},
		{
			StandardizedTitle: &TitleMapping{Canonical: "Chef"},
			TitleEmbedding:    []float32{-1, 0, 0},
			Seniority:         SeniorityJunior,
			Experiences: []WorkExperience{
				{StandardizedTitle: "Accountant", StartDate: yearsAgo(40)},
			},
		},
	}
	for i, cand := range cands {
		scores := []float64{
			TitleScore(job, cand),
			IndustryScore(job, cand, p),
			ExperienceScore(job, cand, p),
			SkillsScore(job, cand),
			SeniorityScore(job, cand, p),
			EducationScore(job, cand, p),
		}
		for j, s := range scores {
			if s < 0 || s > 100 {
				t.Fatalf("candidate %d scorer %d out of range: %v", i, j, s)
			}
		}
	}
}

func TestExperienceScoreAnchorsAtCallTimeByDefault(t *testing.T) {
	p := DefaultScorerParams()
	if !p.Now.IsZero() {
		t.Fatalf("default Now = %v, want zero", p.Now)
	}
	job := JobRequest{StandardizedTitle: "Accountant"}
	cand := CandidateProfile{
		StandardizedTitle: &TitleMapping{Canonical: "Accountant"},
		Experiences: []WorkExperience{{
			StandardizedTitle: "Accountant",
			StartDate:         time.Now().UTC().AddDate(-5, 0, 0),
		}},
	}
	// An ongoing five-year role weighs 1.0 against the ten-year cap.
	if got := ExperienceScore(job, cand, p); math.Abs(got-50) > 1 {
		t.Fatalf("ongoing five-year role = %v, want ~50", got)
	}
}
