package matching

import (
	"regexp"
	"strings"
)

// Keyword lists per level, checked from executive down so the strongest
// signal in a title wins. German terms cover the primary market.
var seniorityKeywords = map[SeniorityLevel][]string{
	SeniorityJunior:    {"junior", "assistant", "trainee", "praktikant", "azubi", "ausbildung"},
	SeniorityMid:       {"sachbearbeiter", "specialist", "coordinator", "fachmann", "fachfrau", "mitarbeiter"},
	SenioritySenior:    {"senior", "lead", "expert", "principal", "fachexperte", "erfahren"},
	SeniorityManager:   {"manager", "leiter", "head of", "abteilungsleiter", "teamleiter", "team lead"},
	SeniorityDirector:  {"director", "vp", "vice president", "bereichsleiter"},
	SeniorityExecutive: {"ceo", "cfo", "cto", "coo", "geschäftsführer", "vorsitzender", "präsident", "president"},
}

var keywordPatterns = compileSeniorityPatterns()

func compileSeniorityPatterns() map[SeniorityLevel][]*regexp.Regexp {
	out := make(map[SeniorityLevel][]*regexp.Regexp, len(seniorityKeywords))
	for level, words := range seniorityKeywords {
		patterns := make([]*regexp.Regexp, 0, len(words))
		for _, w := range words {
			// Word-boundary match to avoid substring false positives
			// ("coo" inside "cook", "lead" inside "leadership").
			patterns = append(patterns, regexp.MustCompile(`(^|[^\p{L}])`+regexp.QuoteMeta(w)+`($|[^\p{L}])`))
		}
		out[level] = patterns
	}
	return out
}

func matchSeniority(title string) SeniorityLevel {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return SeniorityMid
	}
	for level := SeniorityExecutive; level >= SeniorityJunior; level-- {
		for _, p := range keywordPatterns[level] {
			if p.MatchString(lowered) {
				return level
			}
		}
	}
	return SeniorityMid
}

// InferSeniority derives a candidate's level from the most recent role title.
// Empty histories and titles with no recognized keyword default to mid.
func InferSeniority(experiences []WorkExperience) SeniorityLevel {
	if len(experiences) == 0 {
		return SeniorityMid
	}
	return matchSeniority(experiences[0].RawTitle)
}

// InferJobSeniority derives the expected level from a job posting title,
// defaulting to senior when the title carries no signal.
func InferJobSeniority(title string) SeniorityLevel {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if lowered == "" {
		return SenioritySenior
	}
	for level := SeniorityExecutive; level >= SeniorityJunior; level-- {
		for _, p := range keywordPatterns[level] {
			if p.MatchString(lowered) {
				return level
			}
		}
	}
	return SenioritySenior
}
