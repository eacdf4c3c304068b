package matches

import "matching-backend/internal/matching"

// MatchRequest is the wire shape of a match call. Seniority and education
// arrive as level names; unknown names fall back to the model defaults.
type MatchRequest struct {
	Title          string   `json:"title" binding:"required"`
	Location       string   `json:"location"`
	RequiredSkills []string `json:"requiredSkills"`
	Industry       string   `json:"industry"`
	Seniority      string   `json:"seniority"`
	MinEducation   string   `json:"minEducation"`
	MaxResults     int      `json:"maxResults"`
}

func (r MatchRequest) toJob() matching.JobRequest {
	seniority := matching.SenioritySenior
	if r.Seniority != "" {
		seniority = matching.ParseSeniority(r.Seniority)
	}
	return matching.JobRequest{
		Title:          r.Title,
		Location:       r.Location,
		RequiredSkills: r.RequiredSkills,
		Industry:       r.Industry,
		Seniority:      seniority,
		MinEducation:   matching.ParseEducation(r.MinEducation),
	}
}
