package analyses

import (
	"time"

	"resume-analyzer/internal/analyses/recommendations"
)

// Analysis is one scoring of a resume against a job. ResumeID is empty for
// analyses that were not tied to a stored resume.
type Analysis struct {
	ID              string                           `json:"id"`
	UserID          string                           `json:"user_id"`
	ResumeID        string                           `json:"resume_id,omitempty"`
	JobDescription  string                           `json:"job_description"`
	RequiredSkills  []string                         `json:"required_skills"`
	ExtractedSkills []string                         `json:"extracted_skills"`
	Score           float64                          `json:"compatibility_score"`
	SkillScore      float64                          `json:"skill_score"`
	ExperienceScore float64                          `json:"experience_score"`
	EducationScore  float64                          `json:"education_score"`
	MatchedSkills   []string                         `json:"matched_skills"`
	SkillGaps       []string                         `json:"skill_gaps"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
	CreatedAt       time.Time                        `json:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at"`
}

// Summary is the list view of an analysis.
type Summary struct {
	ID        string    `json:"id"`
	ResumeID  string    `json:"resume_id,omitempty"`
	Score     float64   `json:"compatibility_score"`
	SkillGaps int       `json:"skill_gap_count"`
	CreatedAt time.Time `json:"created_at"`
}

func toSummary(a Analysis) Summary {
	return Summary{
		ID:        a.ID,
		ResumeID:  a.ResumeID,
		Score:     a.Score,
		SkillGaps: len(a.SkillGaps),
		CreatedAt: a.CreatedAt,
	}
}

// Result is the response of an analyze call.
type Result struct {
	AnalysisID           string                           `json:"analysis_id"`
	ResumeID             string                           `json:"resume_id,omitempty"`
	Skills               []string                         `json:"skills"`
	SkillCategories      map[string][]string              `json:"skill_categories"`
	Confidence           map[string]float64               `json:"confidence"`
	YearsExperience      float64                          `json:"years_experience"`
	Education            string                           `json:"education"`
	CompatibilityScore   float64                          `json:"compatibility_score"`
	SkillScore           float64                          `json:"skill_score"`
	ExperienceScore      float64                          `json:"experience_score"`
	EducationScore       float64                          `json:"education_score"`
	MatchedSkills        []string                         `json:"matched_skills"`
	SkillGaps            []string                         `json:"skill_gaps"`
	Recommendations      []recommendations.Recommendation `json:"recommendations"`
	RecommendationGroups recommendations.Groups           `json:"recommendation_groups"`
	ScoreExplanation     ScoreExplanation                 `json:"score_explanation"`
}
