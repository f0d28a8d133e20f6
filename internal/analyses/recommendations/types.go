package recommendations

const (
	CategorySkills     = "SKILLS"
	CategoryKeywords   = "KEYWORDS"
	CategoryContent    = "CONTENT"
	CategoryFormatting = "FORMATTING"
)

// MaxRecommendations caps the number of suggestions returned per analysis.
const MaxRecommendations = 7

// Recommendation represents a deterministic suggestion derived from analysis results.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// Input is the normalized data needed for recommendation generation.
type Input struct {
	SkillGaps       []string
	MissingKeywords []string

	// HasRequirements is true when a job description or explicit requirements were supplied.
	HasRequirements bool

	SkillScore      float64
	ExperienceScore float64
	EducationScore  float64

	ResumeText string
}

// Groups is the category map returned alongside the ranked list.
type Groups map[string][]string
