package resumes

import "time"

// Resume is an uploaded resume and the text and skills extracted from it.
type Resume struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	FileName   string     `json:"file_name"`
	FileType   string     `json:"file_type"`
	StorageKey string     `json:"-"`
	SizeBytes  int64      `json:"size_bytes"`
	RawText    string     `json:"-"`
	ParsedData ParsedData `json:"parsed_data"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ParsedData is the extraction result stored alongside the resume.
type ParsedData struct {
	Skills          []string            `json:"skills"`
	Categories      map[string][]string `json:"skill_categories"`
	Confidence      map[string]float64  `json:"confidence"`
	Overall         float64             `json:"overall_confidence"`
	YearsExperience float64             `json:"years_experience"`
	Education       string              `json:"education"`
}

// Summary is the list view of a resume.
type Summary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	SizeBytes  int64     `json:"size_bytes"`
	SkillCount int       `json:"skill_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSummary(r Resume) Summary {
	return Summary{
		ID:         r.ID,
		FileName:   r.FileName,
		FileType:   r.FileType,
		SizeBytes:  r.SizeBytes,
		SkillCount: len(r.ParsedData.Skills),
		CreatedAt:  r.CreatedAt,
	}
}
