// Package reports renders analysis results as downloadable HTML, PDF or DOCX
// documents.
package reports

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"resume-analyzer/internal/analyses"
)

const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

const baseFileName = "resume_analysis_report"

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Data is everything a report shows.
type Data struct {
	AnalysisID         string    `json:"analysis_id,omitempty"`
	Skills             []string  `json:"skills"`
	CompatibilityScore float64   `json:"compatibility_score"`
	SkillScore         float64   `json:"skill_score"`
	ExperienceScore    float64   `json:"experience_score"`
	EducationScore     float64   `json:"education_score"`
	MatchedSkills      []string  `json:"matched_skills"`
	SkillGaps          []string  `json:"skill_gaps"`
	Recommendations    []Item    `json:"recommendations"`
	GeneratedAt        time.Time `json:"-"`
}

// Item is one recommendation line. It decodes from either a plain string or
// an object with title and action.
type Item struct {
	Title    string `json:"title"`
	Action   string `json:"action,omitempty"`
	Category string `json:"category,omitempty"`
}

func (i *Item) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		*i = Item{Title: text}
		return nil
	}
	type plain Item
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*i = Item(p)
	return nil
}

// File is a rendered report ready to be sent.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// FromAnalysis builds report data from a stored analysis.
func FromAnalysis(a analyses.Analysis) Data {
	items := make([]Item, 0, len(a.Recommendations))
	for _, rec := range a.Recommendations {
		items = append(items, Item{Title: rec.Title, Action: rec.Action, Category: rec.Category})
	}
	return Data{
		AnalysisID:         a.ID,
		Skills:             a.ExtractedSkills,
		CompatibilityScore: a.Score,
		SkillScore:         a.SkillScore,
		ExperienceScore:    a.ExperienceScore,
		EducationScore:     a.EducationScore,
		MatchedSkills:      a.MatchedSkills,
		SkillGaps:          a.SkillGaps,
		Recommendations:    items,
	}
}

// NormalizeFormat lowercases format and applies the pdf default.
func NormalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return FormatPDF, nil
	case FormatHTML, FormatPDF, FormatDOCX:
		return format, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func contentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/pdf"
	}
}
