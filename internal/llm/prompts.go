package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/cover_letter_paragraph.txt
var coverLetterParagraphPrompt string

// ParagraphInput is the applicant and job context for a cover letter paragraph.
type ParagraphInput struct {
	JobTitle       string
	CompanyName    string
	Background     string
	Skills         []string
	JobDescription string
	Tone           string
}

// CoverLetterParagraphPrompt renders the prompt for the customized paragraph.
func CoverLetterParagraphPrompt(in ParagraphInput) string {
	tone := in.Tone
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}
	return strings.NewReplacer(
		"{job_title}", in.JobTitle,
		"{company_name}", in.CompanyName,
		"{background}", in.Background,
		"{skills}", strings.Join(in.Skills, ", "),
		"{job_description}", in.JobDescription,
		"{tone}", tone,
	).Replace(coverLetterParagraphPrompt)
}
