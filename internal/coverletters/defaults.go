package coverletters

import (
	_ "embed"
	"strings"
)

var (
	//go:embed templates/general.txt
	generalTemplate string
	//go:embed templates/technical.txt
	technicalTemplate string
	//go:embed templates/creative.txt
	creativeTemplate string
)

const (
	defaultHiringManager   = "Hiring Manager"
	defaultBackground      = "relevant fields"
	defaultExperience      = "similar roles"
	defaultJobSource       = "your website"
	defaultCompanyInterest = "your innovative work and company culture"
	defaultTone            = "professional"
	fallbackParagraph      = "With my skills and experience, I am confident that I can make a significant contribution to your team and help achieve your company's goals."
)

// SystemTemplates returns the built-in templates.
func SystemTemplates() []Template {
	return []Template{
		{ID: "general", Name: "General Purpose", Content: generalTemplate, System: true},
		{ID: "technical", Name: "Technical Role", Content: technicalTemplate, System: true},
		{ID: "creative", Name: "Creative Role", Content: creativeTemplate, System: true},
	}
}

type fields struct {
	HiringManager     string
	JobTitle          string
	CompanyName       string
	Background        string
	Experience        string
	CustomizedContent string
	SkillsSection     string
	ApplicantName     string
	JobSource         string
	CompanyInterest   string
}

func fieldsFor(req GenerateRequest, paragraph string) fields {
	return fields{
		HiringManager:     orDefault(req.HiringManager, defaultHiringManager),
		JobTitle:          req.JobTitle,
		CompanyName:       req.CompanyName,
		Background:        orDefault(req.Background, defaultBackground),
		Experience:        orDefault(req.Experience, defaultExperience),
		CustomizedContent: paragraph,
		SkillsSection:     skillsSection(req.Skills),
		ApplicantName:     req.ApplicantName,
		JobSource:         orDefault(req.JobSource, defaultJobSource),
		CompanyInterest:   orDefault(req.CompanyInterest, defaultCompanyInterest),
	}
}

// fill substitutes every known placeholder. Unknown {names} are left as is.
func fill(content string, f fields) string {
	return strings.NewReplacer(
		"{hiring_manager}", f.HiringManager,
		"{job_title}", f.JobTitle,
		"{company_name}", f.CompanyName,
		"{background}", f.Background,
		"{experience}", f.Experience,
		"{customized_content}", f.CustomizedContent,
		"{skills_section}", f.SkillsSection,
		"{applicant_name}", f.ApplicantName,
		"{job_source}", f.JobSource,
		"{company_interest}", f.CompanyInterest,
	).Replace(content)
}

func skillsSection(skills []string) string {
	var b strings.Builder
	for _, s := range skills {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		b.WriteString("• ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
