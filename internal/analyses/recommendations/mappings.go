package recommendations

import (
	"strings"
)

const (
	maxGapRecommendations = 3
	maxKeywordsListed     = 5
	minActionVerbs        = 3
	minResumeWords        = 150
	maxResumeWords        = 1200
)

func fromSkillGaps(gaps []string, skillScore float64) []Recommendation {
	items := uniqueSortedStrings(gaps)
	if len(items) == 0 {
		return nil
	}
	severity, impact := "info", "medium"
	if skillScore < 50 {
		severity, impact = "warning", "high"
	}
	out := make([]Recommendation, 0, maxGapRecommendations+1)
	for i, skill := range items {
		if i == maxGapRecommendations {
			break
		}
		out = append(out, Recommendation{
			ID:       "SKILLS_GAP_" + slugify(skill),
			Category: CategorySkills,
			Severity: severity,
			Title:    "Develop " + skill,
			Why:      "The job requires " + skill + " and it does not appear in the resume.",
			Action:   "Consider developing proficiency in " + skill,
			Impact:   impact,
		})
	}
	if rest := items[min(len(items), maxGapRecommendations):]; len(rest) > 0 {
		out = append(out, Recommendation{
			ID:       "SKILLS_ADDITIONAL_GAPS",
			Category: CategorySkills,
			Severity: "info",
			Title:    "Close remaining skill gaps",
			Why:      "Several other required skills are missing.",
			Action:   "Review remaining requirements: " + strings.Join(rest, ", "),
			Impact:   "low",
		})
	}
	return out
}

func fromEducation(hasRequirements bool, educationScore float64) []Recommendation {
	if !hasRequirements || educationScore >= 100 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "SKILLS_EDUCATION",
			Category: CategorySkills,
			Severity: "info",
			Title:    "Highlight education and certifications",
			Why:      "The job asks for a higher degree than the resume shows.",
			Action:   "Highlight relevant education, certifications or equivalent experience",
			Impact:   "medium",
		},
	}
}

func fromMissingKeywords(k []string, hasRequirements bool, skillScore float64) []Recommendation {
	out := make([]Recommendation, 0, 2)
	if keywords := uniqueSortedStrings(k); len(keywords) > 0 {
		if len(keywords) > maxKeywordsListed {
			keywords = keywords[:maxKeywordsListed]
		}
		out = append(out, Recommendation{
			ID:       "KEYWORDS_MISSING",
			Category: CategoryKeywords,
			Severity: "warning",
			Title:    "Add missing job keywords",
			Why:      "Mirroring the job description improves ATS matching.",
			Action:   "Consider incorporating relevant keywords like: " + strings.Join(keywords, ", "),
			Impact:   "high",
		})
	}
	if hasRequirements && skillScore < 100 {
		out = append(out, Recommendation{
			ID:       "KEYWORDS_ALIGN_SKILLS",
			Category: CategoryKeywords,
			Severity: "info",
			Title:    "Align skills with the job",
			Why:      "Recruiters scan the skills section first.",
			Action:   "Align skills section with job requirements",
			Impact:   "medium",
		})
	}
	return out
}

func fromContent(f textFeatures, experienceScore float64) []Recommendation {
	if f.Words == 0 {
		return nil
	}
	out := make([]Recommendation, 0, 3)
	if f.QuantifiedLines == 0 {
		out = append(out, Recommendation{
			ID:       "CONTENT_QUANTIFY",
			Category: CategoryContent,
			Severity: "warning",
			Title:    "Quantify achievements",
			Why:      "Numbers make impact concrete and comparable.",
			Action:   "Quantify achievements with metrics where possible",
			Impact:   "high",
		})
	}
	if f.ActionVerbs < minActionVerbs {
		out = append(out, Recommendation{
			ID:       "CONTENT_ACTION_VERBS",
			Category: CategoryContent,
			Severity: "warning",
			Title:    "Start bullets with action verbs",
			Why:      "Action verbs make ownership of the work clear.",
			Action:   "Use action verbs to describe experiences",
			Impact:   "medium",
		})
	}
	if experienceScore < 100 {
		out = append(out, Recommendation{
			ID:       "CONTENT_IMPACT",
			Category: CategoryContent,
			Severity: "info",
			Title:    "Show impact and results",
			Why:      "The resume shows less experience than the job asks for.",
			Action:   "Ensure experiences demonstrate impact and results",
			Impact:   "medium",
		})
	}
	return out
}

func fromFormatting(f textFeatures) []Recommendation {
	if f.Words == 0 {
		return nil
	}
	out := make([]Recommendation, 0, 3)
	if len(f.MissingSections) > 0 {
		out = append(out, Recommendation{
			ID:       "FORMATTING_SECTIONS",
			Category: CategoryFormatting,
			Severity: "warning",
			Title:    "Add clear section headings",
			Why:      "Missing sections: " + strings.Join(f.MissingSections, ", ") + ".",
			Action:   "Ensure sections are clearly separated",
			Impact:   "medium",
		})
	}
	if f.Words < minResumeWords || f.Words > maxResumeWords {
		out = append(out, Recommendation{
			ID:       "FORMATTING_LENGTH",
			Category: CategoryFormatting,
			Severity: "info",
			Title:    "Adjust resume length",
			Why:      "Very short or very long resumes are harder to evaluate.",
			Action:   "Keep resume length appropriate for experience level",
			Impact:   "low",
		})
	}
	if f.BulletStyles > 1 {
		out = append(out, Recommendation{
			ID:       "FORMATTING_CONSISTENCY",
			Category: CategoryFormatting,
			Severity: "info",
			Title:    "Standardize bullet formatting",
			Why:      "Mixed bullet styles look unpolished and can confuse ATS parsers.",
			Action:   "Use consistent formatting throughout",
			Impact:   "low",
		})
	}
	return out
}
