package recommendations

import (
	"regexp"
	"strings"
)

var (
	quantifiedPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?\s*%|[$€£]\s?\d|\b\d+(\.\d+)?[xkm]\b|\d+\+|\b\d+\s+(users|customers|clients|people|engineers|projects|services|hours|days|weeks|teams|members|requests))`)
	wordPattern       = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*`)
)

var actionVerbs = []string{
	"achieved", "built", "created", "delivered", "designed", "developed", "drove", "implemented",
	"improved", "increased", "launched", "led", "managed", "migrated", "optimized", "reduced",
	"shipped", "streamlined",
}

var sectionHeadings = map[string][]string{
	"experience": {"experience", "employment", "work history"},
	"education":  {"education", "academic"},
	"skills":     {"skills", "technologies", "competencies"},
}

// textFeatures are cheap signals computed from the extracted resume text.
type textFeatures struct {
	Words           int
	QuantifiedLines int
	ActionVerbs     int
	MissingSections []string
	BulletStyles    int
}

func analyzeText(text string) textFeatures {
	var f textFeatures
	if strings.TrimSpace(text) == "" {
		return f
	}
	lower := strings.ToLower(text)
	words := wordPattern.FindAllString(lower, -1)
	f.Words = len(words)

	verbs := make(map[string]bool, len(actionVerbs))
	for _, v := range actionVerbs {
		verbs[v] = true
	}
	for _, w := range words {
		if verbs[w] {
			f.ActionVerbs++
		}
	}

	bullets := map[rune]bool{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if quantifiedPattern.MatchString(trimmed) {
			f.QuantifiedLines++
		}
		switch r := []rune(trimmed)[0]; r {
		case '-', '*', '•', '▪', '◦', '‣':
			bullets[r] = true
		}
	}
	f.BulletStyles = len(bullets)

	for _, name := range []string{"experience", "education", "skills"} {
		found := false
		for _, heading := range sectionHeadings[name] {
			if strings.Contains(lower, heading) {
				found = true
				break
			}
		}
		if !found {
			f.MissingSections = append(f.MissingSections, name)
		}
	}
	return f
}
