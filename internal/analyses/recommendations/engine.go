package recommendations

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

var (
	severityOrder = map[string]int{"critical": 3, "warning": 2, "info": 1}
	impactOrder   = map[string]int{"high": 3, "medium": 2, "low": 1}
	categoryOrder = map[string]int{CategorySkills: 4, CategoryKeywords: 3, CategoryContent: 2, CategoryFormatting: 1}
	groupKeys     = map[string]string{
		CategorySkills:     "skill_development",
		CategoryKeywords:   "keyword_enhancement",
		CategoryContent:    "content_optimization",
		CategoryFormatting: "formatting_suggestions",
	}
)

// GenerateRecommendations turns gaps, scores and resume text features into a
// ranked list. The same input always yields the same list.
func GenerateRecommendations(input Input) []Recommendation {
	features := analyzeText(input.ResumeText)

	var candidates []Recommendation
	candidates = append(candidates, fromSkillGaps(input.SkillGaps, input.SkillScore)...)
	candidates = append(candidates, fromEducation(input.HasRequirements, input.EducationScore)...)
	candidates = append(candidates, fromMissingKeywords(input.MissingKeywords, input.HasRequirements, input.SkillScore)...)
	candidates = append(candidates, fromContent(features, input.ExperienceScore)...)
	candidates = append(candidates, fromFormatting(features)...)

	recs := dedupe(candidates)
	sortRecommendations(recs)
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	for i := range recs {
		recs[i].Order = i + 1
	}
	return recs
}

// Group buckets actions by category under the keys API clients expect.
// Empty categories are omitted.
func Group(recs []Recommendation) Groups {
	out := Groups{}
	for _, rec := range recs {
		key, ok := groupKeys[normCategory(rec.Category)]
		if !ok || strings.TrimSpace(rec.Action) == "" {
			continue
		}
		out[key] = append(out[key], rec.Action)
	}
	return out
}

func normCategory(c string) string { return strings.ToUpper(strings.TrimSpace(c)) }

func rank(table map[string]int, key string) int {
	return table[strings.ToLower(strings.TrimSpace(key))]
}

// sortRecommendations orders by severity, impact and category (all
// descending), then title.
func sortRecommendations(items []Recommendation) {
	slices.SortStableFunc(items, func(a, b Recommendation) int {
		if c := cmp.Compare(rank(severityOrder, b.Severity), rank(severityOrder, a.Severity)); c != 0 {
			return c
		}
		if c := cmp.Compare(rank(impactOrder, b.Impact), rank(impactOrder, a.Impact)); c != 0 {
			return c
		}
		if c := cmp.Compare(categoryOrder[normCategory(b.Category)], categoryOrder[normCategory(a.Category)]); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}

// dedupe keeps the first recommendation per ID. Later duplicates only fill
// fields the first one left empty, except that the higher severity wins.
func dedupe(items []Recommendation) []Recommendation {
	index := make(map[string]int, len(items))
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		i, seen := index[id]
		if !seen {
			index[id] = len(out)
			out = append(out, item)
			continue
		}
		cur := &out[i]
		fill(&cur.Title, item.Title)
		fill(&cur.Why, item.Why)
		fill(&cur.Action, item.Action)
		fill(&cur.Category, item.Category)
		fill(&cur.Impact, item.Impact)
		if rank(severityOrder, item.Severity) > rank(severityOrder, cur.Severity) {
			cur.Severity = item.Severity
		}
	}
	return out
}

func fill(dst *string, src string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = src
	}
}

// slugify builds the ID suffix for a skill. "+" and "#" are spelled out so
// c, c++ and c# stay distinct.
func slugify(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '+':
			b.WriteString("plus")
			dash = false
		case r == '#':
			b.WriteString("sharp")
			dash = false
		case !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	if out := strings.Trim(b.String(), "-"); out != "" {
		return out
	}
	return "item"
}

// uniqueSortedStrings trims, drops blanks and case-insensitive duplicates,
// and sorts case-insensitively.
func uniqueSortedStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		key := strings.ToLower(trimmed)
		if trimmed == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
