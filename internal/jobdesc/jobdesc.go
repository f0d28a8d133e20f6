// Package jobdesc derives scoring requirements from a job description.
package jobdesc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"resume-analyzer/internal/scoring"
	"resume-analyzer/internal/skills"
)

// ActionKeywords are the verbs recruiters scan for.
var ActionKeywords = []string{
	"manage", "lead", "develop", "design", "implement",
	"analyze", "create", "build", "maintain", "improve",
}

// Requirements is what a job asks of a candidate.
type Requirements struct {
	Text      string         `json:"text"`
	Skills    []string       `json:"skills"`
	Years     float64        `json:"years"`
	Education scoring.Degree `json:"education"`
	Keywords  []string       `json:"keywords"`
}

// Parser extracts requirements using a skill extractor.
type Parser struct {
	extractor *skills.Extractor
}

func NewParser(e *skills.Extractor) *Parser {
	return &Parser{extractor: e}
}

var tagPattern = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// Parse reads description (plain text or HTML) and merges explicit skill
// requirements, which come first and are normalized through the taxonomy.
func (p *Parser) Parse(description string, explicit []string) (Requirements, error) {
	text := strings.TrimSpace(description)
	if tagPattern.MatchString(text) {
		plain, err := HTMLToText(text)
		if err != nil {
			return Requirements{}, err
		}
		text = plain
	}

	req := Requirements{
		Text:      text,
		Skills:    p.extractor.NormalizeAll(explicit),
		Years:     skills.DetectYears(text),
		Education: skills.DetectEducation(text),
		Keywords:  FindKeywords(text),
	}
	if text != "" {
		seen := make(map[string]struct{}, len(req.Skills))
		for _, s := range req.Skills {
			seen[s] = struct{}{}
		}
		for _, s := range p.extractor.ExtractAll(text).Skills {
			if _, ok := seen[s]; !ok {
				req.Skills = append(req.Skills, s)
				seen[s] = struct{}{}
			}
		}
	}
	return req, nil
}

// FindKeywords returns the action keywords that appear in text, matching
// inflections ("leads", "developing").
func FindKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	found := []string{}
	for _, kw := range ActionKeywords {
		for _, w := range words {
			if strings.HasPrefix(w, stem(kw)) {
				found = append(found, kw)
				break
			}
		}
	}
	return found
}

// stem drops a trailing "e" so "manage" matches "managing".
func stem(kw string) string {
	if len(kw) > 4 && strings.HasSuffix(kw, "e") {
		return kw[:len(kw)-1]
	}
	return kw
}

// HTMLToText strips markup from an HTML job posting, keeping block structure
// as line breaks.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .cookie-banner").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr, ul, ol").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if clean := strings.Join(strings.Fields(line), " "); clean != "" {
			out = append(out, clean)
		}
	}
	return strings.Join(out, "\n"), nil
}
