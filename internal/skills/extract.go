// Package skills finds taxonomy skills in free text and derives coarse
// experience and education signals.
package skills

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMaxSkills  = 20
	DefaultConfidence = 0.6
	qualifierWindow   = 40
)

// qualifier words move a skill's confidence away from the default.
var qualifiers = []struct {
	words      []string
	confidence float64
}{
	{[]string{"expert", "advanced", "proficient", "extensive", "mastery"}, 0.9},
	{[]string{"experienced", "strong", "solid", "skilled"}, 0.75},
	{[]string{"familiar", "basic", "exposure", "beginner", "learning"}, 0.4},
}

// Result is the outcome of an extraction.
type Result struct {
	Skills     []string            `json:"skills"`
	ByCategory map[string][]string `json:"skill_categories"`
	Confidence map[string]float64  `json:"confidence"`
	Overall    float64             `json:"overall_confidence"`
}

// Extractor matches taxonomy skills in text.
type Extractor struct {
	taxonomy  Taxonomy
	maxSkills int
	synonyms  map[string]string
}

// NewExtractor builds an extractor. maxSkills <= 0 uses DefaultMaxSkills.
func NewExtractor(t Taxonomy, maxSkills int) *Extractor {
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}
	e := &Extractor{taxonomy: t, maxSkills: maxSkills, synonyms: make(map[string]string)}
	for _, c := range t {
		for _, s := range c.Skills {
			e.synonyms[s.Name] = s.Name
			for _, syn := range s.Synonyms {
				e.synonyms[syn] = s.Name
			}
		}
	}
	return e
}

// Taxonomy returns the extractor's taxonomy.
func (e *Extractor) Taxonomy() Taxonomy {
	return e.taxonomy
}

// Normalize maps a free-form skill name to its canonical name when known,
// otherwise returns the cleaned input.
func (e *Extractor) Normalize(name string) string {
	clean := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if canonical, ok := e.synonyms[clean]; ok {
		return canonical
	}
	return clean
}

// NormalizeAll normalizes and de-duplicates names, dropping blanks.
func (e *Extractor) NormalizeAll(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		norm := e.Normalize(n)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// Extract returns the taxonomy skills present in text, at most the
// extractor's skill cap.
func (e *Extractor) Extract(text string) Result {
	return e.extract(text, e.maxSkills)
}

// ExtractAll is Extract without the cap. Job requirements use it so a long
// posting keeps every skill it asks for.
func (e *Extractor) ExtractAll(text string) Result {
	return e.extract(text, 0)
}

// extract matches taxonomy skills in order; limit <= 0 means no limit.
func (e *Extractor) extract(text string, limit int) Result {
	lower := strings.ToLower(text)
	res := Result{
		Skills:     []string{},
		ByCategory: map[string][]string{},
		Confidence: map[string]float64{},
	}

	for _, c := range e.taxonomy {
		for _, s := range c.Skills {
			if limit > 0 && len(res.Skills) >= limit {
				break
			}
			var spans []span
			for _, term := range append([]string{s.Name}, s.Synonyms...) {
				for _, at := range findTerm(lower, term) {
					spans = append(spans, span{at, at + len(term)})
				}
			}
			for _, term := range s.CaseSensitive {
				for _, at := range findTerm(text, term) {
					spans = append(spans, span{at, at + len(term)})
				}
			}
			if len(spans) == 0 {
				continue
			}
			res.Skills = append(res.Skills, s.Name)
			res.ByCategory[c.Name] = append(res.ByCategory[c.Name], s.Name)
			res.Confidence[s.Name] = confidenceAt(lower, spans)
		}
	}

	if len(res.Confidence) > 0 {
		var sum float64
		for _, v := range res.Confidence {
			sum += v
		}
		res.Overall = math.Round(sum/float64(len(res.Confidence))*100) / 100
	}
	return res
}

// Contains reports whether term occurs in text as a whole token, case-insensitively.
func Contains(text, term string) bool {
	return len(findTerm(strings.ToLower(text), strings.ToLower(term))) > 0
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.'
}

// findTerm returns the byte offsets where term occurs in text bounded by
// non-token runes. A trailing '.' that ends a sentence is not part of a token.
func findTerm(text, term string) []int {
	if term == "" {
		return nil
	}
	var out []int
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			out = append(out, start)
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return out
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isTokenRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if r == '.' {
		return boundaryAfter(text, end+size) && !nextIsTokenStart(text, end+size)
	}
	return !isTokenRune(r)
}

func nextIsTokenStart(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

type span struct{ start, end int }

// confidenceAt returns the best per-occurrence confidence, or
// DefaultConfidence when no occurrence has a qualifier nearby.
func confidenceAt(lower string, spans []span) float64 {
	best := 0.0
	for _, sp := range spans {
		if c := occurrenceConfidence(lower, sp); c > best {
			best = c
		}
	}
	if best == 0 {
		return DefaultConfidence
	}
	return best
}

// occurrenceConfidence picks the qualifier closest to the match within the
// same clause and window. Ties go to the stronger qualifier.
func occurrenceConfidence(lower string, sp span) float64 {
	if sp.end > len(lower) {
		return 0
	}
	lo := sp.start - qualifierWindow
	if lo < 0 {
		lo = 0
	}
	hi := sp.end + qualifierWindow
	if hi > len(lower) {
		hi = len(lower)
	}
	before := lower[lo:sp.start]
	if i := lastClauseBreak(before); i >= 0 {
		before = before[i:]
	}
	after := lower[sp.end:hi]
	if i := firstClauseBreak(after); i >= 0 {
		after = after[:i]
	}

	conf, dist := 0.0, len(lower)+1
	consider := func(word string, d int) {
		q := qualifierConfidence(word)
		if q == 0 {
			return
		}
		if d < dist || (d == dist && q > conf) {
			conf, dist = q, d
		}
	}
	for _, w := range wordsOf(before) {
		consider(w.text, len(before)-w.end)
	}
	for _, w := range wordsOf(after) {
		consider(w.text, w.start)
	}
	return conf
}

func qualifierConfidence(token string) float64 {
	for _, q := range qualifiers {
		for _, w := range q.words {
			if w == token {
				return q.confidence
			}
		}
	}
	return 0
}

type word struct {
	text       string
	start, end int
}

func wordsOf(s string) []word {
	var out []word
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, word{text: s[start:i], start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, word{text: s[start:], start: start, end: len(s)})
	}
	return out
}

func isClauseBreak(s string, i int) bool {
	switch s[i] {
	case ';', '\n', '!', '?', '|':
		return true
	case '.':
		return i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\n'
	}
	return false
}

// lastClauseBreak returns the index just after the last clause delimiter in s.
func lastClauseBreak(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if isClauseBreak(s, i) {
			return i + 1
		}
	}
	return -1
}

func firstClauseBreak(s string) int {
	for i := 0; i < len(s); i++ {
		if isClauseBreak(s, i) {
			return i
		}
	}
	return -1
}
