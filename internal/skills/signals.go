package skills

import (
	"regexp"
	"strconv"

	"resume-analyzer/internal/scoring"
)

const maxPlausibleYears = 50

var yearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d)?)\s*(?:\+|plus)?\s*(?:-\s*\d{1,2}\s*)?(?:years?|yrs?)\b`)

// DetectYears returns the largest "N years" figure mentioned in text, or 0.
func DetectYears(text string) float64 {
	best := 0.0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v > maxPlausibleYears {
			continue
		}
		if v > best {
			best = v
		}
	}
	return best
}

// degreePatterns are checked from highest to lowest.
var degreePatterns = []struct {
	degree  scoring.Degree
	pattern *regexp.Regexp
}{
	{scoring.DegreePhD, regexp.MustCompile(`(?i)\b(ph\.?\s?d|doctorate|doctor of)\b`)},
	{scoring.DegreeMaster, regexp.MustCompile(`(?i)\b(master'?s|masters|master of|msc|m\.sc|mba|m\.eng)\b|\bm\.s\.`)},
	{scoring.DegreeBachelor, regexp.MustCompile(`(?i)\b(bachelor'?s|bachelors|bachelor of|bsc|b\.sc|b\.eng|undergraduate degree)\b|\bb\.[sa]\.`)},
	{scoring.DegreeAssociate, regexp.MustCompile(`(?i)\b(associate'?s degree|associate degree|associate of)\b`)},
	{scoring.DegreeHighSchool, regexp.MustCompile(`(?i)\b(high school|secondary school|ged)\b`)},
}

// DetectEducation returns the highest degree mentioned in text.
func DetectEducation(text string) scoring.Degree {
	for _, dp := range degreePatterns {
		if dp.pattern.MatchString(text) {
			return dp.degree
		}
	}
	return scoring.DegreeNone
}
