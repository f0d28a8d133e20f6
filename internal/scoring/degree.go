package scoring

import "strings"

// Degree is the highest completed level of education.
type Degree string

const (
	DegreeNone       Degree = ""
	DegreeHighSchool Degree = "high_school"
	DegreeAssociate  Degree = "associate"
	DegreeBachelor   Degree = "bachelor"
	DegreeMaster     Degree = "master"
	DegreePhD        Degree = "phd"
)

var degreeRanks = map[Degree]int{
	DegreeNone:       0,
	DegreeHighSchool: 1,
	DegreeAssociate:  2,
	DegreeBachelor:   3,
	DegreeMaster:     4,
	DegreePhD:        5,
}

// Valid reports whether d is a known degree.
func (d Degree) Valid() bool {
	_, ok := degreeRanks[d]
	return ok
}

// Rank orders degrees; DegreeNone is 0.
func (d Degree) Rank() int {
	return degreeRanks[d]
}

// ParseDegree maps loose user input ("Bachelors", "PhD", "none") to a Degree.
func ParseDegree(raw string) (Degree, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "'", ""))) {
	case "", "none":
		return DegreeNone, true
	case "high_school", "high school", "highschool", "ged":
		return DegreeHighSchool, true
	case "associate", "associates":
		return DegreeAssociate, true
	case "bachelor", "bachelors", "ba", "bs", "bsc":
		return DegreeBachelor, true
	case "master", "masters", "ms", "msc", "mba":
		return DegreeMaster, true
	case "phd", "ph.d", "ph.d.", "doctorate":
		return DegreePhD, true
	default:
		return Degree(raw), false
	}
}
