// Package scoring computes the resume-to-job compatibility score.
//
// The score blends three components, each in [0,1]:
//
//	skills      |matched| / |required|
//	experience  min(candidate years / required years, 1)
//	education   rank(candidate) / rank(required), capped at 1
//
// using weights that sum to 1, then scales to [0,100] and rounds to two decimals.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrInvalidInput is wrapped by every ScoreError.
var ErrInvalidInput = errors.New("invalid scoring input")

// ScoreError reports malformed scoring input.
type ScoreError struct {
	Field  string
	Reason string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("scoring: %s: %s", e.Field, e.Reason)
}

func (e *ScoreError) Unwrap() error { return ErrInvalidInput }

// Weights controls how much each component contributes.
type Weights struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
}

// DefaultWeights favor skills.
var DefaultWeights = Weights{Skills: 0.6, Experience: 0.25, Education: 0.15}

const weightTolerance = 1e-9

// Validate rejects non-finite, negative or non-normalized weights.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"weights.skills", w.Skills}, {"weights.experience", w.Experience}, {"weights.education", w.Education}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ScoreError{Field: f.name, Reason: "must be a finite number"}
		}
		if f.v < 0 {
			return &ScoreError{Field: f.name, Reason: "must not be negative"}
		}
	}
	if sum := w.Skills + w.Experience + w.Education; math.Abs(sum-1) > weightTolerance {
		return &ScoreError{Field: "weights", Reason: fmt.Sprintf("must sum to 1.0, got %g", sum)}
	}
	return nil
}

// Input is one scoring run. Zero values for the required fields mean "no requirement".
type Input struct {
	CandidateSkills    []string
	RequiredSkills     []string
	CandidateYears     float64
	RequiredYears      float64
	CandidateEducation Degree
	RequiredEducation  Degree
}

// Component is one line of the score breakdown.
type Component struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// Result is the outcome of a scoring run. Component scores are on the 0-100 scale.
type Result struct {
	Score           float64     `json:"score"`
	SkillScore      float64     `json:"skill_score"`
	ExperienceScore float64     `json:"experience_score"`
	EducationScore  float64     `json:"education_score"`
	SkillRatio      float64     `json:"skill_ratio"`
	MatchedSkills   []string    `json:"matched_skills"`
	SkillGaps       []string    `json:"skill_gaps"`
	Breakdown       []Component `json:"breakdown"`
}

// Scorer computes compatibility scores. The zero value is not usable; use New.
type Scorer struct {
	Weights Weights
	// NoRequirementsRatio is the skill ratio used when the job lists no skills.
	NoRequirementsRatio float64
}

// New returns a Scorer with validated weights.
func New(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{Weights: w, NoRequirementsRatio: 1.0}, nil
}

// Default returns a Scorer with DefaultWeights.
func Default() *Scorer {
	s, _ := New(DefaultWeights)
	return s
}

// Score computes the compatibility of in.
func (s *Scorer) Score(in Input) (Result, error) {
	if err := s.Weights.Validate(); err != nil {
		return Result{}, err
	}
	if r := s.NoRequirementsRatio; math.IsNaN(r) || r < 0 || r > 1 {
		return Result{}, &ScoreError{Field: "no_requirements_ratio", Reason: "must be within [0,1]"}
	}
	candidate, err := normalizeSkills("candidate_skills", in.CandidateSkills)
	if err != nil {
		return Result{}, err
	}
	required, err := normalizeSkills("required_skills", in.RequiredSkills)
	if err != nil {
		return Result{}, err
	}
	if err := validateYears("candidate_years", in.CandidateYears); err != nil {
		return Result{}, err
	}
	if err := validateYears("required_years", in.RequiredYears); err != nil {
		return Result{}, err
	}
	if !in.CandidateEducation.Valid() {
		return Result{}, &ScoreError{Field: "candidate_education", Reason: fmt.Sprintf("unknown degree %q", in.CandidateEducation)}
	}
	if !in.RequiredEducation.Valid() {
		return Result{}, &ScoreError{Field: "required_education", Reason: fmt.Sprintf("unknown degree %q", in.RequiredEducation)}
	}

	matched, gaps := matchSkills(candidate, required)
	skillRatio := s.NoRequirementsRatio
	if len(required) > 0 {
		skillRatio = float64(len(matched)) / float64(len(required))
	}
	expRatio := experienceRatio(in.CandidateYears, in.RequiredYears)
	eduRatio := educationRatio(in.CandidateEducation, in.RequiredEducation)

	blended := s.Weights.Skills*skillRatio + s.Weights.Experience*expRatio + s.Weights.Education*eduRatio

	return Result{
		Score:           clampScore(blended * 100),
		SkillScore:      clampScore(skillRatio * 100),
		ExperienceScore: clampScore(expRatio * 100),
		EducationScore:  clampScore(eduRatio * 100),
		SkillRatio:      skillRatio,
		MatchedSkills:   matched,
		SkillGaps:       gaps,
		Breakdown: []Component{
			{Key: "skills", Label: "Skill match", Weight: s.Weights.Skills, Score: clampScore(skillRatio * 100)},
			{Key: "experience", Label: "Experience", Weight: s.Weights.Experience, Score: clampScore(expRatio * 100)},
			{Key: "education", Label: "Education", Weight: s.Weights.Education, Score: clampScore(eduRatio * 100)},
		},
	}, nil
}

// MatchRatio returns |candidate ∩ required| / |required| after normalization,
// or an error when required is empty or either list is malformed.
func MatchRatio(candidate, required []string) (float64, error) {
	c, err := normalizeSkills("candidate_skills", candidate)
	if err != nil {
		return 0, err
	}
	r, err := normalizeSkills("required_skills", required)
	if err != nil {
		return 0, err
	}
	if len(r) == 0 {
		return 0, &ScoreError{Field: "required_skills", Reason: "must not be empty"}
	}
	matched, _ := matchSkills(c, r)
	return float64(len(matched)) / float64(len(r)), nil
}

// NormalizeSkill trims, lower-cases and collapses inner whitespace.
func NormalizeSkill(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeSkills(field string, skills []string) ([]string, error) {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for i, raw := range skills {
		s := NormalizeSkill(raw)
		if s == "" {
			return nil, &ScoreError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "must not be blank"}
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

func matchSkills(candidate, required []string) (matched, gaps []string) {
	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}
	matched = []string{}
	gaps = []string{}
	for _, s := range required {
		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			gaps = append(gaps, s)
		}
	}
	sort.Strings(matched)
	sort.Strings(gaps)
	return matched, gaps
}

func validateYears(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ScoreError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ScoreError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func experienceRatio(candidate, required float64) float64 {
	if required <= 0 {
		return 1
	}
	return math.Min(candidate/required, 1)
}

func educationRatio(candidate, required Degree) float64 {
	reqRank := required.Rank()
	if reqRank == 0 {
		return 1
	}
	candRank := candidate.Rank()
	if candRank >= reqRank {
		return 1
	}
	return float64(candRank) / float64(reqRank)
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return math.Round(v*100) / 100
}
