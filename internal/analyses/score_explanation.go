package analyses

import (
	"fmt"
	"math"
	"strings"

	"resume-analyzer/internal/scoring"
)

// ScoreExplanation explains how the compatibility score was calculated.
type ScoreExplanation struct {
	Components []ScoreComponent `json:"components"`
}

// ScoreComponent represents a weighted score component.
type ScoreComponent struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Score       float64  `json:"score"`
	Weight      float64  `json:"weight"`
	Explanation string   `json:"explanation"`
	Helped      []string `json:"helped"`
	Dragged     []string `json:"dragged"`
}

// explainScore turns a scoring result into per-component explanations. Weights
// are reported as whole percentages.
func explainScore(res scoring.Result, in scoring.Input) ScoreExplanation {
	out := ScoreExplanation{Components: make([]ScoreComponent, 0, len(res.Breakdown))}
	for _, c := range res.Breakdown {
		comp := ScoreComponent{
			Key:     c.Key,
			Label:   c.Label,
			Score:   c.Score,
			Weight:  math.Round(c.Weight * 100),
			Helped:  []string{},
			Dragged: []string{},
		}
		switch c.Key {
		case "skills":
			comp.Helped = append(comp.Helped, res.MatchedSkills...)
			comp.Dragged = append(comp.Dragged, res.SkillGaps...)
			if len(res.MatchedSkills)+len(res.SkillGaps) == 0 {
				comp.Explanation = "No required skills were specified."
			} else {
				comp.Explanation = fmt.Sprintf("Matched %d of %d required skills.",
					len(res.MatchedSkills), len(res.MatchedSkills)+len(res.SkillGaps))
			}
		case "experience":
			comp.Explanation = experienceExplanation(in.CandidateYears, in.RequiredYears)
			if in.RequiredYears > 0 && in.CandidateYears < in.RequiredYears {
				comp.Dragged = append(comp.Dragged, fmt.Sprintf("%s years short", formatYears(in.RequiredYears-in.CandidateYears)))
			} else if in.CandidateYears > 0 {
				comp.Helped = append(comp.Helped, fmt.Sprintf("%s years of experience", formatYears(in.CandidateYears)))
			}
		case "education":
			comp.Explanation = educationExplanation(in.CandidateEducation, in.RequiredEducation)
			if in.RequiredEducation.Rank() > in.CandidateEducation.Rank() {
				comp.Dragged = append(comp.Dragged, "requires "+degreeLabel(in.RequiredEducation))
			} else if in.CandidateEducation != scoring.DegreeNone {
				comp.Helped = append(comp.Helped, degreeLabel(in.CandidateEducation))
			}
		}
		out.Components = append(out.Components, comp)
	}
	return out
}

func experienceExplanation(candidate, required float64) string {
	switch {
	case required <= 0:
		return "No minimum experience was specified."
	case candidate >= required:
		return fmt.Sprintf("Meets the %s year requirement.", formatYears(required))
	default:
		return fmt.Sprintf("Shows %s of %s required years.", formatYears(candidate), formatYears(required))
	}
}

func educationExplanation(candidate, required scoring.Degree) string {
	switch {
	case required == scoring.DegreeNone:
		return "No degree requirement was specified."
	case candidate.Rank() >= required.Rank():
		return "Meets the " + degreeLabel(required) + " requirement."
	default:
		return "Below the " + degreeLabel(required) + " requirement."
	}
}

func degreeLabel(d scoring.Degree) string {
	if d == scoring.DegreeNone {
		return "no degree"
	}
	return strings.ReplaceAll(string(d), "_", " ") + " degree"
}

func formatYears(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}
