package market

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"resume-analyzer/internal/shared/telemetry"
)

//go:embed seeddata/market.json
var defaultSeed []byte

type seedFile struct {
	Industries []seedIndustry `json:"industries"`
}

type seedIndustry struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Skills      []string    `json:"skills"`
	Trends      []seedTrend `json:"trends"`
	Jobs        []seedJob   `json:"jobs"`
}

type seedTrend struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ImpactLevel    string   `json:"impact_level"`
	RelevanceScore float64  `json:"relevance_score"`
	RelatedSkills  []string `json:"related_skills"`
}

type seedJob struct {
	Title      string        `json:"title"`
	Salaries   []SalaryRange `json:"salaries"`
	Demand     JobDemand     `json:"demand"`
	CareerPath CareerPath    `json:"career_path"`
}

// SeedCounts reports how many records a seed run wrote.
type SeedCounts struct {
	SkillSets   int `json:"skill_sets"`
	Trends      int `json:"trends"`
	Salaries    int `json:"salaries"`
	Demand      int `json:"demand"`
	CareerPaths int `json:"career_paths"`
}

// Seed upserts the built-in reference dataset. Running it twice leaves the
// same rows in place.
func Seed(ctx context.Context, svc *Service) (SeedCounts, error) {
	return SeedFrom(ctx, svc, defaultSeed)
}

func SeedFrom(ctx context.Context, svc *Service, raw []byte) (SeedCounts, error) {
	var file seedFile
	var counts SeedCounts
	if err := json.Unmarshal(raw, &file); err != nil {
		return counts, fmt.Errorf("decode seed data: %w", err)
	}

	for _, ind := range file.Industries {
		if _, err := svc.SaveSkillSet(ctx, IndustrySkillSet{IndustryName: ind.Name, Description: ind.Description, Skills: ind.Skills}); err != nil {
			return counts, fmt.Errorf("seed skill set %s: %w", ind.Name, err)
		}
		counts.SkillSets++

		for _, t := range ind.Trends {
			trend := IndustryTrend{
				IndustryName:   ind.Name,
				TrendName:      t.Name,
				Description:    t.Description,
				ImpactLevel:    t.ImpactLevel,
				RelevanceScore: t.RelevanceScore,
				RelatedSkills:  t.RelatedSkills,
			}
			if _, err := svc.SaveTrend(ctx, trend); err != nil {
				return counts, fmt.Errorf("seed trend %s: %w", t.Name, err)
			}
			counts.Trends++
		}

		for _, job := range ind.Jobs {
			for _, s := range job.Salaries {
				s.JobTitle, s.IndustryName = job.Title, ind.Name
				if _, err := svc.SaveSalary(ctx, s); err != nil {
					return counts, fmt.Errorf("seed salary %s/%s: %w", job.Title, s.ExperienceLevel, err)
				}
				counts.Salaries++
			}

			d := job.Demand
			d.JobTitle, d.IndustryName = job.Title, ind.Name
			if _, err := svc.SaveDemand(ctx, d); err != nil {
				return counts, fmt.Errorf("seed demand %s: %w", job.Title, err)
			}
			counts.Demand++

			p := job.CareerPath
			p.IndustryName = ind.Name
			if _, err := svc.SaveCareerPath(ctx, p); err != nil {
				return counts, fmt.Errorf("seed career path %s: %w", p.StartingRole, err)
			}
			counts.CareerPaths++
		}
	}

	telemetry.Info("market.seeded", map[string]any{
		"skill_sets":   counts.SkillSets,
		"trends":       counts.Trends,
		"salaries":     counts.Salaries,
		"demand":       counts.Demand,
		"career_paths": counts.CareerPaths,
	})
	return counts, nil
}
