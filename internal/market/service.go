package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-analyzer/internal/scoring"
	"resume-analyzer/internal/shared/cache"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/validation"
)

const (
	cacheTTL          = 10 * time.Minute
	defaultTrendLimit = 5
	maxTrendLimit     = 20
	defaultTitleLimit = 5
	maxCareerSteps    = 3

	demandWeight = 40
	skillsWeight = 60
)

// Service exposes reference data lookups. Trend and industry skill set reads
// go through Cache and are invalidated on upsert.
type Service struct {
	Repo  Repo
	Cache cache.Cache
}

func NewService(repo Repo, c cache.Cache) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{Repo: repo, Cache: c}
}

func trendsKey(industry string) string   { return "market:trends:" + strings.ToLower(industry) }
func skillSetKey(industry string) string { return "industry:" + strings.ToLower(industry) }
func allSkillSetsKey() string            { return "industry:all" }

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		telemetry.Warn("cache.invalidate_failed", map[string]any{"keys": keys, "err": err})
	}
}

func (s *Service) SaveSalary(ctx context.Context, in SalaryRange) (SalaryRange, error) {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if err := validation.Struct(in); err != nil {
		return SalaryRange{}, err
	}
	if in.MedianSalary < in.MinSalary || in.MedianSalary > in.MaxSalary {
		return SalaryRange{}, invalidInput("median_salary must be within min and max")
	}
	return s.Repo.UpsertSalary(ctx, in)
}

func (s *Service) Salaries(ctx context.Context, q SalaryQuery) ([]SalaryRange, error) {
	if strings.TrimSpace(q.JobTitle) == "" {
		return nil, invalidInput("job title is required")
	}
	return s.Repo.FindSalaries(ctx, q)
}

func (s *Service) SimilarTitles(ctx context.Context, jobTitle string, limit int) ([]string, error) {
	if strings.TrimSpace(jobTitle) == "" {
		return nil, invalidInput("job title is required")
	}
	if limit <= 0 || limit > maxTrendLimit {
		limit = defaultTitleLimit
	}
	return s.Repo.SimilarTitles(ctx, jobTitle, limit)
}

func (s *Service) SaveDemand(ctx context.Context, in JobDemand) (JobDemand, error) {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	if err := validation.Struct(in); err != nil {
		return JobDemand{}, err
	}
	return s.Repo.UpsertDemand(ctx, in)
}

func (s *Service) Demand(ctx context.Context, q DemandQuery) ([]JobDemand, error) {
	if strings.TrimSpace(q.JobTitle) == "" {
		return nil, invalidInput("job title is required")
	}
	return s.Repo.FindDemand(ctx, q)
}

func (s *Service) SaveCareerPath(ctx context.Context, in CareerPath) (CareerPath, error) {
	in.StartingRole = strings.TrimSpace(in.StartingRole)
	if err := validation.Struct(in); err != nil {
		return CareerPath{}, err
	}
	return s.Repo.UpsertCareerPath(ctx, in)
}

func (s *Service) CareerPaths(ctx context.Context, role, industry string) ([]CareerPath, error) {
	if strings.TrimSpace(role) == "" {
		return nil, invalidInput("role is required")
	}
	return s.Repo.FindCareerPaths(ctx, role, industry)
}

func (s *Service) SaveTrend(ctx context.Context, in IndustryTrend) (IndustryTrend, error) {
	if in.ImpactLevel == "" {
		in.ImpactLevel = "medium"
	}
	if err := validation.Struct(in); err != nil {
		return IndustryTrend{}, err
	}
	saved, err := s.Repo.UpsertTrend(ctx, in)
	if err != nil {
		return IndustryTrend{}, err
	}
	s.invalidate(ctx, trendsKey(saved.IndustryName))
	return saved, nil
}

// Trends returns the industry's trends by descending relevance.
func (s *Service) Trends(ctx context.Context, industry string, limit int) ([]IndustryTrend, error) {
	if strings.TrimSpace(industry) == "" {
		return nil, invalidInput("industry is required")
	}
	if limit <= 0 {
		limit = defaultTrendLimit
	}
	limit = min(limit, maxTrendLimit)
	all, err := cache.GetOrLoad(ctx, s.Cache, trendsKey(industry), cacheTTL, func(ctx context.Context) ([]IndustryTrend, error) {
		return s.Repo.ListTrends(ctx, industry, maxTrendLimit)
	})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Service) SaveSkillSet(ctx context.Context, in IndustrySkillSet) (IndustrySkillSet, error) {
	in.IndustryName = strings.TrimSpace(in.IndustryName)
	if err := validation.Struct(in); err != nil {
		return IndustrySkillSet{}, err
	}
	saved, err := s.Repo.UpsertSkillSet(ctx, in)
	if err != nil {
		return IndustrySkillSet{}, err
	}
	s.invalidate(ctx, skillSetKey(saved.IndustryName), allSkillSetsKey())
	return saved, nil
}

func (s *Service) SkillSet(ctx context.Context, industry string) (IndustrySkillSet, error) {
	return cache.GetOrLoad(ctx, s.Cache, skillSetKey(industry), cacheTTL, func(ctx context.Context) (IndustrySkillSet, error) {
		return s.Repo.GetSkillSet(ctx, industry)
	})
}

func (s *Service) SkillSets(ctx context.Context) ([]IndustrySkillSet, error) {
	return cache.GetOrLoad(ctx, s.Cache, allSkillSetsKey(), cacheTTL, s.Repo.ListSkillSets)
}

func (s *Service) UpdateSkillSet(ctx context.Context, industry string, skills []string, description string) (IndustrySkillSet, error) {
	if len(skills) == 0 {
		return IndustrySkillSet{}, invalidInput("skills are required")
	}
	updated, err := s.Repo.UpdateSkillSet(ctx, industry, skills, description)
	if err != nil {
		return IndustrySkillSet{}, err
	}
	s.invalidate(ctx, skillSetKey(industry), allSkillSetsKey())
	return updated, nil
}

func (s *Service) DeleteSkillSet(ctx context.Context, industry string) error {
	if err := s.Repo.DeleteSkillSet(ctx, industry); err != nil {
		return err
	}
	s.invalidate(ctx, skillSetKey(industry), allSkillSetsKey())
	return nil
}

// Candidate is the profile being assessed.
type Candidate struct {
	Skills            []string `json:"skills"`
	YearsOfExperience float64  `json:"years_of_experience" validate:"gte=0,lte=60"`
}

// Job is the role the candidate is assessed against.
type Job struct {
	Title    string `json:"title" validate:"required,max=200"`
	Industry string `json:"industry" validate:"required,max=200"`
}

type SalarySummary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Currency string  `json:"currency"`
}

type DemandSummary struct {
	DemandScore float64 `json:"demand_score"`
	GrowthRate  float64 `json:"growth_rate"`
	Openings    int     `json:"openings"`
	TimePeriod  string  `json:"time_period,omitempty"`
}

type Insight struct {
	Trend       string `json:"trend"`
	Description string `json:"description"`
}

// Competitiveness is the market assessment of a candidate for a job.
type Competitiveness struct {
	MarketScore         int            `json:"market_score"`
	ExperienceLevel     string         `json:"experience_level"`
	SalaryRange         *SalarySummary `json:"salary_range"`
	DemandInfo          *DemandSummary `json:"demand_info"`
	NextCareerSteps     []string       `json:"next_career_steps"`
	MarketInsights      []Insight      `json:"market_insights"`
	MatchedMarketSkills []string       `json:"matched_market_skills"`
}

// Competitiveness scores a candidate: 40 points scale with market demand and
// 60 with the share of the role's market skills the candidate has. The
// lookups run concurrently.
func (s *Service) Competitiveness(ctx context.Context, candidate Candidate, job Job) (Competitiveness, error) {
	if err := validation.Struct(job); err != nil {
		return Competitiveness{}, err
	}
	if err := validation.Struct(candidate); err != nil {
		return Competitiveness{}, err
	}
	out := Competitiveness{
		ExperienceLevel:     ExperienceLevel(candidate.YearsOfExperience),
		NextCareerSteps:     []string{},
		MarketInsights:      []Insight{},
		MatchedMarketSkills: []string{},
	}

	var (
		salaries []SalaryRange
		demand   []JobDemand
		paths    []CareerPath
		trends   []IndustryTrend
		skillSet IndustrySkillSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		salaries, err = s.Repo.FindSalaries(gctx, SalaryQuery{JobTitle: job.Title, IndustryName: job.Industry, ExperienceLevel: out.ExperienceLevel})
		return err
	})
	g.Go(func() (err error) {
		demand, err = s.Repo.FindDemand(gctx, DemandQuery{JobTitle: job.Title, IndustryName: job.Industry})
		return err
	})
	g.Go(func() (err error) {
		paths, err = s.Repo.FindCareerPaths(gctx, job.Title, job.Industry)
		return err
	})
	g.Go(func() (err error) {
		trends, err = s.Trends(gctx, job.Industry, defaultTrendLimit)
		return err
	})
	g.Go(func() error {
		set, err := s.SkillSet(gctx, job.Industry)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		skillSet = set
		return nil
	})
	if err := g.Wait(); err != nil {
		return Competitiveness{}, err
	}

	var score float64
	if len(salaries) > 0 {
		sr := salaries[0]
		out.SalaryRange = &SalarySummary{Min: sr.MinSalary, Max: sr.MaxSalary, Median: sr.MedianSalary, Currency: sr.Currency}
	}
	if len(demand) > 0 {
		d := demand[0]
		out.DemandInfo = &DemandSummary{DemandScore: d.DemandScore, GrowthRate: d.GrowthRate, Openings: d.JobCount, TimePeriod: d.TimePeriod}
		score += d.DemandScore * demandWeight
	}

	var marketSkills []string
	if len(paths) > 0 {
		p := paths[0]
		out.NextCareerSteps = append(out.NextCareerSteps, p.NextRoles[:min(len(p.NextRoles), maxCareerSteps)]...)
		marketSkills = p.RequiredSkills
	}
	required := uniqueNormalized(marketSkills)
	if len(required) == 0 {
		marketSkills = skillSet.Skills
		required = uniqueNormalized(marketSkills)
	}
	for _, t := range trends {
		out.MarketInsights = append(out.MarketInsights, Insight{Trend: t.TrendName, Description: t.Description})
	}

	if len(required) > 0 {
		out.MatchedMarketSkills = matchSkills(candidate.Skills, marketSkills)
		score += float64(len(out.MatchedMarketSkills)) / float64(len(required)) * skillsWeight
	}
	out.MarketScore = int(math.Min(math.Round(score), 100))
	return out, nil
}

func uniqueNormalized(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		if n := scoring.NormalizeSkill(item); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

// matchSkills returns the market skills present in candidate, in market order.
func matchSkills(candidate, market []string) []string {
	have := uniqueNormalized(candidate)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, m := range market {
		n := scoring.NormalizeSkill(m)
		if _, ok := have[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
