package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/shared/cache"
	"resume-analyzer/internal/shared/validation"
)

func newSeededService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := NewService(repo, cache.NewMemory())
	_, err := Seed(context.Background(), svc)
	require.NoError(t, err)
	return svc, repo
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, repo := newSeededService(t)
	ctx := context.Background()

	counts, err := Seed(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.SkillSets)
	assert.Equal(t, 12, counts.Salaries)

	sets, err := repo.ListSkillSets(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 3)

	salaries, err := repo.FindSalaries(ctx, SalaryQuery{JobTitle: "software engineer"})
	require.NoError(t, err)
	assert.Len(t, salaries, 3)
}

func TestExperienceLevel(t *testing.T) {
	cases := map[float64]string{0: LevelEntry, 1.9: LevelEntry, 2: LevelMid, 4.5: LevelMid, 5: LevelSenior, 20: LevelSenior}
	for years, want := range cases {
		assert.Equal(t, want, ExperienceLevel(years), "years=%v", years)
	}
}

func TestSaveSalaryValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.SaveSalary(ctx, SalaryRange{MinSalary: 1, MaxSalary: 2, MedianSalary: 1})
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %v", err)

	_, err = svc.SaveSalary(ctx, SalaryRange{JobTitle: "Engineer", MinSalary: 10, MaxSalary: 5, MedianSalary: 7})
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %v", err)

	_, err = svc.SaveSalary(ctx, SalaryRange{JobTitle: "Engineer", MinSalary: 10, MaxSalary: 20, MedianSalary: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	saved, err := svc.SaveSalary(ctx, SalaryRange{JobTitle: " Engineer ", MinSalary: 10, MaxSalary: 20, MedianSalary: 15})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", saved.JobTitle)
	assert.Equal(t, "USD", saved.Currency)
	assert.NotEmpty(t, saved.ID)
}

func TestUpsertKeepsIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()
	in := SalaryRange{JobTitle: "Engineer", IndustryName: "Technology", ExperienceLevel: LevelMid, MinSalary: 10, MaxSalary: 20, MedianSalary: 15}

	first, err := svc.SaveSalary(ctx, in)
	require.NoError(t, err)
	in.MaxSalary = 30
	second, err := svc.SaveSalary(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	got, err := svc.Salaries(ctx, SalaryQuery{JobTitle: "engineer"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].MaxSalary)
}

func TestLookupsRequireKey(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Salaries(ctx, SalaryQuery{JobTitle: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Demand(ctx, DemandQuery{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CareerPaths(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Trends(ctx, "", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SimilarTitles(ctx, "", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimilarTitles(t *testing.T) {
	svc, _ := newSeededService(t)
	titles, err := svc.SimilarTitles(context.Background(), "analyst", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Financial Analyst"}, titles)
}

func TestTrendsOrderedAndLimited(t *testing.T) {
	svc, _ := newSeededService(t)
	trends, err := svc.Trends(context.Background(), "Technology", 2)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "Artificial Intelligence", trends[0].TrendName)
	assert.Equal(t, "Cloud-Native Development", trends[1].TrendName)
}

func TestTrendsCachedUntilSave(t *testing.T) {
	svc, repo := newSeededService(t)
	ctx := context.Background()

	trends, err := svc.Trends(ctx, "Technology", 20)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	// Writing behind the service leaves the cached list in place.
	_, err = repo.UpsertTrend(ctx, IndustryTrend{IndustryName: "Technology", TrendName: "Edge", RelevanceScore: 0.5})
	require.NoError(t, err)
	trends, err = svc.Trends(ctx, "Technology", 20)
	require.NoError(t, err)
	assert.Len(t, trends, 3)

	_, err = svc.SaveTrend(ctx, IndustryTrend{IndustryName: "Technology", TrendName: "Platform Engineering", RelevanceScore: 0.99})
	require.NoError(t, err)
	trends, err = svc.Trends(ctx, "Technology", 20)
	require.NoError(t, err)
	require.Len(t, trends, 5)
	assert.Equal(t, "Platform Engineering", trends[0].TrendName)
	assert.Equal(t, "medium", trends[0].ImpactLevel)
}

func TestSkillSetLifecycle(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	set, err := svc.SkillSet(ctx, "Finance")
	require.NoError(t, err)
	assert.Contains(t, set.Skills, "Valuation")

	updated, err := svc.UpdateSkillSet(ctx, "Finance", []string{"Excel"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Excel"}, updated.Skills)
	assert.NotEmpty(t, updated.Description)

	set, err = svc.SkillSet(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, []string{"Excel"}, set.Skills)

	_, err = svc.UpdateSkillSet(ctx, "Finance", nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteSkillSet(ctx, "Finance"))
	_, err = svc.SkillSet(ctx, "Finance")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSkillSet(ctx, "Finance"), ErrNotFound)

	all, err := svc.SkillSets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCompetitivenessUsesCareerPathSkills(t *testing.T) {
	svc, _ := newSeededService(t)
	got, err := svc.Competitiveness(context.Background(),
		Candidate{Skills: []string{"Python", "sql", "Machine Learning", "Go"}, YearsOfExperience: 3},
		Job{Title: "Data Scientist", Industry: "Technology"},
	)
	require.NoError(t, err)

	// 0.9 demand * 40 + 3/5 skills * 60
	assert.Equal(t, 72, got.MarketScore)
	assert.Equal(t, LevelMid, got.ExperienceLevel)
	require.NotNil(t, got.SalaryRange)
	assert.Equal(t, 125000.0, got.SalaryRange.Median)
	require.NotNil(t, got.DemandInfo)
	assert.Equal(t, 85000, got.DemandInfo.Openings)
	assert.Equal(t, []string{"Data Scientist", "Senior Data Scientist", "Data Science Manager"}, got.NextCareerSteps)
	assert.Equal(t, []string{"python", "sql", "machine learning"}, got.MatchedMarketSkills)
	assert.Len(t, got.MarketInsights, 3)
}

func TestCompetitivenessFallsBackToIndustrySkills(t *testing.T) {
	svc, _ := newSeededService(t)
	got, err := svc.Competitiveness(context.Background(),
		Candidate{Skills: []string{"Telehealth"}},
		Job{Title: "Nurse", Industry: "Healthcare"},
	)
	require.NoError(t, err)

	// No demand row; 1 of 19 industry skills.
	assert.Equal(t, 3, got.MarketScore)
	assert.Equal(t, LevelEntry, got.ExperienceLevel)
	assert.Nil(t, got.SalaryRange)
	assert.Nil(t, got.DemandInfo)
	assert.Empty(t, got.NextCareerSteps)
	assert.Equal(t, []string{"telehealth"}, got.MatchedMarketSkills)
}

func TestCompetitivenessCapsAtHundred(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()
	_, err := svc.SaveDemand(ctx, JobDemand{JobTitle: "Engineer", IndustryName: "Tech", DemandScore: 1})
	require.NoError(t, err)
	_, err = svc.SaveCareerPath(ctx, CareerPath{StartingRole: "Engineer", IndustryName: "Tech", RequiredSkills: []string{"Go", "go", "SQL"}})
	require.NoError(t, err)

	got, err := svc.Competitiveness(ctx, Candidate{Skills: []string{"GO", "sql"}, YearsOfExperience: 9}, Job{Title: "Engineer", Industry: "Tech"})
	require.NoError(t, err)
	assert.Equal(t, 100, got.MarketScore)
	assert.Equal(t, LevelSenior, got.ExperienceLevel)
	assert.Equal(t, []string{"go", "sql"}, got.MatchedMarketSkills)
}

func TestCompetitivenessBlankCareerPathSkills(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()
	_, err := svc.SaveDemand(ctx, JobDemand{JobTitle: "Engineer", IndustryName: "Tech", DemandScore: 0.5})
	require.NoError(t, err)
	_, err = svc.SaveCareerPath(ctx, CareerPath{StartingRole: "Engineer", IndustryName: "Tech", RequiredSkills: []string{" ", ""}})
	require.NoError(t, err)

	got, err := svc.Competitiveness(ctx, Candidate{Skills: []string{"Go"}}, Job{Title: "Engineer", Industry: "Tech"})
	require.NoError(t, err)
	assert.Equal(t, 20, got.MarketScore)
	assert.Empty(t, got.MatchedMarketSkills)

	_, err = svc.SaveSkillSet(ctx, IndustrySkillSet{IndustryName: "Tech", Skills: []string{"Go", "SQL"}})
	require.NoError(t, err)
	got, err = svc.Competitiveness(ctx, Candidate{Skills: []string{"Go"}}, Job{Title: "Engineer", Industry: "Tech"})
	require.NoError(t, err)
	// 0.5 demand * 40 + 1/2 industry skills * 60
	assert.Equal(t, 50, got.MarketScore)
	assert.Equal(t, []string{"go"}, got.MatchedMarketSkills)
}

func TestCompetitivenessUnknownMarket(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	got, err := svc.Competitiveness(context.Background(), Candidate{Skills: []string{"Go"}}, Job{Title: "Astronaut", Industry: "Space"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.MarketScore)
	assert.NotNil(t, got.MarketInsights)
	assert.NotNil(t, got.MatchedMarketSkills)
}

func TestCompetitivenessValidatesInput(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	_, err := svc.Competitiveness(context.Background(), Candidate{}, Job{Title: "Engineer"})
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %v", err)

	_, err = svc.Competitiveness(context.Background(), Candidate{YearsOfExperience: -1}, Job{Title: "Engineer", Industry: "Tech"})
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %v", err)
}
