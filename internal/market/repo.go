package market

import "context"

// Repo persists reference data. Upserts are keyed on each table's natural
// tuple and return the stored row.
type Repo interface {
	UpsertSalary(ctx context.Context, s SalaryRange) (SalaryRange, error)
	FindSalaries(ctx context.Context, q SalaryQuery) ([]SalaryRange, error)
	SimilarTitles(ctx context.Context, jobTitle string, limit int) ([]string, error)

	UpsertDemand(ctx context.Context, d JobDemand) (JobDemand, error)
	FindDemand(ctx context.Context, q DemandQuery) ([]JobDemand, error)

	UpsertCareerPath(ctx context.Context, p CareerPath) (CareerPath, error)
	FindCareerPaths(ctx context.Context, role, industry string) ([]CareerPath, error)

	UpsertTrend(ctx context.Context, t IndustryTrend) (IndustryTrend, error)
	ListTrends(ctx context.Context, industry string, limit int) ([]IndustryTrend, error)

	UpsertSkillSet(ctx context.Context, s IndustrySkillSet) (IndustrySkillSet, error)
	GetSkillSet(ctx context.Context, industry string) (IndustrySkillSet, error)
	ListSkillSets(ctx context.Context) ([]IndustrySkillSet, error)
	UpdateSkillSet(ctx context.Context, industry string, skills []string, description string) (IndustrySkillSet, error)
	DeleteSkillSet(ctx context.Context, industry string) error
}
