package market

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. Nullable text columns map to "".
type PGRepo struct {
	DB *sql.DB
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) UpsertSalary(ctx context.Context, s SalaryRange) (SalaryRange, error) {
	const query = `
INSERT INTO salary_ranges (id, job_title, industry_name, location, experience_level, min_salary, max_salary, median_salary, currency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (job_title, COALESCE(industry_name, ''), COALESCE(location, ''), COALESCE(experience_level, ''))
DO UPDATE SET min_salary = EXCLUDED.min_salary,
	max_salary = EXCLUDED.max_salary,
	median_salary = EXCLUDED.median_salary,
	currency = EXCLUDED.currency,
	updated_at = now()
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		s.JobTitle,
		nullableString(s.IndustryName),
		nullableString(s.Location),
		nullableString(s.ExperienceLevel),
		s.MinSalary,
		s.MaxSalary,
		s.MedianSalary,
		s.Currency,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const salaryColumns = `id, job_title, industry_name, location, experience_level, min_salary, max_salary, median_salary, currency, created_at, updated_at`

func (r *PGRepo) FindSalaries(ctx context.Context, q SalaryQuery) ([]SalaryRange, error) {
	query := `SELECT ` + salaryColumns + `
FROM salary_ranges
WHERE job_title ILIKE '%' || $1 || '%'
	AND ($2 = '' OR industry_name = $2)
	AND ($3 = '' OR location = $3)
	AND ($4 = '' OR experience_level = $4)
ORDER BY location DESC NULLS LAST, experience_level DESC NULLS LAST, job_title`
	rows, err := r.DB.QueryContext(ctx, query, q.JobTitle, q.IndustryName, q.Location, q.ExperienceLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SalaryRange, 0)
	for rows.Next() {
		var s SalaryRange
		var industry, location, level sql.NullString
		if err := rows.Scan(&s.ID, &s.JobTitle, &industry, &location, &level,
			&s.MinSalary, &s.MaxSalary, &s.MedianSalary, &s.Currency, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.IndustryName, s.Location, s.ExperienceLevel = industry.String, location.String, level.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) SimilarTitles(ctx context.Context, jobTitle string, limit int) ([]string, error) {
	const query = `
SELECT DISTINCT job_title
FROM salary_ranges
WHERE job_title ILIKE '%' || $1 || '%'
ORDER BY job_title
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, jobTitle, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertDemand(ctx context.Context, d JobDemand) (JobDemand, error) {
	skills, err := marshalList(d.TopSkills)
	if err != nil {
		return JobDemand{}, err
	}
	const query = `
INSERT INTO job_market_demand (id, job_title, industry_name, location, time_period, demand_score, growth_rate, job_count, top_skills)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (job_title, COALESCE(industry_name, ''), COALESCE(location, ''), COALESCE(time_period, ''))
DO UPDATE SET demand_score = EXCLUDED.demand_score,
	growth_rate = EXCLUDED.growth_rate,
	job_count = EXCLUDED.job_count,
	top_skills = EXCLUDED.top_skills,
	updated_at = now()
RETURNING id, created_at, updated_at`
	err = r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		d.JobTitle,
		nullableString(d.IndustryName),
		nullableString(d.Location),
		nullableString(d.TimePeriod),
		d.DemandScore,
		d.GrowthRate,
		d.JobCount,
		skills,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *PGRepo) FindDemand(ctx context.Context, q DemandQuery) ([]JobDemand, error) {
	const query = `
SELECT id, job_title, industry_name, location, time_period, demand_score, growth_rate, job_count, top_skills, created_at, updated_at
FROM job_market_demand
WHERE job_title ILIKE '%' || $1 || '%'
	AND ($2 = '' OR industry_name = $2)
	AND ($3 = '' OR location = $3)
ORDER BY location DESC NULLS LAST, time_period DESC NULLS LAST`
	rows, err := r.DB.QueryContext(ctx, query, q.JobTitle, q.IndustryName, q.Location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]JobDemand, 0)
	for rows.Next() {
		var d JobDemand
		var industry, location, period sql.NullString
		var skills []byte
		if err := rows.Scan(&d.ID, &d.JobTitle, &industry, &location, &period,
			&d.DemandScore, &d.GrowthRate, &d.JobCount, &skills, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.IndustryName, d.Location, d.TimePeriod = industry.String, location.String, period.String
		if d.TopSkills, err = unmarshalList(skills); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertCareerPath(ctx context.Context, p CareerPath) (CareerPath, error) {
	next, err := marshalList(p.NextRoles)
	if err != nil {
		return CareerPath{}, err
	}
	required, err := marshalList(p.RequiredSkills)
	if err != nil {
		return CareerPath{}, err
	}
	const query = `
INSERT INTO career_paths (id, starting_role, industry_name, next_roles, required_skills, typical_years)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (starting_role, COALESCE(industry_name, ''))
DO UPDATE SET next_roles = EXCLUDED.next_roles,
	required_skills = EXCLUDED.required_skills,
	typical_years = EXCLUDED.typical_years,
	updated_at = now()
RETURNING id, created_at, updated_at`
	err = r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		p.StartingRole,
		nullableString(p.IndustryName),
		next,
		required,
		p.TypicalYears,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGRepo) FindCareerPaths(ctx context.Context, role, industry string) ([]CareerPath, error) {
	const query = `
SELECT id, starting_role, industry_name, next_roles, required_skills, typical_years, created_at, updated_at
FROM career_paths
WHERE starting_role ILIKE '%' || $1 || '%'
	AND ($2 = '' OR industry_name = $2)
ORDER BY starting_role`
	rows, err := r.DB.QueryContext(ctx, query, role, industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CareerPath, 0)
	for rows.Next() {
		var p CareerPath
		var industryName sql.NullString
		var next, required []byte
		if err := rows.Scan(&p.ID, &p.StartingRole, &industryName, &next, &required,
			&p.TypicalYears, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.IndustryName = industryName.String
		if p.NextRoles, err = unmarshalList(next); err != nil {
			return nil, err
		}
		if p.RequiredSkills, err = unmarshalList(required); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertTrend(ctx context.Context, t IndustryTrend) (IndustryTrend, error) {
	skills, err := marshalList(t.RelatedSkills)
	if err != nil {
		return IndustryTrend{}, err
	}
	const query = `
INSERT INTO industry_trends (id, industry_name, trend_name, description, impact_level, relevance_score, related_skills)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (industry_name, trend_name)
DO UPDATE SET description = EXCLUDED.description,
	impact_level = EXCLUDED.impact_level,
	relevance_score = EXCLUDED.relevance_score,
	related_skills = EXCLUDED.related_skills,
	updated_at = now()
RETURNING id, created_at, updated_at`
	err = r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		t.IndustryName,
		t.TrendName,
		t.Description,
		t.ImpactLevel,
		t.RelevanceScore,
		skills,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGRepo) ListTrends(ctx context.Context, industry string, limit int) ([]IndustryTrend, error) {
	const query = `
SELECT id, industry_name, trend_name, description, impact_level, relevance_score, related_skills, created_at, updated_at
FROM industry_trends
WHERE industry_name = $1
ORDER BY relevance_score DESC, trend_name
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, industry, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]IndustryTrend, 0)
	for rows.Next() {
		var t IndustryTrend
		var skills []byte
		if err := rows.Scan(&t.ID, &t.IndustryName, &t.TrendName, &t.Description, &t.ImpactLevel,
			&t.RelevanceScore, &skills, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if t.RelatedSkills, err = unmarshalList(skills); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertSkillSet(ctx context.Context, s IndustrySkillSet) (IndustrySkillSet, error) {
	skills, err := marshalList(s.Skills)
	if err != nil {
		return IndustrySkillSet{}, err
	}
	const query = `
INSERT INTO industry_skill_sets (id, industry_name, description, skills)
VALUES ($1, $2, $3, $4)
ON CONFLICT (industry_name)
DO UPDATE SET description = EXCLUDED.description,
	skills = EXCLUDED.skills,
	updated_at = now()
RETURNING id, created_at, updated_at`
	err = r.DB.QueryRowContext(ctx, query, uuid.NewString(), s.IndustryName, s.Description, skills).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const skillSetColumns = `id, industry_name, description, skills, created_at, updated_at`

func (r *PGRepo) GetSkillSet(ctx context.Context, industry string) (IndustrySkillSet, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+skillSetColumns+` FROM industry_skill_sets WHERE industry_name = $1`, industry)
	return scanSkillSet(row)
}

func (r *PGRepo) ListSkillSets(ctx context.Context) ([]IndustrySkillSet, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+skillSetColumns+` FROM industry_skill_sets ORDER BY industry_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]IndustrySkillSet, 0)
	for rows.Next() {
		s, err := scanSkillSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateSkillSet(ctx context.Context, industry string, skills []string, description string) (IndustrySkillSet, error) {
	raw, err := marshalList(skills)
	if err != nil {
		return IndustrySkillSet{}, err
	}
	query := `
UPDATE industry_skill_sets
SET skills = $2,
	description = CASE WHEN $3 = '' THEN description ELSE $3 END,
	updated_at = now()
WHERE industry_name = $1
RETURNING ` + skillSetColumns
	return scanSkillSet(r.DB.QueryRowContext(ctx, query, industry, raw, description))
}

func (r *PGRepo) DeleteSkillSet(ctx context.Context, industry string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM industry_skill_sets WHERE industry_name = $1`, industry)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSkillSet(row rowScanner) (IndustrySkillSet, error) {
	var s IndustrySkillSet
	var skills []byte
	if err := row.Scan(&s.ID, &s.IndustryName, &s.Description, &skills, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return IndustrySkillSet{}, ErrNotFound
		}
		return IndustrySkillSet{}, err
	}
	var err error
	if s.Skills, err = unmarshalList(skills); err != nil {
		return IndustrySkillSet{}, err
	}
	return s, nil
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	return json.Marshal(items)
}

func unmarshalList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
