package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	salaries  []SalaryRange
	demand    []JobDemand
	paths     []CareerPath
	trends    []IndustryTrend
	skillSets map[string]IndustrySkillSet
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{skillSets: make(map[string]IndustrySkillSet)}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func (r *MemoryRepo) UpsertSalary(ctx context.Context, s SalaryRange) (SalaryRange, error) {
	if err := ctx.Err(); err != nil {
		return SalaryRange{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.salaries {
		if existing.JobTitle == s.JobTitle && existing.IndustryName == s.IndustryName &&
			existing.Location == s.Location && existing.ExperienceLevel == s.ExperienceLevel {
			s.ID, s.CreatedAt = existing.ID, existing.CreatedAt
			stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
			r.salaries[i] = s
			return s, nil
		}
	}
	s.ID = ""
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	r.salaries = append(r.salaries, s)
	return s, nil
}

func (r *MemoryRepo) FindSalaries(ctx context.Context, q SalaryQuery) ([]SalaryRange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SalaryRange, 0)
	for _, s := range r.salaries {
		if !containsFold(s.JobTitle, q.JobTitle) {
			continue
		}
		if (q.IndustryName != "" && s.IndustryName != q.IndustryName) ||
			(q.Location != "" && s.Location != q.Location) ||
			(q.ExperienceLevel != "" && s.ExperienceLevel != q.ExperienceLevel) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location != out[j].Location {
			return out[i].Location > out[j].Location
		}
		return out[i].JobTitle < out[j].JobTitle
	})
	return out, nil
}

func (r *MemoryRepo) SimilarTitles(ctx context.Context, jobTitle string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range r.salaries {
		if !containsFold(s.JobTitle, jobTitle) {
			continue
		}
		if _, ok := seen[s.JobTitle]; ok {
			continue
		}
		seen[s.JobTitle] = struct{}{}
		out = append(out, s.JobTitle)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) UpsertDemand(ctx context.Context, d JobDemand) (JobDemand, error) {
	if err := ctx.Err(); err != nil {
		return JobDemand{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.demand {
		if existing.JobTitle == d.JobTitle && existing.IndustryName == d.IndustryName &&
			existing.Location == d.Location && existing.TimePeriod == d.TimePeriod {
			d.ID, d.CreatedAt = existing.ID, existing.CreatedAt
			stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt)
			r.demand[i] = d
			return d, nil
		}
	}
	d.ID = ""
	stamp(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	r.demand = append(r.demand, d)
	return d, nil
}

func (r *MemoryRepo) FindDemand(ctx context.Context, q DemandQuery) ([]JobDemand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]JobDemand, 0)
	for _, d := range r.demand {
		if !containsFold(d.JobTitle, q.JobTitle) {
			continue
		}
		if (q.IndustryName != "" && d.IndustryName != q.IndustryName) ||
			(q.Location != "" && d.Location != q.Location) {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimePeriod > out[j].TimePeriod
	})
	return out, nil
}

func (r *MemoryRepo) UpsertCareerPath(ctx context.Context, p CareerPath) (CareerPath, error) {
	if err := ctx.Err(); err != nil {
		return CareerPath{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.paths {
		if existing.StartingRole == p.StartingRole && existing.IndustryName == p.IndustryName {
			p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
			stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
			r.paths[i] = p
			return p, nil
		}
	}
	p.ID = ""
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	r.paths = append(r.paths, p)
	return p, nil
}

func (r *MemoryRepo) FindCareerPaths(ctx context.Context, role, industry string) ([]CareerPath, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CareerPath, 0)
	for _, p := range r.paths {
		if !containsFold(p.StartingRole, role) || (industry != "" && p.IndustryName != industry) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryRepo) UpsertTrend(ctx context.Context, t IndustryTrend) (IndustryTrend, error) {
	if err := ctx.Err(); err != nil {
		return IndustryTrend{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.trends {
		if existing.IndustryName == t.IndustryName && existing.TrendName == t.TrendName {
			t.ID, t.CreatedAt = existing.ID, existing.CreatedAt
			stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
			r.trends[i] = t
			return t, nil
		}
	}
	t.ID = ""
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	r.trends = append(r.trends, t)
	return t, nil
}

func (r *MemoryRepo) ListTrends(ctx context.Context, industry string, limit int) ([]IndustryTrend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]IndustryTrend, 0)
	for _, t := range r.trends {
		if t.IndustryName == industry {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) UpsertSkillSet(ctx context.Context, s IndustrySkillSet) (IndustrySkillSet, error) {
	if err := ctx.Err(); err != nil {
		return IndustrySkillSet{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.skillSets[s.IndustryName]; ok {
		s.ID, s.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		s.ID, s.CreatedAt = "", time.Time{}
	}
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	r.skillSets[s.IndustryName] = s
	return s, nil
}

func (r *MemoryRepo) GetSkillSet(ctx context.Context, industry string) (IndustrySkillSet, error) {
	if err := ctx.Err(); err != nil {
		return IndustrySkillSet{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skillSets[industry]
	if !ok {
		return IndustrySkillSet{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) ListSkillSets(ctx context.Context) ([]IndustrySkillSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]IndustrySkillSet, 0, len(r.skillSets))
	for _, s := range r.skillSets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IndustryName < out[j].IndustryName })
	return out, nil
}

func (r *MemoryRepo) UpdateSkillSet(ctx context.Context, industry string, skills []string, description string) (IndustrySkillSet, error) {
	if err := ctx.Err(); err != nil {
		return IndustrySkillSet{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.skillSets[industry]
	if !ok {
		return IndustrySkillSet{}, ErrNotFound
	}
	s.Skills = skills
	if description != "" {
		s.Description = description
	}
	s.UpdatedAt = time.Now().UTC()
	r.skillSets[industry] = s
	return s, nil
}

func (r *MemoryRepo) DeleteSkillSet(ctx context.Context, industry string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.skillSets[industry]; !ok {
		return ErrNotFound
	}
	delete(r.skillSets, industry)
	return nil
}
