package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-analyzer/internal/resumes"
)

// MemoryRepo implements Repo in memory. Resumes are written through to the
// given resumes repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	analyses map[string]Analysis
	resumes  resumes.Repo
}

func NewMemoryRepo(resumeRepo resumes.Repo) *MemoryRepo {
	return &MemoryRepo{analyses: make(map[string]Analysis), resumes: resumeRepo}
}

func (r *MemoryRepo) CreateWithResume(ctx context.Context, resume *resumes.Resume, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if resume != nil {
		if r.resumes == nil {
			return resumes.ErrNotFound
		}
		if err := r.resumes.Create(ctx, *resume); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now
	r.analyses[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[analysisID]
	if !ok || a.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Analysis, 0)
	for _, a := range r.analyses {
		if a.UserID == userID {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if offset >= len(items) {
		return []Analysis{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryRepo) Update(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.analyses[analysis.ID]
	if !ok || existing.UserID != analysis.UserID {
		return ErrNotFound
	}
	analysis.ResumeID = existing.ResumeID
	analysis.CreatedAt = existing.CreatedAt
	analysis.UpdatedAt = time.Now().UTC()
	r.analyses[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.analyses {
		if a.UserID == userID {
			delete(r.analyses, id)
			n++
		}
	}
	return n, nil
}
