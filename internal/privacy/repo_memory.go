package privacy

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	exports map[string]Export
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{exports: make(map[string]Export)}
}

func (r *MemoryRepo) Create(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exports[e.ID] = e
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exports[exportID]
	if !ok || e.UserID != userID {
		return Export{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0)
	for id, e := range r.exports {
		if e.UserID != userID {
			continue
		}
		keys = append(keys, exportKeys(e)...)
		delete(r.exports, id)
	}
	return keys, nil
}

func (r *MemoryRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Export, 0)
	for _, e := range r.exports {
		if e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, exportID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exports[exportID]; !ok {
		return ErrNotFound
	}
	delete(r.exports, exportID)
	return nil
}

func exportKeys(e Export) []string {
	keys := make([]string, 0, 2)
	for _, k := range []string{e.JSONKey, e.ZIPKey} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
