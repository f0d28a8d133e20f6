package coverletters

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	templates map[string]Template
	letters   []Letter
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{templates: make(map[string]Template)}
}

func visible(t Template, userID string) bool {
	return t.System || t.UserID == userID
}

func (r *MemoryRepo) EnsureSystemTemplates(ctx context.Context, templates []Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, t := range templates {
		if _, ok := r.templates[t.ID]; ok {
			continue
		}
		t.System, t.UserID = true, ""
		t.CreatedAt, t.UpdatedAt = now, now
		r.templates[t.ID] = t
	}
	return nil
}

func (r *MemoryRepo) CreateTemplate(ctx context.Context, t Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ID]; ok {
		return ErrConflict
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	r.templates[t.ID] = t
	return nil
}

func (r *MemoryRepo) GetTemplate(ctx context.Context, userID, id string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok || !visible(t, userID) {
		return Template{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		if visible(t, userID) {
			out = append(out, t)
		}
	}
	sortTemplates(out)
	return out, nil
}

// sortTemplates lists system templates first, then by id.
func sortTemplates(items []Template) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].System != items[j].System {
			return items[i].System
		}
		return items[i].ID < items[j].ID
	})
}

func (r *MemoryRepo) UpdateTemplate(ctx context.Context, t Template) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.templates[t.ID]
	if !ok || existing.System || existing.UserID != t.UserID {
		return Template{}, ErrNotFound
	}
	existing.Name, existing.Content, existing.Industry = t.Name, t.Content, t.Industry
	existing.UpdatedAt = time.Now().UTC()
	r.templates[t.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) DeleteTemplate(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.templates[id]
	if !ok || existing.System || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.templates, id)
	for i := range r.letters {
		if r.letters[i].TemplateID == id {
			r.letters[i].TemplateID = ""
		}
	}
	return nil
}

func (r *MemoryRepo) CreateLetter(ctx context.Context, l Letter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	r.letters = append(r.letters, l)
	return nil
}

func (r *MemoryRepo) ListLetters(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Letter, 0)
	for _, l := range r.letters {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []Letter{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteByUser removes the user's letters and templates.
func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.letters[:0]
	var n int64
	for _, l := range r.letters {
		if l.UserID == userID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.letters = kept
	for id, t := range r.templates {
		if !t.System && t.UserID == userID {
			delete(r.templates, id)
		}
	}
	return n, nil
}
