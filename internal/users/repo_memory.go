package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo backs Repo when no database is configured. Emails are indexed
// case-insensitively, matching the unique index on users.email.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[key]; taken {
		return ErrEmailTaken
	}
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live(userID)
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.live(id)
}

// Anonymize scrubs personal fields and soft-deletes the user. The original
// email is released so it can register again.
func (r *MemoryRepo) Anonymize(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, normalizeEmail(user.Email))

	now := r.now()
	user.Email = AnonymizedEmail(userID)
	user.FullName = ""
	user.HashedPassword = ""
	user.IsActive = false
	user.UpdatedAt = now
	user.DeletedAt = &now
	r.byID[userID] = user
	r.byEmail[normalizeEmail(user.Email)] = userID
	return nil
}

func (r *MemoryRepo) live(userID string) (User, error) {
	user, ok := r.byID[userID]
	if !ok || user.DeletedAt != nil {
		return User{}, ErrNotFound
	}
	return user, nil
}
