package users

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoEmailIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, User{ID: "u-1", Email: "Ada@Example.com", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, User{ID: "u-2", Email: "ada@example.COM"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	got, err := repo.GetByEmail(ctx, " ADA@example.com ")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != "u-1" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestMemoryRepoAnonymizeReleasesEmail(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, User{ID: "u-1", Email: "ada@example.com", FullName: "Ada", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Anonymize(ctx, "u-1"); err != nil {
		t.Fatalf("anonymize: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected anonymized user hidden, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ada@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old email gone, got %v", err)
	}
	if err := repo.Create(ctx, User{ID: "u-2", Email: "ada@example.com"}); err != nil {
		t.Fatalf("expected email reusable after deletion, got %v", err)
	}
	if err := repo.Anonymize(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
