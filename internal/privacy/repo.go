package privacy

import (
	"context"
	"time"
)

// ExportRepo persists export records. Reads are scoped to the owning user.
type ExportRepo interface {
	Create(ctx context.Context, e Export) error
	Get(ctx context.Context, userID, exportID string) (Export, error)
	// DeleteByUser removes the user's export records and returns the object
	// keys they referenced.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
	// ListCreatedBefore returns export records of every user created before
	// cutoff, oldest first.
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]Export, error)
	Delete(ctx context.Context, exportID string) error
}
