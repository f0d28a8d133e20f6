package resumes

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("resume not found")

// Repo defines persistence operations for resumes. Reads are always scoped
// to the owning user.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	Get(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
	// ListStoredBefore returns resumes created before cutoff that still
	// reference an uploaded object, across all users.
	ListStoredBefore(ctx context.Context, cutoff time.Time) ([]Resume, error)
	// ClearStorageKey forgets the uploaded object of a resume. The extracted
	// text and analyses stay.
	ClearStorageKey(ctx context.Context, resumeID string) error
}
