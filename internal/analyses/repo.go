package analyses

import (
	"context"

	"resume-analyzer/internal/resumes"
)

// Repo defines persistence operations for analyses. Reads are scoped to the
// owning user.
type Repo interface {
	// CreateWithResume stores the analysis and, when resume is non-nil, the
	// resume it was computed from, atomically.
	CreateWithResume(ctx context.Context, resume *resumes.Resume, analysis Analysis) error
	Get(ctx context.Context, userID, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	Update(ctx context.Context, analysis Analysis) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
