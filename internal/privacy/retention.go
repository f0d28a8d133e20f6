package privacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
)

// DefaultRetentionDays matches the resume data period of the published
// retention policy.
const DefaultRetentionDays = 30

var ErrInvalidRetention = errors.New("retention days must be at least 1")

// CleanupResult counts what a retention run removed, or would remove when
// DryRun is set.
type CleanupResult struct {
	Cutoff         time.Time `json:"cutoff"`
	DryRun         bool      `json:"dry_run"`
	Exports        int       `json:"exports"`
	ResumeFiles    int       `json:"resume_files"`
	ObjectsRemoved int       `json:"objects_removed"`
	ObjectsFailed  int       `json:"objects_failed"`
}

// CleanupExpired deletes export records and their artifacts, and uploaded
// resume files, created more than retentionDays ago. Extracted resume text and
// analyses stay until the user deletes them. A record whose objects could not
// be removed is kept so the next run retries it.
func (s *Service) CleanupExpired(ctx context.Context, retentionDays int, dryRun bool) (CleanupResult, error) {
	if retentionDays < 1 {
		return CleanupResult{}, ErrInvalidRetention
	}
	res := CleanupResult{
		Cutoff: s.now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour),
		DryRun: dryRun,
	}

	expired, err := s.Exports.ListCreatedBefore(ctx, res.Cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("list expired exports: %w", err)
	}
	for _, e := range expired {
		if dryRun {
			res.Exports++
			continue
		}
		if !s.removeObjects(ctx, &res, exportKeys(e)...) {
			continue
		}
		if err := s.Exports.Delete(ctx, e.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return res, fmt.Errorf("delete export %s: %w", e.ID, err)
		}
		res.Exports++
	}

	stored, err := s.Resumes.ListStoredBefore(ctx, res.Cutoff)
	if err != nil {
		return res, fmt.Errorf("list expired resume files: %w", err)
	}
	for _, r := range stored {
		if dryRun {
			res.ResumeFiles++
			continue
		}
		if !s.removeObjects(ctx, &res, r.StorageKey) {
			continue
		}
		if err := s.Resumes.ClearStorageKey(ctx, r.ID); err != nil {
			return res, fmt.Errorf("clear resume %s: %w", r.ID, err)
		}
		res.ResumeFiles++
	}

	if !dryRun {
		metrics.IncPrivacyOp("retention_cleanup")
		s.Audit.RecordBestEffort(ctx, audit.Event{
			Action:  audit.ActionRetention,
			Status:  audit.StatusSuccess,
			Details: fmt.Sprintf("exports=%d resume_files=%d objects_failed=%d", res.Exports, res.ResumeFiles, res.ObjectsFailed),
		})
	}
	telemetry.InfoCtx(ctx, "privacy.retention_cleanup", map[string]any{
		"cutoff":          res.Cutoff,
		"dry_run":         dryRun,
		"exports":         res.Exports,
		"resume_files":    res.ResumeFiles,
		"objects_removed": res.ObjectsRemoved,
		"objects_failed":  res.ObjectsFailed,
	})
	return res, nil
}

// removeObjects deletes keys from the store. Missing objects count as removed.
func (s *Service) removeObjects(ctx context.Context, res *CleanupResult, keys ...string) bool {
	ok := true
	for _, key := range keys {
		if s.Store == nil {
			break
		}
		if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
			res.ObjectsFailed++
			ok = false
			telemetry.WarnCtx(ctx, "privacy.retention_object_failed", map[string]any{"storage_key": key, "err": err})
			continue
		}
		res.ObjectsRemoved++
	}
	return ok
}
