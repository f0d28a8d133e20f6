package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/shared/telemetry"
)

const defaultListLimit = 100

// Logger appends events to the chain.
type Logger struct {
	Repo Repo
	now  func() time.Time
}

func NewLogger(repo Repo) *Logger {
	return &Logger{Repo: repo, now: time.Now}
}

// Record appends an event and returns the sealed entry.
func (l *Logger) Record(ctx context.Context, evt Event) (Entry, error) {
	if l == nil || l.Repo == nil {
		return Entry{}, errors.New("audit logger not configured")
	}
	if strings.TrimSpace(evt.Action) == "" {
		return Entry{}, errors.New("audit action is required")
	}
	status := evt.Status
	if status == "" {
		status = StatusSuccess
	}
	entry := Entry{
		ID:        uuid.NewString(),
		UserID:    evt.UserID,
		Action:    evt.Action,
		Resource:  evt.Resource,
		Status:    status,
		Details:   evt.Details,
		CreatedAt: l.now(),
	}
	saved, err := l.Repo.AppendChained(ctx, entry)
	if err != nil {
		return Entry{}, fmt.Errorf("append audit entry: %w", err)
	}
	return saved, nil
}

// RecordBestEffort appends an event and logs failures instead of returning them.
func (l *Logger) RecordBestEffort(ctx context.Context, evt Event) {
	if l == nil {
		return
	}
	if _, err := l.Record(ctx, evt); err != nil {
		telemetry.Error("audit.record_failed", map[string]any{
			"action":  evt.Action,
			"user_id": evt.UserID,
			"err":     err,
		})
	}
}

// ListForUser returns the newest entries for a user.
func (l *Logger) ListForUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if l == nil || l.Repo == nil {
		return nil, errors.New("audit logger not configured")
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return l.Repo.ListByUser(ctx, userID, limit)
}

// VerifyResult reports the outcome of a chain walk.
type VerifyResult struct {
	Valid     bool  `json:"valid"`
	Checked   int   `json:"checked"`
	BrokenSeq int64 `json:"brokenSeq,omitempty"`
}

// Verify walks the whole chain and reports the first entry whose links or hash
// do not match.
func (l *Logger) Verify(ctx context.Context) (VerifyResult, error) {
	if l == nil || l.Repo == nil {
		return VerifyResult{}, errors.New("audit logger not configured")
	}
	entries, err := l.Repo.ListAll(ctx)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("list audit entries: %w", err)
	}
	return VerifyChain(entries), nil
}

// VerifyChain checks entries ordered by sequence.
func VerifyChain(entries []Entry) VerifyResult {
	prev := GenesisHash
	for i, e := range entries {
		if e.PrevHash != prev || computeHash(e) != e.Hash {
			return VerifyResult{Valid: false, Checked: i, BrokenSeq: e.Seq}
		}
		prev = e.Hash
	}
	return VerifyResult{Valid: true, Checked: len(entries)}
}
