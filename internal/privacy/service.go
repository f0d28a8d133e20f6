package privacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/coverletters"
	"resume-analyzer/internal/events"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/users"
)

const defaultAuditLimit = 50

// Deps are the collaborators of the privacy service.
type Deps struct {
	Users    users.Repo
	Resumes  resumes.Repo
	Analyses analyses.Repo
	Letters  coverletters.Repo
	Exports  ExportRepo
	Store    object.ObjectStore
	Audit    *audit.Logger
	Events   events.Publisher
}

type Service struct {
	Deps
	now func() time.Time
}

func NewService(d Deps) *Service {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &Service{Deps: d, now: time.Now}
}

// Export builds the user's data export, stores it as JSON and ZIP and records
// the run. A failed build is recorded with status failed.
func (s *Service) Export(ctx context.Context, userID, requestID string) (ExportStatus, error) {
	exportID := uuid.NewString()
	started := s.now().UTC()

	rec, err := s.buildExport(ctx, userID, exportID)
	rec.ID, rec.UserID, rec.CreatedAt = exportID, userID, started
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		if createErr := s.Exports.Create(ctx, rec); createErr != nil {
			telemetry.Error("privacy.export_record_failed", map[string]any{"export_id": exportID, "err": createErr})
		}
		s.Audit.RecordBestEffort(ctx, audit.Event{
			UserID:   userID,
			Action:   audit.ActionDataExport,
			Resource: exportID,
			Status:   audit.StatusFailure,
			Details:  err.Error(),
		})
		telemetry.Error("privacy.export_failed", map[string]any{"user_id": userID, "export_id": exportID, "err": err})
		return ExportStatus{}, err
	}

	completed := s.now().UTC()
	rec.Status = StatusCompleted
	rec.CompletedAt = &completed
	if err := s.Exports.Create(ctx, rec); err != nil {
		return ExportStatus{}, fmt.Errorf("record export: %w", err)
	}

	metrics.IncPrivacyOp("export")
	s.Audit.RecordBestEffort(ctx, audit.Event{
		UserID:   userID,
		Action:   audit.ActionDataExport,
		Resource: exportID,
		Status:   audit.StatusSuccess,
	})
	evt := events.New(events.TypeDataExported, userID, exportID, nil)
	evt.RequestID = requestID
	events.PublishBestEffort(ctx, s.Events, evt)
	telemetry.Info("privacy.exported", map[string]any{"user_id": userID, "export_id": exportID, "request_id": requestID})
	return toStatus(rec), nil
}

func (s *Service) buildExport(ctx context.Context, userID, exportID string) (Export, error) {
	doc, err := s.collect(ctx, userID, exportID)
	if err != nil {
		return Export{}, err
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("encode export: %w", err)
	}
	archive, err := s.writeZIP(ctx, doc)
	if err != nil {
		return Export{}, err
	}

	rec := Export{
		JSONKey: object.ExportKey(userID, exportID, ".json"),
		ZIPKey:  object.ExportKey(userID, exportID, ".zip"),
	}
	if _, err := s.Store.SaveWithKey(ctx, rec.JSONKey, "application/json", bytes.NewReader(payload)); err != nil {
		return Export{}, fmt.Errorf("store json export: %w", err)
	}
	if _, err := s.Store.SaveWithKey(ctx, rec.ZIPKey, "application/zip", bytes.NewReader(archive)); err != nil {
		return Export{}, fmt.Errorf("store zip export: %w", err)
	}
	return rec, nil
}

func (s *Service) Status(ctx context.Context, userID, exportID string) (ExportStatus, error) {
	rec, err := s.Exports.Get(ctx, userID, exportID)
	if err != nil {
		return ExportStatus{}, err
	}
	return toStatus(rec), nil
}

// Download opens a completed export artifact. format is json or zip.
func (s *Service) Download(ctx context.Context, userID, exportID, format string) (io.ReadCloser, Artifact, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatZIP {
		return nil, Artifact{}, ErrInvalidFormat
	}
	rec, err := s.Exports.Get(ctx, userID, exportID)
	if err != nil {
		return nil, Artifact{}, err
	}
	if rec.Status != StatusCompleted {
		return nil, Artifact{}, ErrNotFound
	}

	art := Artifact{Key: rec.JSONKey, ContentType: "application/json", FileName: "data_export_" + exportID + ".json"}
	if format == FormatZIP {
		art = Artifact{Key: rec.ZIPKey, ContentType: "application/zip", FileName: "data_export_" + exportID + ".zip"}
	}
	rc, err := s.Store.Open(ctx, art.Key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, Artifact{}, ErrNotFound
		}
		return nil, Artifact{}, err
	}
	return rc, art, nil
}

// Artifact describes one downloadable export file.
type Artifact struct {
	Key         string
	ContentType string
	FileName    string
}

// Delete erases the user's data and anonymizes the account. Stored objects are
// removed after the database work succeeded; failures there are counted, not
// returned.
func (s *Service) Delete(ctx context.Context, userID, requestID string) (DeletionResult, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return DeletionResult{}, err
	}
	erased, err := s.erase(ctx, userID)
	if err != nil {
		s.Audit.RecordBestEffort(ctx, audit.Event{
			UserID:  userID,
			Action:  audit.ActionDataDeletion,
			Status:  audit.StatusFailure,
			Details: err.Error(),
		})
		return DeletionResult{}, err
	}

	res := DeletionResult{Status: "success", Erased: erased, DeletedAt: s.now().UTC()}
	for _, key := range erased.ObjectKeys {
		if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
			res.ObjectsFailed++
			telemetry.Warn("privacy.object_delete_failed", map[string]any{"user_id": userID, "err": err})
			continue
		}
		res.ObjectsRemoved++
	}

	metrics.IncPrivacyOp("delete")
	s.Audit.RecordBestEffort(ctx, audit.Event{
		UserID: userID,
		Action: audit.ActionDataDeletion,
		Status: audit.StatusSuccess,
		Details: fmt.Sprintf("analyses=%d resumes=%d cover_letters=%d export_files=%d",
			erased.Analyses, erased.Resumes, erased.CoverLetters, erased.ExportFiles),
	})
	evt := events.New(events.TypeDataDeleted, userID, userID, map[string]any{
		"analyses":      erased.Analyses,
		"resumes":       erased.Resumes,
		"cover_letters": erased.CoverLetters,
	})
	evt.RequestID = requestID
	events.PublishBestEffort(ctx, s.Events, evt)
	telemetry.Info("privacy.deleted", map[string]any{
		"user_id":         userID,
		"request_id":      requestID,
		"objects_removed": res.ObjectsRemoved,
		"objects_failed":  res.ObjectsFailed,
	})
	return res, nil
}

// AuditLog returns the newest audit entries for the user.
func (s *Service) AuditLog(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	if s.Audit == nil {
		return []audit.Entry{}, nil
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.Audit.ListForUser(ctx, userID, limit)
}

func toStatus(rec Export) ExportStatus {
	return ExportStatus{
		Export:        rec,
		JSONAvailable: rec.Status == StatusCompleted && rec.JSONKey != "",
		ZIPAvailable:  rec.Status == StatusCompleted && rec.ZIPKey != "",
	}
}
