package privacy

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/coverletters"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
	"resume-analyzer/internal/users"
)

const (
	exportPageSize   = 100
	exportAuditLimit = 100
)

// Document is the portable copy of everything stored for a user.
type Document struct {
	ExportID     string                `json:"export_id"`
	ExportedAt   time.Time             `json:"exported_at"`
	Profile      users.User            `json:"user_profile"`
	Resumes      []ResumeRecord        `json:"resumes"`
	Analyses     []analyses.Analysis   `json:"analyses"`
	CoverLetters []coverletters.Letter `json:"cover_letters"`
	AuditLog     []audit.Entry         `json:"audit_log"`
}

// ResumeRecord adds the extracted text, which the API views omit.
type ResumeRecord struct {
	resumes.Resume
	RawText string `json:"raw_text"`

	storageKey string
}

type metadata struct {
	ExportID   string    `json:"export_id"`
	UserID     string    `json:"user_id"`
	ExportedAt time.Time `json:"exported_at"`
	Files      []string  `json:"files"`
}

func (s *Service) collect(ctx context.Context, userID, exportID string) (Document, error) {
	profile, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("load profile: %w", err)
	}
	doc := Document{
		ExportID:     exportID,
		ExportedAt:   s.now().UTC(),
		Profile:      profile,
		Resumes:      make([]ResumeRecord, 0),
		Analyses:     make([]analyses.Analysis, 0),
		CoverLetters: make([]coverletters.Letter, 0),
		AuditLog:     make([]audit.Entry, 0),
	}

	items, err := s.Resumes.ListByUser(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("list resumes: %w", err)
	}
	for _, r := range items {
		doc.Resumes = append(doc.Resumes, ResumeRecord{Resume: r, RawText: r.RawText, storageKey: r.StorageKey})
	}

	for offset := 0; ; offset += exportPageSize {
		page, err := s.Analyses.ListByUser(ctx, userID, exportPageSize, offset)
		if err != nil {
			return Document{}, fmt.Errorf("list analyses: %w", err)
		}
		doc.Analyses = append(doc.Analyses, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	for offset := 0; ; offset += exportPageSize {
		page, err := s.Letters.ListLetters(ctx, userID, exportPageSize, offset)
		if err != nil {
			return Document{}, fmt.Errorf("list cover letters: %w", err)
		}
		doc.CoverLetters = append(doc.CoverLetters, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	if s.Audit != nil {
		entries, err := s.Audit.ListForUser(ctx, userID, exportAuditLimit)
		if err != nil {
			return Document{}, fmt.Errorf("list audit log: %w", err)
		}
		doc.AuditLog = append(doc.AuditLog, entries...)
	}
	return doc, nil
}

// writeZIP packs the document into one JSON file per section plus the
// original resume files. Missing files are skipped.
func (s *Service) writeZIP(ctx context.Context, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	sections := []struct {
		name string
		v    any
	}{
		{"user_profile.json", doc.Profile},
		{"resumes.json", doc.Resumes},
		{"analyses.json", doc.Analyses},
		{"cover_letters.json", doc.CoverLetters},
		{"audit_log.json", doc.AuditLog},
	}
	files := make([]string, 0, len(sections)+len(doc.Resumes))
	for _, sec := range sections {
		if err := writeJSONEntry(zw, sec.name, sec.v); err != nil {
			return nil, err
		}
		files = append(files, sec.name)
	}

	for _, r := range doc.Resumes {
		if r.storageKey == "" {
			continue
		}
		name, err := resumeFileName(r)
		if err != nil {
			continue
		}
		if err := s.copyObject(ctx, zw, r.storageKey, name); err != nil {
			telemetry.Warn("privacy.export_file_skipped", map[string]any{
				"export_id": doc.ExportID,
				"resume_id": r.ID,
				"err":       err,
			})
			continue
		}
		files = append(files, name)
	}

	meta := metadata{ExportID: doc.ExportID, UserID: doc.Profile.ID, ExportedAt: doc.ExportedAt, Files: files}
	if err := writeJSONEntry(zw, "metadata.json", meta); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) copyObject(ctx context.Context, zw *zip.Writer, key, name string) error {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}

func resumeFileName(r ResumeRecord) (string, error) {
	sanitized, err := util.SanitizeFileName(r.FileName)
	if err != nil {
		return "", err
	}
	return path.Join("resume_files", r.ID+"_"+sanitized), nil
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("zip %s: %w", name, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
