// Package privacy serves the privacy documents and runs data export and data
// deletion for a user.
package privacy

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("export not found")
	ErrInvalidFormat = errors.New("invalid export format")
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	FormatJSON = "json"
	FormatZIP  = "zip"
)

// Export records one export run and where its artifacts were stored.
type Export struct {
	ID          string     `json:"export_id"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	JSONKey     string     `json:"-"`
	ZIPKey      string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ExportStatus is the client view of an export.
type ExportStatus struct {
	Export
	JSONAvailable bool `json:"json_available"`
	ZIPAvailable  bool `json:"zip_available"`
}

// Erased counts what a deletion removed.
type Erased struct {
	Analyses     int64    `json:"analyses"`
	Resumes      int      `json:"resumes"`
	CoverLetters int64    `json:"cover_letters"`
	ExportFiles  int      `json:"export_files"`
	ObjectKeys   []string `json:"-"`
}

// DeletionResult is returned after a user's data was deleted.
type DeletionResult struct {
	Status         string    `json:"status"`
	Erased         Erased    `json:"deleted"`
	ObjectsRemoved int       `json:"objects_removed"`
	ObjectsFailed  int       `json:"objects_failed"`
	DeletedAt      time.Time `json:"deleted_at"`
}
