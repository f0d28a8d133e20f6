package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-analyzer/internal/resumes"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateWithResumeUsesOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	resume := resumes.Resume{ID: "r-1", UserID: "user-1", FileName: "cv.txt", FileType: ".txt", StorageKey: "k", SizeBytes: 3, RawText: "abc"}
	analysis := Analysis{ID: "a-1", UserID: "user-1", ResumeID: "r-1", Score: 70}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("r-1", "user-1", "cv.txt", ".txt", "k", int64(3), "abc", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("a-1", "user-1", "r-1", "", sqlmock.AnyArg(), sqlmock.AnyArg(),
			70.0, 0.0, 0.0, 0.0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithResume(context.Background(), &resume, analysis); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCreateWithResumeRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	resume := resumes.Resume{ID: "r-1", UserID: "user-1"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO analyses").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if err := repo.CreateWithResume(context.Background(), &resume, Analysis{ID: "a-1", UserID: "user-1"}); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetDecodesJSONColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "resume_id", "job_description", "required_skills", "extracted_skills",
		"score", "skill_score", "experience_score", "education_score",
		"matched_skills", "skill_gaps", "recommendations", "created_at", "updated_at",
	}).AddRow("a-1", "user-1", nil, "jd", []byte(`["python","go"]`), []byte(`["python"]`),
		80.0, 50.0, 100.0, 100.0,
		[]byte(`["python"]`), []byte(`["go"]`), []byte(`[{"id":"SKILLS_GAP_GO","category":"SKILLS"}]`), now, now)

	mock.ExpectQuery("FROM analyses").WithArgs("a-1", "user-1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "user-1", "a-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ResumeID != "" {
		t.Fatalf("expected empty resume id, got %q", got.ResumeID)
	}
	if len(got.RequiredSkills) != 2 || len(got.SkillGaps) != 1 || got.SkillGaps[0] != "go" {
		t.Fatalf("unexpected skills %+v", got)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].ID != "SKILLS_GAP_GO" {
		t.Fatalf("unexpected recommendations %+v", got.Recommendations)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM analyses").WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Get(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE analyses").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), Analysis{ID: "a-1", UserID: "user-1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM analyses WHERE user_id").WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}
