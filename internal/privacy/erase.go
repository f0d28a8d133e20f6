package privacy

import (
	"context"
	"database/sql"
	"fmt"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/coverletters"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/users"
)

// erase removes everything the user owns and anonymizes the account. When all
// repositories share one Postgres handle the work runs in a single
// transaction; otherwise the repositories are called in dependency order.
func (s *Service) erase(ctx context.Context, userID string) (Erased, error) {
	if database := s.sharedDB(); database != nil {
		return eraseWithTx(ctx, database, userID)
	}

	var (
		out Erased
		err error
	)
	if out.Analyses, err = s.Analyses.DeleteByUser(ctx, userID); err != nil {
		return Erased{}, fmt.Errorf("delete analyses: %w", err)
	}
	resumeKeys, err := s.Resumes.DeleteByUser(ctx, userID)
	if err != nil {
		return Erased{}, fmt.Errorf("delete resumes: %w", err)
	}
	if out.CoverLetters, err = s.Letters.DeleteByUser(ctx, userID); err != nil {
		return Erased{}, fmt.Errorf("delete cover letters: %w", err)
	}
	exportKeys, err := s.Exports.DeleteByUser(ctx, userID)
	if err != nil {
		return Erased{}, fmt.Errorf("delete exports: %w", err)
	}
	if err := s.Users.Anonymize(ctx, userID); err != nil {
		return Erased{}, fmt.Errorf("anonymize user: %w", err)
	}
	out.Resumes = len(resumeKeys)
	out.ExportFiles = len(exportKeys)
	out.ObjectKeys = append(resumeKeys, exportKeys...)
	return out, nil
}

func eraseWithTx(ctx context.Context, database *sql.DB, userID string) (Erased, error) {
	var out Erased
	err := db.WithTx(ctx, database, func(tx *sql.Tx) error {
		var err error
		if out.Analyses, err = analyses.DeleteByUserTx(ctx, tx, userID); err != nil {
			return fmt.Errorf("delete analyses: %w", err)
		}
		resumeKeys, err := resumes.DeleteByUserTx(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("delete resumes: %w", err)
		}
		if out.CoverLetters, err = coverletters.DeleteByUserTx(ctx, tx, userID); err != nil {
			return fmt.Errorf("delete cover letters: %w", err)
		}
		exportKeys, err := DeleteByUserTx(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("delete exports: %w", err)
		}
		if err := users.AnonymizeTx(ctx, tx, userID); err != nil {
			return fmt.Errorf("anonymize user: %w", err)
		}
		out.Resumes = len(resumeKeys)
		out.ExportFiles = len(exportKeys)
		out.ObjectKeys = append(resumeKeys, exportKeys...)
		return nil
	})
	if err != nil {
		return Erased{}, err
	}
	return out, nil
}

func (s *Service) sharedDB() *sql.DB {
	u, ok := s.Users.(*users.PGRepo)
	if !ok || u == nil || u.DB == nil {
		return nil
	}
	r, ok := s.Resumes.(*resumes.PGRepo)
	if !ok || r == nil || r.DB != u.DB {
		return nil
	}
	a, ok := s.Analyses.(*analyses.PGRepo)
	if !ok || a == nil || a.DB != u.DB {
		return nil
	}
	l, ok := s.Letters.(*coverletters.PGRepo)
	if !ok || l == nil || l.DB != u.DB {
		return nil
	}
	e, ok := s.Exports.(*PGRepo)
	if !ok || e == nil || e.DB != u.DB {
		return nil
	}
	return u.DB
}
