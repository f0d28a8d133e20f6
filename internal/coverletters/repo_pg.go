package coverletters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-analyzer/internal/shared/storage/db"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) EnsureSystemTemplates(ctx context.Context, templates []Template) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, t := range templates {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO cover_letter_templates (id, name, content, industry, user_id)
VALUES ($1, $2, $3, $4, NULL)
ON CONFLICT (id) DO NOTHING`, t.ID, t.Name, t.Content, t.Industry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) CreateTemplate(ctx context.Context, t Template) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO cover_letter_templates (id, name, content, industry, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`, t.ID, t.Name, t.Content, t.Industry, t.UserID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

const templateColumns = `id, name, content, industry, user_id, created_at, updated_at`

func (r *PGRepo) GetTemplate(ctx context.Context, userID, id string) (Template, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+templateColumns+`
FROM cover_letter_templates
WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`, id, userID)
	return scanTemplate(row)
}

func (r *PGRepo) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+templateColumns+`
FROM cover_letter_templates
WHERE user_id IS NULL OR user_id = $1
ORDER BY user_id NULLS FIRST, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateTemplate(ctx context.Context, t Template) (Template, error) {
	row := r.DB.QueryRowContext(ctx, `
UPDATE cover_letter_templates
SET name = $3, content = $4, industry = $5, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING `+templateColumns, t.ID, t.UserID, t.Name, t.Content, t.Industry)
	return scanTemplate(row)
}

func (r *PGRepo) DeleteTemplate(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cover_letter_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CreateLetter(ctx context.Context, l Letter) error {
	meta, err := json.Marshal(l.Meta)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
INSERT INTO cover_letters (id, user_id, template_id, job_title, company_name, content, meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		l.ID, l.UserID, nullableString(l.TemplateID), l.JobTitle, l.CompanyName, l.Content, meta)
	return err
}

func (r *PGRepo) ListLetters(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, user_id, template_id, job_title, company_name, content, meta, created_at
FROM cover_letters
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Letter, 0)
	for rows.Next() {
		var l Letter
		var templateID sql.NullString
		var meta []byte
		if err := rows.Scan(&l.ID, &l.UserID, &templateID, &l.JobTitle, &l.CompanyName, &l.Content, &meta, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.TemplateID = templateID.String
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &l.Meta); err != nil {
				return nil, err
			}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return DeleteByUserTx(ctx, r.DB, userID)
}

// DeleteByUserTx removes the user's letters and private templates and returns
// the number of letters removed.
func DeleteByUserTx(ctx context.Context, exec db.Execer, userID string) (int64, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM cover_letters WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM cover_letter_templates WHERE user_id = $1`, userID); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var t Template
	var owner sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Content, &t.Industry, &owner, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	t.UserID = owner.String
	t.System = !owner.Valid
	return t, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
