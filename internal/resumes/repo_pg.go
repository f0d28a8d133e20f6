package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-analyzer/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	return InsertTx(ctx, r.DB, resume)
}

// InsertTx inserts resume using exec, which may be a transaction.
func InsertTx(ctx context.Context, exec db.Execer, resume Resume) error {
	parsed, err := json.Marshal(resume.ParsedData)
	if err != nil {
		return fmt.Errorf("marshal parsed data: %w", err)
	}
	const query = `
INSERT INTO resumes (id, user_id, file_name, file_type, storage_key, size_bytes, raw_text, parsed_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err = exec.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.FileName,
		resume.FileType,
		resume.StorageKey,
		resume.SizeBytes,
		resume.RawText,
		parsed,
	)
	return err
}

const selectColumns = `id, user_id, file_name, file_type, storage_key, size_bytes, raw_text, parsed_data, created_at, updated_at`

func (r *PGRepo) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `SELECT ` + selectColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2`
	rows, err := r.DB.QueryContext(ctx, query, resumeID, userID)
	if err != nil {
		return Resume{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Resume{}, err
		}
		return Resume{}, ErrNotFound
	}
	return scanResume(rows)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + selectColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	return DeleteByUserTx(ctx, r.DB, userID)
}

// DeleteByUserTx deletes the user's resumes and returns their storage keys.
// Analyses referencing them must be removed first.
func DeleteByUserTx(ctx context.Context, exec db.Execer, userID string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `DELETE FROM resumes WHERE user_id = $1 RETURNING storage_key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, rows.Err()
}

func (r *PGRepo) ListStoredBefore(ctx context.Context, cutoff time.Time) ([]Resume, error) {
	query := `SELECT ` + selectColumns + `
FROM resumes
WHERE storage_key <> '' AND created_at < $1
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) ClearStorageKey(ctx context.Context, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE resumes SET storage_key = '', updated_at = now() WHERE id = $1`, resumeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResume(rows *sql.Rows) (Resume, error) {
	var resume Resume
	var parsed []byte
	if err := rows.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.FileName,
		&resume.FileType,
		&resume.StorageKey,
		&resume.SizeBytes,
		&resume.RawText,
		&parsed,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &resume.ParsedData); err != nil {
			return Resume{}, fmt.Errorf("decode parsed data: %w", err)
		}
	}
	return resume, nil
}
