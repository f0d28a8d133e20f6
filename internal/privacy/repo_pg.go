package privacy

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-analyzer/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, e Export) error {
	const query = `
INSERT INTO data_exports (id, user_id, status, json_key, zip_key, error, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var completed any
	if e.CompletedAt != nil {
		completed = *e.CompletedAt
	}
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.UserID, e.Status, e.JSONKey, e.ZIPKey, e.Error, e.CreatedAt, completed)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, exportID string) (Export, error) {
	const query = `
SELECT id, user_id, status, json_key, zip_key, error, created_at, completed_at
FROM data_exports
WHERE id = $1 AND user_id = $2`
	var (
		e         Export
		completed sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, exportID, userID).
		Scan(&e.ID, &e.UserID, &e.Status, &e.JSONKey, &e.ZIPKey, &e.Error, &e.CreatedAt, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	if completed.Valid {
		t := completed.Time
		e.CompletedAt = &t
	}
	return e, nil
}

func (r *PGRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]Export, error) {
	const query = `
SELECT id, user_id, status, json_key, zip_key, error, created_at, completed_at
FROM data_exports
WHERE created_at < $1
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Export, 0)
	for rows.Next() {
		var (
			e         Export
			completed sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Status, &e.JSONKey, &e.ZIPKey, &e.Error, &e.CreatedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t := completed.Time
			e.CompletedAt = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, exportID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM data_exports WHERE id = $1`, exportID)
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

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	return DeleteByUserTx(ctx, r.DB, userID)
}

// DeleteByUserTx removes the user's export records and returns the object keys
// they referenced.
func DeleteByUserTx(ctx context.Context, exec db.Execer, userID string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `DELETE FROM data_exports WHERE user_id = $1 RETURNING json_key, zip_key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := make([]string, 0)
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.JSONKey, &e.ZIPKey); err != nil {
			return nil, err
		}
		keys = append(keys, exportKeys(e)...)
	}
	return keys, rows.Err()
}
