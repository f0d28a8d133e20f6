package audit

import (
	"context"
	"database/sql"
	"errors"

	"resume-analyzer/internal/shared/storage/db"
)

// chainLockKey serializes appends across processes.
const chainLockKey int64 = 0x617564697400

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) AppendChained(ctx context.Context, entry Entry) (Entry, error) {
	var sealed Entry
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, chainLockKey); err != nil {
			return err
		}
		prev := GenesisHash
		err := tx.QueryRowContext(ctx, `SELECT hash FROM audit_log ORDER BY seq DESC LIMIT 1`).Scan(&prev)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		sealed = Seal(entry, prev)
		const insert = `
INSERT INTO audit_log (id, user_id, action, resource, status, details, prev_hash, hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING seq`
		return tx.QueryRowContext(ctx, insert,
			sealed.ID,
			sealed.UserID,
			sealed.Action,
			sealed.Resource,
			sealed.Status,
			sealed.Details,
			sealed.PrevHash,
			sealed.Hash,
			sealed.CreatedAt,
		).Scan(&sealed.Seq)
	})
	if err != nil {
		return Entry{}, err
	}
	return sealed, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	const query = `
SELECT seq, id, user_id, action, resource, status, details, prev_hash, hash, created_at
FROM audit_log
WHERE user_id = $1
ORDER BY seq DESC
LIMIT $2`
	return r.query(ctx, query, userID, limit)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Entry, error) {
	const query = `
SELECT seq, id, user_id, action, resource, status, details, prev_hash, hash, created_at
FROM audit_log
ORDER BY seq ASC`
	return r.query(ctx, query)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Seq,
			&e.ID,
			&e.UserID,
			&e.Action,
			&e.Resource,
			&e.Status,
			&e.Details,
			&e.PrevHash,
			&e.Hash,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
