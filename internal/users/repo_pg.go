package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-analyzer/internal/shared/storage/db"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, hashed_password, full_name, auth_provider, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.HashedPassword),
		user.FullName,
		user.AuthProvider,
		user.IsActive,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, hashed_password, full_name, auth_provider, is_active, created_at, updated_at
FROM users
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, hashed_password, full_name, auth_provider, is_active, created_at, updated_at
FROM users
WHERE lower(email) = lower($1) AND deleted_at IS NULL
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Anonymize(ctx context.Context, userID string) error {
	return AnonymizeTx(ctx, r.DB, userID)
}

// AnonymizeTx rewrites the user's identity. It accepts a transaction so the
// privacy deletion can run it alongside its other deletes.
func AnonymizeTx(ctx context.Context, exec db.Execer, userID string) error {
	const query = `
UPDATE users
SET email = $2,
    full_name = '',
    hashed_password = NULL,
    is_active = FALSE,
    deleted_at = now(),
    updated_at = now()
WHERE id = $1`
	res, err := exec.ExecContext(ctx, query, userID, AnonymizedEmail(userID))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var hashed sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&hashed,
		&user.FullName,
		&user.AuthProvider,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if hashed.Valid {
		user.HashedPassword = hashed.String
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
