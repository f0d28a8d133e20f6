package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateWithResume inserts the resume (if any) and the analysis in one transaction.
func (r *PGRepo) CreateWithResume(ctx context.Context, resume *resumes.Resume, analysis Analysis) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if resume != nil {
			if err := resumes.InsertTx(ctx, tx, *resume); err != nil {
				return fmt.Errorf("insert resume: %w", err)
			}
		}
		if err := insertAnalysis(ctx, tx, analysis); err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}
		return nil
	})
}

func insertAnalysis(ctx context.Context, exec db.Execer, a Analysis) error {
	payload, err := marshalPayload(a)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO analyses (
	id, user_id, resume_id, job_description, required_skills, extracted_skills,
	score, skill_score, experience_score, education_score,
	matched_skills, skill_gaps, recommendations, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())`
	_, err = exec.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		nullableString(a.ResumeID),
		a.JobDescription,
		payload.required,
		payload.extracted,
		a.Score,
		a.SkillScore,
		a.ExperienceScore,
		a.EducationScore,
		payload.matched,
		payload.gaps,
		payload.recommendations,
	)
	return err
}

const selectColumns = `id, user_id, resume_id, job_description, required_skills, extracted_skills,
	score, skill_score, experience_score, education_score,
	matched_skills, skill_gaps, recommendations, created_at, updated_at`

func (r *PGRepo) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	query := `SELECT ` + selectColumns + `
FROM analyses
WHERE id = $1 AND user_id = $2`
	rows, err := r.DB.QueryContext(ctx, query, analysisID, userID)
	if err != nil {
		return Analysis{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Analysis{}, err
		}
		return Analysis{}, ErrNotFound
	}
	return scanAnalysis(rows)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	query := `SELECT ` + selectColumns + `
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update replaces the computed fields of an existing analysis.
func (r *PGRepo) Update(ctx context.Context, a Analysis) error {
	payload, err := marshalPayload(a)
	if err != nil {
		return err
	}
	const query = `
UPDATE analyses
SET job_description = $3,
	required_skills = $4,
	extracted_skills = $5,
	score = $6,
	skill_score = $7,
	experience_score = $8,
	education_score = $9,
	matched_skills = $10,
	skill_gaps = $11,
	recommendations = $12,
	updated_at = now()
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.JobDescription,
		payload.required,
		payload.extracted,
		a.Score,
		a.SkillScore,
		a.ExperienceScore,
		a.EducationScore,
		payload.matched,
		payload.gaps,
		payload.recommendations,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return DeleteByUserTx(ctx, r.DB, userID)
}

// DeleteByUserTx removes every analysis owned by userID.
func DeleteByUserTx(ctx context.Context, exec db.Execer, userID string) (int64, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM analyses WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type jsonPayload struct {
	required        []byte
	extracted       []byte
	matched         []byte
	gaps            []byte
	recommendations []byte
}

func marshalPayload(a Analysis) (jsonPayload, error) {
	var p jsonPayload
	var err error
	if p.required, err = marshalList(a.RequiredSkills); err != nil {
		return p, err
	}
	if p.extracted, err = marshalList(a.ExtractedSkills); err != nil {
		return p, err
	}
	if p.matched, err = marshalList(a.MatchedSkills); err != nil {
		return p, err
	}
	if p.gaps, err = marshalList(a.SkillGaps); err != nil {
		return p, err
	}
	recs := a.Recommendations
	if recs == nil {
		recs = []recommendations.Recommendation{}
	}
	if p.recommendations, err = json.Marshal(recs); err != nil {
		return p, fmt.Errorf("marshal recommendations: %w", err)
	}
	return p, nil
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	return json.Marshal(items)
}

func scanAnalysis(rows *sql.Rows) (Analysis, error) {
	var a Analysis
	var resumeID sql.NullString
	var required, extracted, matched, gaps, recs []byte
	if err := rows.Scan(
		&a.ID,
		&a.UserID,
		&resumeID,
		&a.JobDescription,
		&required,
		&extracted,
		&a.Score,
		&a.SkillScore,
		&a.ExperienceScore,
		&a.EducationScore,
		&matched,
		&gaps,
		&recs,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if resumeID.Valid {
		a.ResumeID = resumeID.String
	}
	targets := []struct {
		raw  []byte
		dest any
	}{
		{required, &a.RequiredSkills},
		{extracted, &a.ExtractedSkills},
		{matched, &a.MatchedSkills},
		{gaps, &a.SkillGaps},
		{recs, &a.Recommendations},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dest); err != nil {
			return Analysis{}, fmt.Errorf("decode analysis json: %w", err)
		}
	}
	return a, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
