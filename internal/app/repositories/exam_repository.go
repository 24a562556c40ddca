package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"unimarks/internal/app/models"
	"unimarks/internal/db"
	"unimarks/internal/pkg/apperrors"
)

// ExamRepository handles database operations for examinations and their
// pass-scale settings
type ExamRepository struct {
	db   *db.SQLiteDB
	year string
}

// NewExamRepository creates a new exam repository
func NewExamRepository(database *db.SQLiteDB, year string) *ExamRepository {
	return &ExamRepository{db: database, year: year}
}

// Upsert stores the subject's examination. An examination has no
// identity beyond its subject, so the row is always replaced wholesale.
func (r *ExamRepository) Upsert(ctx context.Context, semester, code string, exam models.Examination) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureSubjectShell(ctx, tx, r.year, semester, code); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM examinations WHERE subject_code = ? AND semester_name = ? AND year = ?`,
			code, semester, r.year); err != nil {
			return fmt.Errorf("clear examination: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO examinations(subject_code, semester_name, year, exam_mark, exam_weight)
			VALUES(?, ?, ?, ?, ?)`,
			code, semester, r.year, exam.ExamMark, exam.ExamWeight); err != nil {
			return fmt.Errorf("insert examination: %w", err)
		}
		return nil
	})
}

// Delete removes the subject's examination.
func (r *ExamRepository) Delete(ctx context.Context, semester, code string) error {
	result, err := r.db.DB.ExecContext(ctx, `
		DELETE FROM examinations WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year)
	if err != nil {
		return fmt.Errorf("error deleting examination: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrExaminationNotFound
	}
	return nil
}

// Get retrieves the subject's examination, or nil when none is stored.
func (r *ExamRepository) Get(ctx context.Context, semester, code string) (*models.Examination, error) {
	var exam models.Examination
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT exam_mark, exam_weight FROM examinations
		WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year).Scan(&exam.ExamMark, &exam.ExamWeight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving examination: %w", err)
	}
	return &exam, nil
}

// UpsertSettings stores the pass-scale overlay for a subject's exam.
func (r *ExamRepository) UpsertSettings(ctx context.Context, semester, code string, settings models.ExamSettings) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureSubjectShell(ctx, tx, r.year, semester, code); err != nil {
			return err
		}
		psExam := 0
		if settings.PSExam {
			psExam = 1
		}
		factor := settings.PSFactor
		if factor <= 0 {
			factor = models.DefaultPSFactor
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exam_settings(subject_code, semester_name, year, ps_exam, ps_factor)
			VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(subject_code, semester_name, year) DO UPDATE SET
				ps_exam = excluded.ps_exam,
				ps_factor = excluded.ps_factor`,
			code, semester, r.year, psExam, factor)
		if err != nil {
			return fmt.Errorf("upsert exam settings: %w", err)
		}
		return nil
	})
}

// GetSettings retrieves the pass-scale overlay, or nil when the subject
// uses a standard exam.
func (r *ExamRepository) GetSettings(ctx context.Context, semester, code string) (*models.ExamSettings, error) {
	var (
		settings models.ExamSettings
		psExam   int
	)
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT ps_exam, ps_factor FROM exam_settings
		WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year).Scan(&psExam, &settings.PSFactor)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving exam settings: %w", err)
	}
	settings.PSExam = psExam != 0
	return &settings, nil
}
