package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"unimarks/internal/app/models"
	"unimarks/internal/db"
	"unimarks/internal/pkg/apperrors"
)

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db   *db.SQLiteDB
	year string
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(database *db.SQLiteDB, year string) *AssignmentRepository {
	return &AssignmentRepository{db: database, year: year}
}

// Upsert inserts the assignment, replacing the marks of an existing row
// with the same assessment name. The subject shell is created first when
// the subject does not exist yet.
func (r *AssignmentRepository) Upsert(ctx context.Context, semester, code string, assignment models.Assignment) error {
	assessment := strings.TrimSpace(assignment.Assessment)
	if assessment == "" {
		return apperrors.NewInvalidInputError("assessment name cannot be empty")
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureSubjectShell(ctx, tx, r.year, semester, code); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assignments(subject_code, semester_name, year, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(subject_code, semester_name, year, assessment) DO UPDATE SET
				weighted_mark = excluded.weighted_mark,
				unweighted_mark = excluded.unweighted_mark,
				mark_weight = excluded.mark_weight,
				grade_type = excluded.grade_type`,
			code, semester, r.year, assessment,
			assignment.WeightedMark, assignment.UnweightedMark, assignment.MarkWeight,
			string(assignment.GradeType))
		if err != nil {
			return fmt.Errorf("upsert assignment: %w", err)
		}
		return nil
	})
}

// Update rewrites the row identified by oldAssessment in place, which
// keeps the row id stable across assessment renames. When the old key
// does not exist the assignment is inserted instead.
func (r *AssignmentRepository) Update(ctx context.Context, semester, code, oldAssessment string, assignment models.Assignment) error {
	assessment := strings.TrimSpace(assignment.Assessment)
	if assessment == "" {
		return apperrors.NewInvalidInputError("assessment name cannot be empty")
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureSubjectShell(ctx, tx, r.year, semester, code); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE assignments
			SET assessment = ?, weighted_mark = ?, unweighted_mark = ?, mark_weight = ?, grade_type = ?
			WHERE subject_code = ? AND semester_name = ? AND year = ? AND assessment = ?`,
			assessment, assignment.WeightedMark, assignment.UnweightedMark, assignment.MarkWeight,
			string(assignment.GradeType), code, semester, r.year, oldAssessment)
		if err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO assignments(subject_code, semester_name, year, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type)
				VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
				code, semester, r.year, assessment,
				assignment.WeightedMark, assignment.UnweightedMark, assignment.MarkWeight,
				string(assignment.GradeType))
			if err != nil {
				return fmt.Errorf("insert assignment: %w", err)
			}
		}
		return nil
	})
}

// Delete removes one assignment by its natural key.
func (r *AssignmentRepository) Delete(ctx context.Context, semester, code, assessment string) error {
	result, err := r.db.DB.ExecContext(ctx, `
		DELETE FROM assignments
		WHERE subject_code = ? AND semester_name = ? AND year = ? AND assessment = ?`,
		code, semester, r.year, assessment)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// ReplaceAll swaps a subject's assignment set wholesale, the semantics
// used by the legacy JSON import path.
func (r *AssignmentRepository) ReplaceAll(ctx context.Context, semester, code string, assignments []models.Assignment) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureSubjectShell(ctx, tx, r.year, semester, code); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM assignments WHERE subject_code = ? AND semester_name = ? AND year = ?`,
			code, semester, r.year); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		for _, assignment := range assignments {
			assessment := strings.TrimSpace(assignment.Assessment)
			if assessment == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO assignments(subject_code, semester_name, year, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type)
				VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
				code, semester, r.year, assessment,
				assignment.WeightedMark, assignment.UnweightedMark, assignment.MarkWeight,
				string(assignment.GradeType)); err != nil {
				return fmt.Errorf("insert assignment %q: %w", assessment, err)
			}
		}
		return nil
	})
}
