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

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db   *db.SQLiteDB
	year string
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(database *db.SQLiteDB, year string) *SubjectRepository {
	return &SubjectRepository{db: database, year: year}
}

// Upsert inserts a subject, updating name, total mark and sync flag on
// conflict with the natural key. Subjects with an empty trimmed code or
// name are skipped; the facade rejects those before they get here.
func (r *SubjectRepository) Upsert(ctx context.Context, semester string, subject *models.Subject) error {
	code := strings.TrimSpace(subject.SubjectCode)
	name := strings.TrimSpace(subject.SubjectName)
	if code == "" || name == "" {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO semesters(name, year) VALUES(?, ?)`, semester, r.year); err != nil {
			return fmt.Errorf("ensure semester: %w", err)
		}
		sync := 0
		if subject.SyncSubject {
			sync = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO subjects(subject_code, subject_name, semester_name, year, total_mark, sync_subject)
			VALUES(?, ?, ?, ?, ?, ?)
			ON CONFLICT(subject_code, semester_name, year) DO UPDATE SET
				subject_name = excluded.subject_name,
				total_mark = excluded.total_mark,
				sync_subject = excluded.sync_subject`,
			code, name, semester, r.year, subject.TotalMark, sync)
		if err != nil {
			return fmt.Errorf("upsert subject: %w", err)
		}
		return nil
	})
}

// Exists reports whether the subject is present in the semester.
func (r *SubjectRepository) Exists(ctx context.Context, semester, code string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM subjects WHERE subject_code = ? AND semester_name = ? AND year = ?)`,
		code, semester, r.year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking subject existence: %w", err)
	}
	return exists, nil
}

// Delete removes the subject; its assignments, examination and exam
// settings go with it via the cascading foreign keys.
func (r *SubjectRepository) Delete(ctx context.Context, semester, code string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM subjects WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// SetTotalMark persists the subject's final total mark.
func (r *SubjectRepository) SetTotalMark(ctx context.Context, semester, code string, totalMark float64) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE subjects SET total_mark = ? WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		totalMark, code, semester, r.year)
	if err != nil {
		return fmt.Errorf("error updating total mark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Get retrieves one subject with its assignments and examination.
func (r *SubjectRepository) Get(ctx context.Context, semester, code string) (*models.Subject, error) {
	var (
		subject models.Subject
		sync    int
	)
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT subject_code, subject_name, semester_name, total_mark, sync_subject
		FROM subjects WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year).Scan(&subject.SubjectCode, &subject.SubjectName,
		&subject.SemesterName, &subject.TotalMark, &sync)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrSubjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	subject.Year = r.year
	subject.SyncSubject = sync != 0
	subject.Examination = models.DefaultExamination()

	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT assessment, weighted_mark, unweighted_mark, mark_weight, grade_type
		FROM assignments WHERE subject_code = ? AND semester_name = ? AND year = ? ORDER BY id`,
		code, semester, r.year)
	if err != nil {
		return nil, fmt.Errorf("error retrieving assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			assessment         string
			weighted           sql.NullString
			unweighted, weight sql.NullFloat64
			gradeType          sql.NullString
		)
		if err := rows.Scan(&assessment, &weighted, &unweighted, &weight, &gradeType); err != nil {
			return nil, err
		}
		subject.Assignments = append(subject.Assignments,
			decodeAssignmentRow(assessment, weighted, unweighted, weight, gradeType))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var exam models.Examination
	err = r.db.DB.QueryRowContext(ctx, `
		SELECT exam_mark, exam_weight FROM examinations
		WHERE subject_code = ? AND semester_name = ? AND year = ?`,
		code, semester, r.year).Scan(&exam.ExamMark, &exam.ExamWeight)
	if err == nil {
		subject.Examination = exam
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("error retrieving examination: %w", err)
	}

	return &subject, nil
}
