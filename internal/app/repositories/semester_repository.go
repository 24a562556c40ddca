package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"unimarks/internal/db"
	"unimarks/internal/pkg/apperrors"
)

// SemesterRepository handles database operations for semesters
type SemesterRepository struct {
	db   *db.SQLiteDB
	year string
}

// NewSemesterRepository creates a new semester repository
func NewSemesterRepository(database *db.SQLiteDB, year string) *SemesterRepository {
	return &SemesterRepository{db: database, year: year}
}

// List returns the year's semester names: declared shells plus any
// semester that only exists through its subjects (pre-FK data).
func (r *SemesterRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT name FROM semesters WHERE year = ?
		UNION
		SELECT DISTINCT semester_name AS name FROM subjects WHERE year = ?
		ORDER BY name COLLATE NOCASE`, r.year, r.year)
	if err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Add inserts one semester shell, ignoring duplicates.
func (r *SemesterRepository) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewInvalidInputError("semester name cannot be empty")
	}
	if _, err := r.db.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO semesters(name, year) VALUES(?, ?)`, name, r.year); err != nil {
		return fmt.Errorf("add semester: %w", err)
	}
	return nil
}

// AddMany inserts several semester shells in one transaction, trimming
// names and skipping blanks.
func (r *SemesterRepository) AddMany(ctx context.Context, names []string) error {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, name := range cleaned {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO semesters(name, year) VALUES(?, ?)`, name, r.year); err != nil {
				return fmt.Errorf("add semester %q: %w", name, err)
			}
		}
		return nil
	})
}

// Remove deletes a semester and everything in it. Subjects are deleted
// explicitly so the cascade also covers pre-FK rows.
func (r *SemesterRepository) Remove(ctx context.Context, name string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM subjects WHERE semester_name = ? AND year = ?`, name, r.year); err != nil {
			return fmt.Errorf("delete semester subjects: %w", err)
		}
		result, err := tx.ExecContext(ctx,
			`DELETE FROM semesters WHERE name = ? AND year = ?`, name, r.year)
		if err != nil {
			return fmt.Errorf("delete semester: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.ErrSemesterNotFound
		}
		return nil
	})
}

// SemesterCount pairs a semester name with its subject count.
type SemesterCount struct {
	Name     string `json:"name"`
	Subjects int    `json:"subjects"`
}

// CountSubjects returns per-semester subject counts for the year.
func (r *SemesterRepository) CountSubjects(ctx context.Context) ([]SemesterCount, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT s.name, COUNT(sub.id) AS cnt
		FROM (
			SELECT name FROM semesters WHERE year = ?
			UNION
			SELECT DISTINCT semester_name AS name FROM subjects WHERE year = ?
		) s
		LEFT JOIN subjects sub ON sub.semester_name = s.name AND sub.year = ?
		GROUP BY s.name
		ORDER BY s.name COLLATE NOCASE`, r.year, r.year, r.year)
	if err != nil {
		return nil, fmt.Errorf("count subjects per semester: %w", err)
	}
	defer rows.Close()

	var counts []SemesterCount
	for rows.Next() {
		var count SemesterCount
		if err := rows.Scan(&count.Name, &count.Subjects); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}
