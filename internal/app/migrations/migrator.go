package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"unimarks/internal/db"
	"unimarks/internal/pkg/apperrors"
	"unimarks/internal/pkg/logger"
)

// Migrator owns the schema of one year database file. There is no stored
// schema version; each generation is detected by the shape of the
// existing tables (column presence and foreign keys) and migrated in
// place. Every step is idempotent and runs inside its own transaction,
// so a failed step leaves the previous generation intact.
type Migrator struct {
	db *db.SQLiteDB
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.SQLiteDB) *Migrator {
	return &Migrator{db: database}
}

// baseSchema is the current schema generation, created wholesale on new
// files. On old files CREATE TABLE IF NOT EXISTS leaves the legacy
// shapes in place for the detection steps below.
const baseSchema = `
CREATE TABLE IF NOT EXISTS semesters (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	year TEXT NOT NULL,
	UNIQUE(name, year)
);
CREATE TABLE IF NOT EXISTS subjects (
	id INTEGER PRIMARY KEY,
	subject_code TEXT NOT NULL,
	subject_name TEXT NOT NULL,
	semester_name TEXT NOT NULL,
	year TEXT NOT NULL,
	total_mark REAL NOT NULL DEFAULT 0,
	sync_subject INTEGER NOT NULL DEFAULT 0,
	UNIQUE(subject_code, semester_name, year),
	FOREIGN KEY(semester_name, year) REFERENCES semesters(name, year) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS assignments (
	id INTEGER PRIMARY KEY,
	subject_code TEXT NOT NULL,
	semester_name TEXT NOT NULL,
	year TEXT NOT NULL,
	assessment TEXT NOT NULL,
	weighted_mark REAL,
	unweighted_mark REAL,
	mark_weight REAL,
	grade_type TEXT NOT NULL DEFAULT 'numeric',
	UNIQUE(subject_code, semester_name, year, assessment),
	FOREIGN KEY(subject_code, semester_name, year) REFERENCES subjects(subject_code, semester_name, year) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS examinations (
	id INTEGER PRIMARY KEY,
	subject_code TEXT NOT NULL,
	semester_name TEXT NOT NULL,
	year TEXT NOT NULL,
	exam_mark REAL NOT NULL DEFAULT 0,
	exam_weight REAL NOT NULL DEFAULT 100,
	UNIQUE(subject_code, semester_name, year),
	FOREIGN KEY(subject_code, semester_name, year) REFERENCES subjects(subject_code, semester_name, year) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS exam_settings (
	id INTEGER PRIMARY KEY,
	subject_code TEXT NOT NULL,
	semester_name TEXT NOT NULL,
	year TEXT NOT NULL,
	ps_exam INTEGER NOT NULL DEFAULT 0,
	ps_factor REAL NOT NULL DEFAULT 40,
	UNIQUE(subject_code, semester_name, year),
	FOREIGN KEY(subject_code, semester_name, year) REFERENCES subjects(subject_code, semester_name, year) ON DELETE CASCADE
);
`

type migrationStep struct {
	name   string
	needed func(ctx context.Context) (bool, error)
	apply  func(ctx context.Context, tx *sql.Tx) error
}

// EnsureSchema brings the database file to the latest schema generation.
// Safe to call on every open; on an already-migrated file every step
// detects as satisfied and nothing runs.
func (m *Migrator) EnsureSchema(ctx context.Context) error {
	if err := m.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, baseSchema)
		return err
	}); err != nil {
		return apperrors.NewMigrationError(err, "failed to create base schema")
	}

	steps := []migrationStep{
		{
			name:   "children_to_natural_keys",
			needed: m.childrenUseNumericIdentity,
			apply:  m.migrateChildrenToNaturalKeys,
		},
		{
			name:   "subjects_semester_fk",
			needed: m.subjectsMissingSemesterFK,
			apply:  m.migrateAddSemesterFK,
		},
		{
			name:   "children_subject_fk",
			needed: m.childrenMissingSubjectFK,
			apply:  m.migrateAddChildSubjectFK,
		},
	}

	for _, step := range steps {
		needed, err := step.needed(ctx)
		if err != nil {
			return apperrors.NewMigrationError(err, fmt.Sprintf("failed to inspect schema for step %s", step.name))
		}
		if !needed {
			continue
		}
		logger.Info().Str("step", step.name).Str("path", m.db.Path).Msg("Applying schema migration")
		if err := m.db.WithTransaction(ctx, step.apply); err != nil {
			return apperrors.NewMigrationError(err, fmt.Sprintf("migration step %s failed", step.name))
		}
	}

	return nil
}

// EnsureYearHasSemesters bootstraps semester shells for a year that has
// none yet, so the UI always has at least one semester to land on.
func (m *Migrator) EnsureYearHasSemesters(ctx context.Context, year string, defaultNames []string) error {
	var count int
	err := m.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM semesters WHERE year = ?`, year).Scan(&count)
	if err != nil {
		return fmt.Errorf("count semesters: %w", err)
	}
	if count > 0 {
		return nil
	}

	names := defaultNames
	if len(names) == 0 {
		names = []string{"Semester 1"}
	}

	return m.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO semesters(name, year) VALUES(?, ?)`, name, year); err != nil {
				return fmt.Errorf("insert semester %q: %w", name, err)
			}
		}
		return nil
	})
}

// --- shape detection ---

func (m *Migrator) tableHasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := m.db.DB.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func (m *Migrator) tableReferences(ctx context.Context, table, parent string) (bool, error) {
	rows, err := m.db.DB.QueryContext(ctx, fmt.Sprintf(`PRAGMA foreign_key_list(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, seq            int
			refTable, from, to sql.NullString
			onUpdate, onDelete sql.NullString
			match              sql.NullString
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return false, err
		}
		if refTable.String == parent {
			return true, nil
		}
	}
	return false, rows.Err()
}

func (m *Migrator) childrenUseNumericIdentity(ctx context.Context) (bool, error) {
	hasID, err := m.tableHasColumn(ctx, "assignments", "subject_id")
	if err != nil {
		return false, err
	}
	hasCode, err := m.tableHasColumn(ctx, "assignments", "subject_code")
	if err != nil {
		return false, err
	}
	return hasID && !hasCode, nil
}

func (m *Migrator) subjectsMissingSemesterFK(ctx context.Context) (bool, error) {
	has, err := m.tableReferences(ctx, "subjects", "semesters")
	return err == nil && !has, err
}

func (m *Migrator) childrenMissingSubjectFK(ctx context.Context) (bool, error) {
	has, err := m.tableReferences(ctx, "assignments", "subjects")
	return err == nil && !has, err
}

// --- migration steps ---

// migrateChildrenToNaturalKeys rewrites v1 assignments/examinations
// (numeric subject_id identity) into natural-key tables by joining
// against subjects, then swaps them in.
func (m *Migrator) migrateChildrenToNaturalKeys(ctx context.Context, tx *sql.Tx) error {
	// Files from before the grade_type column derive it from the S/U
	// text stored in the weighted mark.
	hasGradeType, err := txTableHasColumn(ctx, tx, "assignments", "grade_type")
	if err != nil {
		return err
	}
	gradeTypeExpr := `CASE WHEN a.weighted_mark IN ('S','U') THEN a.weighted_mark ELSE COALESCE(NULLIF(a.grade_type,''),'numeric') END`
	if !hasGradeType {
		gradeTypeExpr = `CASE WHEN a.weighted_mark IN ('S','U') THEN a.weighted_mark ELSE 'numeric' END`
	}

	statements := []string{
		`CREATE TABLE assignments_migrated (
			id INTEGER PRIMARY KEY,
			subject_code TEXT NOT NULL,
			semester_name TEXT NOT NULL,
			year TEXT NOT NULL,
			assessment TEXT NOT NULL,
			weighted_mark REAL,
			unweighted_mark REAL,
			mark_weight REAL,
			grade_type TEXT NOT NULL DEFAULT 'numeric',
			UNIQUE(subject_code, semester_name, year, assessment)
		)`,
		`INSERT OR IGNORE INTO assignments_migrated
			(id, subject_code, semester_name, year, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type)
		 SELECT a.id, s.subject_code, s.semester_name, s.year, a.assessment,
			CASE WHEN a.weighted_mark IN ('S','U') THEN NULL ELSE CAST(a.weighted_mark AS REAL) END,
			a.unweighted_mark, a.mark_weight,
			` + gradeTypeExpr + `
		 FROM assignments a JOIN subjects s ON a.subject_id = s.id`,
		`DROP TABLE assignments`,
		`ALTER TABLE assignments_migrated RENAME TO assignments`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rewrite assignments: %w", err)
		}
	}

	hasExamID, err := txTableHasColumn(ctx, tx, "examinations", "subject_id")
	if err != nil {
		return err
	}
	if !hasExamID {
		return nil
	}
	statements = []string{
		`CREATE TABLE examinations_migrated (
			id INTEGER PRIMARY KEY,
			subject_code TEXT NOT NULL,
			semester_name TEXT NOT NULL,
			year TEXT NOT NULL,
			exam_mark REAL NOT NULL DEFAULT 0,
			exam_weight REAL NOT NULL DEFAULT 100,
			UNIQUE(subject_code, semester_name, year)
		)`,
		`INSERT OR IGNORE INTO examinations_migrated
			(id, subject_code, semester_name, year, exam_mark, exam_weight)
		 SELECT e.id, s.subject_code, s.semester_name, s.year, e.exam_mark, e.exam_weight
		 FROM examinations e JOIN subjects s ON e.subject_id = s.id`,
		`DROP TABLE examinations`,
		`ALTER TABLE examinations_migrated RENAME TO examinations`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rewrite examinations: %w", err)
		}
	}
	return nil
}

// migrateAddSemesterFK synthesizes semester rows from the distinct
// (semester_name, year) pairs already present on subjects, then rebuilds
// subjects with the foreign key.
func (m *Migrator) migrateAddSemesterFK(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`INSERT OR IGNORE INTO semesters(name, year)
		 SELECT DISTINCT semester_name, year FROM subjects`,
		`CREATE TABLE subjects_migrated (
			id INTEGER PRIMARY KEY,
			subject_code TEXT NOT NULL,
			subject_name TEXT NOT NULL,
			semester_name TEXT NOT NULL,
			year TEXT NOT NULL,
			total_mark REAL NOT NULL DEFAULT 0,
			sync_subject INTEGER NOT NULL DEFAULT 0,
			UNIQUE(subject_code, semester_name, year),
			FOREIGN KEY(semester_name, year) REFERENCES semesters(name, year) ON DELETE CASCADE
		)`,
		`INSERT INTO subjects_migrated
			(id, subject_code, subject_name, semester_name, year, total_mark, sync_subject)
		 SELECT id, subject_code, subject_name, semester_name, year, total_mark, sync_subject FROM subjects`,
		`DROP TABLE subjects`,
		`ALTER TABLE subjects_migrated RENAME TO subjects`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild subjects: %w", err)
		}
	}
	return nil
}

// migrateAddChildSubjectFK rebuilds assignments and examinations with
// the composite foreign key to subjects so subject deletion cascades.
func (m *Migrator) migrateAddChildSubjectFK(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`CREATE TABLE assignments_migrated (
			id INTEGER PRIMARY KEY,
			subject_code TEXT NOT NULL,
			semester_name TEXT NOT NULL,
			year TEXT NOT NULL,
			assessment TEXT NOT NULL,
			weighted_mark REAL,
			unweighted_mark REAL,
			mark_weight REAL,
			grade_type TEXT NOT NULL DEFAULT 'numeric',
			UNIQUE(subject_code, semester_name, year, assessment),
			FOREIGN KEY(subject_code, semester_name, year) REFERENCES subjects(subject_code, semester_name, year) ON DELETE CASCADE
		)`,
		`INSERT OR IGNORE INTO assignments_migrated
			(id, subject_code, semester_name, year, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type)
		 SELECT id, subject_code, semester_name, year, assessment,
			CASE WHEN weighted_mark IN ('S','U') THEN NULL ELSE CAST(weighted_mark AS REAL) END,
			unweighted_mark, mark_weight,
			CASE WHEN weighted_mark IN ('S','U') THEN weighted_mark ELSE COALESCE(NULLIF(grade_type,''),'numeric') END
		 FROM assignments`,
		`DROP TABLE assignments`,
		`ALTER TABLE assignments_migrated RENAME TO assignments`,
		`CREATE TABLE examinations_migrated (
			id INTEGER PRIMARY KEY,
			subject_code TEXT NOT NULL,
			semester_name TEXT NOT NULL,
			year TEXT NOT NULL,
			exam_mark REAL NOT NULL DEFAULT 0,
			exam_weight REAL NOT NULL DEFAULT 100,
			UNIQUE(subject_code, semester_name, year),
			FOREIGN KEY(subject_code, semester_name, year) REFERENCES subjects(subject_code, semester_name, year) ON DELETE CASCADE
		)`,
		`INSERT OR IGNORE INTO examinations_migrated
			(id, subject_code, semester_name, year, exam_mark, exam_weight)
		 SELECT id, subject_code, semester_name, year, exam_mark, exam_weight FROM examinations`,
		`DROP TABLE examinations`,
		`ALTER TABLE examinations_migrated RENAME TO examinations`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild child tables: %w", err)
		}
	}
	return nil
}

func txTableHasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
