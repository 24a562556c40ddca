package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"unimarks/internal/app/models"
	"unimarks/internal/db"
)

// Repositories bundles the record stores for one academic year database.
type Repositories struct {
	db   *db.SQLiteDB
	year string

	SemesterRepository   *SemesterRepository
	SubjectRepository    *SubjectRepository
	AssignmentRepository *AssignmentRepository
	ExamRepository       *ExamRepository
}

// NewRepositories creates all repositories scoped to one year
func NewRepositories(database *db.SQLiteDB, year string) *Repositories {
	return &Repositories{
		db:                   database,
		year:                 year,
		SemesterRepository:   NewSemesterRepository(database, year),
		SubjectRepository:    NewSubjectRepository(database, year),
		AssignmentRepository: NewAssignmentRepository(database, year),
		ExamRepository:       NewExamRepository(database, year),
	}
}

// Year returns the academic year this store is scoped to.
func (r *Repositories) Year() string {
	return r.year
}

// LoadAll materializes the whole year into the nested in-memory view.
// It is recomputed wholesale after every write; at a few hundred rows
// per year that is cheaper than cache invalidation bugs.
func (r *Repositories) LoadAll(ctx context.Context) (models.YearData, error) {
	data := models.YearData{}

	semesterRows, err := r.db.DB.QueryContext(ctx, `SELECT name FROM semesters WHERE year = ?`, r.year)
	if err != nil {
		return nil, fmt.Errorf("load semesters: %w", err)
	}
	defer semesterRows.Close()
	for semesterRows.Next() {
		var name string
		if err := semesterRows.Scan(&name); err != nil {
			return nil, err
		}
		data[name] = map[string]*models.Subject{}
	}
	if err := semesterRows.Err(); err != nil {
		return nil, err
	}

	subjectRows, err := r.db.DB.QueryContext(ctx, `
		SELECT subject_code, subject_name, semester_name, total_mark, sync_subject
		FROM subjects WHERE year = ?`, r.year)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	defer subjectRows.Close()
	for subjectRows.Next() {
		var (
			subject models.Subject
			sync    int
		)
		if err := subjectRows.Scan(&subject.SubjectCode, &subject.SubjectName,
			&subject.SemesterName, &subject.TotalMark, &sync); err != nil {
			return nil, err
		}
		subject.Year = r.year
		subject.SyncSubject = sync != 0
		subject.Examination = models.DefaultExamination()
		if data[subject.SemesterName] == nil {
			data[subject.SemesterName] = map[string]*models.Subject{}
		}
		data[subject.SemesterName][subject.SubjectCode] = &subject
	}
	if err := subjectRows.Err(); err != nil {
		return nil, err
	}

	assignmentRows, err := r.db.DB.QueryContext(ctx, `
		SELECT subject_code, semester_name, assessment, weighted_mark, unweighted_mark, mark_weight, grade_type
		FROM assignments WHERE year = ? ORDER BY id`, r.year)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer assignmentRows.Close()
	for assignmentRows.Next() {
		var (
			code, semester, assessment string
			weighted                   sql.NullString
			unweighted, weight         sql.NullFloat64
			gradeType                  sql.NullString
		)
		if err := assignmentRows.Scan(&code, &semester, &assessment,
			&weighted, &unweighted, &weight, &gradeType); err != nil {
			return nil, err
		}
		subject := data[semester][code]
		if subject == nil {
			continue
		}
		subject.Assignments = append(subject.Assignments,
			decodeAssignmentRow(assessment, weighted, unweighted, weight, gradeType))
	}
	if err := assignmentRows.Err(); err != nil {
		return nil, err
	}

	examRows, err := r.db.DB.QueryContext(ctx, `
		SELECT subject_code, semester_name, exam_mark, exam_weight
		FROM examinations WHERE year = ?`, r.year)
	if err != nil {
		return nil, fmt.Errorf("load examinations: %w", err)
	}
	defer examRows.Close()
	for examRows.Next() {
		var (
			code, semester string
			exam           models.Examination
		)
		if err := examRows.Scan(&code, &semester, &exam.ExamMark, &exam.ExamWeight); err != nil {
			return nil, err
		}
		if subject := data[semester][code]; subject != nil {
			subject.Examination = exam
		}
	}
	if err := examRows.Err(); err != nil {
		return nil, err
	}

	return data, nil
}

// decodeAssignmentRow rebuilds an Assignment from a stored row. Legacy
// rows keep the weighted mark as text ("14.5", "S", "U"); grade type
// wins when present, otherwise the text decides.
func decodeAssignmentRow(assessment string, weighted sql.NullString,
	unweighted, weight sql.NullFloat64, gradeType sql.NullString) models.Assignment {

	parsed := models.ParseGradeType(gradeType.String)
	if weighted.Valid {
		if byText := models.ParseGradeType(weighted.String); byText.IsPassFail() {
			parsed = byText
		}
	}
	if parsed.IsPassFail() {
		return models.NewPassFailAssignment(assessment, parsed)
	}

	weightedMark := 0.0
	if weighted.Valid {
		if v, err := strconv.ParseFloat(weighted.String, 64); err == nil {
			weightedMark = v
		}
	}
	markWeight := 0.0
	if weight.Valid {
		markWeight = weight.Float64
	}
	assignment := models.NewNumericAssignment(assessment, weightedMark, markWeight)
	if markWeight <= 0 && unweighted.Valid {
		assignment.UnweightedMark = &unweighted.Float64
	}
	return assignment
}

// ensureSubjectShell inserts the semester row and a minimal subject
// (name = code) when the subject does not exist yet, so child rows are
// never orphaned. Runs inside the caller's transaction.
func ensureSubjectShell(ctx context.Context, tx *sql.Tx, year, semester, code string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO semesters(name, year) VALUES(?, ?)`, semester, year); err != nil {
		return fmt.Errorf("ensure semester: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO subjects(subject_code, subject_name, semester_name, year, total_mark, sync_subject)
		VALUES(?, ?, ?, ?, 0, 0)`, code, code, semester, year); err != nil {
		return fmt.Errorf("ensure subject shell: %w", err)
	}
	return nil
}

// SortedSemesterNames returns the semester names of a loaded year in a
// stable order.
func SortedSemesterNames(data models.YearData) []string {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
