package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarks/internal/app/migrations"
	"unimarks/internal/app/models"
	"unimarks/internal/db"
	"unimarks/internal/pkg/apperrors"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "2026.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.NewMigrator(database).EnsureSchema(context.Background()))
	return NewRepositories(database, "2026")
}

func TestSubjectUpsertAndGet(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	subject := &models.Subject{
		SubjectCode: "COMP1000",
		SubjectName: "Intro to Computing",
		SyncSubject: true,
	}
	require.NoError(t, repos.SubjectRepository.Upsert(ctx, "Semester 1", subject))

	got, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Computing", got.SubjectName)
	assert.Equal(t, "Semester 1", got.SemesterName)
	assert.True(t, got.SyncSubject)
	assert.Equal(t, models.DefaultExamination(), got.Examination)

	// Upsert with the same code overwrites the name.
	subject.SubjectName = "Introduction to Computing"
	require.NoError(t, repos.SubjectRepository.Upsert(ctx, "Semester 1", subject))
	got, err = repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	assert.Equal(t, "Introduction to Computing", got.SubjectName)
}

func TestSubjectGetMissing(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.SubjectRepository.Get(context.Background(), "Semester 1", "NOPE")
	assert.True(t, errors.Is(err, apperrors.ErrSubjectNotFound))
}

func TestAssignmentUpsertCreatesSubjectShell(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	assignment := models.NewNumericAssignment("Quiz 1", 8, 10)
	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000", assignment))

	// The subject shell was created with name = code.
	subject, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	assert.Equal(t, "COMP1000", subject.SubjectName)
	require.Len(t, subject.Assignments, 1)
	require.NotNil(t, subject.Assignments[0].WeightedMark)
	assert.Equal(t, 8.0, *subject.Assignments[0].WeightedMark)
}

func TestAssignmentUpsertOverwritesMarks(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 5, 10)))
	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 9, 10)))

	subject, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	require.Len(t, subject.Assignments, 1)
	assert.Equal(t, 9.0, *subject.Assignments[0].WeightedMark)
}

func TestAssignmentUpdateRename(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quizz 1", 8, 10)))
	require.NoError(t, repos.AssignmentRepository.Update(ctx, "Semester 1", "COMP1000", "Quizz 1",
		models.NewNumericAssignment("Quiz 1", 8, 10)))

	subject, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	require.Len(t, subject.Assignments, 1)
	assert.Equal(t, "Quiz 1", subject.Assignments[0].Assessment)
}

func TestAssignmentPassFailRoundTrip(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewPassFailAssignment("Lab Work", models.GradeSatisfactory)))

	subject, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	require.Len(t, subject.Assignments, 1)
	lab := subject.Assignments[0]
	assert.Equal(t, models.GradeSatisfactory, lab.GradeType)
	assert.Nil(t, lab.WeightedMark)
	assert.Nil(t, lab.UnweightedMark)
	assert.Nil(t, lab.MarkWeight)
}

func TestAssignmentDelete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 8, 10)))
	require.NoError(t, repos.AssignmentRepository.Delete(ctx, "Semester 1", "COMP1000", "Quiz 1"))

	err := repos.AssignmentRepository.Delete(ctx, "Semester 1", "COMP1000", "Quiz 1")
	assert.True(t, errors.Is(err, apperrors.ErrAssignmentNotFound))
}

func TestSubjectDeleteCascades(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 8, 10)))
	require.NoError(t, repos.ExamRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.Examination{ExamMark: 0, ExamWeight: 60}))

	require.NoError(t, repos.SubjectRepository.Delete(ctx, "Semester 1", "COMP1000"))

	data, err := repos.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, data["Semester 1"])
}

func TestExamUpsertReplacesRow(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.ExamRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.Examination{ExamMark: 40, ExamWeight: 60}))
	require.NoError(t, repos.ExamRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.Examination{ExamMark: 75, ExamWeight: 40}))

	exam, err := repos.ExamRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	require.NotNil(t, exam)
	assert.Equal(t, 75.0, exam.ExamMark)
	assert.Equal(t, 40.0, exam.ExamWeight)
}

func TestExamSettingsRoundTrip(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	settings, err := repos.ExamRepository.GetSettings(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	assert.Nil(t, settings)

	require.NoError(t, repos.ExamRepository.UpsertSettings(ctx, "Semester 1", "COMP1000",
		models.ExamSettings{PSExam: true, PSFactor: 0}))

	settings, err = repos.ExamRepository.GetSettings(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.PSExam)
	assert.Equal(t, models.DefaultPSFactor, settings.PSFactor)
}

func TestSemesterListIncludesSubjectOnlySemesters(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.SemesterRepository.Add(ctx, "Semester 1"))
	// Semester 2 only exists through its subject.
	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 2", "MATH2000",
		models.NewNumericAssignment("Assignment 1", 14, 20)))

	names, err := repos.SemesterRepository.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Semester 1", "Semester 2"}, names)
}

func TestSemesterAddManySkipsBlanks(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.SemesterRepository.AddMany(ctx,
		[]string{" Semester 1 ", "", "Semester 2", "   "}))

	names, err := repos.SemesterRepository.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Semester 1", "Semester 2"}, names)
}

func TestSemesterRemoveDeletesSubjects(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 8, 10)))
	require.NoError(t, repos.SemesterRepository.Remove(ctx, "Semester 1"))

	data, err := repos.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, data, "Semester 1")

	err = repos.SemesterRepository.Remove(ctx, "Semester 1")
	assert.True(t, errors.Is(err, apperrors.ErrSemesterNotFound))
}

func TestCountSubjects(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.SemesterRepository.Add(ctx, "Semester 1"))
	require.NoError(t, repos.SubjectRepository.Upsert(ctx, "Semester 1",
		&models.Subject{SubjectCode: "COMP1000", SubjectName: "Intro to Computing"}))
	require.NoError(t, repos.SubjectRepository.Upsert(ctx, "Semester 1",
		&models.Subject{SubjectCode: "MATH2000", SubjectName: "Linear Algebra"}))
	require.NoError(t, repos.SemesterRepository.Add(ctx, "Semester 2"))

	counts, err := repos.SemesterRepository.CountSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, SemesterCount{Name: "Semester 1", Subjects: 2}, counts[0])
	assert.Equal(t, SemesterCount{Name: "Semester 2", Subjects: 0}, counts[1])
}

func TestLoadAllMaterializesWholeYear(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.SemesterRepository.Add(ctx, "Semester 2"))
	require.NoError(t, repos.SubjectRepository.Upsert(ctx, "Semester 1",
		&models.Subject{SubjectCode: "COMP1000", SubjectName: "Intro to Computing"}))
	require.NoError(t, repos.AssignmentRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.NewNumericAssignment("Quiz 1", 8, 10)))
	require.NoError(t, repos.ExamRepository.Upsert(ctx, "Semester 1", "COMP1000",
		models.Examination{ExamMark: 0, ExamWeight: 90}))

	data, err := repos.LoadAll(ctx)
	require.NoError(t, err)

	// Empty semesters appear as empty maps.
	require.Contains(t, data, "Semester 2")
	assert.Empty(t, data["Semester 2"])

	subject := data["Semester 1"]["COMP1000"]
	require.NotNil(t, subject)
	require.Len(t, subject.Assignments, 1)
	assert.Equal(t, 90.0, subject.Examination.ExamWeight)
}

func TestImportYearFile(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "2026.json")
	payload := []byte(`{
		"Semester 1": {
			"COMP1000": {
				"Subject Name": "Intro to Computing",
				"Total Mark": 78.5,
				"Sync Subject": false,
				"Assignments": [
					{"Subject Assessment": "Quiz 1", "Weighted Mark": 8.0, "Mark Weight": 10.0}
				],
				"Examinations": {"Exam Mark": 55.0, "Exam Weight": 60.0}
			}
		}
	}`)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	require.NoError(t, repos.ImportYearFile(ctx, path))

	subject, err := repos.SubjectRepository.Get(ctx, "Semester 1", "COMP1000")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Computing", subject.SubjectName)
	assert.Equal(t, 78.5, subject.TotalMark)
	require.Len(t, subject.Assignments, 1)
	assert.Equal(t, 60.0, subject.Examination.ExamWeight)
}

func TestImportYearFileMissingIsNoop(t *testing.T) {
	repos := newTestRepos(t)
	require.NoError(t, repos.ImportYearFile(context.Background(),
		filepath.Join(t.TempDir(), "absent.json")))
}

func TestSaveAndLoadYearFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026.json")
	data := models.YearData{
		"Semester 1": {
			"COMP1000": {
				SubjectCode: "COMP1000",
				SubjectName: "Intro to Computing",
				Examination: models.DefaultExamination(),
			},
		},
	}

	require.NoError(t, SaveYearFile(path, data))

	loaded, err := LoadYearFile(path, "2026")
	require.NoError(t, err)
	require.Contains(t, loaded, "Semester 1")
	assert.Equal(t, "Intro to Computing", loaded["Semester 1"]["COMP1000"].SubjectName)
}
