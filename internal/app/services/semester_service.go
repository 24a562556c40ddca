package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"unimarks/internal/app/models"
	"unimarks/internal/app/repositories"
	"unimarks/internal/pkg/apperrors"
	"unimarks/internal/pkg/logger"
)

// SemesterService is the write surface for one semester of one academic
// year. It validates input, delegates persistence to the repositories
// and returns the semester's refreshed visible view after every
// mutation, so callers never render stale data.
type SemesterService struct {
	semester string
	repos    *repositories.Repositories
	grades   *GradeService
	sync     *SyncService
}

// NewSemesterService creates a semester service bound to one semester
func NewSemesterService(semester string, repos *repositories.Repositories) *SemesterService {
	return &SemesterService{
		semester: semester,
		repos:    repos,
		grades:   NewGradeService(),
		sync:     NewSyncService(),
	}
}

// Semester returns the semester name this service is bound to.
func (s *SemesterService) Semester() string {
	return s.semester
}

// View returns the semester's visible subjects: its own plus synced
// mirrors from the year's other semesters.
func (s *SemesterService) View(ctx context.Context) (map[string]*models.Subject, error) {
	data, err := s.repos.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.sync.VisibleSubjects(s.semester, data), nil
}

// AddSubject creates a subject in this semester. The code must be new
// within the semester; mirrored subjects from other semesters do not
// block it.
func (s *SemesterService) AddSubject(ctx context.Context, code, name string, syncSubject bool) (map[string]*models.Subject, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, apperrors.NewInvalidInputError("subject code and name cannot be empty")
	}

	exists, err := s.repos.SubjectRepository.Exists(ctx, s.semester, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrDuplicateSubject,
			fmt.Sprintf("subject %s already exists in %s", code, s.semester))
	}

	subject := &models.Subject{
		SubjectCode: code,
		SubjectName: name,
		SyncSubject: syncSubject,
	}
	if err := s.repos.SubjectRepository.Upsert(ctx, s.semester, subject); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// SetSyncSubject flips whether the subject is mirrored into the year's
// other semesters.
func (s *SemesterService) SetSyncSubject(ctx context.Context, code string, syncSubject bool) (map[string]*models.Subject, error) {
	subject, err := s.repos.SubjectRepository.Get(ctx, s.semester, code)
	if err != nil {
		return nil, err
	}
	subject.SyncSubject = syncSubject
	if err := s.repos.SubjectRepository.Upsert(ctx, s.semester, subject); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// DeleteSubject removes a subject and everything under it.
func (s *SemesterService) DeleteSubject(ctx context.Context, code string) (map[string]*models.Subject, error) {
	if err := s.repos.SubjectRepository.Delete(ctx, s.semester, code); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// parseAssignment turns raw mark text into a validated Assignment.
// "S"/"U" in the mark field selects the pass/fail variant regardless of
// the declared grade type, mirroring how older data entered it.
func parseAssignment(assessment, weightedMark, markWeight string, gradeType models.GradeType) (models.Assignment, error) {
	assessment = strings.TrimSpace(assessment)
	if assessment == "" {
		return models.Assignment{}, apperrors.NewInvalidInputError("assessment name cannot be empty")
	}

	markText := strings.TrimSpace(weightedMark)
	if gradeType.IsPassFail() {
		return models.NewPassFailAssignment(assessment, gradeType), nil
	}
	if byText := models.GradeType(markText); byText.IsPassFail() {
		return models.NewPassFailAssignment(assessment, byText), nil
	}

	mark, err := strconv.ParseFloat(markText, 64)
	if err != nil {
		return models.Assignment{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("weighted mark %q is not a number", markText))
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(markWeight), 64)
	if err != nil {
		return models.Assignment{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("mark weight %q is not a number", markWeight))
	}
	if mark < 0 || mark > 100 {
		return models.Assignment{}, apperrors.NewInvalidInputError("weighted mark must be between 0 and 100")
	}
	if weight < 0 || weight > 100 {
		return models.Assignment{}, apperrors.NewInvalidInputError("mark weight must be between 0 and 100")
	}
	return models.NewNumericAssignment(assessment, mark, weight), nil
}

// AddOrUpdateAssignment records a mark for the subject, overwriting an
// existing assessment with the same name. The subject shell is created
// on the fly when the subject is not present yet.
func (s *SemesterService) AddOrUpdateAssignment(ctx context.Context, code, assessment, weightedMark, markWeight string, gradeType models.GradeType) (map[string]*models.Subject, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewInvalidInputError("subject code cannot be empty")
	}
	assignment, err := parseAssignment(assessment, weightedMark, markWeight, gradeType)
	if err != nil {
		return nil, err
	}
	if err := s.repos.AssignmentRepository.Upsert(ctx, s.semester, code, assignment); err != nil {
		return nil, err
	}
	s.warnOnOverweight(ctx, code)
	return s.View(ctx)
}

// UpdateAssignment rewrites an assignment, supporting assessment
// renames via the old name.
func (s *SemesterService) UpdateAssignment(ctx context.Context, code, oldAssessment, assessment, weightedMark, markWeight string, gradeType models.GradeType) (map[string]*models.Subject, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewInvalidInputError("subject code cannot be empty")
	}
	assignment, err := parseAssignment(assessment, weightedMark, markWeight, gradeType)
	if err != nil {
		return nil, err
	}
	if err := s.repos.AssignmentRepository.Update(ctx, s.semester, code, oldAssessment, assignment); err != nil {
		return nil, err
	}
	s.warnOnOverweight(ctx, code)
	return s.View(ctx)
}

// DeleteAssignment removes one assessment from the subject.
func (s *SemesterService) DeleteAssignment(ctx context.Context, code, assessment string) (map[string]*models.Subject, error) {
	if err := s.repos.AssignmentRepository.Delete(ctx, s.semester, code, assessment); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// SetTotalMark stores the subject's final total mark.
func (s *SemesterService) SetTotalMark(ctx context.Context, code string, totalMark float64) (map[string]*models.Subject, error) {
	if totalMark < 0 || totalMark > 100 {
		return nil, apperrors.NewInvalidInputError("total mark must be between 0 and 100")
	}
	if err := s.repos.SubjectRepository.SetTotalMark(ctx, s.semester, code, totalMark); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// SetExamSettings stores the pass-scale overlay for the subject's exam.
// A non-positive factor falls back to the default.
func (s *SemesterService) SetExamSettings(ctx context.Context, code string, psExam bool, psFactor float64) (map[string]*models.Subject, error) {
	if psFactor < 0 || psFactor > 100 {
		return nil, apperrors.NewInvalidInputError("pass-scale factor must be between 0 and 100")
	}
	settings := models.ExamSettings{PSExam: psExam, PSFactor: psFactor}
	if err := s.repos.ExamRepository.UpsertSettings(ctx, s.semester, code, settings); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// DeleteExam removes the subject's examination row.
func (s *SemesterService) DeleteExam(ctx context.Context, code string) (map[string]*models.Subject, error) {
	if err := s.repos.ExamRepository.Delete(ctx, s.semester, code); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

// RequiredExamOutcome is a solved exam requirement together with the
// exam weight it was solved against.
type RequiredExamOutcome struct {
	Required   float64    `json:"required"`
	Status     ExamStatus `json:"status"`
	ExamWeight float64    `json:"exam_weight"`
}

// ComputeRequiredExamMark solves the exam percentage needed to reach
// the target total and persists the result as the subject's exam row.
// The exam weight is the stored one when present, otherwise whatever
// weight the assignments leave unclaimed.
func (s *SemesterService) ComputeRequiredExamMark(ctx context.Context, code string, target float64) (RequiredExamOutcome, map[string]*models.Subject, error) {
	if target <= 0 || target > 100 {
		return RequiredExamOutcome{}, nil, apperrors.NewInvalidInputError("target mark must be between 0 and 100")
	}

	subject, err := s.repos.SubjectRepository.Get(ctx, s.semester, code)
	if err != nil {
		return RequiredExamOutcome{}, nil, err
	}

	weightedSum := s.grades.WeightedTotal(subject.Assignments)
	weightSum := s.grades.WeightTotal(subject.Assignments)

	examWeight := subject.Examination.ExamWeight
	stored, err := s.repos.ExamRepository.Get(ctx, s.semester, code)
	if err != nil {
		return RequiredExamOutcome{}, nil, err
	}
	if stored == nil {
		examWeight = 100 - weightSum
		if examWeight < 0 {
			examWeight = 0
		}
	}

	var psFactor *float64
	settings, err := s.repos.ExamRepository.GetSettings(ctx, s.semester, code)
	if err != nil {
		return RequiredExamOutcome{}, nil, err
	}
	if settings != nil && settings.PSExam {
		factor := settings.PSFactor
		psFactor = &factor
	}

	result := s.grades.RequiredExamMark(target, weightedSum, weightSum, examWeight, psFactor)
	outcome := RequiredExamOutcome{
		Required:   result.Required,
		Status:     result.Status,
		ExamWeight: examWeight,
	}
	if result.Status == ExamInvalid {
		return outcome, nil, apperrors.NewInvalidInputError("subject has no exam weight left to solve against")
	}

	exam := models.Examination{ExamMark: result.Required, ExamWeight: examWeight}
	if err := s.repos.ExamRepository.Upsert(ctx, s.semester, code, exam); err != nil {
		return RequiredExamOutcome{}, nil, err
	}

	view, err := s.View(ctx)
	if err != nil {
		return RequiredExamOutcome{}, nil, err
	}
	return outcome, view, nil
}

// CalculateExamMark derives the exam mark and weight from the stored
// total and the assignment sums, the legacy back-fill for subjects that
// only recorded a final total. The derived exam is persisted.
func (s *SemesterService) CalculateExamMark(ctx context.Context, code string) (models.Examination, map[string]*models.Subject, error) {
	subject, err := s.repos.SubjectRepository.Get(ctx, s.semester, code)
	if err != nil {
		return models.Examination{}, nil, err
	}

	mark := Round2(subject.TotalMark - s.grades.WeightedTotal(subject.Assignments))
	if mark < 0 {
		mark = 0
	}
	weight := 100 - s.grades.WeightTotal(subject.Assignments)
	if weight < 0 {
		weight = 0
	}

	exam := models.Examination{ExamMark: mark, ExamWeight: weight}
	if err := s.repos.ExamRepository.Upsert(ctx, s.semester, code, exam); err != nil {
		return models.Examination{}, nil, err
	}

	view, err := s.View(ctx)
	if err != nil {
		return models.Examination{}, nil, err
	}
	return exam, view, nil
}

// GradeSummary is a subject's standing rendered for display.
type GradeSummary struct {
	Value        float64 `json:"value"`
	Source       string  `json:"source"`
	Level        string  `json:"level"`
	HasTotalMark bool    `json:"has_total_mark"`
}

// Summary reports the subject's grade standing and band.
func (s *SemesterService) Summary(ctx context.Context, code string) (GradeSummary, error) {
	subject, err := s.repos.SubjectRepository.Get(ctx, s.semester, code)
	if err != nil {
		return GradeSummary{}, err
	}
	value, source, hasTotal := s.grades.GradeStatus(subject)
	return GradeSummary{
		Value:        value,
		Source:       source,
		Level:        s.grades.GradeLevel(value),
		HasTotalMark: hasTotal,
	}, nil
}

// warnOnOverweight logs when a subject's assignment weights exceed 100.
// Overweight data is stored anyway; the log line is the only signal.
func (s *SemesterService) warnOnOverweight(ctx context.Context, code string) {
	subject, err := s.repos.SubjectRepository.Get(ctx, s.semester, code)
	if err != nil {
		return
	}
	weightSum := s.grades.WeightTotal(subject.Assignments)
	if weightSum > 100 {
		logger.Warn().
			Str("subject", code).
			Str("semester", s.semester).
			Float64("weight_sum", weightSum).
			Msg("Subject weights exceed 100")
	}
}
