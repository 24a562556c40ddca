package services

import (
	"math"

	"unimarks/internal/app/models"
)

// ExamStatus classifies the outcome of a required-exam-mark solve.
type ExamStatus string

const (
	// ExamAchieved means the target is already met without the exam.
	ExamAchieved ExamStatus = "achieved"
	// ExamFeasible means the required mark lies within [0, 100].
	ExamFeasible ExamStatus = "feasible"
	// ExamImpossible means even a perfect exam cannot reach the target.
	ExamImpossible ExamStatus = "impossible"
	// ExamInvalid means the subject has no scoring exam weight to solve against.
	ExamInvalid ExamStatus = "invalid"
)

// GradeService holds the pure grade arithmetic. It assumes pre-validated
// input; range rejection is the facade's job.
type GradeService struct{}

// NewGradeService creates a new grade service instance
func NewGradeService() *GradeService {
	return &GradeService{}
}

// WeightedTotal sums the weighted marks of the numeric assignments.
// S/U assignments contribute nothing.
func (s *GradeService) WeightedTotal(assignments []models.Assignment) float64 {
	total := 0.0
	for _, assignment := range assignments {
		if assignment.IsNumeric() && assignment.WeightedMark != nil {
			total += *assignment.WeightedMark
		}
	}
	return total
}

// WeightTotal sums the mark weights of the numeric assignments.
func (s *GradeService) WeightTotal(assignments []models.Assignment) float64 {
	total := 0.0
	for _, assignment := range assignments {
		if assignment.IsNumeric() && assignment.MarkWeight != nil {
			total += *assignment.MarkWeight
		}
	}
	return total
}

// UnweightedMark expresses a weighted mark as a fraction of its own
// weight, rounded to four decimals. A zero weight yields 0, not a
// division error.
func (s *GradeService) UnweightedMark(weightedMark, markWeight float64) float64 {
	return models.Round4(models.SafeRatio(weightedMark, markWeight))
}

// CurrentTotal is the subject total implied by the assignment sum plus
// the exam contribution.
func (s *GradeService) CurrentTotal(weightedSum, examMark, examWeight float64) float64 {
	return weightedSum + examMark/100*examWeight
}

// RequiredExamResult is the solved exam percentage with its status.
type RequiredExamResult struct {
	Required        float64    `json:"required"`
	Status          ExamStatus `json:"status"`
	EffectiveWeight float64    `json:"effective_weight"`
}

// RequiredExamMark solves target = weightedSum + required/100 * w for
// the exam percentage, where w is the exam weight scaled by the
// pass-scale factor when one is set. The result clamps to [0, 100];
// the status reports whether the clamp fired.
func (s *GradeService) RequiredExamMark(target, weightedSum, weightSum, examWeight float64, psFactor *float64) RequiredExamResult {
	effective := examWeight
	if psFactor != nil {
		effective = examWeight * (*psFactor / 100)
	}
	result := RequiredExamResult{EffectiveWeight: effective}

	if target <= weightedSum {
		result.Status = ExamAchieved
		result.Required = 0
		return result
	}
	if effective <= 0 {
		result.Status = ExamInvalid
		result.Required = 0
		return result
	}

	required := (target - weightedSum) / effective * 100
	if required > 100 {
		result.Status = ExamImpossible
		result.Required = 100
		return result
	}

	result.Status = ExamFeasible
	result.Required = models.Round4(required)
	return result
}

// Grade level thresholds.
const (
	highDistinctionFloor = 85
	distinctionFloor     = 75
	creditFloor          = 65
	passFloor            = 50
)

// GradeStatus reports the subject's standing: the stored final total
// mark when one is set, otherwise the percentage implied by its
// assignment performance.
func (s *GradeService) GradeStatus(subject *models.Subject) (value float64, source string, hasTotalMark bool) {
	if subject.TotalMark > 0 {
		return subject.TotalMark, "final grade", true
	}

	weightedSum := s.WeightedTotal(subject.Assignments)
	if weightedSum > 0 {
		if weightSum := s.WeightTotal(subject.Assignments); weightSum > 0 {
			return weightedSum / weightSum * 100, "assignments", false
		}
	}

	return 0, "no marks available", false
}

// GradeLevel maps a percentage to its named band.
func (s *GradeService) GradeLevel(value float64) string {
	switch {
	case value <= 0:
		return "Not Set"
	case value >= highDistinctionFloor:
		return "High Distinction"
	case value >= distinctionFloor:
		return "Distinction"
	case value >= creditFloor:
		return "Credit"
	case value >= passFloor:
		return "Pass"
	default:
		return "Fail"
	}
}

// Round2 rounds to two decimal places, used for derived exam marks.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
