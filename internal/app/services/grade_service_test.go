package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unimarks/internal/app/models"
)

func TestRequiredExamMark(t *testing.T) {
	grades := NewGradeService()
	ps40 := 40.0

	tests := []struct {
		name         string
		target       float64
		weightedSum  float64
		weightSum    float64
		examWeight   float64
		psFactor     *float64
		wantRequired float64
		wantStatus   ExamStatus
	}{
		{
			name:   "needs 75 percent of a 40 weight exam",
			target: 80, weightedSum: 50, weightSum: 60, examWeight: 40,
			wantRequired: 75, wantStatus: ExamFeasible,
		},
		{
			name:   "target already met",
			target: 50, weightedSum: 55, weightSum: 60, examWeight: 40,
			wantRequired: 0, wantStatus: ExamAchieved,
		},
		{
			name:   "unreachable clamps to 100",
			target: 100, weightedSum: 0, weightSum: 90, examWeight: 10,
			wantRequired: 100, wantStatus: ExamImpossible,
		},
		{
			name:   "no exam weight left",
			target: 80, weightedSum: 50, weightSum: 100, examWeight: 0,
			wantRequired: 0, wantStatus: ExamInvalid,
		},
		{
			name:   "pass-scale factor shrinks effective weight",
			target: 60, weightedSum: 50, weightSum: 50, examWeight: 50, psFactor: &ps40,
			wantRequired: 50, wantStatus: ExamFeasible,
		},
		{
			name:   "exact full exam requirement",
			target: 90, weightedSum: 50, weightSum: 60, examWeight: 40,
			wantRequired: 100, wantStatus: ExamFeasible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grades.RequiredExamMark(tt.target, tt.weightedSum, tt.weightSum, tt.examWeight, tt.psFactor)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.InDelta(t, tt.wantRequired, got.Required, 1e-9)
		})
	}
}

func TestRequiredExamMarkEffectiveWeight(t *testing.T) {
	grades := NewGradeService()
	ps40 := 40.0

	got := grades.RequiredExamMark(60, 50, 50, 50, &ps40)
	assert.InDelta(t, 20.0, got.EffectiveWeight, 1e-9)

	got = grades.RequiredExamMark(60, 50, 50, 50, nil)
	assert.InDelta(t, 50.0, got.EffectiveWeight, 1e-9)
}

func TestWeightedTotalsSkipPassFail(t *testing.T) {
	grades := NewGradeService()
	assignments := []models.Assignment{
		models.NewNumericAssignment("Quiz 1", 8, 10),
		models.NewNumericAssignment("Essay", 15, 20),
		models.NewPassFailAssignment("Lab Work", models.GradeSatisfactory),
		models.NewPassFailAssignment("Hurdle", models.GradeUnsatisfactory),
	}

	assert.InDelta(t, 23.0, grades.WeightedTotal(assignments), 1e-9)
	assert.InDelta(t, 30.0, grades.WeightTotal(assignments), 1e-9)
}

func TestUnweightedMark(t *testing.T) {
	grades := NewGradeService()
	assert.Equal(t, 0.75, grades.UnweightedMark(15, 20))
	assert.Equal(t, 0.0, grades.UnweightedMark(15, 0))
	assert.Equal(t, 0.3333, grades.UnweightedMark(1, 3))
}

func TestCurrentTotal(t *testing.T) {
	grades := NewGradeService()
	assert.InDelta(t, 80.0, grades.CurrentTotal(50, 75, 40), 1e-9)
	assert.InDelta(t, 50.0, grades.CurrentTotal(50, 0, 40), 1e-9)
}

func TestGradeLevelBands(t *testing.T) {
	grades := NewGradeService()

	tests := []struct {
		value float64
		want  string
	}{
		{0, "Not Set"},
		{-1, "Not Set"},
		{49.99, "Fail"},
		{50, "Pass"},
		{64.99, "Pass"},
		{65, "Credit"},
		{75, "Distinction"},
		{84.99, "Distinction"},
		{85, "High Distinction"},
		{100, "High Distinction"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grades.GradeLevel(tt.value), "value %v", tt.value)
	}
}

func TestGradeStatus(t *testing.T) {
	grades := NewGradeService()

	withTotal := &models.Subject{TotalMark: 82}
	value, source, hasTotal := grades.GradeStatus(withTotal)
	assert.Equal(t, 82.0, value)
	assert.Equal(t, "final grade", source)
	assert.True(t, hasTotal)

	fromAssignments := &models.Subject{
		Assignments: []models.Assignment{models.NewNumericAssignment("Quiz 1", 30, 40)},
	}
	value, source, hasTotal = grades.GradeStatus(fromAssignments)
	assert.InDelta(t, 75.0, value, 1e-9)
	assert.Equal(t, "assignments", source)
	assert.False(t, hasTotal)

	empty := &models.Subject{}
	value, source, hasTotal = grades.GradeStatus(empty)
	assert.Equal(t, 0.0, value)
	assert.Equal(t, "no marks available", source)
	assert.False(t, hasTotal)
}
