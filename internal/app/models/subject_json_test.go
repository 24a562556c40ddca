package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYearDocumentLegacyKeys(t *testing.T) {
	payload := []byte(`{
		"Semester 1": {
			"COMP1000": {
				"Subject Name": "Intro to Computing",
				"Total Mark": 78.5,
				"Sync Subject": true,
				"Assignments": [
					{"Subject Assessment": "Quiz 1", "Weighted Mark": 8.0, "Mark Weight": 10.0},
					{"Subject Assessment": "Lab Work", "Weighted Mark": "S"}
				],
				"Examinations": {"Exam Mark": 55.0, "Exam Weight": 60.0}
			}
		}
	}`)

	data, err := DecodeYearDocument(payload, "2020")
	require.NoError(t, err)
	require.Contains(t, data, "Semester 1")

	subject := data["Semester 1"]["COMP1000"]
	require.NotNil(t, subject)
	assert.Equal(t, "Intro to Computing", subject.SubjectName)
	assert.Equal(t, 78.5, subject.TotalMark)
	assert.True(t, subject.SyncSubject)
	assert.Equal(t, "2020", subject.Year)

	require.Len(t, subject.Assignments, 2)
	quiz := subject.Assignments[0]
	assert.Equal(t, "Quiz 1", quiz.Assessment)
	require.NotNil(t, quiz.WeightedMark)
	assert.Equal(t, 8.0, *quiz.WeightedMark)
	require.NotNil(t, quiz.UnweightedMark)
	assert.Equal(t, 0.8, *quiz.UnweightedMark)

	lab := subject.Assignments[1]
	assert.Equal(t, GradeSatisfactory, lab.GradeType)
	assert.Nil(t, lab.WeightedMark)
	assert.Nil(t, lab.UnweightedMark)
	assert.Nil(t, lab.MarkWeight)

	assert.Equal(t, 55.0, subject.Examination.ExamMark)
	assert.Equal(t, 60.0, subject.Examination.ExamWeight)
}

func TestDecodeYearDocumentCurrentKeys(t *testing.T) {
	payload := []byte(`{
		"Semester 2": {
			"MATH2000": {
				"subject_name": "Linear Algebra",
				"total_mark": 0,
				"sync_subject": false,
				"assignments": [
					{"subject_assessment": "Assignment 1", "weighted_mark": 14.5, "mark_weight": 20.0, "grade_type": "numeric"}
				],
				"examinations": {"exam_mark": 0, "exam_weight": 80.0}
			}
		}
	}`)

	data, err := DecodeYearDocument(payload, "2026")
	require.NoError(t, err)

	subject := data["Semester 2"]["MATH2000"]
	require.NotNil(t, subject)
	assert.Equal(t, "Linear Algebra", subject.SubjectName)
	require.Len(t, subject.Assignments, 1)
	require.NotNil(t, subject.Assignments[0].WeightedMark)
	assert.Equal(t, 14.5, *subject.Assignments[0].WeightedMark)
	assert.Equal(t, 80.0, subject.Examination.ExamWeight)
}

func TestDecodeSubjectRecordDefaults(t *testing.T) {
	subject := DecodeSubjectRecord("ENG1001", "Semester 1", "2026", map[string]any{})
	assert.Equal(t, "N/A", subject.SubjectName)
	assert.Equal(t, 0.0, subject.TotalMark)
	assert.False(t, subject.SyncSubject)
	assert.Equal(t, DefaultExamination(), subject.Examination)
}

func TestEncodeYearDocumentWritesCurrentKeys(t *testing.T) {
	data := YearData{
		"Semester 1": {
			"COMP1000": {
				SubjectCode: "COMP1000",
				SubjectName: "Intro to Computing",
				Assignments: []Assignment{NewNumericAssignment("Quiz 1", 8, 10)},
				Examination: DefaultExamination(),
			},
		},
	}

	payload, err := EncodeYearDocument(data)
	require.NoError(t, err)

	var raw map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))

	record := raw["Semester 1"]["COMP1000"]
	assert.Contains(t, record, "subject_name")
	assert.Contains(t, record, "assignments")
	assert.Contains(t, record, "examinations")
	assert.NotContains(t, record, "Subject Name")

	// Round-trip through the decoder.
	decoded, err := DecodeYearDocument(payload, "2026")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Computing", decoded["Semester 1"]["COMP1000"].SubjectName)
}

func TestParseGradeType(t *testing.T) {
	assert.Equal(t, GradeSatisfactory, ParseGradeType("S"))
	assert.Equal(t, GradeUnsatisfactory, ParseGradeType("U"))
	assert.Equal(t, GradeNumeric, ParseGradeType("numeric"))
	assert.Equal(t, GradeNumeric, ParseGradeType(""))
	assert.Equal(t, GradeNumeric, ParseGradeType("garbage"))
}

func TestNewNumericAssignmentDerivesUnweighted(t *testing.T) {
	a := NewNumericAssignment("Essay", 15, 20)
	require.NotNil(t, a.UnweightedMark)
	assert.Equal(t, 0.75, *a.UnweightedMark)

	// Zero weight must not divide.
	b := NewNumericAssignment("Draft", 5, 0)
	require.NotNil(t, b.UnweightedMark)
	assert.Equal(t, 0.0, *b.UnweightedMark)
}
