package models

import (
	"encoding/json"
	"fmt"
)

// The JSON year document is shaped {semester_name: {subject_code: record}}.
// Records written by old releases use Title Case keys ("Subject Name");
// current releases write snake_case keys. Both are accepted on read and
// only current keys are ever written, so decoding is concentrated here
// instead of being scattered across call sites.

// DecodeYearDocument parses a year document, accepting both current and
// legacy record keys.
func DecodeYearDocument(data []byte, year string) (YearData, error) {
	var raw map[string]map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse year document: %w", err)
	}

	out := make(YearData, len(raw))
	for semester, subjects := range raw {
		out[semester] = make(map[string]*Subject, len(subjects))
		for code, record := range subjects {
			out[semester][code] = DecodeSubjectRecord(code, semester, year, record)
		}
	}
	return out, nil
}

// EncodeYearDocument renders YearData using current keys only.
func EncodeYearDocument(data YearData) ([]byte, error) {
	return json.MarshalIndent(data, "", "    ")
}

// DecodeSubjectRecord decodes a single subject record, trying the
// current key first and falling back to the legacy key for every field.
func DecodeSubjectRecord(code, semester, year string, raw map[string]any) *Subject {
	subject := &Subject{
		SubjectCode:  code,
		SubjectName:  pickString(raw, "subject_name", "Subject Name", "N/A"),
		SemesterName: semester,
		Year:         year,
		TotalMark:    pickFloat(raw, "total_mark", "Total Mark", 0),
		SyncSubject:  pickBool(raw, "sync_subject", "Sync Subject"),
		Examination:  DefaultExamination(),
	}

	if rawAssignments, ok := pickValue(raw, "assignments", "Assignments"); ok {
		if list, ok := rawAssignments.([]any); ok {
			for _, entry := range list {
				record, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				subject.Assignments = append(subject.Assignments, decodeAssignmentRecord(record))
			}
		}
	}

	if rawExam, ok := pickValue(raw, "examinations", "Examinations"); ok {
		if record, ok := rawExam.(map[string]any); ok {
			subject.Examination = Examination{
				ExamMark:   pickFloat(record, "exam_mark", "Exam Mark", 0),
				ExamWeight: pickFloat(record, "exam_weight", "Exam Weight", 100),
			}
		}
	}

	return subject
}

func decodeAssignmentRecord(raw map[string]any) Assignment {
	assessment := pickString(raw, "subject_assessment", "Subject Assessment", "")
	gradeType := ParseGradeType(pickString(raw, "grade_type", "Grade Type", ""))

	// Legacy records stored "S"/"U" inside the weighted mark field.
	if rawMark, ok := pickValue(raw, "weighted_mark", "Weighted Mark"); ok {
		if text, isText := rawMark.(string); isText {
			if parsed := ParseGradeType(text); parsed.IsPassFail() {
				gradeType = parsed
			}
		}
	}

	if gradeType.IsPassFail() {
		return NewPassFailAssignment(assessment, gradeType)
	}

	weighted := pickFloat(raw, "weighted_mark", "Weighted Mark", 0)
	weight := pickFloat(raw, "mark_weight", "Mark Weight", 0)
	return NewNumericAssignment(assessment, weighted, weight)
}

func pickValue(raw map[string]any, current, legacy string) (any, bool) {
	if v, ok := raw[current]; ok && v != nil {
		return v, true
	}
	if v, ok := raw[legacy]; ok && v != nil {
		return v, true
	}
	return nil, false
}

func pickString(raw map[string]any, current, legacy, fallback string) string {
	v, ok := pickValue(raw, current, legacy)
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func pickFloat(raw map[string]any, current, legacy string, fallback float64) float64 {
	v, ok := pickValue(raw, current, legacy)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

func pickBool(raw map[string]any, current, legacy string) bool {
	v, ok := pickValue(raw, current, legacy)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	}
	return false
}
