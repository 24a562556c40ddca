package models

import "math"

// GradeType distinguishes numeric assignments from pass/fail ones.
type GradeType string

const (
	GradeNumeric        GradeType = "numeric"
	GradeSatisfactory   GradeType = "S"
	GradeUnsatisfactory GradeType = "U"
)

// ParseGradeType maps a stored grade type string to a GradeType.
// Unknown or empty values fall back to numeric, matching how legacy
// rows without a grade_type column were interpreted.
func ParseGradeType(raw string) GradeType {
	switch GradeType(raw) {
	case GradeSatisfactory:
		return GradeSatisfactory
	case GradeUnsatisfactory:
		return GradeUnsatisfactory
	default:
		return GradeNumeric
	}
}

// IsPassFail reports whether the grade type is S or U.
func (g GradeType) IsPassFail() bool {
	return g == GradeSatisfactory || g == GradeUnsatisfactory
}

// Assignment represents a graded assessment belonging to a subject.
// Numeric assignments carry all three mark fields; S/U assignments carry
// none of them. Use the constructors so the combination stays valid.
type Assignment struct {
	Assessment     string    `json:"subject_assessment"`
	WeightedMark   *float64  `json:"weighted_mark"`
	UnweightedMark *float64  `json:"unweighted_mark"`
	MarkWeight     *float64  `json:"mark_weight"`
	GradeType      GradeType `json:"grade_type"`
}

// NewNumericAssignment builds a numeric assignment, deriving the
// unweighted mark from the weighted mark and weight.
func NewNumericAssignment(assessment string, weightedMark, markWeight float64) Assignment {
	unweighted := Round4(SafeRatio(weightedMark, markWeight))
	return Assignment{
		Assessment:     assessment,
		WeightedMark:   &weightedMark,
		UnweightedMark: &unweighted,
		MarkWeight:     &markWeight,
		GradeType:      GradeNumeric,
	}
}

// NewPassFailAssignment builds a satisfactory/unsatisfactory assignment.
// All numeric mark fields are nil for this grade type.
func NewPassFailAssignment(assessment string, gradeType GradeType) Assignment {
	if !gradeType.IsPassFail() {
		gradeType = GradeSatisfactory
	}
	return Assignment{
		Assessment: assessment,
		GradeType:  gradeType,
	}
}

// IsNumeric reports whether the assignment carries numeric marks.
func (a Assignment) IsNumeric() bool {
	return a.GradeType == GradeNumeric
}

// Examination represents the (at most one) exam of a subject.
type Examination struct {
	ExamMark   float64 `json:"exam_mark"`
	ExamWeight float64 `json:"exam_weight"`
}

// DefaultExamination returns the examination defaults used when a
// subject has no stored exam row yet.
func DefaultExamination() Examination {
	return Examination{ExamMark: 0, ExamWeight: 100}
}

// DefaultPSFactor is the pass-scale factor applied when a pass-scale
// exam is enabled without an explicit factor.
const DefaultPSFactor = 40.0

// ExamSettings is the optional pass-scale overlay for a subject's exam.
type ExamSettings struct {
	PSExam   bool    `json:"ps_exam"`
	PSFactor float64 `json:"ps_factor"`
}

// Subject is a unit of study within one semester of an academic year.
// SyncSubject marks it as read-mirrored into the year's other semesters.
type Subject struct {
	SubjectCode  string       `json:"-"`
	SubjectName  string       `json:"subject_name"`
	SemesterName string       `json:"-"`
	Year         string       `json:"-"`
	Assignments  []Assignment `json:"assignments"`
	TotalMark    float64      `json:"total_mark"`
	Examination  Examination  `json:"examinations"`
	SyncSubject  bool         `json:"sync_subject"`
}

// Semester is a named term of an academic year. Semesters may exist as
// empty shells with no subjects.
type Semester struct {
	Name string `json:"name"`
	Year string `json:"year"`
}

// YearData is the fully materialized view of one academic year:
// semester name -> subject code -> subject.
type YearData map[string]map[string]*Subject

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// SafeRatio divides mark by weight, returning 0 when the weight is not
// positive rather than a division error.
func SafeRatio(mark, weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return mark / weight
}
