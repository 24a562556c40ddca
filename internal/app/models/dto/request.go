package dto

// CreateSubjectRequest is the payload for adding a subject to a semester
type CreateSubjectRequest struct {
	SubjectCode string `json:"subject_code" binding:"required"`
	SubjectName string `json:"subject_name" binding:"required"`
	SyncSubject bool   `json:"sync_subject"`
}

// UpdateSubjectSyncRequest toggles a subject's sync flag
type UpdateSubjectSyncRequest struct {
	SyncSubject bool `json:"sync_subject"`
}

// SetTotalMarkRequest stores a subject's final total mark
type SetTotalMarkRequest struct {
	TotalMark float64 `json:"total_mark"`
}

// AssignmentRequest carries mark input as text so "S" and "U" can share
// the field with numeric marks, matching how the data was always entered.
type AssignmentRequest struct {
	Assessment   string `json:"subject_assessment" binding:"required"`
	WeightedMark string `json:"weighted_mark"`
	MarkWeight   string `json:"mark_weight"`
	GradeType    string `json:"grade_type"`
}

// UpdateAssignmentRequest rewrites an assignment, optionally renaming it
type UpdateAssignmentRequest struct {
	OldAssessment string `json:"old_assessment" binding:"required"`
	Assessment    string `json:"subject_assessment" binding:"required"`
	WeightedMark  string `json:"weighted_mark"`
	MarkWeight    string `json:"mark_weight"`
	GradeType     string `json:"grade_type"`
}

// RequiredExamRequest asks what exam mark reaches the target total
type RequiredExamRequest struct {
	Target float64 `json:"target" binding:"required"`
}

// ExamSettingsRequest configures a pass-scale exam
type ExamSettingsRequest struct {
	PSExam   bool    `json:"ps_exam"`
	PSFactor float64 `json:"ps_factor"`
}

// CreateSemesterRequest adds one semester shell to the year
type CreateSemesterRequest struct {
	Name string `json:"name" binding:"required"`
}
