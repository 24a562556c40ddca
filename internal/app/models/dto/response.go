package dto

import (
	"sort"
	"time"

	"unimarks/internal/app/models"
)

// APIResponse is the standard success envelope for API endpoints
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// SubjectResponse is one visible subject with its code made explicit,
// since the code is the map key in the storage view.
type SubjectResponse struct {
	SubjectCode  string              `json:"subject_code"`
	SubjectName  string              `json:"subject_name"`
	SemesterName string              `json:"semester_name"`
	Assignments  []models.Assignment `json:"assignments"`
	TotalMark    float64             `json:"total_mark"`
	Examination  models.Examination  `json:"examinations"`
	SyncSubject  bool                `json:"sync_subject"`
	Mirrored     bool                `json:"mirrored"`
}

// NewSubjectResponse converts a subject relative to the semester it is
// being viewed from; Mirrored marks subjects synced in from elsewhere.
func NewSubjectResponse(subject *models.Subject, viewedFrom string) SubjectResponse {
	return SubjectResponse{
		SubjectCode:  subject.SubjectCode,
		SubjectName:  subject.SubjectName,
		SemesterName: subject.SemesterName,
		Assignments:  subject.Assignments,
		TotalMark:    subject.TotalMark,
		Examination:  subject.Examination,
		SyncSubject:  subject.SyncSubject,
		Mirrored:     subject.SemesterName != viewedFrom,
	}
}

// NewSubjectListResponse converts a visible-subjects view into a list
// sorted by subject code.
func NewSubjectListResponse(view map[string]*models.Subject, viewedFrom string) []SubjectResponse {
	subjects := make([]SubjectResponse, 0, len(view))
	for _, subject := range view {
		subjects = append(subjects, NewSubjectResponse(subject, viewedFrom))
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].SubjectCode < subjects[j].SubjectCode
	})
	return subjects
}
