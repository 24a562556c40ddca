package services

import (
	"sort"

	"unimarks/internal/app/models"
)

// SyncService resolves the subject set visible to a semester: its own
// subjects plus subjects flagged for sync in the year's other
// semesters. A pure read over loaded data; it never writes.
type SyncService struct{}

// NewSyncService creates a new sync service instance
func NewSyncService() *SyncService {
	return &SyncService{}
}

// VisibleSubjects merges the target semester's own subjects with synced
// mirrors from the other semesters of the year. A local subject always
// wins over a mirror with the same code. When the same code is synced
// from several other semesters, the lexicographically smallest semester
// name wins; the legacy data model never defined a precedence, so this
// keeps the choice deterministic.
func (s *SyncService) VisibleSubjects(targetSemester string, data models.YearData) map[string]*models.Subject {
	visible := map[string]*models.Subject{}
	for code, subject := range data[targetSemester] {
		visible[code] = subject
	}

	others := make([]string, 0, len(data))
	for semester := range data {
		if semester != targetSemester {
			others = append(others, semester)
		}
	}
	sort.Strings(others)

	for _, semester := range others {
		for code, subject := range data[semester] {
			if !subject.SyncSubject {
				continue
			}
			if _, taken := visible[code]; taken {
				continue
			}
			visible[code] = subject
		}
	}

	return visible
}

// SyncedSubjects lists the subjects a semester itself offers for
// mirroring.
func (s *SyncService) SyncedSubjects(semester string, data models.YearData) []*models.Subject {
	var synced []*models.Subject
	for _, subject := range data[semester] {
		if subject.SyncSubject {
			synced = append(synced, subject)
		}
	}
	sort.Slice(synced, func(i, j int) bool {
		return synced[i].SubjectCode < synced[j].SubjectCode
	})
	return synced
}
