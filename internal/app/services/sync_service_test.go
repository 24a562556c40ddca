package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarks/internal/app/models"
)

func subjectIn(semester, code string, sync bool) *models.Subject {
	return &models.Subject{
		SubjectCode:  code,
		SubjectName:  code,
		SemesterName: semester,
		SyncSubject:  sync,
	}
}

func TestVisibleSubjectsMergesSyncedMirrors(t *testing.T) {
	sync := NewSyncService()
	data := models.YearData{
		"Semester 1": {
			"COMP1000": subjectIn("Semester 1", "COMP1000", false),
		},
		"Semester 2": {
			"MATH2000": subjectIn("Semester 2", "MATH2000", true),
			"PHYS1000": subjectIn("Semester 2", "PHYS1000", false),
		},
	}

	visible := sync.VisibleSubjects("Semester 1", data)
	require.Len(t, visible, 2)
	assert.Contains(t, visible, "COMP1000")
	assert.Contains(t, visible, "MATH2000")
	assert.NotContains(t, visible, "PHYS1000")
	assert.Equal(t, "Semester 2", visible["MATH2000"].SemesterName)
}

func TestVisibleSubjectsLocalWins(t *testing.T) {
	sync := NewSyncService()
	local := subjectIn("Semester 1", "COMP1000", false)
	mirror := subjectIn("Semester 2", "COMP1000", true)
	data := models.YearData{
		"Semester 1": {"COMP1000": local},
		"Semester 2": {"COMP1000": mirror},
	}

	visible := sync.VisibleSubjects("Semester 1", data)
	require.Len(t, visible, 1)
	assert.Same(t, local, visible["COMP1000"])
}

func TestVisibleSubjectsTieBreaksBySemesterName(t *testing.T) {
	sync := NewSyncService()
	fromB := subjectIn("Semester B", "COMP1000", true)
	fromC := subjectIn("Semester C", "COMP1000", true)
	data := models.YearData{
		"Semester A": {},
		"Semester B": {"COMP1000": fromB},
		"Semester C": {"COMP1000": fromC},
	}

	visible := sync.VisibleSubjects("Semester A", data)
	require.Len(t, visible, 1)
	assert.Same(t, fromB, visible["COMP1000"])
}

func TestVisibleSubjectsEmptyTarget(t *testing.T) {
	sync := NewSyncService()
	data := models.YearData{
		"Semester 2": {"MATH2000": subjectIn("Semester 2", "MATH2000", false)},
	}

	visible := sync.VisibleSubjects("Semester 1", data)
	assert.Empty(t, visible)
}

func TestSyncedSubjectsSorted(t *testing.T) {
	sync := NewSyncService()
	data := models.YearData{
		"Semester 1": {
			"MATH2000": subjectIn("Semester 1", "MATH2000", true),
			"COMP1000": subjectIn("Semester 1", "COMP1000", true),
			"PHYS1000": subjectIn("Semester 1", "PHYS1000", false),
		},
	}

	synced := sync.SyncedSubjects("Semester 1", data)
	require.Len(t, synced, 2)
	assert.Equal(t, "COMP1000", synced[0].SubjectCode)
	assert.Equal(t, "MATH2000", synced[1].SubjectCode)
}
