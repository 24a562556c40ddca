package routes

import (
	"github.com/gin-gonic/gin"
	"unimarks/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	semesterController *controllers.SemesterController,
	subjectController *controllers.SubjectController,
	assignmentController *controllers.AssignmentController,
	examController *controllers.ExamController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Semester routes
	semesters := v1.Group("/semesters")
	{
		semesters.GET("", semesterController.ListSemesters)
		semesters.POST("", semesterController.CreateSemester)
		semesters.GET("/counts", semesterController.GetSemesterCounts)
		semesters.DELETE("/:semester", semesterController.DeleteSemester)

		// Subject routes scoped to one semester. Reads include subjects
		// mirrored in from the year's other semesters.
		subjects := semesters.Group("/:semester/subjects")
		{
			subjects.GET("", subjectController.ListSubjects)
			subjects.POST("", subjectController.CreateSubject)
			subjects.DELETE("/:code", subjectController.DeleteSubject)
			subjects.PUT("/:code/total-mark", subjectController.SetTotalMark)
			subjects.PUT("/:code/sync", subjectController.SetSyncSubject)
			subjects.GET("/:code/grade", subjectController.GetGradeSummary)

			// Assignment routes
			subjects.POST("/:code/assignments", assignmentController.CreateAssignment)
			subjects.PUT("/:code/assignments", assignmentController.UpdateAssignment)
			subjects.DELETE("/:code/assignments/:assessment", assignmentController.DeleteAssignment)

			// Examination routes
			subjects.POST("/:code/exam/required-mark", examController.ComputeRequiredExamMark)
			subjects.POST("/:code/exam/calculate", examController.CalculateExamMark)
			subjects.PUT("/:code/exam/settings", examController.SetExamSettings)
			subjects.DELETE("/:code/exam", examController.DeleteExam)
		}
	}
}
