package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"unimarks/internal/app/models/dto"
	"unimarks/internal/app/repositories"
	"unimarks/internal/app/services"
	"unimarks/internal/middleware"
)

// SubjectController handles subject-related operations
type SubjectController struct {
	repos *repositories.Repositories
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(repos *repositories.Repositories) *SubjectController {
	return &SubjectController{repos: repos}
}

// semesterService binds the request's semester path segment to a
// semester-scoped service.
func (c *SubjectController) semesterService(ctx *gin.Context) *services.SemesterService {
	return services.NewSemesterService(ctx.Param("semester"), c.repos)
}

// ListSubjects returns the semester's visible subjects, synced mirrors
// included
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	service := c.semesterService(ctx)
	view, err := service.View(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// CreateSubject adds a subject to the semester
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var request dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.AddSubject(ctx, request.SubjectCode, request.SubjectName, request.SyncSubject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// DeleteSubject removes a subject and everything under it
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	service := c.semesterService(ctx)
	view, err := service.DeleteSubject(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// SetTotalMark stores the subject's final total mark
func (c *SubjectController) SetTotalMark(ctx *gin.Context) {
	var request dto.SetTotalMarkRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid total mark data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.SetTotalMark(ctx, ctx.Param("code"), request.TotalMark)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// SetSyncSubject toggles whether the subject mirrors into the year's
// other semesters
func (c *SubjectController) SetSyncSubject(ctx *gin.Context) {
	var request dto.UpdateSubjectSyncRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid sync data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.SetSyncSubject(ctx, ctx.Param("code"), request.SyncSubject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// GetGradeSummary reports the subject's grade standing and band
func (c *SubjectController) GetGradeSummary(ctx *gin.Context) {
	service := c.semesterService(ctx)
	summary, err := service.Summary(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Timestamp: time.Now(),
	})
}
