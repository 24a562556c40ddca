package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"unimarks/internal/app/models"
	"unimarks/internal/app/models/dto"
	"unimarks/internal/app/repositories"
	"unimarks/internal/app/services"
	"unimarks/internal/middleware"
)

// AssignmentController handles assignment-related operations
type AssignmentController struct {
	repos *repositories.Repositories
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(repos *repositories.Repositories) *AssignmentController {
	return &AssignmentController{repos: repos}
}

func (c *AssignmentController) semesterService(ctx *gin.Context) *services.SemesterService {
	return services.NewSemesterService(ctx.Param("semester"), c.repos)
}

// CreateAssignment records a mark, overwriting an existing assessment
// with the same name
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var request dto.AssignmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.AddOrUpdateAssignment(ctx, ctx.Param("code"),
		request.Assessment, request.WeightedMark, request.MarkWeight,
		models.ParseGradeType(request.GradeType))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// UpdateAssignment rewrites an assignment, supporting renames
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	var request dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.UpdateAssignment(ctx, ctx.Param("code"),
		request.OldAssessment, request.Assessment, request.WeightedMark,
		request.MarkWeight, models.ParseGradeType(request.GradeType))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// DeleteAssignment removes one assessment from the subject
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	service := c.semesterService(ctx)
	view, err := service.DeleteAssignment(ctx, ctx.Param("code"), ctx.Param("assessment"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}
