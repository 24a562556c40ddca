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

// ExamController handles examination-related operations
type ExamController struct {
	repos *repositories.Repositories
}

// NewExamController creates a new ExamController
func NewExamController(repos *repositories.Repositories) *ExamController {
	return &ExamController{repos: repos}
}

func (c *ExamController) semesterService(ctx *gin.Context) *services.SemesterService {
	return services.NewSemesterService(ctx.Param("semester"), c.repos)
}

// requiredExamResponse pairs the solved requirement with the refreshed
// subject view.
type requiredExamResponse struct {
	Result   services.RequiredExamOutcome `json:"result"`
	Subjects []dto.SubjectResponse        `json:"subjects"`
}

// ComputeRequiredExamMark solves the exam mark needed to reach a target
// total and stores it as the subject's exam
func (c *ExamController) ComputeRequiredExamMark(ctx *gin.Context) {
	var request dto.RequiredExamRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid target data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	outcome, view, err := service.ComputeRequiredExamMark(ctx, ctx.Param("code"), request.Target)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: requiredExamResponse{
			Result:   outcome,
			Subjects: dto.NewSubjectListResponse(view, service.Semester()),
		},
		Timestamp: time.Now(),
	})
}

// CalculateExamMark back-fills the exam mark and weight from the stored
// total and the assignment sums
func (c *ExamController) CalculateExamMark(ctx *gin.Context) {
	service := c.semesterService(ctx)
	exam, view, err := service.CalculateExamMark(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{
			"examination": exam,
			"subjects":    dto.NewSubjectListResponse(view, service.Semester()),
		},
		Timestamp: time.Now(),
	})
}

// SetExamSettings configures a pass-scale exam for the subject
func (c *ExamController) SetExamSettings(ctx *gin.Context) {
	var request dto.ExamSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam settings data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	service := c.semesterService(ctx)
	view, err := service.SetExamSettings(ctx, ctx.Param("code"), request.PSExam, request.PSFactor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}

// DeleteExam removes the subject's examination row
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	service := c.semesterService(ctx)
	view, err := service.DeleteExam(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSubjectListResponse(view, service.Semester()),
		Timestamp: time.Now(),
	})
}
