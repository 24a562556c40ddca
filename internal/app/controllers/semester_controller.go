package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"unimarks/internal/app/models/dto"
	"unimarks/internal/app/repositories"
	"unimarks/internal/middleware"
)

// SemesterController handles semester-level operations for the year
type SemesterController struct {
	repos *repositories.Repositories
}

// NewSemesterController creates a new SemesterController
func NewSemesterController(repos *repositories.Repositories) *SemesterController {
	return &SemesterController{repos: repos}
}

// ListSemesters returns the year's semester names
func (c *SemesterController) ListSemesters(ctx *gin.Context) {
	names, err := c.repos.SemesterRepository.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      names,
		Timestamp: time.Now(),
	})
}

// CreateSemester adds one semester shell to the year
func (c *SemesterController) CreateSemester(ctx *gin.Context) {
	var request dto.CreateSemesterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid semester data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.repos.SemesterRepository.Add(ctx, request.Name); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Semester created"},
		Timestamp: time.Now(),
	})
}

// DeleteSemester removes a semester and all its subjects
func (c *SemesterController) DeleteSemester(ctx *gin.Context) {
	semester := ctx.Param("semester")

	if err := c.repos.SemesterRepository.Remove(ctx, semester); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Semester deleted"},
		Timestamp: time.Now(),
	})
}

// GetSemesterCounts returns per-semester subject counts
func (c *SemesterController) GetSemesterCounts(ctx *gin.Context) {
	counts, err := c.repos.SemesterRepository.CountSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      counts,
		Timestamp: time.Now(),
	})
}
