package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"unimarks/internal/app/models/dto"
	"unimarks/internal/pkg/apperrors"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	// Check for specific error types
	switch {
	case errors.Is(err, apperrors.ErrSubjectNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Subject not found")))
		return
	case errors.Is(err, apperrors.ErrAssignmentNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Assignment not found")))
		return
	case errors.Is(err, apperrors.ErrExaminationNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Examination not found")))
		return
	case errors.Is(err, apperrors.ErrSemesterNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Semester not found")))
		return
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
		return
	case errors.Is(err, apperrors.ErrDuplicateSubject):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Subject already exists")))
		return
	case errors.Is(err, apperrors.ErrDuplicateAssignment):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Assignment already exists")))
		return
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			detail = detail.WithDetails(custom.Message)
		}
		c.JSON(400, dto.NewErrorResponse(detail))
		return
	case errors.Is(err, apperrors.ErrPersistenceFailure), errors.Is(err, apperrors.ErrMigrationFailure):
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Storage error")))
		return
	default:
		// Handle unknown errors
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
		return
	}
}
