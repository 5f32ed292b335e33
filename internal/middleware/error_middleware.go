package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// --- Central Error Handling ---

// HandleAPIError maps an error onto its status code and the { "message": ... } body
func HandleAPIError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.MessageResponse{Message: dto.MessageCourseNotFound})
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	default:
		// Store failures surface their message verbatim
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
	}
}
