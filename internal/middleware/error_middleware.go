package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/logger"
)

// HandleAPIError converts a service error into the standard `{message}`
// body with the matching HTTP status. Unknown errors become a generic 500
// with the detail logged server-side, never sent to the client.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Validation failures
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))

	// OTP state machine outcomes
	case errors.Is(err, apperrors.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrOTPExpired),
		errors.Is(err, apperrors.ErrOTPAttemptsExceeded),
		errors.Is(err, apperrors.ErrOTPMismatch):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))

	// Authentication failures
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(err.Error()))

	// Missing relationship preconditions
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotFollower):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(err.Error()))

	// Absent resources
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCommunityNotFound),
		errors.Is(err, apperrors.ErrPostNotFound),
		errors.Is(err, apperrors.ErrCommentNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))

	// Business-rule conflicts
	case errors.Is(err, apperrors.ErrAlreadyMember),
		errors.Is(err, apperrors.ErrNotMember),
		errors.Is(err, apperrors.ErrAdminCannotLeave),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))

	default:
		logger.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	}
}
