package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

const notFoundMessage = "Question paper not found."

// HandleWebError turns err into a flash message and redirects to redirectTo.
// Unclassified errors are logged with their detail and shown as fallback.
func HandleWebError(c *gin.Context, err error, redirectTo, fallback string) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrFileRequired,
		apperrors.ErrInvalidFileType,
		apperrors.ErrFileTooLarge,
		apperrors.ErrInvalidPaperID,
		apperrors.ErrBadRequest,
		apperrors.ErrUsernameTaken):
		flash.Error(c, apperrors.UserMessage(err, fallback))

	case errors.Is(err, apperrors.ErrQuestionPaperNotFound):
		flash.Error(c, apperrors.UserMessage(err, notFoundMessage))

	case apperrors.Is(err, apperrors.ErrInvalidCredentials,
		apperrors.ErrUnauthenticated,
		apperrors.ErrPermissionDenied,
		apperrors.ErrTokenExpired,
		apperrors.ErrTokenInvalid):
		flash.Warning(c, apperrors.UserMessage(err, "Please log in to access this page."))

	default:
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		_ = c.Error(err)
		flash.Error(c, fallback)
	}

	Redirect(c, redirectTo)
}
